// internal/wizard/field-rules/validator.go
package fieldrules

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"grant-portal/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validator checks form values against the fixed rule table. It holds no
// per-form state and is safe for concurrent use.
type Validator struct {
	config *Config
}

func NewValidator(config *Config) *Validator {
	if config == nil {
		config = LoadConfig()
	}
	return &Validator{config: config}
}

// Validate checks only the named fields and returns errors for those fields.
// Unknown names are ignored.
func (v *Validator) Validate(values models.FieldValues, fields ...string) models.FieldErrors {
	year := v.config.Now().Year()
	errs := make(models.FieldErrors)
	for _, name := range fields {
		if _, msg := v.check(name, values[name], year); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

// ValidateAll checks every form field.
func (v *Validator) ValidateAll(values models.FieldValues) models.FieldErrors {
	return v.Validate(values, models.FormFields...)
}

// Normalize validates every field and, when all pass, returns the typed form.
func (v *Validator) Normalize(values models.FieldValues) (*models.ApplicationForm, models.FieldErrors) {
	year := v.config.Now().Year()
	typed := make(map[string]interface{}, len(models.FormFields))
	errs := make(models.FieldErrors)
	for _, name := range models.FormFields {
		value, msg := v.check(name, values[name], year)
		if msg != "" {
			errs[name] = msg
			continue
		}
		typed[name] = value
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return &models.ApplicationForm{
		FullName:           typed[models.FieldFullName].(string),
		Email:              typed[models.FieldEmail].(string),
		Phone:              typed[models.FieldPhone].(string),
		Country:            typed[models.FieldCountry].(string),
		Role:               typed[models.FieldRole].(string),
		OrgName:            typed[models.FieldOrgName].(string),
		OrgType:            typed[models.FieldOrgType].(string),
		RegNumber:          typed[models.FieldRegNumber].(string),
		YearFounded:        typed[models.FieldYearFounded].(int),
		Website:            typed[models.FieldWebsite].(string),
		OrgDescription:     typed[models.FieldOrgDescription].(string),
		Employees:          typed[models.FieldEmployees].(int),
		GrantAmount:        typed[models.FieldGrantAmount].(float64),
		Currency:           typed[models.FieldCurrency].(string),
		ProjectTitle:       typed[models.FieldProjectTitle].(string),
		ProjectDescription: typed[models.FieldProjectDescription].(string),
		Duration:           typed[models.FieldDuration].(string),
		FocusArea:          typed[models.FieldFocusArea].([]string),
		FileName:           typed[models.FieldFileName].(string),
	}, nil
}

// Catalog returns the option lists of the select controls.
func (v *Validator) Catalog() Catalog {
	return Catalog{
		Countries:  Countries,
		Roles:      Roles,
		OrgTypes:   OrgTypes,
		Currencies: Currencies,
		Durations:  Durations,
		FocusAreas: FocusAreas,
	}
}

// check coerces raw to the field's kind and runs its rules. It returns the
// coerced value, or a non-empty message on failure.
func (v *Validator) check(name string, raw interface{}, year int) (interface{}, string) {
	rule, ok := fieldRules[name]
	if !ok {
		return raw, ""
	}

	var value interface{}
	switch rule.kind {
	case kindText:
		s, err := toText(raw)
		if err != nil {
			return nil, fmt.Sprintf(MsgExpectedText, rule.label)
		}
		value = s
	case kindInteger:
		n, err := toNumber(raw)
		if err != nil {
			return nil, fmt.Sprintf(MsgExpectedNumber, rule.label)
		}
		if n != math.Trunc(n) {
			return nil, fmt.Sprintf(MsgExpectedWholeNumber, rule.label)
		}
		value = int(n)
	case kindNumber:
		n, err := toNumber(raw)
		if err != nil {
			return nil, fmt.Sprintf(MsgExpectedNumber, rule.label)
		}
		value = n
	case kindTextSet:
		set, err := toTextSet(raw)
		if err != nil {
			return nil, MsgExpectedFocusAreaList
		}
		value = set
	}

	if err := validation.Validate(value, rule.rules(year)...); err != nil {
		return nil, err.Error()
	}
	return value, ""
}

func toText(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unexpected %T", raw)
	}
}

// toNumber follows form-input coercion: blank text is zero, anything that
// does not parse as a finite number is a failure.
func toNumber(raw interface{}) (float64, error) {
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int32:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		n = f
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		n = f
	default:
		return 0, fmt.Errorf("not a number")
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return n, nil
}

// toTextSet accepts a list of strings and removes duplicates, keeping the
// first occurrence.
func toTextSet(raw interface{}) ([]string, error) {
	var items []string
	switch v := raw.(type) {
	case nil:
		return []string{}, nil
	case []string:
		items = v
	case []interface{}:
		items = make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected %T in list", item)
			}
			items = append(items, s)
		}
	default:
		return nil, fmt.Errorf("unexpected %T", raw)
	}

	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

// NormalizeValue coerces a single edited value so it can be stored in a
// form. List values become deduplicated string sets; everything else is
// stored unchanged.
func NormalizeValue(field string, raw interface{}) interface{} {
	if rule, ok := fieldRules[field]; ok && rule.kind == kindTextSet {
		if set, err := toTextSet(raw); err == nil {
			return set
		}
	}
	return raw
}
