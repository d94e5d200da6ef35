// internal/wizard/field-rules/rules.go
package fieldrules

import (
	"errors"
	"net/url"

	"grant-portal/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type valueKind int

const (
	kindText valueKind = iota
	kindInteger
	kindNumber
	kindTextSet
)

// fieldRule describes how one field is coerced and checked. Most ozzo rules
// skip empty values, so fields that must be present carry a Required rule
// with the same message as their minimum.
type fieldRule struct {
	label string
	kind  valueKind
	rules func(currentYear int) []validation.Rule
}

var fieldRules = map[string]fieldRule{
	models.FieldFullName: {
		label: "Full name",
		kind:  kindText,
		rules: func(int) []validation.Rule {
			return []validation.Rule{
				validation.Required.Error(MsgFullNameTooShort),
				validation.RuneLength(MinFullNameLength, 0).Error(MsgFullNameTooShort),
			}
		},
	},
	models.FieldEmail: {
		label: "Email",
		kind:  kindText,
		rules: func(int) []validation.Rule {
			return []validation.Rule{
				validation.Required.Error(MsgInvalidEmail),
				validation.Match(emailRegex).Error(MsgInvalidEmail),
			}
		},
	},
	models.FieldPhone: {
		label: "Phone",
		kind:  kindText,
		rules: func(int) []validation.Rule {
			return []validation.Rule{
				validation.Required.Error(MsgInvalidPhone),
				validation.Match(phoneRegex).Error(MsgInvalidPhone),
			}
		},
	},
	models.FieldCountry: {
		label: "Country",
		kind:  kindText,
		rules: func(int) []validation.Rule { return selection(Countries, MsgSelectCountry) },
	},
	models.FieldRole: {
		label: "Role",
		kind:  kindText,
		rules: func(int) []validation.Rule { return selection(Roles, MsgSelectRole) },
	},
	models.FieldOrgName: {
		label: "Organization name",
		kind:  kindText,
		rules: func(int) []validation.Rule {
			return []validation.Rule{validation.Required.Error(MsgOrgNameRequired)}
		},
	},
	models.FieldOrgType: {
		label: "Organization type",
		kind:  kindText,
		rules: func(int) []validation.Rule { return selection(OrgTypes, MsgSelectOrgType) },
	},
	models.FieldRegNumber: {
		label: "Registration number",
		kind:  kindText,
		rules: func(int) []validation.Rule { return nil },
	},
	models.FieldYearFounded: {
		label: "Year founded",
		kind:  kindInteger,
		rules: func(currentYear int) []validation.Rule {
			return []validation.Rule{
				validation.Required.Error(MsgYearTooEarly),
				validation.Min(MinYearFounded).Error(MsgYearTooEarly),
				validation.Max(currentYear).Error(MsgYearInFuture),
			}
		},
	},
	models.FieldWebsite: {
		label: "Website",
		kind:  kindText,
		rules: func(int) []validation.Rule {
			return []validation.Rule{validation.By(absoluteURL)}
		},
	},
	models.FieldOrgDescription: {
		label: "Organization description",
		kind:  kindText,
		rules: func(int) []validation.Rule {
			return lengthBetween(MinOrgDescriptionLength, MaxOrgDescriptionLength,
				MsgOrgDescriptionTooShort, MsgOrgDescriptionTooLong)
		},
	},
	models.FieldEmployees: {
		label: "Number of employees",
		kind:  kindInteger,
		rules: func(int) []validation.Rule {
			return []validation.Rule{
				validation.Required.Error(MsgEmployeesOutOfRange),
				validation.Min(MinEmployees).Error(MsgEmployeesOutOfRange),
				validation.Max(MaxEmployees).Error(MsgEmployeesOutOfRange),
			}
		},
	},
	models.FieldGrantAmount: {
		label: "Amount requested",
		kind:  kindNumber,
		rules: func(int) []validation.Rule {
			return []validation.Rule{
				validation.Required.Error(MsgGrantAmountTooLow),
				validation.Min(MinGrantAmount).Error(MsgGrantAmountTooLow),
				validation.Max(MaxGrantAmount).Error(MsgGrantAmountTooHigh),
			}
		},
	},
	models.FieldCurrency: {
		label: "Currency",
		kind:  kindText,
		rules: func(int) []validation.Rule { return selection(Currencies, MsgSelectCurrency) },
	},
	models.FieldProjectTitle: {
		label: "Project title",
		kind:  kindText,
		rules: func(int) []validation.Rule {
			return []validation.Rule{validation.Required.Error(MsgProjectTitleRequired)}
		},
	},
	models.FieldProjectDescription: {
		label: "Project description",
		kind:  kindText,
		rules: func(int) []validation.Rule {
			return lengthBetween(MinProjectDescriptionLength, MaxProjectDescriptionLength,
				MsgProjectDescTooShort, MsgProjectDescTooLong)
		},
	},
	models.FieldDuration: {
		label: "Project duration",
		kind:  kindText,
		rules: func(int) []validation.Rule { return selection(Durations, MsgSelectDuration) },
	},
	models.FieldFocusArea: {
		label: "Focus areas",
		kind:  kindTextSet,
		rules: func(int) []validation.Rule {
			return []validation.Rule{validation.Required.Error(MsgSelectFocusArea)}
		},
	},
	models.FieldFileName: {
		label: "Supporting document",
		kind:  kindText,
		rules: func(int) []validation.Rule { return nil },
	},
}

func selection(options []string, msg string) []validation.Rule {
	allowed := make([]interface{}, len(options))
	for i, o := range options {
		allowed[i] = o
	}
	return []validation.Rule{
		validation.Required.Error(msg),
		validation.In(allowed...).Error(msg),
	}
}

func lengthBetween(min, max int, tooShort, tooLong string) []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(tooShort),
		validation.RuneLength(min, 0).Error(tooShort),
		validation.RuneLength(0, max).Error(tooLong),
	}
}

var errInvalidURL = errors.New(MsgInvalidURL)

// absoluteURL accepts the empty string as "not provided".
func absoluteURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return errInvalidURL
	}
	return nil
}
