// internal/models/form.go
package models

// Field names of the application form.
const (
	FieldFullName           = "fullName"
	FieldEmail              = "email"
	FieldPhone              = "phone"
	FieldCountry            = "country"
	FieldRole               = "role"
	FieldOrgName            = "orgName"
	FieldOrgType            = "orgType"
	FieldRegNumber          = "regNumber"
	FieldYearFounded        = "yearFounded"
	FieldWebsite            = "website"
	FieldOrgDescription     = "orgDescription"
	FieldEmployees          = "employees"
	FieldGrantAmount        = "grantAmount"
	FieldCurrency           = "currency"
	FieldProjectTitle       = "projectTitle"
	FieldProjectDescription = "projectDescription"
	FieldDuration           = "duration"
	FieldFocusArea          = "focusArea"
	FieldFileName           = "fileName"
)

// FormFields lists every field of the form in display order.
var FormFields = []string{
	FieldFullName,
	FieldEmail,
	FieldPhone,
	FieldCountry,
	FieldRole,
	FieldOrgName,
	FieldOrgType,
	FieldRegNumber,
	FieldYearFounded,
	FieldWebsite,
	FieldOrgDescription,
	FieldEmployees,
	FieldGrantAmount,
	FieldCurrency,
	FieldProjectTitle,
	FieldProjectDescription,
	FieldDuration,
	FieldFocusArea,
	FieldFileName,
}

// DefaultCurrency is preselected on a new form.
const DefaultCurrency = "USD"

// IsFormField reports whether name belongs to the form vocabulary.
func IsFormField(name string) bool {
	for _, f := range FormFields {
		if f == name {
			return true
		}
	}
	return false
}

// FieldValues holds raw form input keyed by field name. Values are strings,
// numbers or, for focusArea, a list of strings.
type FieldValues map[string]interface{}

// NewFieldValues returns the defaults of a fresh form.
func NewFieldValues() FieldValues {
	values := make(FieldValues, len(FormFields))
	for _, f := range FormFields {
		values[f] = ""
	}
	values[FieldFocusArea] = []string{}
	values[FieldCurrency] = DefaultCurrency
	return values
}

// Clone returns a copy that shares no slices with v.
func (v FieldValues) Clone() FieldValues {
	out := make(FieldValues, len(v))
	for k, val := range v {
		if list, ok := val.([]string); ok {
			val = append(make([]string, 0, len(list)), list...)
		}
		out[k] = val
	}
	return out
}

// Subset returns the values of the named fields only.
func (v FieldValues) Subset(fields []string) FieldValues {
	out := make(FieldValues, len(fields))
	for _, f := range fields {
		if val, ok := v[f]; ok {
			out[f] = val
		}
	}
	return out
}

// FieldErrors maps a failing field to its message. A missing key means the
// field passed its last validation.
type FieldErrors map[string]string

// Subset returns the errors of the named fields only.
func (e FieldErrors) Subset(fields []string) FieldErrors {
	out := make(FieldErrors)
	for _, f := range fields {
		if msg, ok := e[f]; ok {
			out[f] = msg
		}
	}
	return out
}

// Clone returns a copy of e.
func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// ApplicationForm is a fully validated form with every value coerced to its
// field type.
type ApplicationForm struct {
	FullName           string   `json:"fullName"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Country            string   `json:"country"`
	Role               string   `json:"role"`
	OrgName            string   `json:"orgName"`
	OrgType            string   `json:"orgType"`
	RegNumber          string   `json:"regNumber,omitempty"`
	YearFounded        int      `json:"yearFounded"`
	Website            string   `json:"website,omitempty"`
	OrgDescription     string   `json:"orgDescription"`
	Employees          int      `json:"employees"`
	GrantAmount        float64  `json:"grantAmount"`
	Currency           string   `json:"currency"`
	ProjectTitle       string   `json:"projectTitle"`
	ProjectDescription string   `json:"projectDescription"`
	Duration           string   `json:"duration"`
	FocusArea          []string `json:"focusArea"`
	FileName           string   `json:"fileName,omitempty"`
}
