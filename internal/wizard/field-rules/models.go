// internal/wizard/field-rules/models.go
package fieldrules

import "regexp"

// Option lists offered by the form's select controls.
var (
	Countries = []string{
		"Nigeria",
		"Kenya",
		"Ghana",
		"South Africa",
		"Egypt",
		"Rwanda",
		"Uganda",
		"Tanzania",
		"Ethiopia",
		"Senegal",
		"Zambia",
		"Zimbabwe",
		"Botswana",
		"Mozambique",
		"Cameroon",
	}
	Roles      = []string{"Founder", "Executive Director", "Program Manager", "Other"}
	OrgTypes   = []string{"Startup", "NGO", "Social Enterprise", "Non-Profit"}
	Currencies = []string{"USD", "EUR", "NGN", "KES", "GHS", "ZAR"}
	Durations  = []string{"3 months", "6 months", "12 months", "18 months", "24 months"}
	FocusAreas = []string{
		"Education",
		"Healthcare",
		"Technology",
		"Agriculture",
		"Climate",
		"Financial Inclusion",
	}
)

// Catalog is the option set handed to the render boundary.
type Catalog struct {
	Countries  []string `json:"countries"`
	Roles      []string `json:"roles"`
	OrgTypes   []string `json:"orgTypes"`
	Currencies []string `json:"currencies"`
	Durations  []string `json:"durations"`
	FocusAreas []string `json:"focusAreas"`
}

// Numeric and length bounds.
const (
	MinFullNameLength           = 2
	MinYearFounded              = 1900
	MinOrgDescriptionLength     = 100
	MaxOrgDescriptionLength     = 500
	MinEmployees                = 1
	MaxEmployees                = 10000
	MinGrantAmount              = 1000.0
	MaxGrantAmount              = 1000000.0
	MinProjectDescriptionLength = 200
	MaxProjectDescriptionLength = 1000
)

// Failure messages shown next to a field.
const (
	MsgFullNameTooShort       = "Full name must be at least 2 characters"
	MsgInvalidEmail           = "Invalid email address"
	MsgInvalidPhone           = "Invalid phone number format"
	MsgSelectCountry          = "Please select a country"
	MsgSelectRole             = "Please select a role"
	MsgOrgNameRequired        = "Organization name is required"
	MsgSelectOrgType          = "Please select an organization type"
	MsgYearTooEarly           = "Year must be after 1900"
	MsgYearInFuture           = "Year cannot be in the future"
	MsgInvalidURL             = "Invalid URL"
	MsgOrgDescriptionTooShort = "Description must be at least 100 characters"
	MsgOrgDescriptionTooLong  = "Description must not exceed 500 characters"
	MsgEmployeesOutOfRange    = "Must be between 1 and 10,000"
	MsgGrantAmountTooLow      = "Minimum request is $1,000"
	MsgGrantAmountTooHigh     = "Maximum request is $1,000,000"
	MsgSelectCurrency         = "Select currency"
	MsgProjectTitleRequired   = "Project title is required"
	MsgProjectDescTooShort    = "Description must be at least 200 characters"
	MsgProjectDescTooLong     = "Description must not exceed 1000 characters"
	MsgSelectDuration         = "Select duration"
	MsgSelectFocusArea        = "Select at least one focus area"
	MsgExpectedText           = "%s must be text"
	MsgExpectedNumber         = "%s must be a number"
	MsgExpectedWholeNumber    = "%s must be a whole number"
	MsgExpectedFocusAreaList  = "Focus areas must be a list of text values"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// Optional leading +, then at least ten digits, spaces or hyphens.
	phoneRegex = regexp.MustCompile(`^\+?[0-9\s-]{10,}$`)
)
