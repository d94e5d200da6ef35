// internal/wizard/field-rules/validator_test.go
package fieldrules

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"grant-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestValidator() *Validator {
	return NewValidator(&Config{
		Now: func() time.Time { return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func createValidValues() models.FieldValues {
	values := models.NewFieldValues()
	values[models.FieldFullName] = "Ada Lovelace"
	values[models.FieldEmail] = "ada@x.org"
	values[models.FieldPhone] = "+234 123 456 7890"
	values[models.FieldCountry] = "Nigeria"
	values[models.FieldRole] = "Founder"
	values[models.FieldOrgName] = "Analytical Engines Ltd"
	values[models.FieldOrgType] = "Startup"
	values[models.FieldYearFounded] = "2015"
	values[models.FieldOrgDescription] = strings.Repeat("o", 150)
	values[models.FieldEmployees] = "12"
	values[models.FieldGrantAmount] = "50000"
	values[models.FieldProjectTitle] = "Coding Clubs"
	values[models.FieldProjectDescription] = strings.Repeat("p", 250)
	values[models.FieldDuration] = "12 months"
	values[models.FieldFocusArea] = []string{"Education"}
	return values
}

// ==========================
// Single Field Tests
// ==========================

func TestValidator_Validate_FieldRules(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   interface{}
		wantMsg string
	}{
		{"full name ok", models.FieldFullName, "Al", ""},
		{"full name too short", models.FieldFullName, "A", MsgFullNameTooShort},
		{"full name counts runes", models.FieldFullName, "Éa", ""},
		{"email ok", models.FieldEmail, "ada@x.org", ""},
		{"email invalid", models.FieldEmail, "ada-at-x", MsgInvalidEmail},
		{"email empty", models.FieldEmail, "", MsgInvalidEmail},
		{"phone ok", models.FieldPhone, "+234 123 456 7890", ""},
		{"phone with hyphens", models.FieldPhone, "0803-123-4567", ""},
		{"phone too short", models.FieldPhone, "+12345", MsgInvalidPhone},
		{"phone letters", models.FieldPhone, "call me maybe", MsgInvalidPhone},
		{"country ok", models.FieldCountry, "Kenya", ""},
		{"country not listed", models.FieldCountry, "Narnia", MsgSelectCountry},
		{"country empty", models.FieldCountry, "", MsgSelectCountry},
		{"role ok", models.FieldRole, "Program Manager", ""},
		{"role empty", models.FieldRole, "", MsgSelectRole},
		{"org name empty", models.FieldOrgName, "", MsgOrgNameRequired},
		{"org type ok", models.FieldOrgType, "Non-Profit", ""},
		{"org type not listed", models.FieldOrgType, "Cooperative", MsgSelectOrgType},
		{"reg number optional", models.FieldRegNumber, "", ""},
		{"year founded lower bound", models.FieldYearFounded, 1900, ""},
		{"year founded too early", models.FieldYearFounded, 1899, MsgYearTooEarly},
		{"year founded current year", models.FieldYearFounded, "2025", ""},
		{"year founded next year", models.FieldYearFounded, 2026, MsgYearInFuture},
		{"year founded blank", models.FieldYearFounded, "", MsgYearTooEarly},
		{"year founded text", models.FieldYearFounded, "nineteen", "Year founded must be a number"},
		{"year founded fraction", models.FieldYearFounded, "1999.5", "Year founded must be a whole number"},
		{"website optional", models.FieldWebsite, "", ""},
		{"website ok", models.FieldWebsite, "https://example.org", ""},
		{"website missing scheme", models.FieldWebsite, "example.org", MsgInvalidURL},
		{"website garbage", models.FieldWebsite, "not a url", MsgInvalidURL},
		{"employees zero", models.FieldEmployees, 0, MsgEmployeesOutOfRange},
		{"employees one", models.FieldEmployees, "1", ""},
		{"employees upper bound", models.FieldEmployees, 10000, ""},
		{"employees over", models.FieldEmployees, 10001, MsgEmployeesOutOfRange},
		{"employees float from json", models.FieldEmployees, 25.0, ""},
		{"grant amount lower bound", models.FieldGrantAmount, 1000, ""},
		{"grant amount too low", models.FieldGrantAmount, "999.99", MsgGrantAmountTooLow},
		{"grant amount upper bound", models.FieldGrantAmount, 1000000.0, ""},
		{"grant amount too high", models.FieldGrantAmount, 1000000.01, MsgGrantAmountTooHigh},
		{"grant amount blank", models.FieldGrantAmount, "", MsgGrantAmountTooLow},
		{"grant amount text", models.FieldGrantAmount, "lots", "Amount requested must be a number"},
		{"currency ok", models.FieldCurrency, "KES", ""},
		{"currency not listed", models.FieldCurrency, "GBP", MsgSelectCurrency},
		{"project title empty", models.FieldProjectTitle, "", MsgProjectTitleRequired},
		{"duration ok", models.FieldDuration, "24 months", ""},
		{"duration not listed", models.FieldDuration, "9 months", MsgSelectDuration},
		{"focus area empty", models.FieldFocusArea, []string{}, MsgSelectFocusArea},
		{"focus area from json", models.FieldFocusArea, []interface{}{"Climate"}, ""},
		{"focus area wrong type", models.FieldFocusArea, "Climate", MsgExpectedFocusAreaList},
		{"file name optional", models.FieldFileName, "", ""},
	}

	v := createTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := models.FieldValues{tt.field: tt.value}
			errs := v.Validate(values, tt.field)
			if tt.wantMsg == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantMsg, errs[tt.field])
		})
	}
}

func TestValidator_Validate_DescriptionBoundaries(t *testing.T) {
	tests := []struct {
		field   string
		length  int
		wantMsg string
	}{
		{models.FieldOrgDescription, 99, MsgOrgDescriptionTooShort},
		{models.FieldOrgDescription, 100, ""},
		{models.FieldOrgDescription, 500, ""},
		{models.FieldOrgDescription, 501, MsgOrgDescriptionTooLong},
		{models.FieldProjectDescription, 199, MsgProjectDescTooShort},
		{models.FieldProjectDescription, 200, ""},
		{models.FieldProjectDescription, 1000, ""},
		{models.FieldProjectDescription, 1001, MsgProjectDescTooLong},
	}

	v := createTestValidator()
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d", tt.field, tt.length), func(t *testing.T) {
			values := models.FieldValues{tt.field: strings.Repeat("x", tt.length)}
			errs := v.Validate(values, tt.field)
			assert.Equal(t, tt.wantMsg, errs[tt.field])
		})
	}

	t.Run("multibyte characters count once", func(t *testing.T) {
		values := models.FieldValues{models.FieldOrgDescription: strings.Repeat("é", 100)}
		assert.Empty(t, v.Validate(values, models.FieldOrgDescription))
	})
}

// ==========================
// Scoped Validation Tests
// ==========================

func TestValidator_Validate_OnlyReportsRequestedFields(t *testing.T) {
	v := createTestValidator()
	values := models.NewFieldValues()
	values[models.FieldFullName] = "Ada Lovelace"

	errs := v.Validate(values, models.FieldFullName, models.FieldEmail)

	assert.Equal(t, models.FieldErrors{models.FieldEmail: MsgInvalidEmail}, errs)
}

func TestValidator_Validate_IgnoresUnknownFields(t *testing.T) {
	v := createTestValidator()
	errs := v.Validate(models.FieldValues{"favouriteColour": 42}, "favouriteColour")
	assert.Empty(t, errs)
}

func TestValidator_Validate_AdaExampleStepZero(t *testing.T) {
	v := createTestValidator()
	values := models.FieldValues{
		models.FieldFullName: "Ada Lovelace",
		models.FieldEmail:    "ada@x.org",
		models.FieldPhone:    "+234 123 456 7890",
		models.FieldCountry:  "Nigeria",
		models.FieldRole:     "Founder",
	}

	errs := v.Validate(values,
		models.FieldFullName, models.FieldEmail, models.FieldPhone, models.FieldCountry, models.FieldRole)

	assert.Empty(t, errs)
}

func TestValidator_ValidateAll_DefaultForm(t *testing.T) {
	v := createTestValidator()
	errs := v.ValidateAll(models.NewFieldValues())

	assert.Len(t, errs, 15)
	for _, optional := range []string{models.FieldRegNumber, models.FieldWebsite, models.FieldFileName, models.FieldCurrency} {
		assert.NotContains(t, errs, optional)
	}
}

func TestValidator_ValidateAll_ValidForm(t *testing.T) {
	v := createTestValidator()
	assert.Empty(t, v.ValidateAll(createValidValues()))
}

// ==========================
// Normalization Tests
// ==========================

func TestValidator_Normalize_Success(t *testing.T) {
	v := createTestValidator()
	values := createValidValues()
	values[models.FieldFocusArea] = []interface{}{"Education", "Climate", "Education"}
	values[models.FieldGrantAmount] = 25000.5

	form, errs := v.Normalize(values)

	require.Empty(t, errs)
	require.NotNil(t, form)
	assert.Equal(t, "Ada Lovelace", form.FullName)
	assert.Equal(t, 2015, form.YearFounded)
	assert.Equal(t, 12, form.Employees)
	assert.Equal(t, 25000.5, form.GrantAmount)
	assert.Equal(t, "USD", form.Currency)
	assert.Equal(t, "Coding Clubs", form.ProjectTitle)
	assert.Equal(t, []string{"Education", "Climate"}, form.FocusArea)
}

func TestValidator_Normalize_Failure(t *testing.T) {
	v := createTestValidator()
	values := createValidValues()
	values[models.FieldEmployees] = "0"
	values[models.FieldCurrency] = ""

	form, errs := v.Normalize(values)

	assert.Nil(t, form)
	assert.Equal(t, models.FieldErrors{
		models.FieldEmployees: MsgEmployeesOutOfRange,
		models.FieldCurrency:  MsgSelectCurrency,
	}, errs)
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, []string{"Climate"}, NormalizeValue(models.FieldFocusArea, []interface{}{"Climate", "Climate"}))
	assert.Equal(t, "Ada", NormalizeValue(models.FieldFullName, "Ada"))
	assert.Equal(t, 42.0, NormalizeValue(models.FieldEmployees, 42.0))
}

func TestValidator_Catalog(t *testing.T) {
	catalog := createTestValidator().Catalog()

	assert.Len(t, catalog.Countries, 15)
	assert.Contains(t, catalog.Currencies, models.DefaultCurrency)
	assert.Equal(t, []string{"3 months", "6 months", "12 months", "18 months", "24 months"}, catalog.Durations)
}
