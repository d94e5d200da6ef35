// internal/wizard/step-definitions/models.go
package stepdefinitions

// Step is one page of the wizard.
type Step struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	// RequiredFields must pass validation before the wizard leaves this step.
	// Empty for the final step, which is checked against the whole form on
	// submission instead.
	RequiredFields []string `json:"requiredFields"`
	// DisplayFields are the fields rendered on this step.
	DisplayFields []string `json:"displayFields"`
}

const (
	KeyPersonal     = "personal"
	KeyOrganization = "organization"
	KeyGrantRequest = "grant-request"
)
