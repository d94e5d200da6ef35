// internal/wizard/step-definitions/table.go
package stepdefinitions

import (
	"fmt"

	"grant-portal/internal/models"
)

// Table is the fixed, ordered list of wizard steps.
type Table struct {
	steps []Step
}

// NewTable returns the personal, organization and grant-request steps in
// that order.
func NewTable() *Table {
	return &Table{steps: []Step{
		{
			Key:   KeyPersonal,
			Label: "Personal",
			RequiredFields: []string{
				models.FieldFullName,
				models.FieldEmail,
				models.FieldPhone,
				models.FieldCountry,
				models.FieldRole,
			},
			DisplayFields: []string{
				models.FieldFullName,
				models.FieldEmail,
				models.FieldPhone,
				models.FieldCountry,
				models.FieldRole,
			},
		},
		{
			Key:   KeyOrganization,
			Label: "Organization",
			RequiredFields: []string{
				models.FieldOrgName,
				models.FieldOrgType,
				models.FieldYearFounded,
				models.FieldOrgDescription,
				models.FieldEmployees,
			},
			DisplayFields: []string{
				models.FieldOrgName,
				models.FieldOrgType,
				models.FieldRegNumber,
				models.FieldYearFounded,
				models.FieldWebsite,
				models.FieldOrgDescription,
				models.FieldEmployees,
			},
		},
		{
			Key:            KeyGrantRequest,
			Label:          "Grant Request",
			RequiredFields: []string{},
			DisplayFields: []string{
				models.FieldGrantAmount,
				models.FieldCurrency,
				models.FieldProjectTitle,
				models.FieldProjectDescription,
				models.FieldDuration,
				models.FieldFocusArea,
				models.FieldFileName,
			},
		},
	}}
}

// Len returns the number of steps.
func (t *Table) Len() int { return len(t.steps) }

// Last returns the index of the final step.
func (t *Table) Last() int { return len(t.steps) - 1 }

// IsFinal reports whether index is the last step.
func (t *Table) IsFinal(index int) bool { return index == t.Last() }

// Clamp bounds index to [0, Last()].
func (t *Table) Clamp(index int) int {
	if index < 0 {
		return 0
	}
	if index > t.Last() {
		return t.Last()
	}
	return index
}

// At returns the step at index, or an error when index is out of range.
func (t *Table) At(index int) (Step, error) {
	if index < 0 || index >= len(t.steps) {
		return Step{}, fmt.Errorf("step index %d out of range [0, %d]", index, t.Last())
	}
	return t.steps[index], nil
}

// RequiredFields returns the advance gate of the step at index. Out of range
// indexes have no gate.
func (t *Table) RequiredFields(index int) []string {
	step, err := t.At(index)
	if err != nil {
		return nil
	}
	return step.RequiredFields
}

// DisplayFields returns the fields rendered on the step at index.
func (t *Table) DisplayFields(index int) []string {
	step, err := t.At(index)
	if err != nil {
		return nil
	}
	return step.DisplayFields
}

// Steps returns a copy of every step in order.
func (t *Table) Steps() []Step {
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}
