// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldUpdate(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{"string", `{"value": "Ada"}`, true},
		{"number", `{"value": 50000}`, true},
		{"empty string", `{"value": ""}`, true},
		{"string list", `{"value": ["Education", "Health"]}`, true},
		{"null", `{"value": null}`, true},
		{"missing value", `{}`, false},
		{"object value", `{"value": {"a": 1}}`, false},
		{"boolean value", `{"value": true}`, false},
		{"list of numbers", `{"value": [1, 2]}`, false},
		{"extra property", `{"value": "x", "other": 1}`, false},
		{"not an object", `["value"]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FieldUpdate.ValidateBody([]byte(tt.body))
			assert.Equal(t, tt.valid, result.Valid, result.GetErrorMessages())
			if !tt.valid {
				assert.NotEmpty(t, result.Errors)
			}
		})
	}
}

func TestFieldUpdate_ReportsField(t *testing.T) {
	result := FieldUpdate.ValidateBody([]byte(`{"value": true}`))

	require.False(t, result.Valid)
	assert.True(t, result.HasErrors("value"))
	assert.Equal(t, "INVALID_TYPE", result.Errors[0].Code)
}

func TestFieldUpdate_MalformedJSON(t *testing.T) {
	result := FieldUpdate.ValidateBody([]byte(`{"value":`))

	require.False(t, result.Valid)
	assert.Equal(t, "INVALID_JSON", result.Errors[0].Code)
}

func TestFieldUpdate_EmptyBody(t *testing.T) {
	result := FieldUpdate.ValidateBody(nil)

	require.False(t, result.Valid)
	assert.Equal(t, "REQUIRED", result.Errors[0].Code)
}

func TestFieldBatch(t *testing.T) {
	assert.True(t, FieldBatch.ValidateBody([]byte(`{"values": {"fullName": "Ada", "employees": 5}}`)).Valid)
	assert.False(t, FieldBatch.ValidateBody([]byte(`{"values": {}}`)).Valid)
	assert.False(t, FieldBatch.ValidateBody([]byte(`{"values": {"fullName": false}}`)).Valid)
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile("broken", `{"type": 5}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile("broken", `{"type": 5}`) })
}
