// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "required": ["jobId", "skills"],
  "properties": {
    "jobId": {"type": "string", "minLength": 1},
    "skills": {"type": "array", "items": {"type": "string"}}
  }
}`

func TestSchema_Validate(t *testing.T) {
	s, err := Compile("test", testSchema)
	require.NoError(t, err)

	t.Run("valid document", func(t *testing.T) {
		res, err := s.Validate(map[string]interface{}{"jobId": "j-1", "skills": []string{"go"}})
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
	})

	t.Run("null array is rejected", func(t *testing.T) {
		var skills []string
		res, err := s.Validate(map[string]interface{}{"jobId": "j-1", "skills": skills})
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.True(t, res.HasErrors("skills"))
	})

	t.Run("missing field", func(t *testing.T) {
		res, err := s.Validate(map[string]interface{}{"skills": []string{}})
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.NotEmpty(t, res.GetErrorMessages())
	})
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile("broken", `{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile("broken", `{`) })
}

func TestGetErrorsForField(t *testing.T) {
	res := &ValidationResult{Errors: []ValidationError{
		{Field: "experience.skills"},
		{Field: "experience.workExperience[0].company"},
		{Field: "personalInfo.email"},
	}}
	assert.Len(t, res.GetErrorsForField("experience"), 2)
	assert.Len(t, res.GetErrorsForField("personalInfo"), 1)
}

func TestFormatValidators(t *testing.T) {
	assert.True(t, ValidateEmail("jane@example.com"))
	assert.False(t, ValidateEmail("jane@"))

	assert.True(t, ValidatePhone("+1 (555) 010-2030"))
	assert.True(t, ValidatePhone("555.010.2030"))
	assert.False(t, ValidatePhone("12ab"))
	assert.False(t, ValidatePhone("123"))

	assert.True(t, ValidateURL("https://linkedin.com/in/jane"))
	assert.False(t, ValidateURL("linkedin.com/in/jane"))

	assert.True(t, ValidateYear("2019"))
	assert.False(t, ValidateYear("19"))
}
