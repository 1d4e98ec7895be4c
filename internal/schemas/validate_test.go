package schemas

import (
	"testing"

	schemafiles "github.com/jonathan/unemployment-navigator/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDocument_MalformedDocument(t *testing.T) {
	err := ValidateDocument(schemafiles.Questions, []byte(`{ invalid`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "questions.initial", Message: "text is required"},
			{Field: "(root)", Message: "questions is required"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "questions.initial")
	assert.Contains(t, errorMsg, "(root)")
}

func TestValidateDocument_Questions(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		wantError bool
	}{
		{
			name: "valid radio question",
			document: `{"questions": {"employment_status": {
				"id": "employment_status",
				"text": "What is your current employment situation?",
				"input_type": "radio",
				"category": "employment",
				"options": [{"value": "unemployed", "label": "I lost my job"}]
			}}}`,
		},
		{
			name:      "missing questions key",
			document:  `{}`,
			wantError: true,
		},
		{
			name: "unknown input type",
			document: `{"questions": {"q": {
				"id": "q", "text": "Q?", "input_type": "slider", "category": "x"
			}}}`,
			wantError: true,
		},
		{
			name: "option without label",
			document: `{"questions": {"q": {
				"id": "q", "text": "Q?", "input_type": "radio", "category": "x",
				"options": [{"value": "a"}]
			}}}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(schemafiles.Questions, []byte(tt.document))
			if tt.wantError {
				require.Error(t, err)
				_, ok := err.(*ValidationError)
				assert.True(t, ok, "expected ValidationError, got %T", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDocument_ResourceCategory(t *testing.T) {
	valid := `{"resources": {"legal_aid": {
		"id": "legal_aid", "name": "Legal aid", "url": "https://example.org",
		"description": "Free legal help", "category": "legal"
	}}}`
	assert.NoError(t, ValidateDocument(schemafiles.Resources, []byte(valid)))

	invalid := `{"resources": {"legal_aid": {
		"id": "legal_aid", "name": "Legal aid", "url": "ftp://example.org",
		"description": "Free legal help", "category": "lawyers"
	}}}`
	err := ValidateDocument(schemafiles.Resources, []byte(invalid))
	require.Error(t, err)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(validationErr.Errors), 2)
}

func TestValidateDocument_SessionSnapshot(t *testing.T) {
	doc := `{
		"id": "s1",
		"messages": [{"id": "m1", "content": "hi", "sender": "bot", "timestamp": "2025-01-02T03:04:05Z"}],
		"user_profile": {"employment_status": "unemployed", "additional_info": {}},
		"current_step": "initial",
		"conversation_complete": false
	}`
	assert.NoError(t, ValidateDocument(schemafiles.Session, []byte(doc)))

	bad := `{"id": "s1", "messages": [], "user_profile": {"employment_status": "unemployed"},
		"current_step": "somewhere", "conversation_complete": false}`
	assert.Error(t, ValidateDocument(schemafiles.Session, []byte(bad)))
}

func TestValidateDocument_UnknownSchema(t *testing.T) {
	err := ValidateDocument("nope.schema.json", []byte(`{}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "nope.schema.json")
}
