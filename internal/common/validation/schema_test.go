package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["requestId", "amount"],
	"properties": {
		"requestId": {"type": "string", "minLength": 1},
		"amount": {"type": "number", "exclusiveMinimum": 0}
	}
}`

func TestSchema_ValidateJSON(t *testing.T) {
	schema, err := Compile(testSchema)
	require.NoError(t, err)

	tests := []struct {
		name       string
		document   string
		valid      bool
		errorField string
	}{
		{name: "valid", document: `{"requestId":"req-1","amount":120.5}`, valid: true},
		{name: "missing amount", document: `{"requestId":"req-1"}`, errorField: "(root)"},
		{name: "empty request id", document: `{"requestId":"","amount":1}`, errorField: "requestId"},
		{name: "non positive amount", document: `{"requestId":"req-1","amount":0}`, errorField: "amount"},
		{name: "malformed json", document: `{"requestId":`, errorField: "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := schema.ValidateJSON(tt.document)
			assert.Equal(t, tt.valid, result.Valid)
			if tt.valid {
				assert.Empty(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, tt.errorField, result.Errors[0].Field)
			assert.Contains(t, result.Error(), tt.errorField)
		})
	}
}

func TestCompile_RejectsInvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile(`not json`) })
}
