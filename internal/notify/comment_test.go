package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDecisionFailure(t *testing.T) {
	body, err := RenderFailure(KindDecision, "No JSON block found in any comment.")
	require.NoError(t, err)

	assert.Contains(t, body, "Failed to parse a valid JSON decision block")
	assert.Contains(t, body, "Error: `No JSON block found in any comment.`")
	assert.Contains(t, body, "```json\n{ ... }\n```")
}

func TestRenderFieldsFailure(t *testing.T) {
	body, err := RenderFailure(KindFields, "Conflict Id not found in issue body")
	require.NoError(t, err)

	assert.Contains(t, body, "⚠️ Conflict Id not found in issue body")
	assert.Contains(t, body, "> Conflict Id: <conflict id>")
	assert.Contains(t, body, "```json\n{ ... }\n```")
}

func TestRenderFailureDoesNotEscape(t *testing.T) {
	body, err := RenderFailure(KindDecision, `Error: invalid character '}' looking for "value"`)
	require.NoError(t, err)
	assert.Contains(t, body, `'}' looking for "value"`)
}

func TestRenderFailureUnknownKind(t *testing.T) {
	_, err := RenderFailure(Kind("other"), "x")
	require.Error(t, err)
}
