package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Name   string   `json:"name"`
	Emails []string `json:"emails"`
}

func TestParseDirectJSON(t *testing.T) {
	result := Parse[testPayload](`{"name": "Ada", "emails": ["ada@example.com"]}`)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "Ada", result.Data.Name)
	assert.Equal(t, []string{"ada@example.com"}, result.Data.Emails)
}

func TestParseCodeFenced(t *testing.T) {
	response := "```json\n{\"name\": \"Ada\", \"emails\": []}\n```"
	result := Parse[testPayload](response)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "Ada", result.Data.Name)
}

func TestParseTrailingComma(t *testing.T) {
	result := Parse[testPayload](`{"name": "Ada", "emails": ["a@x.com",],}`)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, []string{"a@x.com"}, result.Data.Emails)
}

func TestParseMixedContent(t *testing.T) {
	response := `Here is the merged record you asked for:

{"name": "Ada", "emails": []}

Let me know if you need anything else.`
	result := Parse[testPayload](response)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "Ada", result.Data.Name)
}

func TestParseArray(t *testing.T) {
	result := Parse[[]string](`Sure! ["a", "b"]`)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, []string{"a", "b"}, result.Data)
}

func TestParseFailures(t *testing.T) {
	assert.False(t, Parse[testPayload]("").Success)
	assert.False(t, Parse[testPayload]("   ").Success)
	assert.False(t, Parse[testPayload]("not json at all").Success)
}

func TestParseWithComments(t *testing.T) {
	response := `{
  "name": "Ada", // the merged name
  /* no emails found */
  "emails": []
}`
	result := Parse[testPayload](response)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "Ada", result.Data.Name)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	long := truncateString("abcdefghijklmnop", 5)
	assert.Contains(t, long, "abcde")
	assert.Contains(t, long, "16 bytes total")
}
