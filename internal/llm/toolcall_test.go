package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsToolCall(t *testing.T) {
	assert.True(t, IsToolCall(`{"tool":"weather","city":"Beijing"}`))
	assert.True(t, IsToolCall("  {\"tool\": \"time\"}\n"))
	assert.False(t, IsToolCall(`Sure! {"tool":"time"}`))
	assert.False(t, IsToolCall(`{"name":"x"}`))
}

func TestParseToolCall(t *testing.T) {
	tc, err := ParseToolCall(`{"tool":"open_app","app":"browser","retries":2}`)
	require.NoError(t, err)
	assert.Equal(t, ToolOpenApp, tc.Tool)
	assert.Equal(t, "browser", tc.Field("app", ""))
	assert.Equal(t, "2", tc.Field("retries", ""))
	assert.Equal(t, "general", tc.Field("category", "general"))
	assert.NotContains(t, tc.Fields, "tool")

	_, err = ParseToolCall(`{"city":"x"}`)
	assert.Error(t, err)
	_, err = ParseToolCall(`{"tool":3}`)
	assert.Error(t, err)
	_, err = ParseToolCall(`not json`)
	assert.Error(t, err)
}
