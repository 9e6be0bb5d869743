package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tool names a chat reply may invoke.
const (
	ToolWeather = "weather"
	ToolNews    = "news"
	ToolTime    = "time"
	ToolOpenApp = "open_app"
)

// ToolCall is a structured tool invocation encoded in a chat reply, such as
// {"tool":"weather","city":"Beijing"}. Fields holds every key except "tool".
type ToolCall struct {
	Tool   string
	Fields map[string]string
}

// Field returns a tool-specific field, or fallback when it is absent.
func (tc ToolCall) Field(name, fallback string) string {
	if v, ok := tc.Fields[name]; ok && v != "" {
		return v
	}
	return fallback
}

// IsToolCall reports whether a chat reply looks like a tool invocation: it
// starts with '{' and mentions "tool".
func IsToolCall(reply string) bool {
	t := strings.TrimSpace(reply)
	return strings.HasPrefix(t, "{") && strings.Contains(t, `"tool"`)
}

// ParseToolCall decodes a tool invocation. Non-string field values are kept
// in their JSON form.
func ParseToolCall(reply string) (ToolCall, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &raw); err != nil {
		return ToolCall{}, fmt.Errorf("llm: parse tool call: %w", err)
	}
	toolRaw, ok := raw["tool"]
	if !ok {
		return ToolCall{}, fmt.Errorf("llm: parse tool call: missing \"tool\"")
	}
	var tc ToolCall
	if err := json.Unmarshal(toolRaw, &tc.Tool); err != nil {
		return ToolCall{}, fmt.Errorf("llm: parse tool call: \"tool\" is not a string")
	}
	tc.Fields = make(map[string]string, len(raw)-1)
	for k, v := range raw {
		if k == "tool" {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			s = string(v)
		}
		tc.Fields[k] = s
	}
	return tc, nil
}
