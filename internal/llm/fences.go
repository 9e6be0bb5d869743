package llm

import (
	"regexp"
	"strings"
)

var (
	fencedCode = regexp.MustCompile("(?s)```([a-zA-Z0-9_+.-]*)\\s*\\n(.*?)\\n```")
	javaFence  = regexp.MustCompile("(?i)```java\\s*")
	anyFence   = regexp.MustCompile("(?i)```[a-z]*\\s*")
)

// StripCodeFences removes markdown code-fence markers from a model response.
// A closed fenced block yields its body, dropping any prose around it.
// Unbalanced markers are deleted in place.
func StripCodeFences(text string) string {
	if m := fencedCode.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[2])
	}
	text = javaFence.ReplaceAllString(text, "")
	text = anyFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
