package merge

import (
	"regexp"
	"strings"

	"github.com/dusk-indust/fxforge/internal/source"
)

var widgetConstruction = regexp.MustCompile(`new\s+(Label|Button|TextField|TextArea|VBox|HBox|GridPane|BorderPane|TableView)\b`)

const (
	componentsBegin = "        // --- generated UI components ---\n"
	componentsEnd   = "        // --- end generated UI components ---\n"
)

// addComponents splices the UI construction lines of the generated start
// method directly after the opening brace of the existing start method, or
// initialize when there is no start. The text is returned unchanged when
// neither method exists or there is nothing to add.
func addComponents(existingText string, generated *source.Analysis) string {
	open := source.MethodOpenBrace(existingText, "start")
	if open < 0 {
		open = source.MethodOpenBrace(existingText, "initialize")
	}
	if open < 0 || source.MatchingBrace(existingText, open) < 0 {
		return existingText
	}

	block := uiConstructionLines(generated)
	if block == "" {
		return existingText
	}
	insert := "\n" + componentsBegin + block + componentsEnd
	return existingText[:open+1] + insert + existingText[open+1:]
}

// uiConstructionLines extracts, line by line, the generated start method body
// from the first widget construction up to the first line that mentions a
// Scene. Multi-line statements are cut wherever that line falls.
func uiConstructionLines(generated *source.Analysis) string {
	start, ok := generated.Method("start")
	if !ok {
		return ""
	}
	open := strings.IndexByte(start.Span, '{')
	closing := strings.LastIndexByte(start.Span, '}')
	if open < 0 || closing <= open {
		return ""
	}

	var lines []string
	collecting := false
	for _, line := range strings.Split(start.Span[open+1:closing], "\n") {
		if !collecting && widgetConstruction.MatchString(line) {
			collecting = true
		}
		if !collecting {
			continue
		}
		if strings.Contains(line, "Scene") {
			break
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "{" || strings.Contains(line, "public void start") {
			continue
		}
		lines = append(lines, strings.TrimRight(line, " \t\r"))
	}
	if len(lines) == 0 {
		return ""
	}

	indent := commonIndent(lines)
	var b strings.Builder
	for _, line := range lines {
		b.WriteString("        ")
		b.WriteString(line[indent:])
		b.WriteString("\n")
	}
	return b.String()
}

func commonIndent(lines []string) int {
	least := -1
	for _, line := range lines {
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if least < 0 || n < least {
			least = n
		}
	}
	return least
}
