package source

import (
	"regexp"
	"strings"
)

// MatchingBrace returns the offset of the '}' closing the '{' at open, or -1
// when text[open] is not '{' or the braces never balance. Braces inside
// string literals and comments are counted like any other.
func MatchingBrace(text string, open int) int {
	if open < 0 || open >= len(text) || text[open] != '{' {
		return -1
	}
	depth := 1
	for i := open + 1; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ClassBodyEnd returns the offset of the closing brace of the named class,
// or -1 when the class or its body cannot be located.
func ClassBodyEnd(text, className string) int {
	if className == "" {
		return -1
	}
	re := regexp.MustCompile(`class\s+` + regexp.QuoteMeta(className) + `\b[^{]*\{`)
	loc := re.FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return MatchingBrace(text, loc[1]-1)
}

// MethodOpenBrace returns the offset of the opening brace of the first method
// called name, or -1.
func MethodOpenBrace(text, name string) int {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*\([^)]*\)\s*\{`)
	loc := re.FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return loc[1] - 1
}

var importStatement = regexp.MustCompile(`import\s+[\w.*]+\s*;`)

// LastImportEnd returns the offset just past the last import statement, or -1
// when there are none.
func LastImportEnd(text string) int {
	all := importStatement.FindAllStringIndex(text, -1)
	if len(all) == 0 {
		return -1
	}
	return all[len(all)-1][1]
}

// PackageEnd returns the offset just past the package statement, or -1.
func PackageEnd(text string) int {
	loc := packagePattern.FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return loc[1]
}

var classDeclaration = regexp.MustCompile(`(?:(?:@[\w.]+(?:\([^)]*\))?|public|protected|private|abstract|final|static|strictfp)\s+)*class\s+\w+`)

// ClassContent returns the text from the first class declaration (including
// its leading annotations and modifiers) to the end, trimmed. Text without a class
// declaration is returned trimmed.
func ClassContent(text string) string {
	loc := classDeclaration.FindStringIndex(text)
	if loc == nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[loc[0]:])
}

var (
	publicClassName = regexp.MustCompile(`public\s+class\s+(\w+)`)
	anyClassName    = regexp.MustCompile(`class\s+(\w+)`)
)

// CompilationUnitName returns the class name a compiler expects the file to
// be named after: the public class if any, else the first class. It returns
// "" when the text declares no class.
func CompilationUnitName(text string) string {
	if m := publicClassName.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := anyClassName.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}
