package source

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// TreeSitterAnalyzer implements Analyzer with the tree-sitter Java grammar.
// It produces the same shape as RegexAnalyzer, including the collapse of
// overloads onto the first declaration, but is not fooled by class names in
// comments or string literals. Static imports are skipped to match the regex
// rules. A parser is created per call, so the type is safe for concurrent use.
type TreeSitterAnalyzer struct {
	language *tree_sitter.Language
}

var _ Analyzer = (*TreeSitterAnalyzer)(nil)

// NewTreeSitterAnalyzer creates a TreeSitterAnalyzer.
func NewTreeSitterAnalyzer() *TreeSitterAnalyzer {
	return &TreeSitterAnalyzer{
		language: tree_sitter.NewLanguage(tree_sitter_java.Language()),
	}
}

// Analyze implements Analyzer. If the grammar cannot be loaded it falls back
// to RegexAnalyzer so the never-fails contract holds.
func (a *TreeSitterAnalyzer) Analyze(text string) *Analysis {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(a.language); err != nil {
		return RegexAnalyzer{}.Analyze(text)
	}

	source := []byte(text)
	tree := parser.Parse(source, nil)
	if tree == nil {
		return RegexAnalyzer{}.Analyze(text)
	}
	defer tree.Close()

	w := &javaWalker{source: source, imports: importSet{}}
	cursor := tree.RootNode().Walk()
	defer cursor.Close()
	w.walk(cursor)

	return &Analysis{
		FullText:    text,
		PackageName: w.pkg,
		ClassName:   w.class,
		Imports:     w.imports.sorted(),
		Methods:     w.methods.methods,
	}
}

type javaWalker struct {
	source  []byte
	pkg     string
	class   string
	imports importSet
	methods methodList
}

func (w *javaWalker) walk(cursor *tree_sitter.TreeCursor) {
	node := cursor.Node()

	switch node.Kind() {
	case "package_declaration":
		if w.pkg == "" {
			w.pkg = strings.ReplaceAll(w.declaredName(node, "package"), " ", "")
		}
	case "import_declaration":
		if imp := w.declaredName(node, "import"); imp != "" && !strings.HasPrefix(imp, "static ") {
			w.imports.add(strings.ReplaceAll(imp, " ", ""))
		}
	case "class_declaration":
		if w.class == "" {
			if name := node.ChildByFieldName("name"); name != nil {
				w.class = name.Utf8Text(w.source)
			}
		}
	case "method_declaration", "constructor_declaration":
		w.addMethod(node)
	}

	if cursor.GotoFirstChild() {
		w.walk(cursor)
		for cursor.GotoNextSibling() {
			w.walk(cursor)
		}
		cursor.GotoParent()
	}
}

// declaredName strips the keyword and terminating semicolon from a package or
// import declaration and normalizes inner whitespace to single spaces.
func (w *javaWalker) declaredName(node *tree_sitter.Node, keyword string) string {
	text := node.Utf8Text(w.source)
	text = strings.TrimSpace(strings.TrimPrefix(text, keyword))
	text = strings.TrimSuffix(text, ";")
	return strings.Join(strings.Fields(text), " ")
}

func (w *javaWalker) addMethod(node *tree_sitter.Node) {
	name := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if name == nil || body == nil {
		return
	}
	params := ""
	if p := node.ChildByFieldName("parameters"); p != nil {
		params = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(p.Utf8Text(w.source), "("), ")"))
	}
	start, end := int(node.StartByte()), int(node.EndByte())
	w.methods.add(Method{
		Name:   name.Utf8Text(w.source),
		Params: params,
		Span:   string(w.source[start:end]),
		Start:  start,
		End:    end,
	})
}
