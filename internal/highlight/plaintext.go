package highlight

import (
	"html"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// PlainText converts a backend body to the text that matching and windowing
// operate on, according to the configured content format.
func (h *Highlighter) PlainText(s string) string {
	switch h.opts.ContentFormat {
	case FormatHTML:
		return h.stripHTML(s)
	case FormatMarkdown:
		return h.stripMarkdown(s)
	default:
		return s
	}
}

func (h *Highlighter) stripHTML(s string) string {
	return collapseSpace(html.UnescapeString(h.policy.Sanitize(s)))
}

func (h *Highlighter) stripMarkdown(s string) string {
	src := []byte(s)
	doc := h.md.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				b.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	// inline HTML inside text nodes is still markup
	return h.stripHTML(b.String())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
