// Package plaintext renders model output as plain text suitable for Telegram
// messages sent without a parse mode.
package plaintext

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	md         = goldmark.New()
	blankLines = regexp.MustCompile(`\n{3,}`)
	// признаки Markdown; текст без них возвращается как есть
	markers = regexp.MustCompile("(?m)[*_`#\\[<\\\\]|^[ \t]*([-+>]|\\d+[.)])[ \t]|^[ \t]*(-{3,}|={3,})[ \t]*$")
)

// FromMarkdown убирает Markdown-разметку, сохраняя структуру текста:
// абзацы и заголовки разделяются пустой строкой, пункты списков получают префикс,
// ссылки выводятся как "текст (url)", блоки кода сохраняются как есть.
// Подчёркивания и выделение внутри слова (__init__, 2*3*4) остаются в тексте,
// HTML-теги выводятся как текст.
func FromMarkdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	if !markers.MatchString(src) {
		return strings.TrimSpace(blankLines.ReplaceAllString(src, "\n\n"))
	}

	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))

	r := &renderer{source: source}
	_ = ast.Walk(doc, r.walk)

	out := blankLines.ReplaceAllString(r.buf.String(), "\n\n")
	return strings.TrimSpace(out)
}

type renderer struct {
	source []byte
	buf    bytes.Buffer
}

func (r *renderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Text:
		if entering {
			r.buf.Write(node.Segment.Value(r.source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				r.buf.WriteByte('\n')
			}
		}
	case *ast.String:
		if entering {
			r.buf.Write(node.Value)
		}
	case *ast.AutoLink:
		if entering {
			r.buf.Write(node.URL(r.source))
		}
		return ast.WalkSkipChildren, nil
	case *ast.Link:
		if !entering {
			dest := string(node.Destination)
			if dest != "" && dest != string(nodeText(node, r.source)) {
				r.buf.WriteString(" (" + dest + ")")
			}
		}
	case *ast.Emphasis:
		r.buf.WriteString(r.emphasisDelimiter(node))
	case *ast.CodeBlock:
		if entering {
			r.writeLines(n, codeIndent)
			r.buf.WriteByte('\n')
		}
		return ast.WalkSkipChildren, nil
	case *ast.FencedCodeBlock:
		if entering {
			r.writeLines(n, "")
			r.buf.WriteByte('\n')
		}
		return ast.WalkSkipChildren, nil
	case *ast.HTMLBlock:
		if entering {
			r.writeLines(n, "")
			if node.HasClosure() {
				r.buf.Write(node.ClosureLine.Value(r.source))
			}
			r.buf.WriteByte('\n')
		}
		return ast.WalkSkipChildren, nil
	case *ast.RawHTML:
		if entering {
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				r.buf.Write(seg.Value(r.source))
			}
		}
		return ast.WalkSkipChildren, nil
	case *ast.Paragraph, *ast.Heading:
		if !entering {
			r.buf.WriteString("\n\n")
		}
	case *ast.TextBlock:
		if !entering {
			r.buf.WriteByte('\n')
		}
	case *ast.ThematicBreak:
		if entering {
			r.buf.WriteString("\n")
		}
	case *ast.ListItem:
		if entering {
			r.buf.WriteString(itemPrefix(node))
		}
	case *ast.List:
		if !entering {
			if _, nested := node.Parent().(*ast.ListItem); !nested {
				r.buf.WriteByte('\n')
			}
		}
	}

	return ast.WalkContinue, nil
}

const codeIndent = "    "

func (r *renderer) writeLines(n ast.Node, indent string) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		r.buf.WriteString(indent)
		r.buf.Write(seg.Value(r.source))
	}
}

// emphasisDelimiter возвращает исходные маркеры выделения, если их нужно сохранить:
// для "_" и для выделения внутри слова. Иначе пустую строку.
func (r *renderer) emphasisDelimiter(node *ast.Emphasis) string {
	start, stop, ok := textBounds(node)
	if !ok {
		return ""
	}
	open, end := start-node.Level, stop+node.Level
	if open < 0 || end > len(r.source) {
		return ""
	}

	marker := r.source[open]
	if marker != '_' && marker != '*' {
		return ""
	}
	intraword := (open > 0 && isWordByte(r.source[open-1])) ||
		(end < len(r.source) && isWordByte(r.source[end]))
	if marker == '_' || intraword {
		return strings.Repeat(string(marker), node.Level)
	}
	return ""
}

// textBounds границы текста внутри узла: начало первого и конец последнего Text
func textBounds(n ast.Node) (start, stop int, ok bool) {
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, isText := c.(*ast.Text); isText && entering {
			if !ok {
				start, ok = t.Segment.Start, true
			}
			stop = t.Segment.Stop
		}
		return ast.WalkContinue, nil
	})
	return start, stop, ok
}

func isWordByte(b byte) bool {
	return b >= utf8.RuneSelf || b == '_' ||
		(b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// itemPrefix возвращает отступ и маркер пункта с учётом вложенности списков
func itemPrefix(item *ast.ListItem) string {
	depth := 0
	for p := item.Parent(); p != nil; p = p.Parent() {
		if _, ok := p.(*ast.List); ok {
			depth++
		}
	}
	indent := strings.Repeat("  ", max(depth-1, 0))

	list, ok := item.Parent().(*ast.List)
	if !ok || !list.IsOrdered() {
		return indent + "- "
	}

	idx := 0
	for s := item.PreviousSibling(); s != nil; s = s.PreviousSibling() {
		idx++
	}
	return indent + strconv.Itoa(list.Start+idx) + ". "
}

// nodeText собирает текст дочерних Text-узлов ссылки
func nodeText(n ast.Node, source []byte) []byte {
	var b bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return b.Bytes()
}
