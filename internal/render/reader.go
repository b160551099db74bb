package render

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/sagadocs/internal/sagatree"
)

// ReadMarkdown parses a document produced by Writer back into a saga tree.
// h1 opens a main saga, h2 a saga, h3 an arc; everything up to the next
// heading of level 3 or less becomes the arc summary.
func ReadMarkdown(r io.Reader) ([]*sagatree.MainSaga, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var (
		mains    []*sagatree.MainSaga
		mainSaga *sagatree.MainSaga
		saga     *sagatree.Saga
		arc      *sagatree.Arc
		summary  []string
	)

	flushSummary := func() {
		if arc != nil {
			arc.Summary = strings.Join(summary, "\n\n")
		}
		summary = nil
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, isHeading := n.(*ast.Heading)
		if !isHeading || h.Level > 3 {
			if arc == nil {
				continue
			}
			if isHeading {
				summary = append(summary, strings.Repeat("#", h.Level)+" "+inlineText(h, src))
			} else if s := blockSource(n, src); s != "" {
				summary = append(summary, s)
			}
			continue
		}

		flushSummary()
		title := unbold(inlineText(h, src))
		switch h.Level {
		case 1:
			mainSaga = &sagatree.MainSaga{Title: title, Category: sagatree.Categorize(title)}
			mains = append(mains, mainSaga)
			saga, arc = nil, nil
		case 2:
			arc = nil
			if mainSaga == nil {
				saga = nil
				continue
			}
			saga = &sagatree.Saga{Title: title}
			mainSaga.AddSaga(saga)
		case 3:
			if saga == nil {
				arc = nil
				continue
			}
			arc = &sagatree.Arc{Title: title}
			saga.AddArc(arc)
		}
	}
	flushSummary()

	return mains, nil
}

// unbold strips the __title__ emphasis the writer puts around headings when
// the parser left it in place.
func unbold(s string) string {
	if len(s) > 4 && strings.HasPrefix(s, "__") && strings.HasSuffix(s, "__") {
		return s[2 : len(s)-2]
	}
	return s
}

// inlineText concatenates the text segments under n.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

// blockSource returns the verbatim source spanned by a block node.
func blockSource(n ast.Node, src []byte) string {
	start, stop := -1, -1
	var visit func(ast.Node)
	visit = func(n ast.Node) {
		if n.Type() == ast.TypeBlock {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				if start < 0 || seg.Start < start {
					start = seg.Start
				}
				if seg.Stop > stop {
					stop = seg.Stop
				}
			}
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			visit(c)
		}
	}
	visit(n)
	if start < 0 || stop <= start {
		return ""
	}
	return strings.TrimSpace(string(src[start:stop]))
}
