package wiki

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NoSummary is returned verbatim when an arc page has no summary anchor.
const NoSummary = "No summary found"

const (
	summaryAnchorSelector = "span#Summary"
	stopHeading           = "Story Impact"
)

// ExtractSummary reads an arc article page and returns its cleaned summary section.
func ExtractSummary(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return SummaryFromDocument(doc), nil
}

// SummaryFromDocument collects the paragraphs and h3 subheadings that follow
// the summary anchor's heading, up to the "Story Impact" h2.
func SummaryFromDocument(doc *goquery.Document) string {
	anchor := doc.Find(summaryAnchorSelector).First()
	if anchor.Length() == 0 || anchor.Nodes[0].Parent == nil {
		return NoSummary
	}

	var sb strings.Builder
walk:
	for n := anchor.Nodes[0].Parent.NextSibling; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.DataAtom {
		case atom.H2:
			if strings.Contains(rawText(n), stopHeading) {
				break walk
			}
		case atom.P:
			sb.WriteString("\n\n")
			sb.WriteString(paragraphText(n))
		case atom.H3:
			sb.WriteString("\n\n#### ")
			sb.WriteString(strings.TrimSpace(rawText(n)))
		}
	}

	return strings.TrimSpace(StripCitations(sb.String()))
}

// paragraphText joins the direct text children of p verbatim. Links get a
// leading space so their text never abuts the preceding word; other inline
// elements (footnote superscripts, styling) are dropped.
func paragraphText(p *html.Node) string {
	var sb strings.Builder
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			sb.WriteString(c.Data)
		case c.Type == html.ElementNode && c.DataAtom == atom.A:
			sb.WriteString(" ")
			sb.WriteString(rawText(c))
		}
	}
	return strings.TrimSpace(sb.String())
}

func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

// citationRun matches one or more adjacent [N] markers with the whitespace around them.
var citationRun = regexp.MustCompile(`(\s*)\[\d+\](?:\s*\[\d+\])*(\s*)`)

// StripCitations removes bracketed numeric citation markers. A run of
// markers between two words collapses to the whitespace around it; before
// punctuation or at either end of the text it disappears along with its
// whitespace.
func StripCitations(s string) string {
	for {
		out := stripCitationsOnce(s)
		if out == s {
			return out
		}
		s = out
	}
}

func stripCitationsOnce(s string) string {
	matches := citationRun.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(s[last:m[0]])
		if m[0] > 0 && m[1] < len(s) {
			leading, trailing := s[m[2]:m[3]], s[m[4]:m[5]]
			switch {
			case trailing != "":
				sb.WriteString(trailing)
			case startsWord(s[m[1]:]):
				sb.WriteString(leading)
			}
		}
		last = m[1]
	}
	sb.WriteString(s[last:])
	return sb.String()
}

// startsWord reports whether s begins with a letter or digit.
func startsWord(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
