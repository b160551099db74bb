package wiki

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RowKind labels one row of the chapters table.
type RowKind int

const (
	RowOther RowKind = iota
	RowMainSagaHeader
	RowSagaHeader
	RowArc
)

func (k RowKind) String() string {
	switch k {
	case RowMainSagaHeader:
		return "main-saga-header"
	case RowSagaHeader:
		return "saga-header"
	case RowArc:
		return "arc-row"
	default:
		return "other"
	}
}

// mainSagaHeaderSelector matches the grey header cell that opens a main saga.
const mainSagaHeaderSelector = `th[style="background:#DADADA;"]`

// ErrMalformedHeader is returned when a header row has no hyperlink to take a title from.
var ErrMalformedHeader = errors.New("header row has no hyperlink")

// Classify labels a table row. Checks run in the order main saga header,
// saga header, arc row, so a row only ever gets one label.
func Classify(row *goquery.Selection) RowKind {
	if row.Find(mainSagaHeaderSelector).Length() > 0 {
		return RowMainSagaHeader
	}

	cells := wideCells(row)
	if cells.Length() == 0 {
		return RowOther
	}
	if cells.FilterFunction(func(_ int, td *goquery.Selection) bool { return hasBold(td) }).Length() > 0 {
		return RowSagaHeader
	}
	return RowArc
}

// wideCells returns the td elements spanning 5 or 6 columns.
func wideCells(row *goquery.Selection) *goquery.Selection {
	return row.Find("td").FilterFunction(func(_ int, td *goquery.Selection) bool {
		span, _ := td.Attr("colspan")
		return span == "5" || span == "6"
	})
}

func hasBold(s *goquery.Selection) bool {
	return s.Find("b").Length() > 0
}

// firstLink returns the first anchor under s, or an empty selection.
func firstLink(s *goquery.Selection) *goquery.Selection {
	return s.Find("a").First()
}

// headerTitle is the stripped text of the first hyperlink under s.
func headerTitle(s *goquery.Selection) (string, error) {
	a := firstLink(s)
	if a.Length() == 0 {
		return "", ErrMalformedHeader
	}
	return strings.TrimSpace(a.Text()), nil
}
