package wiki

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dgallion1/sagadocs/internal/sagatree"
)

// DropReason explains why a table entry did not make it into the tree.
type DropReason string

const (
	DropNoTitle    DropReason = "no_title"     // arc cell without a resolvable title
	DropNoSaga     DropReason = "no_saga"      // more arc columns than open sagas
	DropNoOpenSaga DropReason = "no_open_saga" // arc row before any saga header
	DropNoMainSaga DropReason = "no_main_saga" // sagas left open with no main saga to own them
)

// Dropped is one table entry that was skipped during discovery.
type Dropped struct {
	Row    int        `yaml:"row" json:"row"`
	Column int        `yaml:"column" json:"column"`
	Title  string     `yaml:"title,omitempty" json:"title,omitempty"`
	Reason DropReason `yaml:"reason" json:"reason"`
}

// Report lists what discovery kept out of the tree.
type Report struct {
	Dropped []Dropped `yaml:"dropped" json:"dropped"`
	// Flagged holds main saga titles whose category could not be determined.
	Flagged []string `yaml:"flagged" json:"flagged"`
}

// Discovery is the table of contents before any arc page is fetched.
type Discovery struct {
	MainSagas []*sagatree.MainSaga
	Report    Report
}

// DiscoverReader parses a chapters page and discovers its saga tree.
func DiscoverReader(r io.Reader, origin string) (*Discovery, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return Discover(doc, origin)
}

// Discover walks every table row of doc in order and assembles the
// MainSaga → Saga → Arc tree. Arc URLs are origin joined with the arc link's
// href; summaries are left empty.
func Discover(doc *goquery.Document, origin string) (*Discovery, error) {
	w := &walker{origin: strings.TrimSuffix(origin, "/")}

	var walkErr error
	doc.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if err := w.visit(i, row); err != nil {
			walkErr = err
			return false
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	w.finish()

	return &Discovery{MainSagas: w.result, Report: w.report}, nil
}

type walker struct {
	origin string

	result    []*sagatree.MainSaga
	current   *sagatree.MainSaga
	openSagas []*sagatree.Saga
	report    Report
}

func (w *walker) visit(idx int, row *goquery.Selection) error {
	switch Classify(row) {
	case RowMainSagaHeader:
		title, err := headerTitle(row)
		if err != nil {
			return fmt.Errorf("row %d: main saga: %w", idx, err)
		}
		if w.current != nil {
			w.seal()
		}
		w.current = &sagatree.MainSaga{Title: title, Category: sagatree.Categorize(title)}

	case RowSagaHeader:
		var err error
		wideCells(row).EachWithBreak(func(_ int, td *goquery.Selection) bool {
			if !hasBold(td) {
				return true
			}
			var title string
			title, err = headerTitle(td)
			if err != nil {
				err = fmt.Errorf("row %d: saga: %w", idx, err)
				return false
			}
			w.openSagas = append(w.openSagas, &sagatree.Saga{Title: title})
			return true
		})
		return err

	case RowArc:
		w.visitArcs(idx, row)
	}
	return nil
}

func (w *walker) visitArcs(idx int, row *goquery.Selection) {
	wideCells(row).Each(func(col int, td *goquery.Selection) {
		if hasBold(td) {
			return
		}
		link := firstLink(td)
		title := strings.TrimSpace(link.Text())
		if link.Length() == 0 || title == "" {
			if len(w.openSagas) > 0 {
				w.drop(idx, col, "", DropNoTitle)
			}
			return
		}
		switch {
		case len(w.openSagas) == 0:
			w.drop(idx, col, title, DropNoOpenSaga)
		case col >= len(w.openSagas):
			w.drop(idx, col, title, DropNoSaga)
		default:
			href, _ := link.Attr("href")
			w.openSagas[col].AddArc(&sagatree.Arc{Title: title, URL: w.arcURL(href)})
		}
	})
}

func (w *walker) arcURL(href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	default:
		return w.origin + href
	}
}

// seal attaches the open sagas to the current main saga and closes it.
func (w *walker) seal() {
	for _, s := range w.openSagas {
		w.current.AddSaga(s)
	}
	w.openSagas = nil
	if w.current.Category == sagatree.CategoryUnknown {
		w.report.Flagged = append(w.report.Flagged, w.current.Title)
	}
	w.result = append(w.result, w.current)
	w.current = nil
}

func (w *walker) finish() {
	if w.current != nil {
		w.seal()
		return
	}
	for _, s := range w.openSagas {
		w.drop(-1, -1, s.Title, DropNoMainSaga)
	}
	w.openSagas = nil
}

func (w *walker) drop(row, col int, title string, reason DropReason) {
	w.report.Dropped = append(w.report.Dropped, Dropped{Row: row, Column: col, Title: title, Reason: reason})
}
