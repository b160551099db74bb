package sagatree

import (
	"fmt"
	"io"
	"strings"
)

// Arc is a single story unit. Summary stays empty until the arc page is fetched.
type Arc struct {
	Title   string `yaml:"title" json:"title"`
	URL     string `yaml:"url,omitempty" json:"url,omitempty"`
	Summary string `yaml:"summary,omitempty" json:"summary,omitempty"`
}

// Saga groups arcs in document order.
type Saga struct {
	Title string `yaml:"title" json:"title"`
	Arcs  []*Arc `yaml:"arcs" json:"arcs"`
}

// MainSaga is the top-level grouping on the chapters page.
type MainSaga struct {
	Title    string   `yaml:"title" json:"title"`
	Category Category `yaml:"category" json:"category"`
	Sagas    []*Saga  `yaml:"sagas" json:"sagas"`
}

// AddSaga appends s to the main saga.
func (m *MainSaga) AddSaga(s *Saga) {
	m.Sagas = append(m.Sagas, s)
}

// AddArc appends a to the saga.
func (s *Saga) AddArc(a *Arc) {
	s.Arcs = append(s.Arcs, a)
}

// Totals summarizes the size of a discovered tree.
type Totals struct {
	MainSagas int
	Sagas     int
	Arcs      int
}

// Counts walks the tree and returns node totals per level.
func Counts(mains []*MainSaga) Totals {
	var t Totals
	for _, m := range mains {
		t.MainSagas++
		for _, s := range m.Sagas {
			t.Sagas++
			t.Arcs += len(s.Arcs)
		}
	}
	return t
}

// Arcs returns every arc of the tree in document order.
func Arcs(mains []*MainSaga) []*Arc {
	var out []*Arc
	for _, m := range mains {
		for _, s := range m.Sagas {
			out = append(out, s.Arcs...)
		}
	}
	return out
}

// PrintTree writes the indented classification trace.
func PrintTree(w io.Writer, mains []*MainSaga) error {
	var sb strings.Builder
	for _, m := range mains {
		fmt.Fprintf(&sb, "Main Saga: %s\n", m.Title)
		for _, s := range m.Sagas {
			fmt.Fprintf(&sb, "  Sub-Saga: %s\n", s.Title)
			for _, a := range s.Arcs {
				fmt.Fprintf(&sb, "    Arc: %s\n", a.Title)
			}
		}
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
