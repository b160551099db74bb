package render

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/sagadocs/internal/sagatree"
)

// Mode controls what happens when several main sagas route to one file.
type Mode string

const (
	// ModeOverwrite keeps only the last main saga written to a file.
	ModeOverwrite Mode = "overwrite"
	// ModeAppend concatenates main sagas in document order.
	ModeAppend Mode = "append"
)

// WrittenFile describes one markdown document on disk.
type WrittenFile struct {
	Path      string
	Category  sagatree.Category
	MainSagas []string
}

// Writer serializes saga trees into the output directory.
type Writer struct {
	dir  string
	mode Mode
	log  *slog.Logger
}

func NewWriter(dir string, mode Mode, log *slog.Logger) *Writer {
	if mode != ModeAppend {
		mode = ModeOverwrite
	}
	return &Writer{dir: dir, mode: mode, log: log}
}

// RenderMainSaga writes one main saga as markdown.
func RenderMainSaga(w io.Writer, m *sagatree.MainSaga) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# __%s__\n", m.Title)
	for _, s := range m.Sagas {
		fmt.Fprintf(&buf, "\n## %s\n", s.Title)
		for _, a := range s.Arcs {
			fmt.Fprintf(&buf, "\n### __%s__\n\n", a.Title)
			buf.WriteString(a.Summary)
			buf.WriteString("\n")
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Write routes each main saga to its category's file and writes the files.
// The output directory must already exist.
func (w *Writer) Write(mains []*sagatree.MainSaga) ([]WrittenFile, error) {
	info, err := os.Stat(w.dir)
	if err != nil {
		return nil, fmt.Errorf("output directory %s: %w", w.dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output directory %s: not a directory", w.dir)
	}

	type pending struct {
		file WrittenFile
		buf  bytes.Buffer
	}
	var order []string
	byName := make(map[string]*pending)

	for _, m := range mains {
		name, ok := m.Category.Filename()
		if !ok {
			w.log.Warn("main saga has no output category, skipping", "title", m.Title)
			continue
		}
		p, seen := byName[name]
		if !seen {
			p = &pending{file: WrittenFile{Path: filepath.Join(w.dir, name), Category: m.Category}}
			byName[name] = p
			order = append(order, name)
		}
		if w.mode == ModeOverwrite && p.buf.Len() > 0 {
			w.log.Warn("main saga replaces earlier content", "file", name, "replaced", p.file.MainSagas, "title", m.Title)
			p.buf.Reset()
			p.file.MainSagas = nil
		}
		if err := RenderMainSaga(&p.buf, m); err != nil {
			return nil, fmt.Errorf("render %s: %w", m.Title, err)
		}
		p.file.MainSagas = append(p.file.MainSagas, m.Title)
	}

	written := make([]WrittenFile, 0, len(order))
	for _, name := range order {
		p := byName[name]
		if err := os.WriteFile(p.file.Path, p.buf.Bytes(), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", p.file.Path, err)
		}
		written = append(written, p.file)
	}
	return written, nil
}
