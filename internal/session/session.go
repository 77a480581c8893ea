package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KaramelBytes/datasys-cli/internal/clean"
	"github.com/KaramelBytes/datasys-cli/internal/table"
	"github.com/KaramelBytes/datasys-cli/internal/visual"
	"github.com/google/uuid"
)

// State is the position of the session in the upload/visualize/clean flow.
type State int

const (
	NoFile State = iota
	FileLoaded
	Visualizing
	Cleaning
)

func (s State) String() string {
	switch s {
	case NoFile:
		return "no_file"
	case FileLoaded:
		return "file_loaded"
	case Visualizing:
		return "visualizing"
	case Cleaning:
		return "cleaning"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrNoFile is returned for actions that need a loaded dataset.
var ErrNoFile = errors.New("no file loaded: upload a CSV file first")

// Event is a user action.
type Event interface{ event() string }

// Upload replaces the loaded dataset.
type Upload struct {
	Name string
	Data []byte
}

// Visualize plots the raw table.
type Visualize struct{}

// Clean cleans a copy of the raw table and plots the result.
type Clean struct{}

// Reset forgets the loaded dataset.
type Reset struct{}

func (Upload) event() string    { return "upload" }
func (Visualize) event() string { return "visualize" }
func (Clean) event() string     { return "clean" }
func (Reset) event() string     { return "reset" }

// Dataset is the table loaded in this session.
type Dataset struct {
	ID    string
	Name  string
	Table *table.Table
}

// View is everything the presentation needs to render the current state.
type View struct {
	State   State
	Err     error
	Dataset *Dataset

	RawPreview *table.Table

	// Set in Visualizing (raw table) and Cleaning (cleaned table).
	Scatter    *visual.Set
	Regression *visual.Set

	// Cleaning only.
	Report         clean.Report
	Cleaned        *table.Table
	CleanedPreview *table.Table
	Export         []byte
}

// HasFile reports whether a dataset is loaded.
func (v View) HasFile() bool { return v.Dataset != nil }

// Options configure a Session.
type Options struct {
	PreviewRows int
	Load        table.LoadOptions
	Clean       clean.Options
	Renderer    visual.Renderer
	Logger      *slog.Logger
}

// Session holds one user's dataset and drives the state machine. Events are
// serialized; Dispatch is safe to call from concurrent HTTP handlers.
type Session struct {
	mu   sync.Mutex
	opt  Options
	log  *slog.Logger
	view View
}

// New creates a session in NoFile. A nil Renderer selects gonum at default size.
func New(opt Options) *Session {
	if opt.PreviewRows <= 0 {
		opt.PreviewRows = 5
	}
	defaults := table.DefaultLoadOptions()
	if opt.Load.Delimiter == 0 {
		opt.Load.Delimiter = defaults.Delimiter
	}
	if opt.Load.DecimalSeparator == 0 {
		opt.Load.DecimalSeparator = defaults.DecimalSeparator
	}
	if opt.Clean.MissingThreshold == 0 {
		opt.Clean = clean.DefaultOptions()
	}
	if opt.Renderer == nil {
		opt.Renderer = visual.NewGonumRenderer(0, 0)
	}
	l := opt.Logger
	if l == nil {
		l = slog.Default()
	}
	return &Session{opt: opt, log: l, view: View{State: NoFile}}
}

// View returns the current view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Dispatch applies one event synchronously and returns the resulting view.
func (s *Session) Dispatch(ev Event) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.apply(ev)
	if next.Err != nil {
		s.log.Warn("event failed", "event", ev.event(), "state", next.State.String(), "error", next.Err)
	} else {
		s.log.Debug("event applied", "event", ev.event(), "state", next.State.String())
	}
	s.view = next
	return next
}

// Run dispatches events in order until ctx is done or events is closed,
// publishing each resulting view on the returned channel.
func (s *Session) Run(ctx context.Context, events <-chan Event) <-chan View {
	out := make(chan View)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				v := s.Dispatch(ev)
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (s *Session) apply(ev Event) View {
	cur := s.view
	switch e := ev.(type) {
	case Upload:
		return s.upload(cur, e)
	case Reset:
		return View{State: NoFile}
	case Visualize:
		if !cur.HasFile() {
			return withErr(cur, ErrNoFile)
		}
		return s.visualize(cur.Dataset)
	case Clean:
		if !cur.HasFile() {
			return withErr(cur, ErrNoFile)
		}
		return s.clean(cur.Dataset)
	}
	return withErr(cur, fmt.Errorf("unknown event %T", ev))
}

// withErr keeps the current state and attaches err.
func withErr(v View, err error) View {
	v.Err = err
	return v
}

func (s *Session) loaded(ds *Dataset) View {
	return View{State: FileLoaded, Dataset: ds, RawPreview: ds.Table.Head(s.opt.PreviewRows)}
}

func (s *Session) upload(cur View, e Upload) View {
	t, err := table.ReadCSV(bytes.NewReader(e.Data), e.Name, s.opt.Load)
	if err != nil {
		return withErr(cur, fmt.Errorf("load %s: %w", e.Name, err))
	}
	ds := &Dataset{ID: uuid.NewString(), Name: e.Name, Table: t}
	s.log.Info("dataset loaded", "dataset", ds.ID, "file", ds.Name, "rows", t.Rows(), "columns", len(t.Cols))
	return s.loaded(ds)
}

func (s *Session) visualize(ds *Dataset) View {
	v := s.loaded(ds)
	v.State = Visualizing
	sc := visual.RenderScatter(ds.Table, s.opt.Renderer)
	rg := visual.RenderRegression(ds.Table, s.opt.Renderer)
	v.Scatter, v.Regression = &sc, &rg
	return v
}

func (s *Session) clean(ds *Dataset) View {
	out, rep, err := clean.Clean(ds.Table, s.opt.Clean)
	if err != nil {
		v := s.loaded(ds)
		v.Err = fmt.Errorf("clean %s: %w", ds.Name, err)
		return v
	}
	export, err := out.CSVBytes()
	if err != nil {
		v := s.loaded(ds)
		v.Err = fmt.Errorf("export %s: %w", ds.Name, err)
		return v
	}
	s.log.Info("dataset cleaned", "dataset", ds.ID, "rows", out.Rows(), "columns", len(out.Cols), "actions", len(rep))
	v := s.loaded(ds)
	v.State = Cleaning
	v.Report = rep
	v.Cleaned = out
	v.CleanedPreview = out.Head(s.opt.PreviewRows)
	v.Export = export
	sc := visual.RenderScatter(out, s.opt.Renderer)
	rg := visual.RenderRegression(out, s.opt.Renderer)
	v.Scatter, v.Regression = &sc, &rg
	return v
}
