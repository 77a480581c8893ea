package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/datasys-cli/internal/clean"
	"github.com/KaramelBytes/datasys-cli/internal/logging"
	"github.com/KaramelBytes/datasys-cli/internal/table"
	"github.com/KaramelBytes/datasys-cli/internal/visual"
)

type fakeRenderer struct{ calls int }

func (f *fakeRenderer) Scatter(visual.Pair, []float64, []float64, string) ([]byte, error) {
	f.calls++
	return []byte("png"), nil
}

func (f *fakeRenderer) Regression(visual.Pair, []float64, []float64, visual.Fit, string) ([]byte, error) {
	f.calls++
	return []byte("png"), nil
}

const sampleCSV = `a,b,label,sparse
1,10,x,
2,11,y,
3,12,x,
4,13,,
100,14,x,q
2,,y,
3,12,x,
`

func newTestSession(t *testing.T, opt Options) (*Session, *fakeRenderer) {
	t.Helper()
	r := &fakeRenderer{}
	opt.Renderer = r
	opt.Logger = logging.Discard()
	return New(opt), r
}

func TestActionsWithoutFileFail(t *testing.T) {
	s, r := newTestSession(t, Options{})
	for _, ev := range []Event{Visualize{}, Clean{}} {
		v := s.Dispatch(ev)
		if !errors.Is(v.Err, ErrNoFile) {
			t.Fatalf("%T err = %v, want ErrNoFile", ev, v.Err)
		}
		if v.State != NoFile {
			t.Fatalf("state = %v, want NoFile", v.State)
		}
	}
	if r.calls != 0 {
		t.Fatalf("renderer called %d times", r.calls)
	}
}

func TestUploadLoadsPreview(t *testing.T) {
	s, _ := newTestSession(t, Options{PreviewRows: 3})
	v := s.Dispatch(Upload{Name: "data.csv", Data: []byte(sampleCSV)})
	if v.Err != nil {
		t.Fatalf("upload: %v", v.Err)
	}
	if v.State != FileLoaded || v.Dataset == nil || v.Dataset.ID == "" {
		t.Fatalf("view = %+v", v)
	}
	if v.RawPreview.Rows() != 3 || v.Dataset.Table.Rows() != 7 {
		t.Fatalf("preview rows = %d, table rows = %d", v.RawPreview.Rows(), v.Dataset.Table.Rows())
	}
}

func TestNewKeepsCallerDecimalSeparator(t *testing.T) {
	s, _ := newTestSession(t, Options{Load: table.LoadOptions{DecimalSeparator: ','}})
	v := s.Dispatch(Upload{Name: "eu.csv", Data: []byte("price,qty\n\"1,5\",2\n\"2,25\",3\n")})
	if v.Err != nil {
		t.Fatalf("upload: %v", v.Err)
	}
	c, ok := v.Dataset.Table.Column("price")
	if !ok || c.Kind != table.Numeric || c.Nums[0] != 1.5 || c.Nums[1] != 2.25 {
		t.Fatalf("price = %+v", c)
	}
}

func TestBadUploadKeepsState(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	first := s.Dispatch(Upload{Name: "ok.csv", Data: []byte(sampleCSV)})
	v := s.Dispatch(Upload{Name: "bad.csv", Data: []byte("a,b\n1,2,3\n")})
	if !errors.Is(v.Err, table.ErrRaggedRow) {
		t.Fatalf("err = %v, want ErrRaggedRow", v.Err)
	}
	if v.State != FileLoaded || v.Dataset.ID != first.Dataset.ID {
		t.Fatalf("dataset replaced after failed upload: %+v", v)
	}

	empty := New(Options{Renderer: &fakeRenderer{}, Logger: logging.Discard()})
	if v := empty.Dispatch(Upload{Name: "e.csv"}); v.Err == nil || v.State != NoFile {
		t.Fatalf("empty upload view = %+v", v)
	}
}

func TestVisualizeUsesRawTable(t *testing.T) {
	s, r := newTestSession(t, Options{})
	s.Dispatch(Upload{Name: "d.csv", Data: []byte(sampleCSV)})
	v := s.Dispatch(Visualize{})
	if v.Err != nil || v.State != Visualizing {
		t.Fatalf("view = %+v", v)
	}
	// numeric: a, b (sparse is categorical because of "q")
	if len(v.Scatter.Figures) != 1 || len(v.Regression.Figures) != 1 || r.calls != 2 {
		t.Fatalf("figures %d/%d calls %d", len(v.Scatter.Figures), len(v.Regression.Figures), r.calls)
	}
	if v.Export != nil || v.Report != nil {
		t.Fatalf("visualize should not produce export or report")
	}
}

func TestCleanIsRecomputedFromRaw(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Dispatch(Upload{Name: "d.csv", Data: []byte(sampleCSV)})
	first := s.Dispatch(Clean{})
	if first.Err != nil || first.State != Cleaning {
		t.Fatalf("clean: %+v", first)
	}
	second := s.Dispatch(Clean{})
	if strings.Join(first.Report, "\n") != strings.Join(second.Report, "\n") {
		t.Fatalf("reports differ:\n%v\n%v", first.Report, second.Report)
	}
	if string(first.Export) != string(second.Export) {
		t.Fatalf("exports differ")
	}
	if second.Dataset.Table.Rows() != 7 {
		t.Fatalf("raw table mutated: %d rows", second.Dataset.Table.Rows())
	}
	if second.Cleaned.NullCount() != 0 {
		t.Fatalf("cleaned table has nulls")
	}
	if !strings.HasPrefix(string(second.Export), "a,b,label\n") {
		t.Fatalf("export header: %q", second.Export)
	}
	found := false
	for _, line := range second.Report {
		if line == "Column 'sparse' dropped (missing: 86%)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("report = %v", second.Report)
	}
}

func TestCleanFailureReturnsToFileLoaded(t *testing.T) {
	s, _ := newTestSession(t, Options{Clean: clean.Options{MissingThreshold: 1}})
	s.Dispatch(Upload{Name: "n.csv", Data: []byte("a,b\n1,\n2,\n")})
	s.Dispatch(Visualize{})
	v := s.Dispatch(Clean{})
	if !errors.Is(v.Err, clean.ErrAllNullColumn) {
		t.Fatalf("err = %v", v.Err)
	}
	if v.State != FileLoaded || v.Export != nil {
		t.Fatalf("view = %+v", v)
	}
}

func TestReset(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.Dispatch(Upload{Name: "d.csv", Data: []byte(sampleCSV)})
	v := s.Dispatch(Reset{})
	if v.State != NoFile || v.HasFile() {
		t.Fatalf("view = %+v", v)
	}
	if s.View().State != NoFile {
		t.Fatalf("stored view not reset")
	}
}

func TestRunPublishesViewsInOrder(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events := make(chan Event, 3)
	events <- Upload{Name: "d.csv", Data: []byte(sampleCSV)}
	events <- Visualize{}
	events <- Clean{}
	close(events)

	var states []State
	for v := range s.Run(ctx, events) {
		states = append(states, v.State)
	}
	want := []State{FileLoaded, Visualizing, Cleaning}
	if len(states) != len(want) {
		t.Fatalf("states = %v", states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("states = %v, want %v", states, want)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	out := s.Run(ctx, make(chan Event))
	cancel()
	select {
	case _, ok := <-out:
		if ok {
			t.Fatalf("unexpected view")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop")
	}
}
