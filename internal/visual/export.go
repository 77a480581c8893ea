package visual

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/datasys-cli/internal/utils"
)

// Backend names accepted by NewRenderer.
const (
	BackendGonum   = "gonum"
	BackendGoChart = "gochart"
)

// NewRenderer picks a plotting backend by name; empty selects gonum.
func NewRenderer(backend string, widthPx, heightPx int) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendGonum:
		return NewGonumRenderer(widthPx, heightPx), nil
	case BackendGoChart, "go-chart":
		return ChartRenderer{Width: widthPx, Height: heightPx}, nil
	default:
		return nil, fmt.Errorf("unknown plot backend: %s (use %s or %s)", backend, BackendGonum, BackendGoChart)
	}
}

// FileName is a filesystem-safe PNG name for a figure.
func (f Figure) FileName() string {
	return fmt.Sprintf("%s__%s__vs__%s.png", f.Kind, slug(f.Pair.X), slug(f.Pair.Y))
}

// WriteSet writes every figure in the set into dir and returns the written paths.
func WriteSet(dir string, set Set) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create plot dir: %w", err)
	}
	var paths []string
	for i, f := range set.Figures {
		path := filepath.Join(dir, fmt.Sprintf("%02d_%s", i+1, f.FileName()))
		if err := utils.SafeWriteFile(path, f.PNG); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '.':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "col"
	}
	return out
}
