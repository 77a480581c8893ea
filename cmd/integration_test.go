package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/datasys-cli/internal/logging"
	"github.com/KaramelBytes/datasys-cli/internal/session"
	"github.com/KaramelBytes/datasys-cli/internal/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runCmd is a helper to execute the root command with args and capture its output.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func execCmd(args ...string) (string, error) {
	// Reset sticky flags that may persist across invocations
	clnPreview = false
	clnReportPath = ""
	visClean = false
	visBackend = ""
	visKinds = []string{"scatter", "regression"}
	descOutputPath = ""
	cfgFile = ""
	cfg = nil
	for _, c := range []*cobra.Command{describeCmd, cleanCmd, visualizeCmd} {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeCSV(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

const peopleCSV = `age,income,city,score
25,100,,1.5
30,,,2.5
35,110,,3.5
40,120,,4.5
,130,Paris,900
28,140,,2.0
33,150,,3.0
31,160,,2.8
29,170,,2.2
36,180,,3.1
`

func TestCLI_Describe(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "people.csv", peopleCSV)
	out := runCmd(t, "describe", path)
	for _, want := range []string{"[DATASET SUMMARY]", "Rows: 10", "- city: categorical", "- age: numeric"} {
		if !strings.Contains(out, want) {
			t.Fatalf("describe output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_CleanWritesExportAndReport(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "people.csv", peopleCSV)
	outPath := filepath.Join(dir, "out", table.ExportFileName)
	repPath := filepath.Join(dir, "report.txt")
	out := runCmd(t, "clean", path, "-o", outPath, "--report", repPath)

	if !strings.Contains(out, "Column 'city' dropped (missing: 90%)") {
		t.Fatalf("report missing drop entry:\n%s", out)
	}
	if !strings.Contains(out, "Removed 1 outliers from column 'score'") {
		t.Fatalf("report missing outlier entry:\n%s", out)
	}
	rep, err := os.ReadFile(repPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(rep), "• Filled numeric column 'income' with mean: 140.00\n• Column 'city' dropped") {
		t.Fatalf("report file = %q", rep)
	}

	cleaned, err := table.LoadCSV(outPath, table.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("reload export: %v", err)
	}
	if len(cleaned.Cols) != 3 || cleaned.NullCount() != 0 {
		t.Fatalf("cleaned cols=%v nulls=%d", cleaned.Names(), cleaned.NullCount())
	}
	if cleaned.Rows() != 9 {
		t.Fatalf("cleaned rows = %d, want 9", cleaned.Rows())
	}
}

func TestCLI_VisualizeWritesPNGs(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "people.csv", peopleCSV)
	plots := filepath.Join(dir, "plots")
	out := runCmd(t, "visualize", path, "--clean", "--out-dir", plots)
	if !strings.Contains(out, "Wrote 6 figures") {
		t.Fatalf("visualize output:\n%s", out)
	}
	entries, err := os.ReadDir(plots)
	if err != nil {
		t.Fatalf("read plots dir: %v", err)
	}
	if len(entries) != 6 {
		t.Fatalf("plots = %d, want 6", len(entries))
	}
}

func TestCLI_VisualizeRejectsUnknownKind(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "people.csv", peopleCSV)
	if _, err := execCmd("visualize", path, "--kind", "heatmap", "--out-dir", filepath.Join(dir, "p")); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestCLI_CleanAllNullColumnIsNotFatalAtDefaultThreshold(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "n.csv", "a,b\n1,\n2,\n3,\n")
	out := runCmd(t, "clean", path, "-o", filepath.Join(dir, "c.csv"))
	if !strings.Contains(out, "Column 'b' dropped (missing: 100%)") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestCLI_MalformedCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "bad.csv", "a,b\n1,2,3\n")
	_, err := execCmd("describe", path)
	if err == nil || !strings.Contains(err.Error(), "row has more fields than header") {
		t.Fatalf("err = %v", err)
	}
}

func TestServePreloadUsesBaseName(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "people.csv", peopleCSV)
	sess := session.New(session.Options{Logger: logging.Discard()})
	if err := preload(sess, path); err != nil {
		t.Fatalf("preload: %v", err)
	}
	v := sess.View()
	if v.State != session.FileLoaded || v.Dataset.Name != "people.csv" {
		t.Fatalf("state=%v name=%q", v.State, v.Dataset.Name)
	}
	if err := preload(sess, filepath.Join(dir, "missing.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	runCmd(t, "config", "set", "plot_backend", "gochart", "--config", cfgPath)
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	if _, err := execCmd("config", "set", "nope", "1", "--config", cfgPath); err == nil {
		t.Fatalf("expected unknown key error")
	}
	cfg = nil
	loadCfgForTest(t, cfgPath)
	rootCmd.SetArgs([]string{"config", "show", "--config", cfgPath})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(buf.String(), "plot_backend: gochart") {
		t.Fatalf("config show:\n%s", buf.String())
	}
}

func loadCfgForTest(t *testing.T, path string) {
	t.Helper()
	cfgFile = path
	envFile = filepath.Join(filepath.Dir(path), ".env")
	loadConfig()
	if cfg == nil {
		t.Fatalf("config not loaded from %s", path)
	}
}
