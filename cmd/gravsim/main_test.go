package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/storage"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootDefaultFirstStep(t *testing.T) {
	out, _, err := execute(t, "--steps", "1")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := "Planeta 1 - Posição: (19395489792.00, 19395489792.00, 19395489792.00) Velocidade: (193954889728.00, 193954889728.00, 193954889728.00)\n" +
		"Planeta 2 - Posição: (-6550794752.00, -6550794752.00, -6550794752.00) Velocidade: (-65507946496.00, -65507946496.00, -65507946496.00)\n" +
		"Tempo 0.1\n"
	if out != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", out, want)
	}
}

func TestRunZeroSteps(t *testing.T) {
	out, _, err := execute(t, "run", "--steps", "0")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "" {
		t.Errorf("expected no output, got %q", out)
	}
}

func TestRunInvalidDt(t *testing.T) {
	if _, _, err := execute(t, "run", "--dt", "0", "--steps", "1"); err == nil {
		t.Error("expected error for zero dt")
	}
}

func TestRunUnknownPreset(t *testing.T) {
	if _, _, err := execute(t, "run", "--preset", "nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestRunValidateCoincident(t *testing.T) {
	_, _, err := execute(t, "run", "--preset", "coincident", "--validate", "--format", "none")
	if err == nil {
		t.Error("expected degenerate state error")
	}
}

func TestRunCSV(t *testing.T) {
	out, _, err := execute(t, "run", "--steps", "3", "--format", "csv")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "step,time,") {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestConfigFileAndFlagOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := config.DefaultConfig()
	cfg.Steps = 5
	cfg.ReportEvery = 5
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "run", "--config", path)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if n := strings.Count(out, "Tempo "); n != 1 {
		t.Errorf("expected 1 report, got %d", n)
	}

	out, _, err = execute(t, "run", "--config", path, "--every", "1")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if n := strings.Count(out, "Tempo "); n != 5 {
		t.Errorf("expected 5 reports with flag override, got %d", n)
	}
}

func TestSaveListExport(t *testing.T) {
	dataDir := t.TempDir()

	_, status, err := execute(t, "run", "--data", dataDir, "--steps", "20", "--format", "none", "--save")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(status, "run id: ") {
		t.Fatalf("missing run id in status: %q", status)
	}

	runs, err := storage.New(dataDir).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	id := runs[0].ID

	out, _, err := execute(t, "list", "--data", dataDir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, id) {
		t.Errorf("list output missing %s:\n%s", id, out)
	}

	out, _, err = execute(t, "export-csv", "--data", dataDir, id)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(strings.Split(strings.TrimSpace(out), "\n")); n != 21 {
		t.Errorf("expected 21 csv lines, got %d", n)
	}

	out, _, err = execute(t, "export-json", "--data", dataDir, id)
	if err != nil {
		t.Fatal(err)
	}
	var data storage.ExportData
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(data.Times) != 20 {
		t.Errorf("expected 20 samples, got %d", len(data.Times))
	}

	if _, _, err := execute(t, "summary", "--data", dataDir, id); err != nil {
		t.Errorf("summary: %v", err)
	}
	out, _, err = execute(t, "export-svg", "--data", dataDir, "--width", "200", "--height", "200", id)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<svg") {
		t.Error("export-svg did not write an svg document")
	}

	if _, _, err := execute(t, "plot", "--data", dataDir, id); err != nil {
		t.Errorf("plot: %v", err)
	}
}

func TestPresetWithConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.yaml")
	if err := os.WriteFile(path, []byte("steps: 1\nreport_every: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "run", "--preset", "binary", "--config", path)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if n := strings.Count(out, "Tempo "); n != 1 {
		t.Fatalf("expected 1 report, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "Planeta 2 - Posição: (10000000.00, 0.00, 0.00)") {
		t.Errorf("binary preset bodies not kept:\n%s", out)
	}
}

func TestPlotNonFiniteRun(t *testing.T) {
	dataDir := t.TempDir()

	_, _, err := execute(t, "run", "--data", dataDir, "--preset", "coincident", "--format", "none", "--save")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	runs, err := storage.New(dataDir).List()
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected 1 saved run, got %d (%v)", len(runs), err)
	}

	out, _, err := execute(t, "plot", "--data", dataDir, runs[0].ID)
	if err == nil || !strings.Contains(err.Error(), "no finite data") {
		t.Errorf("expected no finite data error, got %v", err)
	}
	if strings.Contains(out, "-9223372036854775808") {
		t.Errorf("plot printed a broken axis:\n%s", out)
	}
}

func TestLoadMissingRun(t *testing.T) {
	dataDir := t.TempDir()
	if _, _, err := execute(t, "summary", "--data", dataDir, "missing"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestPresets(t *testing.T) {
	out, _, err := execute(t, "presets")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range config.ListPresets() {
		if !strings.Contains(out, name) {
			t.Errorf("presets output missing %s", name)
		}
	}
}

func TestSweep(t *testing.T) {
	out, _, err := execute(t, "sweep", "--steps", "10", "--dts", "0.05,0.1", "--metric", "min_separation")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got:\n%s", out)
	}
	if !strings.Contains(out, "*") {
		t.Error("best trial not marked")
	}

	if _, _, err := execute(t, "sweep", "--steps", "10"); err == nil {
		t.Error("expected error with no sweep ranges")
	}
}
