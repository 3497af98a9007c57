package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.observeLoad(3)
	m.observeTarget("invaluable", StatusExported)
	m.observeRun(2, time.Second)
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Errorf("WriteTextfile() on nil = %v", err)
	}
	if m.Registry() != nil {
		t.Error("Registry() on nil should be nil")
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.observeLoad(4)
	m.observeTarget("liveauctioneers", StatusFailed)
	m.observeRun(7, 250*time.Millisecond)

	path := filepath.Join(t.TempDir(), "lotexport.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		"lotexport_records_loaded_total 4",
		"lotexport_warnings_total 7",
		`lotexport_target_exports_total{status="failed",target="liveauctioneers"} 1`,
		"lotexport_run_duration_seconds_count 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q", want)
		}
	}
}
