package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for explicit missing path")
	}
	if cfg.LogLevel != "info" || cfg.ChartStyle != chartStyleA {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	body := "dataDir: /tmp/cff\nlogLevel: debug\nstationType: tide\nchartStyle: b\n"
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(p)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.DataDir != "/tmp/cff" || cfg.LogLevel != "debug" || cfg.StationType != "tide" || cfg.ChartStyle != chartStyleB {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if got := cfg.storePath(); got != filepath.Join("/tmp/cff", "historic.db") {
		t.Fatalf("storePath = %q", got)
	}
}

func TestLoadConfigRejectsUnknownStyle(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte("chartStyle: z\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(p)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ChartStyle != chartStyleA {
		t.Fatalf("unknown style not reset: %q", cfg.ChartStyle)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte("dataDir: [oops\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(p); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTruncatePath(t *testing.T) {
	if got := truncatePath("", 10); got != "(none)" {
		t.Fatalf("empty = %q", got)
	}
	if got := truncatePath("/short", 10); got != "/short" {
		t.Fatalf("short = %q", got)
	}
	long := "/very/long/path/to/results/session.json"
	got := truncatePath(long, 10)
	if got != "…"+long[len(long)-10:] {
		t.Fatalf("long = %q", got)
	}
}

func TestTelemetryFileDecode(t *testing.T) {
	body := `{"chartStyle":"b","series":{"type":"river","observed":[{"dateTime":"2024-01-02T10:00:00","value":1.5}]}}`
	var tf telemetryFile
	if err := json.Unmarshal([]byte(body), &tf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tf.ChartStyle != chartStyleB || len(tf.Series.Observed) != 1 || tf.Series.Observed[0].Value != 1.5 {
		t.Fatalf("unexpected payload: %+v", tf)
	}
}
