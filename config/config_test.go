package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `data:
  addr: ":50051"
  csv_path: "testdata/meterusage.csv"
gateway:
  addr: ":8000"
  data_url: "http://localhost:50051"
  static_dir: "web"
metrics:
  prometheus_enabled: true
  prometheus_addr: ":9101"
announce:
  enabled: true
  broker: "tcp://localhost:1883"
  topic: "meterd/dataset"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"data.addr", cfg.Data.Addr, ":50051"},
		{"data.csv_path", cfg.Data.CSVPath, "testdata/meterusage.csv"},
		{"gateway.addr", cfg.Gateway.Addr, ":8000"},
		{"gateway.data_url", cfg.Gateway.DataURL, "http://localhost:50051"},
		{"gateway.static_dir", cfg.Gateway.StaticDir, "web"},
		{"metrics.prometheus_enabled", cfg.Metrics.PrometheusEnabled, true},
		{"metrics.prometheus_addr", cfg.Metrics.PrometheusAddr, ":9101"},
		{"announce.enabled", cfg.Announce.Enabled, true},
		{"announce.broker", cfg.Announce.Broker, "tcp://localhost:1883"},
		{"announce.topic", cfg.Announce.Topic, "meterd/dataset"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("data:\n  csv_path: \"meterusage.csv\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Data.Addr != ":50051" {
		t.Errorf("data addr default: %q", cfg.Data.Addr)
	}
	if cfg.Gateway.Addr != ":8000" || cfg.Gateway.DataURL != "http://localhost:50051" {
		t.Errorf("gateway defaults: %+v", cfg.Gateway)
	}
	if cfg.Metrics.PrometheusAddr != ":9100" {
		t.Errorf("metrics default addr: %q", cfg.Metrics.PrometheusAddr)
	}
	if cfg.Announce.ClientID != "meterd" {
		t.Errorf("announce default client id: %q", cfg.Announce.ClientID)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "data:\n  addr: \":50051\"\n  csv_path: \"meterusage.csv\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("METERD_DATA__ADDR", ":50099")
	t.Setenv("METERD_GATEWAY__STATIC_DIR", "web")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Data.Addr != ":50099" {
		t.Errorf("env override missed: data addr = %q", cfg.Data.Addr)
	}
	if cfg.Gateway.StaticDir != "web" {
		t.Errorf("env override missed: static dir = %q", cfg.Gateway.StaticDir)
	}
	if cfg.Data.CSVPath != "meterusage.csv" {
		t.Errorf("file value clobbered: csv_path = %q", cfg.Data.CSVPath)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestLoadInvalidAnnounce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("announce:\n  enabled: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for enabled announce without broker")
	}
}
