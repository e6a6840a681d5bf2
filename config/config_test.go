package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sol-surfer-ai/agent-core/fetch"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
gateways = ["https://gw1.example/ipfs/{cid}", "https://gw2.example/ipfs/"]
hedge_delay = "750ms"
max_bytes = 1048576
backend = "localfs"
localfs_dir = "/tmp/agent-core-store"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.Gateways) != 2 {
		t.Fatalf("unexpected gateways: %+v", cfg.Gateways)
	}
	if cfg.HedgeDelay != 750*time.Millisecond {
		t.Fatalf("unexpected hedge delay: %v", cfg.HedgeDelay)
	}
	if cfg.Timeout != fetch.DefaultTimeout {
		t.Fatalf("timeout should keep the default, got %v", cfg.Timeout)
	}
	if cfg.MaxBytes != 1048576 {
		t.Fatalf("unexpected max bytes: %d", cfg.MaxBytes)
	}
	if cfg.Backend != "localfs" || cfg.LocalFSDir != "/tmp/agent-core-store" {
		t.Fatalf("unexpected backend config: %q %q", cfg.Backend, cfg.LocalFSDir)
	}
}

func TestLoadHedgeDelayMillis(t *testing.T) {
	path := writeConfig(t, `
backend = "grpc"
grpc_target = "127.0.0.1:7040"
grpc_timeout = "3s"
hedge_delay_ms = 250
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HedgeDelay != 250*time.Millisecond {
		t.Fatalf("unexpected hedge delay: %v", cfg.HedgeDelay)
	}
	if cfg.GRPCTarget != "127.0.0.1:7040" || cfg.GRPCTimeout != 3*time.Second {
		t.Fatalf("unexpected grpc config: %q %v", cfg.GRPCTarget, cfg.GRPCTimeout)
	}
}

func TestValidateRejectsInconsistentBackends(t *testing.T) {
	cases := []Config{
		{Backend: "localfs"},
		{Backend: "grpc"},
		{Backend: "gateway"},
		{Backend: "carrier-pigeon"},
		{},
	}
	for i, cfg := range cases {
		if err := Validate(cfg); err == nil {
			t.Fatalf("case %d: Validate should have failed", i)
		}
	}
}

func TestOpenCASLocalFS(t *testing.T) {
	cfg := Default()
	cfg.LocalFSDir = t.TempDir()

	cas, closeFn, err := cfg.OpenCAS()
	if err != nil {
		t.Fatalf("OpenCAS: %v", err)
	}
	if cas == nil {
		t.Fatalf("OpenCAS returned nil CAS")
	}
	if closeFn != nil {
		if err := closeFn(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
}
