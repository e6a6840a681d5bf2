// Package config loads the client TOML configuration: gateway sources for
// hedged retrieval and the CAS backend to write through.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/sol-surfer-ai/agent-core/fetch"
	"github.com/sol-surfer-ai/agent-core/storage"
	"github.com/sol-surfer-ai/agent-core/storage/gatewaycas"
	"github.com/sol-surfer-ai/agent-core/storage/grpccas"
	"github.com/sol-surfer-ai/agent-core/storage/localfs"
)

// Config is the resolved client configuration.
type Config struct {
	// Gateways is the ordered list of gateway URL templates for retrieval.
	Gateways []string
	// HedgeDelay is the head start each gateway gets before the next is
	// started alongside it.
	HedgeDelay time.Duration
	// Timeout bounds each gateway attempt.
	Timeout time.Duration
	// MaxBytes bounds each fetched object.
	MaxBytes int64

	// Backend selects the writable CAS: "localfs", "grpc" or "gateway".
	Backend string
	// LocalFSDir is the store directory for the localfs backend.
	LocalFSDir string
	// GRPCTarget is the host:port of a CAS gRPC daemon for the grpc backend.
	GRPCTarget string
	// GRPCTimeout caps each RPC for the grpc backend when non-zero.
	GRPCTimeout time.Duration
	// GRPCMaxMsgBytes sets the gRPC send/recv size limit when non-zero.
	GRPCMaxMsgBytes int
}

// Default returns the configuration used when no file overrides apply.
func Default() Config {
	return Config{
		HedgeDelay: fetch.DefaultHedgeDelay,
		Timeout:    fetch.DefaultTimeout,
		MaxBytes:   fetch.DefaultMaxBytes,
		Backend:    "localfs",
	}
}

type fileConfig struct {
	Gateways        []string `toml:"gateways"`
	HedgeDelay      string   `toml:"hedge_delay"`
	HedgeDelayMS    int64    `toml:"hedge_delay_ms"`
	Timeout         string   `toml:"timeout"`
	MaxBytes        int64    `toml:"max_bytes"`
	Backend         string   `toml:"backend"`
	LocalFSDir      string   `toml:"localfs_dir"`
	GRPCTarget      string   `toml:"grpc_target"`
	GRPCTimeout     string   `toml:"grpc_timeout"`
	GRPCMaxMsgBytes int      `toml:"grpc_max_msg_bytes"`
}

// Load reads the TOML file at path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("gateways") {
		cfg.Gateways = normalizeGateways(raw.Gateways)
	}
	if meta.IsDefined("hedge_delay") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.HedgeDelay))
		if err != nil {
			return Config{}, fmt.Errorf("parse hedge_delay: %w", err)
		}
		cfg.HedgeDelay = d
	}
	if meta.IsDefined("hedge_delay_ms") {
		cfg.HedgeDelay = time.Duration(raw.HedgeDelayMS) * time.Millisecond
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if meta.IsDefined("max_bytes") {
		cfg.MaxBytes = raw.MaxBytes
	}
	if meta.IsDefined("backend") {
		cfg.Backend = strings.TrimSpace(raw.Backend)
	}
	if meta.IsDefined("localfs_dir") {
		cfg.LocalFSDir = strings.TrimSpace(raw.LocalFSDir)
	}
	if meta.IsDefined("grpc_target") {
		cfg.GRPCTarget = strings.TrimSpace(raw.GRPCTarget)
	}
	if meta.IsDefined("grpc_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.GRPCTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse grpc_timeout: %w", err)
		}
		cfg.GRPCTimeout = d
	}
	if meta.IsDefined("grpc_max_msg_bytes") {
		cfg.GRPCMaxMsgBytes = raw.GRPCMaxMsgBytes
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field consistency.
func Validate(cfg Config) error {
	switch cfg.Backend {
	case "localfs":
		if cfg.LocalFSDir == "" {
			return fmt.Errorf("config: backend localfs requires localfs_dir")
		}
	case "grpc":
		if cfg.GRPCTarget == "" {
			return fmt.Errorf("config: backend grpc requires grpc_target")
		}
	case "gateway":
		if len(cfg.Gateways) == 0 {
			return fmt.Errorf("config: backend gateway requires gateways")
		}
	case "":
		return fmt.Errorf("config: backend is required")
	default:
		return fmt.Errorf("config: unknown backend %q", cfg.Backend)
	}
	if cfg.HedgeDelay < 0 || cfg.Timeout < 0 || cfg.MaxBytes < 0 {
		return fmt.Errorf("config: negative limits are not allowed")
	}
	return nil
}

// Fetcher builds the hedged gateway fetcher described by cfg.
func (cfg Config) Fetcher(opts fetch.Options) *fetch.Fetcher {
	opts.HedgeDelay = cfg.HedgeDelay
	opts.Timeout = cfg.Timeout
	opts.MaxBytes = cfg.MaxBytes
	return fetch.New(cfg.Gateways, opts)
}

// OpenCAS opens the configured CAS backend. The close function may be nil.
func (cfg Config) OpenCAS() (storage.CAS, func() error, error) {
	switch cfg.Backend {
	case "localfs":
		cas, err := localfs.New(cfg.LocalFSDir)
		return cas, nil, err
	case "grpc":
		client, err := grpccas.Dial(cfg.GRPCTarget, grpccas.DialOptions{MaxMsgBytes: cfg.GRPCMaxMsgBytes})
		if err != nil {
			return nil, nil, err
		}
		client.Timeout = cfg.GRPCTimeout
		return client, client.Close, nil
	case "gateway":
		return gatewaycas.New(cfg.Fetcher(fetch.Options{})), nil, nil
	default:
		return nil, nil, fmt.Errorf("config: unknown backend %q", cfg.Backend)
	}
}

func normalizeGateways(in []string) []string {
	out := make([]string, 0, len(in))
	for _, g := range in {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
