package gatewaycas

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/sol-surfer-ai/agent-core/fetch"
	"github.com/sol-surfer-ai/agent-core/storage"
	"github.com/sol-surfer-ai/agent-core/storage/casregistry"
)

var (
	flagGateways   string
	flagHedgeDelay time.Duration
	flagTimeout    time.Duration
	flagMaxBytes   int64
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "gateway",
		Description: "Read-only CAS over HTTP gateways (hedged fetch by CID)",
		Usage:       casregistry.UsageCLI,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagGateways, "gateway-urls", "", "Comma-separated gateway URL templates (for --backend=gateway)")
			fs.DurationVar(&flagHedgeDelay, "gateway-hedge-delay", 0, "Delay before hedging to the next gateway; 0 uses the default")
			fs.DurationVar(&flagTimeout, "gateway-timeout", 0, "Per-attempt timeout; 0 uses the default")
			fs.Int64Var(&flagMaxBytes, "gateway-max-bytes", 0, "Max object size in bytes; 0 uses the default")
		},
		Open: func() (storage.CAS, func() error, error) {
			var gateways []string
			for _, g := range strings.Split(flagGateways, ",") {
				if g = strings.TrimSpace(g); g != "" {
					gateways = append(gateways, g)
				}
			}
			if len(gateways) == 0 {
				return nil, nil, fmt.Errorf("missing --gateway-urls")
			}
			f := fetch.New(gateways, fetch.Options{
				HedgeDelay: flagHedgeDelay,
				Timeout:    flagTimeout,
				MaxBytes:   flagMaxBytes,
			})
			return New(f), nil, nil
		},
	})
}
