package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	"github.com/sol-surfer-ai/agent-core/observability"
	"github.com/sol-surfer-ai/agent-core/storage/casregistry"
	"github.com/sol-surfer-ai/agent-core/storage/grpccas"

	_ "github.com/sol-surfer-ai/agent-core/storage/localfs"
)

func main() {
	fs := flag.NewFlagSet("agent-casgrpcd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7040", "listen address")
	backend := fs.String("backend", "localfs", "CAS backend name")
	listBackends := fs.Bool("list-backends", false, "List supported backends and exit")

	casregistry.RegisterFlags(fs, casregistry.UsageDaemon)

	_ = fs.Parse(os.Args[1:])
	if *listBackends {
		for _, b := range casregistry.List(casregistry.UsageDaemon) {
			if b.Description == "" {
				_, _ = fmt.Fprintf(os.Stdout, "%s\n", b.Name)
				continue
			}
			_, _ = fmt.Fprintf(os.Stdout, "%s\t%s\n", b.Name, b.Description)
		}
		return
	}

	logger := observability.InitLogger("agent-casgrpcd")

	cas, closeFn, err := casregistry.Open(*backend, casregistry.UsageDaemon)
	if err != nil {
		logger.Error().Err(err).Msg("open backend")
		os.Exit(2)
	}
	if closeFn != nil {
		defer closeFn()
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		logger.Error().Err(err).Msg("listen")
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpccas.RegisterCASServer(s, &grpccas.Server{CAS: cas})

	logger.Info().Str("addr", lis.Addr().String()).Str("backend", *backend).Msg("serving")
	if err := s.Serve(lis); err != nil {
		logger.Error().Err(err).Msg("serve")
		os.Exit(1)
	}
}
