// Package main is the entry point for the fretwise API server
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/fretwise/fretwise/pkg/api"
	"github.com/fretwise/fretwise/pkg/config"
	"github.com/fretwise/fretwise/pkg/metrics"
)

func main() {
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	fmt.Printf("Starting fretwise API server on %s\n", cfg.Addr)
	fmt.Printf("Swagger docs available at http://localhost%s/swagger/index.html\n", cfg.Addr)

	if err := api.NewServer(cfg, log, metrics.New()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
