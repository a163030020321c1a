// Command bundlerd runs the read-only bundle gateway: it dials an upstream
// EVM JSON-RPC endpoint and serves the HTTP interface defined by the
// gateway package over it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loadnetwork/bundler/gateway"
	"github.com/loadnetwork/bundler/log"
	"github.com/loadnetwork/bundler/rpc"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log.Level, cfg.Log.Output, nil)
	log.Infow("starting bundlerd")

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := rpc.Dial(ctx, cfg.RPC.Endpoint)
	if err != nil {
		log.Fatalf("failed to dial rpc endpoint: %v", err)
	}

	readyCtx, readyCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readyCancel()
	if err := client.WaitReady(readyCtx); err != nil {
		log.Fatalf("rpc endpoint never became ready: %v", err)
	}

	if _, err := gateway.New(gateway.Config{
		Host:      cfg.API.Host,
		Port:      cfg.API.Port,
		Transport: client,
	}); err != nil {
		log.Fatalf("failed to start gateway: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Infow("received signal, shutting down", "signal", sig.String())
}
