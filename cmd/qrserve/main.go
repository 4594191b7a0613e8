// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Qrserve serves QR code generation over HTTP.
//
//	qrserve [-c config.yaml]
//
// Settings may be overridden by QRGEN_ environment variables, e.g.
// QRGEN_SERVER_PORT=9000.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pborman/getopt/v2"
	"github.com/rs/zerolog/log"

	"github.com/BadassAman4014/Simple-Qr-code-Generator/history"
	"github.com/BadassAman4014/Simple-Qr-code-Generator/internal/config"
	"github.com/BadassAman4014/Simple-Qr-code-Generator/internal/logger"
	"github.com/BadassAman4014/Simple-Qr-code-Generator/internal/server"
)

// openStore opens the configured history store.
func openStore(ctx context.Context, cfg config.HistoryConfig) (history.Store, error) {
	switch cfg.Driver {
	case "memory", "":
		return history.NewMemStore(cfg.MaxItems), nil
	case "sqlite":
		return history.Open(ctx, cfg.Path, cfg.MaxItems)
	default:
		return nil, fmt.Errorf("unknown history driver %q", cfg.Driver)
	}
}

func main() {
	cfgPath := getopt.StringLong("config", 'c', "", "configuration file", "file")
	getopt.FlagLong(new(bool), "help", 'h', "show this help").SetFlag()
	getopt.Parse()
	if getopt.IsSet('h') {
		getopt.PrintUsage(os.Stdout)
		return
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logging)

	opts, err := cfg.QR.Options()
	if err != nil {
		log.Fatal().Err(err).Msg("bad qr configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.History)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open history store")
	}
	defer store.Close()

	srv := server.New(store, opts, log.Logger)
	if err := srv.Run(ctx, cfg.Server); err != nil {
		log.Error().Err(err).Msg("server failed")
		store.Close()
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
