package main

import (
	"context"
	"fmt"

	"github.com/grupo7/adhtc/config"
	"github.com/grupo7/adhtc/internal/optimizer"
	"github.com/grupo7/adhtc/internal/ports"
	"github.com/grupo7/adhtc/internal/server"
)

// runServe levanta la API JSON hasta que el contexto muera.
func runServe(ctx context.Context, cfg *config.Config, store ports.Storage) error {
	econ := economicParams(cfg)
	env := environmentalParams(cfg)

	srv := server.New(server.Config{
		Addr:          cfg.Server.Addr,
		RatePerSecond: cfg.Server.RatePerSecond,
		RateBurst:     cfg.Server.RateBurst,
		Timeout:       cfg.ServerTimeout(),
		Economics:     econ,
		Environment:   env,
		Optimizer:     optimizer.New(econ, env, optimizerScales(cfg), cfg.Optimizer.Workers),
		Storage:       store,
	})

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("main.runServe: %w", err)
	}
	return nil
}
