package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/fx"

	"github.com/fatflowers/pledge/internal/app"
	"github.com/fatflowers/pledge/internal/app/service/collection"
	"github.com/fatflowers/pledge/internal/app/service/donation"
	"github.com/fatflowers/pledge/internal/app/service/payment"
	"github.com/fatflowers/pledge/internal/app/service/statistics"
)

type services struct {
	Donations *donation.Service
	Payments  *payment.Service
	Collector *collection.Service
	Stats     *statistics.Service
}

// withServices starts the core graph, runs fn and stops the graph again so
// pending log writes and the worker pool are flushed before exit.
func withServices(ctx context.Context, fn func(ctx context.Context, s *services) error) (err error) {
	var s services
	a := fx.New(
		app.CoreModule,
		fx.NopLogger,
		fx.Populate(&s.Donations, &s.Payments, &s.Collector, &s.Stats),
	)
	startCtx, cancel := context.WithTimeout(ctx, app.DefaultStartTimeout)
	defer cancel()
	if err := a.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.DefaultStopTimeout)
		defer cancel()
		if stopErr := a.Stop(stopCtx); stopErr != nil && err == nil {
			err = fmt.Errorf("failed to stop: %w", stopErr)
		}
	}()
	return fn(ctx, &s)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
