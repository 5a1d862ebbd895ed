package main

// @title           Pledge Backend API
// @version         1.0
// @description     Crowdfunding donation and payment lifecycle API.
// @termsOfService  http://example.com/terms/

// @contact.name   API Support
// @contact.url    http://www.example.com/support
// @contact.email  support@example.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8888
// @BasePath  /

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/pledge/internal/app"
)

func main() {
	if err := run(); err != nil {
		// Logging might not be ready; fallback to zap example
		zap.NewExample().Sugar().Errorw("pledge api exited", "err", err)
		os.Exit(1)
	}
}

// run starts the HTTP server, collection scheduler and services, then
// blocks until fx receives SIGINT or SIGTERM.
func run() error {
	a := fx.New(app.Module)

	startCtx, cancel := context.WithTimeout(context.Background(), app.DefaultStartTimeout)
	defer cancel()
	if err := a.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start app: %w", err)
	}

	<-a.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.DefaultStopTimeout)
	defer stopCancel()
	if err := a.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop app: %w", err)
	}
	return nil
}
