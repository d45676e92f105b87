package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root, err := NewCompositionRoot(ctx)
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := root.Cleanup(); err != nil {
			root.Logger.Error("Failed to cleanup resources", zap.Error(err))
		}
	}()

	go func() {
		if err := root.HTTPServer.StartProxy(); err != nil {
			root.Logger.Error("Proxy listener failed", zap.Error(err))
			stop()
		}
	}()

	go func() {
		if err := root.HTTPServer.StartAdmin(); err != nil {
			root.Logger.Error("Admin listener failed", zap.Error(err))
			stop()
		}
	}()

	if root.Config.Lifecycle.AutoInstall {
		autoInstall(ctx, root)
	}

	<-ctx.Done()
	root.Logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), root.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := root.HTTPServer.Stop(shutdownCtx); err != nil {
		root.Logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	if err := root.Router.Shutdown(shutdownCtx); err != nil {
		root.Logger.Error("Pending cache writes abandoned", zap.Error(err))
	}

	root.Logger.Info("Server exited")
}

// autoInstall installs and activates the configured generation at boot.
// Failure leaves the host uncontrolled; fetches still reach the network.
func autoInstall(ctx context.Context, root *CompositionRoot) {
	if _, err := root.Router.HandleInstall(ctx); err != nil {
		root.Logger.Error("Boot install failed", zap.Error(err))
		return
	}
	if _, err := root.Router.HandleActivate(ctx); err != nil {
		root.Logger.Error("Boot activate failed", zap.Error(err))
		return
	}
	root.Logger.Info("Generation active", zap.String("generation", root.Router.ActiveGeneration()))
}
