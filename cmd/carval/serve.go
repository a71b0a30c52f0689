package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pricelab/carval/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve price predictions over HTTP",
		Long: `Run the prediction API.

Exposes POST /v1/predictions plus vocabulary, schema, and history
endpoints. The model artifact is loaded once at startup; if it cannot be
loaded, the server does not start.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, store, err := initEngine(cmd.Context())
			if err != nil {
				return err
			}
			if store != nil {
				defer func() { _ = store.Close() }()
			}

			addr := viper.GetString("server.address")
			if addr == "" {
				addr = ":8080"
			}

			srv := server.NewHTTPServer(addr, eng, store)

			errChan := make(chan error, 1)
			go func() {
				slog.Info("Starting prediction server", "address", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errChan <- err
				}
			}()

			select {
			case err := <-errChan:
				return fmt.Errorf("server failed: %w", err)
			case <-cmd.Context().Done():
				slog.Info("Shutting down server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().String("address", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.address", cmd.Flags().Lookup("address"))

	return cmd
}
