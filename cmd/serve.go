package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Aashish23092/ocr-phone-extractor/handler"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts.cfgFile, true)
			if err != nil {
				return err
			}
			defer a.Close()

			gin.SetMode(gin.ReleaseMode)
			router := handler.NewRouter(
				handler.NewBatchHandler(a.batch),
				handler.NewExportHandler(a.exports),
				a.cfg.Server.MaxUploadMB,
			)

			srv := &http.Server{
				Addr:        ":" + a.cfg.Server.Port,
				Handler:     router,
				ReadTimeout: 60 * time.Second,
				IdleTimeout: 120 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("server starting", "port", a.cfg.Server.Port, "ocr_backend", a.cfg.OCR.Backend)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
				slog.Info("shutting down server...")
			case err := <-errCh:
				if err != nil {
					return err
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}

			slog.Info("server exited gracefully")
			return nil
		},
	}
}
