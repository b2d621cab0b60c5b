package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MalithGihan/skygraph/internal/httpapi"
)

func newServeCommand() *cobra.Command {
	var tick time.Duration
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API, artifacts and live view events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tick <= 0 {
				return fmt.Errorf("--tick must be positive, got %s", tick)
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			hub := httpapi.NewHub(a.log, func(typ string) {
				if typ == "doubleclick" {
					a.session.DoubleClick()
				}
			})
			go hub.Run(ctx)
			go httpapi.Stream(ctx, a.session, hub, tick)

			go func() {
				if err := a.dash.Boot(ctx); err != nil {
					a.log.Error("initial graph load failed", zap.Error(err))
				}
			}()

			srv := &http.Server{
				Addr:         ":" + a.cfg.Port,
				Handler:      httpapi.NewServer(a.dash, a.console, hub, a.metrics, a.log).Routes(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}
			errc := make(chan error, 1)
			go func() {
				a.log.Info("skygraph listening", zap.String("port", a.cfg.Port), zap.String("upstream", a.cfg.Upstream.URL))
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}
			a.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().DurationVar(&tick, "tick", 50*time.Millisecond, "layout step interval while physics runs")
	return cmd
}
