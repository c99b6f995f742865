package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"casetracker/internal/api"
	"casetracker/internal/engine"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard API",
	Long: `Start the HTTP dashboard. The API is live immediately and answers
503 on data endpoints until the first series arrives in the background.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	g, gctx := errgroup.WithContext(ctx)

	// All view state lives on this loop.
	loop := engine.NewLoop(0)
	ctrl := a.controller(loop)

	e := api.NewEcho(cfg.Server.RateLimit)
	api.NewHandler(gctx, ctrl, a.client).RegisterRoutes(e)

	g.Go(func() error {
		if err := loop.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("server ready (data loading in background)", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	// Kick off the first series and warm the region catalog side by side.
	g.Go(func() error {
		t0 := time.Now()
		ctrl.Start(gctx)

		regions, err := a.client.FetchRegionList(gctx)
		if err != nil {
			logger.Warn("region list unavailable", "error", err)
			return nil
		}
		logger.Info("region list loaded", "regions", len(regions), "elapsed", time.Since(t0))
		return nil
	})

	return g.Wait()
}
