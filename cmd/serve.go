package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dynamic-shelf-pricer/console/internal/config"
	"github.com/dynamic-shelf-pricer/console/internal/session"
	"github.com/dynamic-shelf-pricer/console/internal/view"
	"github.com/dynamic-shelf-pricer/console/internal/web"
	logx "github.com/dynamic-shelf-pricer/console/pkg/logger"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web console",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	client := newClient()
	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if h, err := client.Health(probeCtx); err != nil {
		logx.Warn().Err(err).Str("api_base", client.BaseURL()).Msg("pricing backend is not reachable yet")
	} else {
		logx.Info().Str("api_base", client.BaseURL()).Str("status", h.Status).Msg("pricing backend reachable")
	}
	cancel()

	app := web.NewApp(view.NewController(client, store), web.Options{
		CookieName: appCfg.Session.CookieName,
		SessionTTL: appCfg.Session.TTL,
		Render: view.RenderOptions{
			Title:         appCfg.HTTP.Title,
			CurrencyLabel: appCfg.HTTP.CurrencyLabel,
		},
	})

	addr := appCfg.HTTP.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info().
			Str("addr", addr).
			Str("env", appCfg.Environment.String()).
			Str("sessions", appCfg.Session.Backend).
			Msg("shelf pricer console listening")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logx.Info().Msg("shutting down...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return app.ShutdownWithContext(shutdownCtx)
}

func newStore(ctx context.Context) (view.Store, func(), error) {
	switch appCfg.Session.Backend {
	case config.SessionRedis:
		rdb, err := appCfg.Redis.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("initialise redis client: %w", err)
		}
		logx.Info().Msg("connected to redis for session state")
		return session.NewRedisStore(rdb, appCfg.Session.TTL), func() { _ = rdb.Close() }, nil
	default:
		return session.NewMemoryStore(appCfg.Session.TTL), func() {}, nil
	}
}
