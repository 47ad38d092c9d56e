// Command voicestore runs the realtime shopping gateway: REST catalog and
// cart endpoints plus the websocket relay that bridges browser sessions to
// the OpenAI Realtime API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hakazmi/realtime-voice-E-store-agent/internal/dotenv"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/agent/tools"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/agent/upstream"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/catalog"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/chat/sessions"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/config"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/server"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/interpret"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/notify"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/payments"
)

type serverDeps struct {
	loadConfig   func() (config.Config, error)
	signalNotify func(chan<- os.Signal, ...os.Signal)
	signalStop   func(chan<- os.Signal)
}

func defaultServerDeps() serverDeps {
	return serverDeps{
		loadConfig: config.LoadFromEnv,
		signalNotify: func(c chan<- os.Signal, sig ...os.Signal) {
			signal.Notify(c, sig...)
		},
		signalStop: signal.Stop,
	}
}

func buildHTTPServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
	}
}

func buildStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*catalog.Store, error) {
	var opts []catalog.StoreOption
	if cfg.StripeAPIKey != "" {
		opts = append(opts, catalog.WithPayments(payments.NewStripeProcessor(cfg.StripeAPIKey)))
		logger.Info("stripe payment authorization enabled")
	}
	if cfg.SendGridAPIKey != "" {
		opts = append(opts, catalog.WithMailer(notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom)))
		logger.Info("sendgrid order confirmations enabled")
	}
	return catalog.Open(ctx, cfg.DatabaseURL, logger, opts...)
}

func buildInterpreter(ctx context.Context, cfg config.Config, logger *slog.Logger) interpret.Interpreter {
	if cfg.GeminiAPIKey == "" {
		return nil
	}
	interp, err := interpret.NewGeminiInterpreter(ctx, cfg.GeminiAPIKey)
	if err != nil {
		logger.Warn("gemini interpreter unavailable, falling back to keyword search", "error", err)
		return nil
	}
	logger.Info("gemini query interpreter enabled")
	return interp
}

func upstreamFactory(cfg config.Config, logger *slog.Logger) sessions.Factory {
	return func(sessionID string) sessions.UpstreamSession {
		return upstream.NewClient(upstream.Config{
			APIKey:            cfg.OpenAIAPIKey,
			Model:             cfg.RealtimeModel,
			URL:               cfg.RealtimeURL,
			Instructions:      cfg.Instructions,
			Voice:             cfg.Voice,
			Tools:             tools.Catalog(),
			KeepaliveInterval: cfg.KeepaliveInterval,
			MaxReconnects:     uint64(cfg.MaxReconnects),
			BackoffInitial:    cfg.BackoffInitial,
			BackoffCap:        cfg.BackoffCap,
			Logger:            logger.With("session_id", sessionID),
		})
	}
}

func runServer(ctx context.Context, logger *slog.Logger, deps serverDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open catalog store: %w", err)
	}
	defer store.Close()

	dispatcher := tools.NewDispatcher(store, buildInterpreter(ctx, cfg, logger), logger)
	registry := sessions.NewRegistry(upstreamFactory(cfg, logger), dispatcher, logger)

	srv := server.New(cfg, logger, store, registry)
	httpSrv := buildHTTPServer(cfg, srv.Handler())

	logger.Info("starting gateway", "addr", cfg.Addr, "model", cfg.RealtimeModel)

	listenErrCh := make(chan error, 1)
	go func() {
		err := httpSrv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErrCh <- err
			return
		}
		listenErrCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	deps.signalNotify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer deps.signalStop(sigCh)

	select {
	case err := <-listenErrCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	closed := registry.CancelAll()
	if closed > 0 {
		logger.Info("cancelled live sessions", "count", closed)
	}
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer waitCancel()
	if !registry.Wait(waitCtx) {
		logger.Warn("session drain timed out")
	}

	if err := <-listenErrCh; err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	logger.Info("gateway stopped")
	return nil
}

func runMain(ctx context.Context, stderr io.Writer, deps serverDeps) int {
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	if err := dotenv.LoadFile(".env"); err != nil {
		fmt.Fprintf(stderr, "voicestore: %v\n", err)
		return 1
	}

	if err := runServer(ctx, logger, deps); err != nil {
		fmt.Fprintf(stderr, "voicestore: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(runMain(context.Background(), os.Stderr, defaultServerDeps()))
}
