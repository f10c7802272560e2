package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haukened/rr-decoy/internal/dns/common/clock"
	"github.com/haukened/rr-decoy/internal/dns/common/log"
	"github.com/haukened/rr-decoy/internal/dns/config"
	"github.com/haukened/rr-decoy/internal/dns/gateways/transport"
	"github.com/haukened/rr-decoy/internal/dns/gateways/wire"
	"github.com/haukened/rr-decoy/internal/dns/repos/probers"
	"github.com/haukened/rr-decoy/internal/dns/services/responder"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "rr-decoyd"

	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the components of the decoy
type Application struct {
	config     *config.AppConfig
	transports []transport.ServerTransport
	responder  *responder.Responder
	queryLog   *log.QueryLogger
	stdout     io.Writer
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":       version,
		"env":           cfg.Env,
		"log_level":     cfg.LogLevel,
		"host":          cfg.Host,
		"port":          cfg.Port,
		"querylog":      cfg.QueryLog,
		"authoritative": cfg.Authoritative,
	}, "Starting "+appName)

	app, err := buildApplication(cfg, os.Stdout)
	if err != nil {
		log.Fatal(map[string]any{"error": err.Error()}, "Failed to build application")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err.Error()}, "Server failed")
	}

	log.Info(nil, appName+" stopped gracefully")
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig, stdout io.Writer) (*Application, error) {
	logger := log.GetLogger()
	codec := wire.NewCodec(logger)

	queryLog, err := log.NewQueryLogger(log.QueryLogOptions{
		Path:       cfg.QueryLog,
		Format:     cfg.QueryLogFormat,
		MaxSize:    cfg.QueryLogMaxSize,
		MaxBackups: cfg.QueryLogMaxBackups,
		MaxAge:     cfg.QueryLogMaxAge,
		Compress:   cfg.QueryLogCompress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open query log: %w", err)
	}

	var tracker responder.ProberTracker
	if cfg.TrackerSize > 0 {
		t, err := probers.New(cfg.TrackerSize, clock.RealClock{})
		if err != nil {
			_ = queryLog.Close()
			return nil, fmt.Errorf("failed to create prober tracker: %w", err)
		}
		tracker = t
		log.Info(map[string]any{"type": "LRU", "size": cfg.TrackerSize}, "Prober tracker configured")
	}

	resp := responder.New(responder.Options{
		Answers:       responder.DefaultAnswers(),
		Authoritative: cfg.Authoritative,
		QueryLog:      queryLog,
		Tracker:       tracker,
	})

	opts := transport.Options{TCPIdleTimeout: cfg.TCPIdleTimeout}
	transports, err := transport.ActivatedTransports(codec, logger, opts)
	if err != nil {
		_ = queryLog.Close()
		return nil, fmt.Errorf("failed to use systemd sockets: %w", err)
	}
	if len(transports) == 0 {
		transports = transport.NewListenerPair(cfg.ListenAddr(), codec, logger, opts)
	}

	return &Application{
		config:     cfg,
		transports: transports,
		responder:  resp,
		queryLog:   queryLog,
		stdout:     stdout,
	}, nil
}

// Run starts every transport and blocks until ctx is cancelled. A transport
// that fails to bind stops the ones already started and returns the error.
func (app *Application) Run(ctx context.Context) error {
	defer app.queryLog.Close()

	started := make([]transport.ServerTransport, 0, len(app.transports))
	for _, t := range app.transports {
		if err := t.Start(ctx, app.responder); err != nil {
			for _, s := range started {
				_ = s.Stop()
			}
			return fmt.Errorf("failed to start transport: %w", err)
		}
		started = append(started, t)
		log.Info(map[string]any{"address": t.Address()}, "DNS listener started")
	}

	app.printBanner()

	if sent, err := transport.NotifyReady(); err != nil {
		log.Warn(map[string]any{"error": err.Error()}, "Failed to notify systemd")
	} else if sent {
		log.Debug(nil, "Notified systemd of readiness")
	}

	<-ctx.Done()
	log.Info(nil, "Shutdown initiated")

	done := make(chan struct{})
	go func() {
		for _, t := range started {
			if err := t.Stop(); err != nil {
				log.Warn(map[string]any{"error": err.Error()}, "Error during transport shutdown")
			}
		}
		close(done)
	}()

	select {
	case <-done:
		log.Info(nil, "Graceful shutdown completed")
		return nil
	case <-time.After(defaultShutdownTimeout):
		log.Warn(map[string]any{"timeout": defaultShutdownTimeout.String()}, "Shutdown timeout exceeded")
		return fmt.Errorf("shutdown timeout")
	}
}

// printBanner writes the configured host, the bound port and the query log
// path to stdout.
func (app *Application) printBanner() {
	host, port := app.config.Host, fmt.Sprint(app.config.Port)
	if len(app.transports) > 0 {
		if _, p, err := net.SplitHostPort(app.transports[0].Address()); err == nil {
			port = p
		}
	}
	fmt.Fprintf(app.stdout, "DNS HONEYPOT ACTIVE ON HOST: %s, PORT: %s\n", host, port)
	fmt.Fprintf(app.stdout, "ALL DNS queries will be logged in: %s\n", app.config.QueryLog)
}
