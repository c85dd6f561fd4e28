// Bears API - serves bear species listed on Wikipedia
// Runs as an HTTP service (GET /api/bears) or as an MCP server on stdio
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
	"strings"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olgasafonova/bears-api/internal/api"
	"github.com/olgasafonova/bears-api/internal/bears"
	"github.com/olgasafonova/bears-api/internal/config"
	"github.com/olgasafonova/bears-api/internal/wikipedia"
	"github.com/olgasafonova/bears-api/tools"
	"github.com/olgasafonova/bears-api/tracing"
	"github.com/spf13/pflag"
)

const (
	ServerName    = "bears-api"
	ServerVersion = "1.0.0"
)

const shutdownTimeout = 10 * time.Second

const mcpInstructions = `Bears API lists every extant bear species from Wikipedia's "List of ursids" article.

Available tools:
- bears_list: All species with common name, binomial name, range and image URL

Images that cannot be resolved are returned as media/placeholder.svg.`

// setupTracing is replaced in tests
var setupTracing = tracing.Setup

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stderr)
	stop()
	if err != nil {
		slog.Error("Bears API stopped", "error", err)
		os.Exit(1)
	}
}

// run loads configuration from args and serves until ctx is canceled or the
// server fails. Deferred cleanup has finished by the time it returns.
func run(ctx context.Context, args []string, stderr io.Writer) error {
	flags := pflag.NewFlagSet(ServerName, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	config.RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.LoadWithFlags(flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Logs go to stderr; stdout carries the MCP protocol in stdio mode
	logger := newLogger(stderr, cfg.Log)
	slog.SetDefault(logger)

	tracingCfg := tracing.DefaultConfig()
	tracingCfg.Output = stderr
	shutdownTracing, err := setupTracing(ctx, tracingCfg)
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
	} else {
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logger.Error("Tracing shutdown failed", "error", err)
			}
		}()
	}

	client := wikipedia.NewClient(
		wikipedia.WithBaseURL(cfg.Wikipedia.BaseURL),
		wikipedia.WithUserAgent(cfg.Wikipedia.UserAgent),
		wikipedia.WithTimeout(cfg.Wikipedia.Timeout),
		wikipedia.WithLogger(logger),
	)
	service := bears.NewService(client, bears.WithLogger(logger))

	logger.Info("Starting Bears API",
		"name", ServerName,
		"version", ServerVersion,
		"transport", cfg.Server.Transport,
		"wikipedia_url", cfg.Wikipedia.BaseURL,
	)

	switch cfg.Server.Transport {
	case "stdio":
		err = runMCP(ctx, service, logger)
	default:
		err = runHTTP(ctx, newHTTPServer(cfg.Server, api.NewRouter(service, logger)), logger)
	}
	if err != nil {
		logger.Error("Server error", "error", err)
	}
	return err
}

// newLogger builds the slog logger described by cfg
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

// runHTTP serves until ctx is canceled, then shuts the server down gracefully
func runHTTP(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server shutdown completed")
	return nil
}

// runMCP serves the tool registry over stdio until the client disconnects
func runMCP(ctx context.Context, service *bears.Service, logger *slog.Logger) error {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Logger:       logger,
		Instructions: mcpInstructions,
	})

	tools.NewHandlerRegistry(service, logger).RegisterAll(server)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
