package main

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/olgasafonova/bears-api/internal/config"
	"github.com/olgasafonova/bears-api/tracing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LogConfig
		wantJSON bool
	}{
		{"text", config.LogConfig{Level: "info", Format: "text"}, false},
		{"json", config.LogConfig{Level: "info", Format: "json"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.cfg)
			logger.Info("hello", "records", 8)

			out := buf.String()
			if isJSON := strings.HasPrefix(out, "{"); isJSON != tt.wantJSON {
				t.Errorf("output %q: json = %v, want %v", out, isJSON, tt.wantJSON)
			}
			if !strings.Contains(out, "records") {
				t.Errorf("output %q missing attribute", out)
			}
		})
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "warn", Format: "text"})

	logger.Info("dropped")
	logger.Warn("kept")

	if strings.Contains(buf.String(), "dropped") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Error("warn message should be logged")
	}
}

func TestNewHTTPServer(t *testing.T) {
	cfg := config.ServerConfig{Port: 9090, ReadTimeout: 5 * time.Second, WriteTimeout: 30 * time.Second}
	server := newHTTPServer(cfg, http.NotFoundHandler())

	if server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", server.Addr)
	}
	if server.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v", server.ReadTimeout)
	}
	if server.WriteTimeout != 30*time.Second {
		t.Errorf("WriteTimeout = %v", server.WriteTimeout)
	}
}

func TestRunHTTP_GracefulShutdown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runHTTP(ctx, server, logger) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runHTTP returned %v, want nil after shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runHTTP did not return after context cancel")
	}
}

func TestRunHTTP_ListenError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	server := &http.Server{Addr: "256.0.0.1:-1", Handler: http.NotFoundHandler()}

	err := runHTTP(context.Background(), server, logger)
	if err == nil {
		t.Fatal("expected listen error")
	}
	if !strings.Contains(err.Error(), "server failed") {
		t.Errorf("error = %q", err.Error())
	}
}

// stubTracing swaps setupTracing for one that counts shutdown calls
func stubTracing(t *testing.T) *int {
	t.Helper()
	shutdowns := 0
	orig := setupTracing
	setupTracing = func(context.Context, tracing.Config) (func(context.Context) error, error) {
		return func(context.Context) error {
			shutdowns++
			return nil
		}, nil
	}
	t.Cleanup(func() { setupTracing = orig })
	return &shutdowns
}

func TestRun_ServerFailureShutsDownTracing(t *testing.T) {
	shutdowns := stubTracing(t)

	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	defer ln.Close()
	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

	var stderr bytes.Buffer
	err = run(context.Background(), []string{"--server-port", port}, &stderr)
	if err == nil {
		t.Fatal("expected error when the port is taken")
	}
	if *shutdowns != 1 {
		t.Errorf("tracing shutdown ran %d times, want 1", *shutdowns)
	}
	if !strings.Contains(stderr.String(), "Server error") {
		t.Errorf("stderr missing server error log: %q", stderr.String())
	}
}

func TestRun_InvalidConfigSkipsTracing(t *testing.T) {
	shutdowns := stubTracing(t)

	if err := run(context.Background(), []string{"--server-port", "0"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected validation error for port 0")
	}
	if *shutdowns != 0 {
		t.Error("tracing should not be set up when configuration is invalid")
	}
}

func TestRun_ConfigErrors(t *testing.T) {
	stubTracing(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"--no-such-flag"}, "unknown flag"},
		{"invalid log level", []string{"--log-level", "loud"}, "config validation failed"},
		{"invalid transport", []string{"--server-transport", "carrier-pigeon"}, "config validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), tt.args, &bytes.Buffer{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestRun_HelpIsNotAnError(t *testing.T) {
	stubTracing(t)

	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"--help"}, &stderr); err != nil {
		t.Fatalf("run(--help) = %v, want nil", err)
	}
	if !strings.Contains(stderr.String(), "server-port") {
		t.Errorf("usage output missing flags: %q", stderr.String())
	}
}
