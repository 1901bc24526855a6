package main

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

// setupLogger returns a logger for the given environment.
//
//	prod     JSON, INFO and above
//	staging  JSON, DEBUG and above
//	other    text, DEBUG and above
//
// Client commands log to stderr so stdout only carries outcomes.
func setupLogger(env string, w io.Writer) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// newHTTPClient is the only place a timeout is applied to remote calls.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
