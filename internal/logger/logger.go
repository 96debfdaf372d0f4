// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger wraps zerolog for the vault server. Every component takes a
// *Logger by pointer; request handlers pull the request-scoped logger, which
// carries the trace id, from the context.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	roleField   = "role"
	callerField = "func"
)

type Logger struct {
	zerolog.Logger
}

func init() {
	zerolog.CallerFieldName = callerField
	zerolog.CallerMarshalFunc = func(pc uintptr, _ string, _ int) string {
		return runtime.FuncForPC(pc).Name()
	}
}

// NewLogger returns a JSON logger on stdout labelled with role.
func NewLogger(role string) *Logger {
	return New(role, os.Stdout)
}

// New returns a logger writing JSON entries with role, time and the calling
// function to w.
func New(role string, w io.Writer) *Logger {
	return &Logger{
		zerolog.New(w).With().
			Str(roleField, role).
			Timestamp().
			Caller().
			Logger(),
	}
}

// SetLevel sets the process-wide minimum level. An empty level leaves every
// entry enabled.
func SetLevel(level string) error {
	if level == "" {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
		return nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a copy that can be enriched without touching l.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}

// FromContext never returns nil: without an attached logger zerolog hands
// back its default (or disabled) logger.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
