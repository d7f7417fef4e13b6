package triallog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// slogHandler adapts a Log into a slog.Handler so runtime components can log
// structurally while the output still lands in the trial log.
type slogHandler struct {
	log     *Log
	context string
	attrs   []slog.Attr
}

// NewSlogHandler returns a slog.Handler appending to log under the given
// context.
func NewSlogHandler(log *Log, context string) slog.Handler {
	return &slogHandler{log: log, context: context}
}

// NewLogger returns a slog.Logger appending to log under the given context.
func NewLogger(log *Log, context string) *slog.Logger {
	return slog.New(NewSlogHandler(log, context))
}

func (h *slogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *slogHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Level.String())
	sb.WriteString(" ")
	sb.WriteString(record.Message)
	write := func(attr slog.Attr) {
		fmt.Fprintf(&sb, " %s=%s", attr.Key, attr.Value.String())
	}
	for _, attr := range h.attrs {
		write(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		write(attr)
		return true
	})
	h.log.Append(h.context, sb.String())
	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &slogHandler{log: h.log, context: h.context, attrs: merged}
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &slogHandler{log: h.log, context: h.context + "." + name, attrs: h.attrs}
}
