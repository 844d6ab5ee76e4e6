package utils

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// FluentPoster is the subset of *fluent.Fluent used for shipping records.
type FluentPoster interface {
	Post(tag string, message interface{}) error
}

var _ FluentPoster = (*fluent.Fluent)(nil)

// NewFluentClient connects to a Fluent Bit forward input. Records are tagged
// "<prefix>.<level>".
func NewFluentClient(host string, port int, prefix string) (*fluent.Fluent, error) {
	if prefix == "" {
		return nil, errors.New("fluent: tag prefix is required")
	}
	return fluent.New(fluent.Config{
		FluentHost: host,
		FluentPort: port,
		TagPrefix:  prefix,
	})
}

type fluentHandler struct {
	client FluentPoster
	level  slog.Leveler
	attrs  []slog.Attr
	group  string
}

func newFluentHandler(client FluentPoster, level slog.Leveler) *fluentHandler {
	return &fluentHandler{client: client, level: level}
}

func (h *fluentHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *fluentHandler) Handle(_ context.Context, r slog.Record) error {
	data := make(map[string]interface{}, len(h.attrs)+r.NumAttrs()+3)
	for _, a := range h.attrs {
		data[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[h.key(a.Key)] = a.Value.Resolve().Any()
		return true
	})
	data["level"] = strings.ToLower(r.Level.String())
	data["message"] = r.Message
	data["timestamp"] = r.Time.UTC().Format(time.RFC3339Nano)

	// Shipping is best effort; the terminal handler still has the record.
	_ = h.client.Post(strings.ToLower(r.Level.String()), data)
	return nil
}

func (h *fluentHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

func (h *fluentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: h.key(a.Key), Value: a.Value})
	}
	return &next
}

func (h *fluentHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.key(name)
	return &next
}

// multiHandler sends each record to every handler that accepts its level.
type multiHandler struct {
	handlers []slog.Handler
}

func newMultiHandler(handlers ...slog.Handler) *multiHandler {
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: next}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: next}
}
