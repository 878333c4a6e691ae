package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Grant-Giesbrecht/graf/pkg/observability"
)

// logHooks reports codec and store events at debug level.
type logHooks struct {
	logger *log.Logger
}

func installLogHooks(l *log.Logger) {
	h := &logHooks{logger: l.WithPrefix("events")}
	observability.SetCodecHooks(h)
	observability.SetStoreHooks(h)
}

func (h *logHooks) OnEncode(format string, size int, d time.Duration, err error) {
	h.logger.Debug("encode", "format", format, "bytes", size, "took", d, "err", err)
}

func (h *logHooks) OnDecode(format string, size int, d time.Duration, err error) {
	h.logger.Debug("decode", "format", format, "bytes", size, "took", d, "err", err)
}

func (h *logHooks) OnPut(_ context.Context, backend, name string, d time.Duration, err error) {
	h.logger.Debug("put", "backend", backend, "name", name, "took", d, "err", err)
}

func (h *logHooks) OnGet(_ context.Context, backend, name string, d time.Duration, err error) {
	h.logger.Debug("get", "backend", backend, "name", name, "took", d, "err", err)
}

func (h *logHooks) OnMiss(_ context.Context, backend, name string) {
	h.logger.Debug("miss", "backend", backend, "name", name)
}

func (h *logHooks) OnDelete(_ context.Context, backend, name string, err error) {
	h.logger.Debug("delete", "backend", backend, "name", name, "err", err)
}

var (
	_ observability.CodecHooks = (*logHooks)(nil)
	_ observability.StoreHooks = (*logHooks)(nil)
)
