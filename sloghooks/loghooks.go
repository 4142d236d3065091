package sloghooks

import (
	"log/slog"
	"sync/atomic"
	"unicode/utf8"

	"github.com/unkn0wn-root/jsonable"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	EncodeFailedEvery uint64
	DecodeFailedEvery uint64
	// Optional cap on how much of the cause is logged; 0 = full message.
	MaxErrLen int
}

// Hooks logs conversion failures with slog.
type Hooks struct {
	l    *slog.Logger
	opts Options

	encodeCtr atomic.Uint64
	decodeCtr atomic.Uint64
}

var _ jsonable.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

// cause trims the message; decode errors can quote large chunks of input.
func (h *Hooks) cause(err *jsonable.Error) string {
	if err == nil || err.Err == nil {
		return ""
	}
	msg := err.Err.Error()
	if h.opts.MaxErrLen > 0 && len(msg) > h.opts.MaxErrLen {
		i := h.opts.MaxErrLen
		for i > 0 && !utf8.RuneStart(msg[i]) {
			i--
		}
		return msg[:i] + "…"
	}
	return msg
}

func kind(err *jsonable.Error) string {
	if err == nil {
		return ""
	}
	return err.Kind.String()
}

func (h *Hooks) EncodeFailed(typeName, op string, err *jsonable.Error) {
	if h.l == nil || !sample(h.opts.EncodeFailedEvery, &h.encodeCtr) {
		return
	}
	h.l.Warn("jsonable.encode_failed",
		"type", typeName,
		"op", op,
		"kind", kind(err),
		"err", h.cause(err))
}

func (h *Hooks) DecodeFailed(typeName, op string, err *jsonable.Error) {
	if h.l == nil || !sample(h.opts.DecodeFailedEvery, &h.decodeCtr) {
		return
	}
	h.l.Info("jsonable.decode_failed",
		"type", typeName,
		"op", op,
		"kind", kind(err),
		"err", h.cause(err))
}

func (h *Hooks) PayloadRejected(typeName string, size, limit int64) {
	if h.l == nil {
		return
	}
	h.l.Warn("jsonable.payload_rejected",
		"type", typeName,
		"size", size,
		"limit", limit)
}
