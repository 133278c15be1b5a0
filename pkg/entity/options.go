package entity

import (
	"go.uber.org/zap"
)

// Option configures entities at open time. Entities produced from a
// directory listing inherit the options of the directory.
type Option func(*options)

type options struct {
	backend  Backend
	logger   *zap.Logger
	observer Observer
}

// WithBackend sets the filesystem backend. Defaults to OS().
func WithBackend(b Backend) Option {
	return func(o *options) {
		if b != nil {
			o.backend = b
		}
	}
}

// WithLogger sets the logger used for transfer and recovery events.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver sets the observer notified of transfers, conflicts and recoveries.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		backend:  OS(),
		logger:   zap.NewNop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Op names the kind of file transfer reported to an Observer.
type Op string

const (
	OpCopy Op = "copy"
	OpMove Op = "move"
)

// Observer receives transfer events. Implementations must be safe for
// concurrent use when entities are shared across goroutines.
type Observer interface {
	// Transferred is called once per file that landed at dst.
	Transferred(op Op, src, dst string, bytes int64)
	// Conflicted is called when a destination is found occupied.
	Conflicted(status Status, dst string)
	// Recovered is called after every recovery attempt; err is nil on success.
	Recovered(status Status, dst string, err error)
}

type nopObserver struct{}

func (nopObserver) Transferred(Op, string, string, int64) {}
func (nopObserver) Conflicted(Status, string)             {}
func (nopObserver) Recovered(Status, string, error)       {}
