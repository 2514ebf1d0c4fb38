package translit

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrNotConfigured is returned by a Lazy with no constructor.
var ErrNotConfigured = errors.New("provider not configured")

// Lazy builds a Provider once, on first use. A failed build is remembered
// and the provider is treated as absent for the life of the process.
type Lazy struct {
	name  string
	build func() (Provider, error)

	once sync.Once
	p    Provider
	err  error
}

// NewLazy defers build until the provider is first needed. A nil build
// yields a provider that is always absent.
func NewLazy(name string, build func() (Provider, error)) *Lazy {
	return &Lazy{name: name, build: build}
}

// Ready wraps an already constructed provider.
func Ready(p Provider) *Lazy {
	return NewLazy(p.Name(), func() (Provider, error) { return p, nil })
}

// Name returns the provider name given at construction.
func (l *Lazy) Name() string {
	return l.name
}

// Get returns the provider, building it on the first call.
func (l *Lazy) Get() (Provider, error) {
	l.once.Do(func() {
		if l.build == nil {
			l.err = ErrNotConfigured
			return
		}
		l.p, l.err = l.build()
		if l.err == nil && l.p == nil {
			l.err = ErrNotConfigured
		}
		if l.err != nil {
			slog.Warn("translation provider unavailable", "provider", l.name, "error", l.err)
		}
	})
	return l.p, l.err
}
