package translit

import "time"

// Options selects and tunes the providers built by New.
type Options struct {
	Enabled bool

	GoogleEndpoint string // empty selects DefaultGoogleEndpoint
	LibreURL       string // empty disables the secondary provider
	LibreAPIKey    string

	Timeout time.Duration
	RPS     float64 // per-provider request rate; 0 disables limiting
	Burst   int
}

// New returns an adapter targeting Gujarati with the Google provider first
// and LibreTranslate second. With Enabled false the adapter has no providers
// and matches text as typed.
func New(opts Options) *Adapter {
	if !opts.Enabled {
		return NewAdapter(Gujarati)
	}

	google := NewLazy("google", func() (Provider, error) {
		p, err := NewGoogleProvider(opts.GoogleEndpoint, opts.Timeout)
		if err != nil {
			return nil, err
		}
		return RateLimited(p, opts.RPS, opts.Burst), nil
	})

	var libre *Lazy
	if opts.LibreURL != "" {
		libre = NewLazy("libretranslate", func() (Provider, error) {
			p, err := NewLibreProvider(opts.LibreURL, opts.LibreAPIKey, opts.Timeout)
			if err != nil {
				return nil, err
			}
			return RateLimited(p, opts.RPS, opts.Burst), nil
		})
	} else {
		libre = NewLazy("libretranslate", nil)
	}

	return NewAdapter(Gujarati, google, libre)
}
