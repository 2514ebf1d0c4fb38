package translit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

type rateLimited struct {
	Provider
	limiter *rate.Limiter
}

// RateLimited wraps p so it is called at most rps times per second with the
// given burst. Callers wait for a token; the wait ends early with ctx.
// A non-positive rps returns p unchanged.
func RateLimited(p Provider, rps float64, burst int) Provider {
	if rps <= 0 {
		return p
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimited{Provider: p, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (r *rateLimited) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%s: rate limit: %w", r.Name(), err)
	}
	return r.Provider.Translate(ctx, text, targetLang)
}
