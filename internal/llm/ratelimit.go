package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitProvider is a decorator that paces outgoing requests with a
// token bucket shared by text and image calls.
type RateLimitProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// WithRateLimit wraps p so that at most perMinute requests start per
// minute, with a burst of up to a quarter of that. perMinute <= 0 returns
// p unchanged.
func WithRateLimit(p Provider, perMinute int) Provider {
	if perMinute <= 0 {
		return p
	}
	burst := max(perMinute/4, 1)
	return &RateLimitProvider{
		inner:   p,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst),
	}
}

func (r *RateLimitProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Generate(ctx, req)
}

func (r *RateLimitProvider) EditImage(ctx context.Context, req ImageRequest) (*Image, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return EditImage(ctx, r.inner, req)
}

func (r *RateLimitProvider) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// The deadline falls before the next free slot.
		return &ErrRateLimit{Err: err}
	}
	return nil
}

func (r *RateLimitProvider) ModelID() string {
	return r.inner.ModelID()
}
