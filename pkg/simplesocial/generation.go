package simplesocial

import (
	"context"
	"errors"
	"log/slog"
)

// limitedGenerator enforces the per-user budget in front of the primary
// generator. The limiter is consulted before the collaborator is called, so
// a spent budget aborts the request without spending a network round trip.
type limitedGenerator struct {
	inner   CaptionGenerator
	limiter RateLimiter
}

func (g *limitedGenerator) GenerateCaption(ctx context.Context, req CaptionRequest) (*CaptionResult, error) {
	if err := g.limiter.CheckAndConsume(ctx, req.UserID); err != nil {
		return nil, err
	}
	return g.inner.GenerateCaption(ctx, req)
}

// resilientGenerator selects between a primary generator and the
// deterministic fallback. Only the defined failure classes divert to the
// fallback: collaborator unavailability (timeout, quota, schema mismatch)
// and a spent rate-limit budget. Anything else, including context
// cancellation, propagates untouched.
type resilientGenerator struct {
	primary  CaptionGenerator
	fallback CaptionGenerator
	logger   *slog.Logger
}

func (g *resilientGenerator) GenerateCaption(ctx context.Context, req CaptionRequest) (*CaptionResult, error) {
	result, err := g.primary.GenerateCaption(ctx, req)
	if err == nil {
		return result, nil
	}
	if !recoverableGeneration(err) {
		return nil, err
	}
	g.logger.Warn("caption generation degraded to fallback templates",
		"platform", req.Platform,
		"content_type", req.ContentType,
		"err", err)
	return g.fallback.GenerateCaption(ctx, req)
}

func recoverableGeneration(err error) bool {
	return errors.Is(err, ErrGenerationUnavailable) || errors.Is(err, ErrRateLimitExceeded)
}
