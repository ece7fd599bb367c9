// README: AI itinerary adapter: toggle, prompt, bounded provider call, decode, cache.
package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"itinera/internal/modules/plan"
)

const (
	DefaultTimeout   = 18 * time.Second
	DefaultCacheSize = 256
	DefaultCacheTTL  = 30 * time.Minute
)

type ItineraryOptions struct {
	Enabled   bool
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
}

// Itinerary generates AI trip plans. It is safe for concurrent use.
type Itinerary struct {
	gen     Generator
	enabled bool
	timeout time.Duration
	cache   *expirable.LRU[string, *AITripPlan]
	logger  *zap.Logger
}

func NewItinerary(gen Generator, opts ItineraryOptions, logger *zap.Logger) *Itinerary {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Itinerary{
		gen:     gen,
		enabled: opts.Enabled && gen != nil,
		timeout: opts.Timeout,
		cache:   expirable.NewLRU[string, *AITripPlan](opts.CacheSize, nil, opts.CacheTTL),
		logger:  logger,
	}
}

// Enabled reports whether generation is switched on.
func (it *Itinerary) Enabled() bool { return it.enabled }

// GenerateAIItinerary asks the provider for a plan. The call is bounded by the
// configured timeout and by ctx; a provider that ignores cancellation is
// abandoned, not awaited. Returned plans are shared with the cache and must
// not be modified.
func (it *Itinerary) GenerateAIItinerary(ctx context.Context, req ItineraryRequest) (*AITripPlan, error) {
	if !it.enabled {
		return nil, ErrAIDisabled
	}
	if strings.TrimSpace(req.Destination) == "" {
		return nil, plan.ErrMissingDestination
	}
	if !req.DateRange.Valid() {
		return nil, plan.ErrMissingDateInfo
	}

	prompt := BuildItineraryPrompt(req)
	key := promptDigest(prompt)
	if cached, ok := it.cache.Get(key); ok {
		it.logger.Debug("ai itinerary cache hit", zap.String("destination", req.Destination))
		return cached, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, it.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	started := time.Now()
	go func() {
		text, err := it.gen.Generate(callCtx, prompt)
		ch <- result{text: text, err: err}
	}()

	var r result
	select {
	case <-callCtx.Done():
		return nil, it.contextError(ctx, callCtx.Err())
	case r = <-ch:
	}

	if r.err != nil {
		if errors.Is(r.err, context.DeadlineExceeded) || errors.Is(r.err, context.Canceled) {
			return nil, it.contextError(ctx, r.err)
		}
		it.logger.Warn("ai provider failed", zap.Error(r.err), zap.Duration("elapsed", time.Since(started)))
		return nil, &GenerationError{Reason: "provider call failed", Err: r.err}
	}
	if strings.TrimSpace(r.text) == "" {
		return nil, &GenerationError{Reason: "empty response"}
	}

	p, err := DecodeTripPlan(r.text)
	if err != nil {
		it.logger.Warn("ai response rejected", zap.Error(err))
		return nil, err
	}
	it.logger.Info("ai itinerary generated",
		zap.String("destination", req.Destination),
		zap.Int("days", len(p.Days)),
		zap.Duration("elapsed", time.Since(started)),
	)
	it.cache.Add(key, p)
	return p, nil
}

// contextError maps a finished context to ErrTimeout unless the caller cancelled.
func (it *Itinerary) contextError(parent context.Context, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return parent.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		it.logger.Warn("ai provider timed out", zap.Duration("timeout", it.timeout))
		return ErrTimeout
	}
	return err
}

func promptDigest(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
