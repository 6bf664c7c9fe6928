// Package suggestion ranks platform vendors for an event.
package suggestion

import (
	"context"
	"log/slog"
	"slices"

	"eventplanner-collab/internal/domain"
	"eventplanner-collab/internal/lib/logger/sl"
	"eventplanner-collab/internal/store"
)

// Cache holds the unfiltered ranking per event type and location.
type Cache interface {
	Get(ctx context.Context, key string) ([]domain.VendorSummary, bool, error)
	Set(ctx context.Context, key string, summaries []domain.VendorSummary) error
	Delete(ctx context.Context, keys ...string) error
}

type Ranker struct {
	log   *slog.Logger
	store store.Gateway
	cache Cache
}

// New returns a ranker. cache may be nil.
func New(log *slog.Logger, gw store.Gateway, cache Cache) *Ranker {
	return &Ranker{log: log, store: gw, cache: cache}
}

// Suggest returns vendors in location that service eventType and are not in
// excludeIDs, most leads first. Vendors with equal lead counts come in no particular order.
func (r *Ranker) Suggest(ctx context.Context, eventType, location string, excludeIDs []string) ([]domain.VendorSummary, error) {
	const op = "suggestion.Suggest"
	log := r.log.With(slog.String("op", op))

	if r.cache == nil {
		summaries, err := r.store.AggregateVendors(ctx, store.VendorQuery{
			Type:       eventType,
			Location:   location,
			ExcludeIDs: excludeIDs,
		})
		if err != nil {
			log.Error("failed to aggregate vendors", sl.Err(err))
			return nil, domain.Wrap(op, "getting suggested vendors", err)
		}
		return summaries, nil
	}

	key := cacheKey(eventType, location)
	ranked, hit, err := r.cache.Get(ctx, key)
	if err != nil {
		log.Warn("suggestion cache unavailable", sl.Err(err))
	}
	if !hit {
		ranked, err = r.store.AggregateVendors(ctx, store.VendorQuery{Type: eventType, Location: location})
		if err != nil {
			log.Error("failed to aggregate vendors", sl.Err(err))
			return nil, domain.Wrap(op, "getting suggested vendors", err)
		}
		if err := r.cache.Set(ctx, key, ranked); err != nil {
			log.Warn("failed to cache suggestions", sl.Err(err))
		}
	}

	return exclude(ranked, excludeIDs), nil
}

// Invalidate drops the cached rankings the vendor appears in. Call it after a
// change to the vendor's lead count has committed.
func (r *Ranker) Invalidate(ctx context.Context, vendor *domain.User) {
	if r.cache == nil || vendor == nil || len(vendor.EventTypes) == 0 {
		return
	}

	keys := make([]string, 0, len(vendor.EventTypes))
	for _, t := range vendor.EventTypes {
		keys = append(keys, cacheKey(t, vendor.BusinessLocation))
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.log.Warn("failed to invalidate suggestions",
			slog.String("op", "suggestion.Invalidate"),
			slog.String("vendor_id", vendor.ID),
			sl.Err(err),
		)
	}
}

func cacheKey(eventType, location string) string {
	return eventType + "|" + location
}

func exclude(ranked []domain.VendorSummary, ids []string) []domain.VendorSummary {
	out := make([]domain.VendorSummary, 0, len(ranked))
	for _, v := range ranked {
		if !slices.Contains(ids, v.ID) {
			out = append(out, v)
		}
	}
	return out
}
