package service

import (
	"context"
	"log"

	"outlethub-api/internal/cache"
	"outlethub-api/internal/event"
	"outlethub-api/internal/model"
	"outlethub-api/internal/repository"
)

// StatsService recomputes outlet counters from the outlet's current product
// set. The result is a full replacement of the stored counters, so repeated
// runs over an unchanged product set are idempotent.
type StatsService struct {
	outlets  repository.OutletRepository
	products repository.ProductRepository
	cache    *cache.StatsCache // nil when Redis is unavailable
}

// NewStatsService creates a stats service. cache may be nil.
func NewStatsService(outlets repository.OutletRepository, products repository.ProductRepository, statsCache *cache.StatsCache) *StatsService {
	return &StatsService{outlets: outlets, products: products, cache: statsCache}
}

// Recompute derives the three counters for one outlet and persists them.
//
// Revenue sums (totalProduct - stockQuantity) * price per product. A stock
// increase without a matching totalProduct update makes the sold quantity
// negative and reduces the sum; that is the established contract and is not
// clamped here.
func (s *StatsService) Recompute(ctx context.Context, outletID int64) (*model.OutletStats, error) {
	if _, err := s.outlets.FindByID(ctx, outletID); err != nil {
		return nil, err
	}

	products, err := s.products.FindByOutlet(ctx, outletID)
	if err != nil {
		return nil, err
	}

	stats := model.OutletStats{TotalProducts: int64(len(products))}
	for _, p := range products {
		stats.TotalQuantity += p.StockQuantity
		sold := p.TotalProduct - p.StockQuantity
		stats.TotalRevenue += float64(sold) * p.Price
	}

	if err := s.outlets.UpdateStats(ctx, outletID, stats); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, outletID, stats); err != nil {
			log.Printf("[StatsService] Warning: snapshot cache write failed for outlet %d: %v", outletID, err)
		}
	}

	return &stats, nil
}

// RecomputeAll recomputes every outlet independently. One outlet's failure
// never aborts the batch; each outcome is reported.
func (s *StatsService) RecomputeAll(ctx context.Context) ([]model.StatsBatchResult, error) {
	outlets, err := s.outlets.List(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]model.StatsBatchResult, 0, len(outlets))
	for _, outlet := range outlets {
		result := model.StatsBatchResult{OutletID: outlet.ID, OutletName: outlet.Name}

		stats, err := s.Recompute(ctx, outlet.ID)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Success = true
			result.Stats = stats
		}
		results = append(results, result)
	}
	return results, nil
}

// HandleProductEvent is the lifecycle subscriber. Recomputation failure is
// logged and swallowed so the triggering product mutation still succeeds;
// counters drift until the next successful recomputation.
func (s *StatsService) HandleProductEvent(ctx context.Context, ev event.ProductEvent) {
	if ev.OutletID == 0 {
		log.Printf("[StatsService] Product event %s without outlet id, skipping", ev.Kind)
		return
	}

	if _, err := s.Recompute(ctx, ev.OutletID); err != nil {
		log.Printf("[StatsService] Failed to recompute stats for outlet %d after product %s: %v",
			ev.OutletID, ev.Kind, err)
	}
}
