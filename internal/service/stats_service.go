package service

import (
	"context"
	"math"
	"time"

	"github.com/RandyMyers/mbzserver12-sub001/internal/domain"
	"github.com/RandyMyers/mbzserver12-sub001/internal/repository"
)

// TicketStats aggregates derived metrics over one organization's tickets.
type TicketStats struct {
	Total                 int     `json:"total"`
	Open                  int     `json:"open"`
	Resolved              int     `json:"resolved"`
	AvgFirstResponseHours float64 `json:"avg_first_response_hours"`
}

// StatsService computes read-side aggregations over the ticket store. The
// result is a point-in-time snapshot; it is not transactionally consistent
// with concurrent writers.
type StatsService struct {
	tickets repository.TicketRepository
	cache   *StatsCache
}

// NewStatsService constructs the service.
func NewStatsService(tickets repository.TicketRepository, cache *StatsCache) *StatsService {
	return &StatsService{tickets: tickets, cache: cache}
}

// Summary computes all metrics for the organization in one scan, consulting
// the cache first.
func (s *StatsService) Summary(ctx context.Context, organizationID string) (*TicketStats, error) {
	if err := requireScope(organizationID); err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Get(ctx, organizationID); ok {
		return cached, nil
	}
	tickets, err := s.tickets.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	stats := computeStats(tickets)
	s.cache.Set(ctx, organizationID, stats)
	return stats, nil
}

// Total returns the count of all tickets for the organization.
func (s *StatsService) Total(ctx context.Context, organizationID string) (int, error) {
	stats, err := s.Summary(ctx, organizationID)
	if err != nil {
		return 0, err
	}
	return stats.Total, nil
}

// Open returns the count of tickets still in flight (open or in-progress).
func (s *StatsService) Open(ctx context.Context, organizationID string) (int, error) {
	stats, err := s.Summary(ctx, organizationID)
	if err != nil {
		return 0, err
	}
	return stats.Open, nil
}

// Resolved returns the count of settled tickets (resolved or closed).
func (s *StatsService) Resolved(ctx context.Context, organizationID string) (int, error) {
	stats, err := s.Summary(ctx, organizationID)
	if err != nil {
		return 0, err
	}
	return stats.Resolved, nil
}

// AvgFirstResponseHours returns the mean time to the earliest support reply,
// in hours rounded to two decimals, across tickets that have at least one
// support message. Tickets without a support reply are excluded from both
// numerator and denominator; with no qualifying ticket the result is 0.
func (s *StatsService) AvgFirstResponseHours(ctx context.Context, organizationID string) (float64, error) {
	stats, err := s.Summary(ctx, organizationID)
	if err != nil {
		return 0, err
	}
	return stats.AvgFirstResponseHours, nil
}

func computeStats(tickets []domain.Ticket) *TicketStats {
	stats := &TicketStats{Total: len(tickets)}

	var responded int
	var totalResponse time.Duration
	for i := range tickets {
		switch tickets[i].Status {
		case domain.TicketStatusOpen, domain.TicketStatusInProgress:
			stats.Open++
		case domain.TicketStatusResolved, domain.TicketStatusClosed:
			stats.Resolved++
		}
		if firstReply, ok := tickets[i].FirstSupportReplyAt(); ok {
			responded++
			totalResponse += firstReply.Sub(tickets[i].CreatedAt)
		}
	}
	if responded > 0 {
		avgMillis := float64(totalResponse.Milliseconds()) / float64(responded)
		hours := avgMillis / float64(time.Hour.Milliseconds())
		stats.AvgFirstResponseHours = math.Round(hours*100) / 100
	}
	return stats
}
