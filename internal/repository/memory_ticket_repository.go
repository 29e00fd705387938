package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/RandyMyers/mbzserver12-sub001/internal/domain"
)

// memoryTicketRepository keeps ticket aggregates in process memory. It backs
// the service when no Postgres DSN is configured and is the fixture for
// service-level tests. Stored aggregates are never mutated in place; Mutate
// swaps in a fresh copy under a per-ticket lock so concurrent appends to the
// same ticket cannot lose each other.
type memoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
	locks   sync.Map // serialization key -> *sync.Mutex
}

// NewMemoryTicketRepository instantiates the in-memory repository.
func NewMemoryTicketRepository() TicketRepository {
	return &memoryTicketRepository{tickets: make(map[string]*domain.Ticket)}
}

func (r *memoryTicketRepository) lockFor(key string) *sync.Mutex {
	actual, _ := r.locks.LoadOrStore(key, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

func (r *memoryTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[ticket.ID] = ticket.Clone()
	return nil
}

func (r *memoryTicketRepository) Get(ctx context.Context, id, organizationID string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok || ticket.OrganizationID != organizationID {
		return nil, ErrNotFound
	}
	return ticket.Clone(), nil
}

func (r *memoryTicketRepository) ListByOrganization(ctx context.Context, organizationID string) ([]domain.Ticket, error) {
	r.mu.RLock()
	result := make([]domain.Ticket, 0)
	for _, ticket := range r.tickets {
		if ticket.OrganizationID == organizationID {
			result = append(result, *ticket.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (r *memoryTicketRepository) Mutate(ctx context.Context, id, organizationID string, fn func(*domain.Ticket) error) (*domain.Ticket, error) {
	lock := r.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	stored, ok := r.tickets[id]
	r.mu.RUnlock()
	if !ok || stored.OrganizationID != organizationID {
		return nil, ErrNotFound
	}

	work := stored.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	work.UpdatedAt = time.Now()

	r.mu.Lock()
	if _, ok := r.tickets[id]; !ok {
		r.mu.Unlock()
		return nil, ErrNotFound
	}
	r.tickets[id] = work
	r.mu.Unlock()
	return work.Clone(), nil
}

func (r *memoryTicketRepository) Delete(ctx context.Context, id, organizationID string) error {
	lock := r.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok || ticket.OrganizationID != organizationID {
		return ErrNotFound
	}
	delete(r.tickets, id)
	return nil
}

func (r *memoryTicketRepository) EnsureSentinel(ctx context.Context, organizationID string) (*domain.Ticket, error) {
	lock := r.lockFor("sentinel/" + organizationID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	for _, ticket := range r.tickets {
		if ticket.OrganizationID == organizationID && ticket.IsSentinel {
			clone := ticket.Clone()
			r.mu.RUnlock()
			return clone, nil
		}
	}
	r.mu.RUnlock()

	sentinel := NewSentinelTicket(organizationID)
	r.mu.Lock()
	r.tickets[sentinel.ID] = sentinel.Clone()
	r.mu.Unlock()
	return sentinel, nil
}
