package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"eventrsvp/internal/cache"
	"eventrsvp/internal/domain"
)

// eventService mediates every event/RSVP read and write between the
// durable store and the side cache: cache-aside reads, write-invalidate
// mutations, and ownership checks. The cache is never authoritative, so
// cache failures degrade to store reads and are only logged.
type eventService struct {
	repo           domain.EventRepository
	cache          domain.Cache
	notifier       domain.InviteNotifier
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEventService returns the event/RSVP service. The cache is injected
// so tests can substitute an in-memory fake.
func NewEventService(
	repo domain.EventRepository,
	c domain.Cache,
	notifier domain.InviteNotifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		repo:           repo,
		cache:          c,
		notifier:       notifier,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// cacheSet populates a cache entry, logging instead of failing: the next
// read falls through to the store.
func (s *eventService) cacheSet(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.WarnContext(ctx, "cache degraded on set", "key", key, "err", err)
	}
}

// cacheDelete invalidates cache entries, logging instead of failing.
func (s *eventService) cacheDelete(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.WarnContext(ctx, "cache degraded on delete", "keys", keys, "err", err)
	}
}

func (s *eventService) List(ctx context.Context, userID string) (*domain.EventList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key := cache.UserEventsKey(userID)
	cached := &domain.EventList{}
	if hit, _ := s.cache.Get(ctx, key, cached); hit {
		return cached, nil
	}

	created, err := s.repo.ListByOwnerID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned events: %w", err)
	}
	invited, err := s.repo.ListInvited(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list invited events: %w", err)
	}

	list := &domain.EventList{Created: created, Invited: invited}
	s.cacheSet(ctx, key, list)
	return list, nil
}

func (s *eventService) Get(ctx context.Context, id, userID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key := cache.EventKey(id)
	cached := &domain.Event{}
	if hit, _ := s.cache.Get(ctx, key, cached); hit {
		// The cached payload carries the owner id, so the ownership check
		// holds on hits as well as misses.
		if cached.OwnerID != userID {
			return nil, domain.ErrForbidden
		}
		return cached, nil
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != userID {
		return nil, domain.ErrForbidden
	}

	s.cacheSet(ctx, key, event)
	// The individual view may now differ from the cached aggregation, so
	// force the list view to recompute.
	s.cacheDelete(ctx, cache.UserEventsKey(userID))
	return event, nil
}

func (s *eventService) Create(ctx context.Context, params domain.CreateEventParams, userID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event := &domain.Event{
		ID:          uuid.NewString(),
		Name:        params.Name,
		Description: params.Description,
		Location:    params.Location,
		Time:        params.Time,
		OwnerID:     userID,
	}
	created, err := s.repo.CreateWithInvitees(ctx, event, params.Invitees)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.cacheSet(ctx, cache.EventKey(created.ID), created)
	s.cacheDelete(ctx, cache.UserEventsKey(userID))

	s.notifier.NotifyInvited(ctx, created, params.Invitees)
	return created, nil
}

func (s *eventService) Update(ctx context.Context, id string, params domain.UpdateEventParams, userID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != userID {
		return nil, domain.ErrForbidden
	}

	updated, err := s.repo.Update(ctx, id, params.Fields, params.AddInvitees, params.RemoveRSVPIDs)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.cacheSet(ctx, cache.EventKey(id), updated)
	s.cacheDelete(ctx, cache.UserEventsKey(userID))

	s.notifier.NotifyInvited(ctx, updated, params.AddInvitees)
	return updated, nil
}

func (s *eventService) Remove(ctx context.Context, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != userID {
		return domain.ErrForbidden
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}

	s.cacheDelete(ctx, cache.EventKey(id), cache.UserEventsKey(userID))
	return nil
}

func (s *eventService) UpdateRSVP(ctx context.Context, id string, response domain.RSVPResponse, userID string) (*domain.EventSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidRSVPResponse(response) {
		return nil, fmt.Errorf("invalid rsvp response %q", response)
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// Only a principal holding an active RSVP on the event may answer.
	rsvp := event.FindRSVPByUser(userID)
	if rsvp == nil {
		return nil, domain.ErrForbidden
	}

	if err := s.repo.SetRSVPResponse(ctx, rsvp.ID, response); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set rsvp response: %w", err)
	}

	// Both the event view and the caller's list view are stale now.
	s.cacheDelete(ctx, cache.EventKey(id), cache.UserEventsKey(userID))
	return event.Summary(), nil
}
