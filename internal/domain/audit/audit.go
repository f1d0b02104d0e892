package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

type Filter struct {
	Action     string
	EntityType string
	EntityID   string
	ActorUser  string
}

func (f Filter) matches(evt Event) bool {
	switch {
	case f.Action != "" && evt.Action != f.Action:
		return false
	case f.EntityType != "" && evt.EntityType != f.EntityType:
		return false
	case f.EntityID != "" && evt.EntityID != f.EntityID:
		return false
	case f.ActorUser != "" && evt.ActorID != f.ActorUser:
		return false
	}
	return true
}

type StoreAPI interface {
	Insert(ctx context.Context, evt Event) error
	Count(ctx context.Context, filter Filter) (int, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]Event, error)
}

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func New(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

// Record stores one event. Before and after are marshalled to JSON when set.
func (s *Service) Record(ctx context.Context, evt Event, before, after any) error {
	var err error
	if evt.Before, err = marshal(before); err != nil {
		return err
	}
	if evt.After, err = marshal(after); err != nil {
		return err
	}
	evt.ID = uuid.NewString()
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = s.now().UTC()
	}
	return s.store.Insert(ctx, evt)
}

func (s *Service) Count(ctx context.Context, filter Filter) (int, error) {
	return s.store.Count(ctx, filter)
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.List(ctx, filter, limit, offset)
}

func marshal(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
