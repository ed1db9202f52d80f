package items

import (
	"context"
	"time"

	"github.com/imrishuroy/go-wardrobe-api/internal/events"
	"github.com/imrishuroy/go-wardrobe-api/internal/logger"
)

// Service enforces existence rules on top of a Repository and classifies every
// failure as either *NotFoundError or *InternalError.
type Service struct {
	repo      Repository
	publisher events.Publisher
	log       *logger.Logger
	nowFunc   func() time.Time
}

// NewService wires a Service. A nil publisher disables events; a nil logger
// uses the process default.
func NewService(repo Repository, publisher events.Publisher, log *logger.Logger) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log.With("ItemService"),
		nowFunc:   time.Now,
	}
}

func (s *Service) Create(ctx context.Context, f Fields) (*Item, error) {
	s.log.Debug("creating new item", "user_id", f.UserID, "category", f.Category)
	it, err := s.repo.Create(ctx, f)
	if err != nil {
		return nil, s.internal("create item", err, "user_id", f.UserID, "category", f.Category)
	}
	s.log.Info("item created successfully", "item_id", it.ID)
	s.emit(ctx, events.ItemCreated, it.ID, it.UserID, it)
	return it, nil
}

func (s *Service) FindAll(ctx context.Context, q Query) (Page, error) {
	q = q.Normalize()
	s.log.Debug("finding all items with query", "user_id", q.UserID, "category", q.Category,
		"sort_by", q.SortBy, "sort_order", q.SortOrder, "limit", *q.Limit, "offset", *q.Offset)
	page, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return Page{}, s.internal("retrieve items", err, "user_id", q.UserID, "category", q.Category)
	}
	s.log.Info("items retrieved successfully", "count", page.Count, "returned", len(page.Data))
	return page, nil
}

func (s *Service) FindOne(ctx context.Context, id string) (*Item, error) {
	s.log.Debug("finding item by id", "item_id", id)
	it, err := s.mustExist(ctx, "retrieve item", id)
	if err != nil {
		return nil, err
	}
	s.log.Info("item retrieved successfully", "item_id", id)
	return it, nil
}

func (s *Service) Update(ctx context.Context, id string, p Patch) (*Item, error) {
	s.log.Debug("updating item", "item_id", id)
	if _, err := s.mustExist(ctx, "update item", id); err != nil {
		return nil, err
	}
	it, err := s.repo.Update(ctx, id, p)
	if err != nil {
		if nf, ok := IsNotFound(err); ok {
			s.log.Warn("item disappeared before update", "item_id", id)
			return nil, nf
		}
		return nil, s.internal("update item", err, "item_id", id)
	}
	s.log.Info("item updated successfully", "item_id", id)
	s.emit(ctx, events.ItemUpdated, it.ID, it.UserID, it)
	return it, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	s.log.Debug("removing item", "item_id", id)
	existing, err := s.mustExist(ctx, "remove item", id)
	if err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, id); err != nil {
		if nf, ok := IsNotFound(err); ok {
			s.log.Warn("item disappeared before deletion", "item_id", id)
			return nf
		}
		return s.internal("remove item", err, "item_id", id)
	}
	s.log.Info("item removed successfully", "item_id", id)
	s.emit(ctx, events.ItemDeleted, id, existing.UserID, nil)
	return nil
}

// mustExist looks id up and turns absence into a *NotFoundError.
func (s *Service) mustExist(ctx context.Context, op, id string) (*Item, error) {
	it, err := s.repo.FindOne(ctx, id)
	if _, ok := IsNotFound(err); ok {
		it, err = nil, nil
	}
	if err != nil {
		return nil, s.internal(op, err, "item_id", id)
	}
	if it == nil {
		s.log.Warn("item not found", "item_id", id, "op", op)
		return nil, &NotFoundError{ID: id}
	}
	return it, nil
}

func (s *Service) internal(op string, cause error, keysAndValues ...interface{}) error {
	kv := append([]interface{}{"op", op, "error", cause}, keysAndValues...)
	s.log.Error("failed to "+op, kv...)
	return &InternalError{Op: op, Err: cause}
}

func (s *Service) emit(ctx context.Context, typ, itemID, userID string, it *Item) {
	e := events.Event{
		Type:       typ,
		ItemID:     itemID,
		UserID:     userID,
		OccurredAt: s.nowFunc().UTC(),
	}
	if it != nil {
		e.Item = *it
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn("failed to publish item event", "type", typ, "item_id", itemID, "error", err)
	}
}
