package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/kendall-kelly/design-orders-panel/models"
	"github.com/kendall-kelly/design-orders-panel/storage"
)

func (s *OrderService) tombstones(ctx context.Context) []string {
	var ids []string
	if _, err := s.local.GetJSON(ctx, storage.KeyDeletedOrders, &ids); err != nil {
		s.logger.Warn("Failed to read deleted orders", zap.Error(err))
	}
	return ids
}

func (s *OrderService) saveTombstones(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return s.local.Remove(ctx, storage.KeyDeletedOrders)
	}
	return s.local.SetJSON(ctx, storage.KeyDeletedOrders, ids)
}

func (s *OrderService) addTombstone(ctx context.Context, id string) error {
	s.tombMu.Lock()
	defer s.tombMu.Unlock()

	ids := s.tombstones(ctx)
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	return s.saveTombstones(ctx, append(ids, id))
}

// applyTombstones hides locally deleted orders from a remote listing and
// retries their remote delete once. A tombstone is dropped when the delete
// succeeds or the remote no longer lists the id. It runs without s.mu, so
// tombstones added meanwhile are kept.
func (s *OrderService) applyTombstones(ctx context.Context, remote []models.Record) []models.Record {
	ids := s.tombstones(ctx)
	if len(ids) == 0 {
		return remote
	}

	pending := make(map[string]bool, len(ids))
	for _, id := range ids {
		pending[id] = false
	}

	visible := make([]models.Record, 0, len(remote))
	for _, rec := range remote {
		id, ok := rec.Key("id")
		if _, tombstoned := pending[id]; ok && tombstoned {
			pending[id] = true
			continue
		}
		visible = append(visible, rec)
	}

	cleared := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !pending[id] {
			cleared[id] = true
			continue
		}
		if err := s.api.DeleteOrder(ctx, id); err != nil && !isRemoteNotFound(err) {
			s.logger.Warn("Remote delete retry failed", zap.String("order_id", id), zap.Error(err))
			continue
		}
		s.logger.Info("Remote delete retry succeeded", zap.String("order_id", id))
		cleared[id] = true
	}

	if len(cleared) > 0 {
		if err := s.clearTombstones(ctx, cleared); err != nil {
			s.logger.Warn("Failed to update deleted orders", zap.Error(err))
		}
	}
	return visible
}

func (s *OrderService) clearTombstones(ctx context.Context, cleared map[string]bool) error {
	s.tombMu.Lock()
	defer s.tombMu.Unlock()

	var keep []string
	for _, id := range s.tombstones(ctx) {
		if !cleared[id] {
			keep = append(keep, id)
		}
	}
	return s.saveTombstones(ctx, keep)
}

// hideTombstoned drops remote orders whose id is currently tombstoned
func (s *OrderService) hideTombstoned(ctx context.Context, remote []models.Record) []models.Record {
	s.tombMu.Lock()
	ids := s.tombstones(ctx)
	s.tombMu.Unlock()
	if len(ids) == 0 {
		return remote
	}

	hidden := make(map[string]bool, len(ids))
	for _, id := range ids {
		hidden[id] = true
	}
	visible := make([]models.Record, 0, len(remote))
	for _, rec := range remote {
		if id, ok := rec.Key("id"); ok && hidden[id] {
			continue
		}
		visible = append(visible, rec)
	}
	return visible
}
