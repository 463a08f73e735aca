package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure IndexService implements the interface.
var _ driving.IndexManager = (*IndexService)(nil)

// IndexService administers persisted indices.
type IndexService struct {
	store driven.IndexStore
}

// NewIndexService creates a new index service.
func NewIndexService(store driven.IndexStore) *IndexService {
	return &IndexService{store: store}
}

// List returns every persisted index, newest first.
func (s *IndexService) List(ctx context.Context) ([]domain.IndexInfo, error) {
	return s.store.List(ctx)
}

// Delete removes the index whose key is key or starts with key.
// An ambiguous prefix is rejected.
func (s *IndexService) Delete(ctx context.Context, key string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return fmt.Errorf("%w: index key is required", domain.ErrInvalidInput)
	}

	infos, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	var matches []string
	for _, info := range infos {
		if info.Key == key {
			matches = []string{key}
			break
		}
		if strings.HasPrefix(info.Key, key) {
			matches = append(matches, info.Key)
		}
	}

	switch len(matches) {
	case 0:
		return fmt.Errorf("%w: no index matches %q", domain.ErrNotFound, key)
	case 1:
		return s.store.Delete(ctx, matches[0])
	default:
		return fmt.Errorf("%w: %q matches %d indices", domain.ErrInvalidInput, key, len(matches))
	}
}

// Clear removes every persisted index and returns how many were removed.
func (s *IndexService) Clear(ctx context.Context) (int, error) {
	infos, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, info := range infos {
		if err := s.store.Delete(ctx, info.Key); err != nil {
			return removed, fmt.Errorf("delete %s: %w", shortKey(info.Key), err)
		}
		removed++
	}
	return removed, nil
}
