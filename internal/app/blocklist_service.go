package app

import (
	"context"
	"fmt"

	"focusflow/internal/domain"
)

// BlocklistService encapsulates the per-user website blocklist.
type BlocklistService struct {
	repo domain.BlocklistRepository
}

// NewBlocklistService creates a BlocklistService backed by the given repository.
func NewBlocklistService(repo domain.BlocklistRepository) *BlocklistService {
	return &BlocklistService{repo: repo}
}

// List returns userID's blocked sites.
func (s *BlocklistService) List(ctx context.Context, userID int64) ([]domain.BlockedSite, error) {
	return s.repo.ListBlockedSites(ctx, userID)
}

// Add validates and stores a domain. Duplicates fail with ErrConflict.
func (s *BlocklistService) Add(ctx context.Context, userID int64, rawDomain string) (*domain.BlockedSite, error) {
	d, err := domain.NormalizeDomain(rawDomain)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListBlockedSites(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, site := range existing {
		if site.Domain == d {
			return nil, fmt.Errorf("%w: %s is already in the blocklist", domain.ErrConflict, d)
		}
	}
	return s.repo.AddBlockedSite(ctx, userID, d)
}

// Remove deletes a blocked site owned by userID.
func (s *BlocklistService) Remove(ctx context.Context, userID, id int64) error {
	removed, err := s.repo.RemoveBlockedSite(ctx, userID, id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: blocked site %d", domain.ErrNotFound, id)
	}
	return nil
}
