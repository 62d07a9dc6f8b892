package orders

import (
	"context"
	"fmt"

	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PullResult reports what a product removal did to stored orders.
type PullResult struct {
	LinesRemoved  int `json:"linesRemoved"`
	OrdersUpdated int `json:"ordersUpdated"`
	OrdersDeleted int `json:"ordersDeleted"`
}

// Sync is the single place where catalog edits reach the party and line snapshots
// embedded in orders. Callers pass the transaction that changed the catalog row.
type Sync struct {
	repo    Repository
	metrics transitionCounter
}

// NewSync builds the catalog-to-orders synchronizer.
func NewSync(repo Repository, metrics transitionCounter) (*Sync, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &Sync{repo: repo, metrics: metrics}, nil
}

// PropagateParty copies snapshot onto every order that embedded prevFirmName.
func (s *Sync) PropagateParty(ctx context.Context, tx *gorm.DB, prevFirmName string, snapshot models.PartySnapshot) (int64, error) {
	return s.repo.WithTx(tx).UpdatePartySnapshot(ctx, prevFirmName, snapshot)
}

// DeleteForParty removes every order placed for the party.
func (s *Sync) DeleteForParty(ctx context.Context, tx *gorm.DB, partyID uuid.UUID, firmName string) (int64, error) {
	deleted, err := s.repo.WithTx(tx).DeleteByParty(ctx, partyID, firmName)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.inc("cascade")
	}
	return deleted, nil
}

// PullProduct drops lines for productName from every order. Orders left without
// lines are deleted; the rest have their status recomputed.
func (s *Sync) PullProduct(ctx context.Context, tx *gorm.DB, productName string) (PullResult, error) {
	repo := s.repo.WithTx(tx)
	affected, err := repo.List(ctx, ListFilter{ProductName: productName})
	if err != nil {
		return PullResult{}, err
	}

	var result PullResult
	for i := range affected {
		order := &affected[i]
		kept := make([]models.OrderLine, 0, len(order.Lines))
		for _, line := range order.Lines {
			if line.ProductName == productName {
				result.LinesRemoved++
				continue
			}
			kept = append(kept, line)
		}
		if len(kept) == 0 {
			if err := repo.Delete(ctx, order.ID); err != nil {
				return result, err
			}
			result.OrdersDeleted++
			continue
		}
		order.Lines = kept
		RecomputeStatus(order)
		if err := repo.Save(ctx, order); err != nil {
			return result, err
		}
		result.OrdersUpdated++
	}
	if result.LinesRemoved > 0 {
		s.inc("cascade")
	}
	return result, nil
}

func (s *Sync) inc(operation string) {
	if s.metrics != nil {
		s.metrics.Inc(operation)
	}
}
