package statistics

import (
	"context"
	"time"

	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var snapshotColumns = []string{
	"most_ordered_product_name", "most_ordered_product_count",
	"least_ordered_product_name", "least_ordered_product_count",
	"party_most_orders_name", "party_most_orders_count",
	"party_least_orders_name", "party_least_orders_count",
	"number_of_orders", "number_of_products", "number_of_parties",
	"product_order_counts", "average_order_value", "total_revenue",
	"updated_at",
}

// Repository persists daily statistics snapshots.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the statistics repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes snap, replacing any snapshot already stored for snap.Date.
func (r *Repository) Upsert(ctx context.Context, snap *models.StatisticsSnapshot) error {
	if snap.ID == uuid.Nil {
		snap.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns(snapshotColumns),
	}).Create(snap).Error
}

// FindByDate loads the snapshot for day.
func (r *Repository) FindByDate(ctx context.Context, day time.Time) (*models.StatisticsSnapshot, error) {
	var snap models.StatisticsSnapshot
	if err := r.db.WithContext(ctx).First(&snap, "date = ?", day).Error; err != nil {
		return nil, err
	}
	return &snap, nil
}

// Latest returns the most recent snapshot.
func (r *Repository) Latest(ctx context.Context) (*models.StatisticsSnapshot, error) {
	var snap models.StatisticsSnapshot
	if err := r.db.WithContext(ctx).Order("date DESC").First(&snap).Error; err != nil {
		return nil, err
	}
	return &snap, nil
}

// Count reports how many snapshots exist.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.StatisticsSnapshot{}).Count(&n).Error
	return n, err
}

// CountProducts and CountParties feed the catalog totals.
func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

func (r *Repository) CountParties(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Party{}).Count(&n).Error
	return n, err
}

// OrderTimestampsSince returns the creation time of every order created at or after since.
func (r *Repository) OrderTimestampsSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &stamps).Error
	return stamps, err
}
