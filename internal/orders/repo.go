package orders

import (
	"context"
	"time"

	"github.com/angelmondragon/stockline-backend/internal/repo"
	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilter narrows order queries. Zero values mean "any".
type ListFilter struct {
	PartyFirmName string
	Status        enums.OrderStatus
	LineLocation  string
	AssignedTo    *uuid.UUID
	ProductName   string
}

// Repository persists the order aggregate: the orders row plus its order_lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, filter ListFilter) ([]models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Save(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePartySnapshot(ctx context.Context, prevFirmName string, snapshot models.PartySnapshot) (int64, error)
	DeleteByParty(ctx context.Context, partyID uuid.UUID, firmName string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	})
}

// List returns matching orders newest first with their lines in position order.
func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Order, error) {
	query := preloadLines(r.db.WithContext(ctx).Model(&models.Order{}))
	if filter.PartyFirmName != "" {
		query = query.Where("party_firm_name = ?", filter.PartyFirmName)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.LineLocation != "" {
		query = query.Where("id IN (?)", r.lineOrderIDs(ctx).Where("location = ?", filter.LineLocation))
	}
	if filter.AssignedTo != nil {
		query = query.Where("id IN (?)", r.lineOrderIDs(ctx).Where("assigned_to = ?", *filter.AssignedTo))
	}
	if filter.ProductName != "" {
		query = query.Where("id IN (?)", r.lineOrderIDs(ctx).Where("product_name = ?", filter.ProductName))
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) lineOrderIDs(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.OrderLine{}).Select("order_id")
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := preloadLines(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create inserts the order row followed by its lines.
func (r *repository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	return r.insertLines(ctx, order)
}

// Save rewrites the order row and replaces its lines wholesale.
func (r *repository) Save(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now().UTC()
	updates := map[string]any{
		"party_id":              order.Party.PartyID,
		"party_firm_name":       order.Party.FirmName,
		"party_firm_address":    order.Party.FirmAddress,
		"party_firm_city_state": order.Party.FirmCityState,
		"party_contact_person":  order.Party.ContactPerson,
		"party_phone_number":    order.Party.PhoneNumber,
		"status":                order.Status,
		"created_by":            order.CreatedBy,
		"updated_at":            order.UpdatedAt,
	}
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates)
	if err := repo.RequireAffected(res); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("order_id = ?", order.ID).Delete(&models.OrderLine{}).Error; err != nil {
		return err
	}
	return r.insertLines(ctx, order)
}

func (r *repository) insertLines(ctx context.Context, order *models.Order) error {
	if len(order.Lines) == 0 {
		return nil
	}
	for i := range order.Lines {
		if order.Lines[i].ID == uuid.Nil {
			order.Lines[i].ID = uuid.New()
		}
		order.Lines[i].OrderID = order.ID
		order.Lines[i].Position = i
	}
	return r.db.WithContext(ctx).Create(&order.Lines).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Delete(&models.OrderLine{}).Error; err != nil {
		return err
	}
	return repo.RequireAffected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{}))
}

// UpdatePartySnapshot rewrites the embedded party on every order whose snapshot
// carries prevFirmName.
func (r *repository) UpdatePartySnapshot(ctx context.Context, prevFirmName string, snapshot models.PartySnapshot) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("party_firm_name = ?", prevFirmName).
		Updates(map[string]any{
			"party_id":              snapshot.PartyID,
			"party_firm_name":       snapshot.FirmName,
			"party_firm_address":    snapshot.FirmAddress,
			"party_firm_city_state": snapshot.FirmCityState,
			"party_contact_person":  snapshot.ContactPerson,
			"party_phone_number":    snapshot.PhoneNumber,
			"updated_at":            time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

// DeleteByParty removes orders whose snapshot references partyID, or firmName when
// the snapshot predates party ids.
func (r *repository) DeleteByParty(ctx context.Context, partyID uuid.UUID, firmName string) (int64, error) {
	match := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.Order{}).
			Where("party_id = ? OR (party_id IS NULL AND party_firm_name = ?)", partyID, firmName)
	}
	if err := r.db.WithContext(ctx).
		Where("order_id IN (?)", match().Select("id")).
		Delete(&models.OrderLine{}).Error; err != nil {
		return 0, err
	}
	res := match().Delete(&models.Order{})
	return res.RowsAffected, res.Error
}
