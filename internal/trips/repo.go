package trips

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/fueltrips-backend/internal/repo"
	"github.com/angelmondragon/fueltrips-backend/pkg/db/models"
	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
)

// Repository persists trips.
type Repository struct {
	repo.Base
}

// NewRepository builds a trips repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

func (r *Repository) Create(ctx context.Context, trip *models.Trip) error {
	return r.DB(ctx).Omit(clause.Associations).Create(trip).Error
}

// FindByID loads a trip with its creator.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	if err := r.DB(ctx).Preload("Creator").First(&trip, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// FindByIDForUpdate loads a trip and row-locks it for the surrounding transaction.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	err := r.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&trip, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// List returns one page of trips matching q plus the total match count.
func (r *Repository) List(ctx context.Context, q listQuery) ([]models.Trip, int64, error) {
	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]models.Trip, 0, q.Page.Limit)
	if total == 0 {
		return rows, 0, nil
	}

	err := r.filtered(ctx, q).
		Preload("Creator").
		Order(clause.OrderByColumn{Column: clause.Column{Name: q.SortColumn}, Desc: q.Descending}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.Descending}).
		Limit(q.Page.Limit).
		Offset(q.Page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) filtered(ctx context.Context, q listQuery) *gorm.DB {
	tx := r.DB(ctx).Model(&models.Trip{})
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.ExcludeStatus != "" {
		tx = tx.Where("status <> ?", q.ExcludeStatus)
	}
	if q.FuelType != "" {
		tx = tx.Where("fuel_type = ?", q.FuelType)
	}
	if q.Driver != "" {
		tx = tx.Where(`LOWER(driver) LIKE ? ESCAPE '\'`, containsPattern(q.Driver))
	}
	return tx
}

// UpdateFields applies a column map to one trip.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB(ctx).
		Model(&models.Trip{}).
		Where("id = ?", id).
		Updates(fields).Error
}

type statusCount struct {
	Status enums.TripStatus
	Count  int64
}

// CountByStatus returns the number of trips per status.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.TripStatus]int64, error) {
	var rows []statusCount
	err := r.DB(ctx).
		Model(&models.Trip{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[enums.TripStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// SumVolume returns the liters across every trip, cancelled ones included.
func (r *Repository) SumVolume(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB(ctx).
		Model(&models.Trip{}).
		Select("COALESCE(SUM(volume_liters), 0)").
		Scan(&total).Error
	return total, err
}
