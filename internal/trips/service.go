package trips

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/angelmondragon/fueltrips-backend/pkg/db"
	"github.com/angelmondragon/fueltrips-backend/pkg/db/models"
	"github.com/angelmondragon/fueltrips-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/fueltrips-backend/pkg/errors"
	"github.com/angelmondragon/fueltrips-backend/pkg/metrics"
	"github.com/angelmondragon/fueltrips-backend/pkg/pagination"
)

const (
	opCreate = "create"
	opUpdate = "update"
	opCancel = "cancel"
)

// Service exposes trip queries and mutations to the controllers.
type Service interface {
	List(ctx context.Context, params ListParams) (*pagination.Page[TripDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*TripDTO, error)
	Create(ctx context.Context, creatorID uuid.UUID, req CreateTripRequest) (*TripDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateTripRequest) (*TripDTO, error)
	Cancel(ctx context.Context, id uuid.UUID) (*TripDTO, error)
	DashboardStats(ctx context.Context) (*StatsDTO, error)
}

// ServiceParams bundles the trip service dependencies. Metrics and Now are optional.
type ServiceParams struct {
	DB      *db.Client
	Metrics *metrics.TripMetrics
	Now     func() time.Time
}

type service struct {
	db      *db.Client
	repo    *Repository
	metrics *metrics.TripMetrics
	now     func() time.Time
}

// NewService builds the trip service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		db:      params.DB,
		repo:    NewRepository(params.DB.DB()),
		metrics: params.Metrics,
		now:     now,
	}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*pagination.Page[TripDTO], error) {
	q, err := buildListQuery(params)
	if err != nil {
		return nil, err
	}

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list trips")
	}

	items := make([]TripDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &pagination.Page[TripDTO]{
		Items:      items,
		Pagination: pagination.NewMeta(q.Page, total),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*TripDTO, error) {
	trip, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return FromModel(trip), nil
}

func (s *service) Create(ctx context.Context, creatorID uuid.UUID, req CreateTripRequest) (dto *TripDTO, err error) {
	defer func() { s.metrics.Operation(opCreate, err) }()

	now := s.now().UTC()
	if err := ValidateCreate(&req, now); err != nil {
		return nil, err
	}

	status := enums.TripStatusScheduled
	if req.Status != "" {
		status, err = enums.ParseTripStatus(req.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
	}

	trip := &models.Trip{
		ID:           uuid.New(),
		Truck:        req.Truck,
		Driver:       req.Driver,
		Origin:       req.Origin,
		Destination:  req.Destination,
		FuelType:     enums.FuelType(req.FuelType),
		VolumeLiters: req.VolumeLiters,
		DepartureAt:  req.DepartureAt.UTC(),
		Status:       status,
		Notes:        req.Notes,
		CreatedBy:    creatorID,
	}
	if status == enums.TripStatusDelivered {
		trip.DeliveredAt = &now
	}

	if err := s.repo.Create(ctx, trip); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create trip")
	}
	return s.reload(ctx, trip.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateTripRequest) (dto *TripDTO, err error) {
	defer func() { s.metrics.Operation(opUpdate, err) }()

	now := s.now().UTC()
	var from, to enums.TripStatus

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		trip, err := txRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapLookupError(err)
		}
		if err := ValidateUpdate(&req, now); err != nil {
			return err
		}

		from, to = trip.Status, trip.Status
		if req.Status != nil {
			to, err = enums.ParseTripStatus(*req.Status)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
			}
			if err := CanTransition(from, to); err != nil {
				return err
			}
		}

		fields := updateFields(req)
		if from.IsTerminal() && len(fields) > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled trips cannot be edited").
				WithDetails(map[string]any{"from": from})
		}
		if to != from {
			fields["status"] = to
		}
		if to == enums.TripStatusDelivered && trip.DeliveredAt == nil {
			fields["delivered_at"] = now
		}
		if len(fields) > 0 {
			fields["updated_at"] = now
		}

		if err := txRepo.UpdateFields(ctx, id, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update trip")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if to != from {
		s.metrics.Transition(from.String(), to.String())
	}
	return s.reload(ctx, id)
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (dto *TripDTO, err error) {
	defer func() { s.metrics.Operation(opCancel, err) }()

	var from enums.TripStatus
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		trip, err := txRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapLookupError(err)
		}
		from = trip.Status
		if from == enums.TripStatusCancelled {
			return nil
		}

		err = txRepo.UpdateFields(ctx, id, map[string]any{
			"status":     enums.TripStatusCancelled,
			"updated_at": s.now().UTC(),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel trip")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if from != enums.TripStatusCancelled {
		s.metrics.Transition(from.String(), enums.TripStatusCancelled.String())
	}
	return s.reload(ctx, id)
}

func (s *service) DashboardStats(ctx context.Context) (*StatsDTO, error) {
	var (
		counts map[enums.TripStatus]int64
		volume int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.repo.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		volume, err = s.repo.SumVolume(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "dashboard stats")
	}

	return &StatsDTO{
		Scheduled:   counts[enums.TripStatusScheduled],
		InTransit:   counts[enums.TripStatusInTransit],
		Delivered:   counts[enums.TripStatusDelivered],
		Cancelled:   counts[enums.TripStatusCancelled],
		TotalVolume: volume,
	}, nil
}

func (s *service) reload(ctx context.Context, id uuid.UUID) (*TripDTO, error) {
	trip, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload trip")
	}
	return FromModel(trip), nil
}

func updateFields(req UpdateTripRequest) map[string]any {
	fields := map[string]any{}
	if req.Truck != nil {
		fields["truck"] = *req.Truck
	}
	if req.Driver != nil {
		fields["driver"] = *req.Driver
	}
	if req.Origin != nil {
		fields["origin"] = *req.Origin
	}
	if req.Destination != nil {
		fields["destination"] = *req.Destination
	}
	if req.FuelType != nil {
		fields["fuel_type"] = *req.FuelType
	}
	if req.VolumeLiters != nil {
		fields["volume_liters"] = *req.VolumeLiters
	}
	if req.DepartureAt != nil {
		fields["departure_at"] = req.DepartureAt.UTC()
	}
	if req.Notes != nil {
		if *req.Notes == "" {
			fields["notes"] = nil
		} else {
			fields["notes"] = *req.Notes
		}
	}
	return fields
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load trip")
}
