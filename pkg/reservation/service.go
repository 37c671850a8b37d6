package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/limaJavier/roomscheduler/pkg/schedule"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var (
	ErrNotFound        = errors.New("reservation not found")
	ErrAlreadyResolved = errors.New("reservation already resolved")
	ErrUnknownAction   = errors.New("unknown reservation action")
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// RequestInput is an ad-hoc booking as submitted by a teacher, entities are referenced by code
type RequestInput struct {
	Teacher string `json:"teacher" validate:"required"`
	Room    string `json:"room" validate:"required"`
	Day     string `json:"day" validate:"required"`
	Start   int    `json:"start" validate:"gte=0,lt=24"`
	End     int    `json:"end" validate:"gtfield=Start,lte=24"`
	Reason  string `json:"reason" validate:"max=500"`
}

// Conflict is a record overlapping an approved reservation. Displaced assignments carry the rooms they could
// be moved to, smallest first
type Conflict struct {
	Occupancy schedule.Occupancy
	Hints     []model.Room
}

// Decision is the outcome of a resolution. Approval is never blocked: conflicts are flagged to the approver
type Decision struct {
	Reservation model.Reservation
	Conflicts   []Conflict
}

type Service struct {
	catalogs  schedule.CatalogSource
	store     schedule.Store
	ledger    Ledger
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(catalogs schedule.CatalogSource, store schedule.Store, ledger Ledger, logger *zap.Logger) *Service {
	if ledger == nil {
		ledger = NewMemoryLedger()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalogs:  catalogs,
		store:     store,
		ledger:    ledger,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
		now:       time.Now,
	}
}

// Request records a PENDING reservation
func (service *Service) Request(ctx context.Context, input RequestInput) (model.Reservation, error) {
	if err := service.validator.Struct(input); err != nil {
		return model.Reservation{}, fmt.Errorf("invalid reservation request: %w", err)
	}

	catalog, err := service.catalogs.Catalog(ctx)
	if err != nil {
		return model.Reservation{}, err
	}

	teacher, ok := catalog.TeacherByCode(input.Teacher)
	if !ok {
		return model.Reservation{}, &model.DanglingReferenceError{Entity: "reservation", Key: "request", Field: "teacher", Reference: input.Teacher}
	}
	room, ok := catalog.RoomByCode(input.Room)
	if !ok {
		return model.Reservation{}, &model.DanglingReferenceError{Entity: "reservation", Key: "request", Field: "room", Reference: input.Room}
	}
	day, err := model.ParseDay(input.Day)
	if err != nil {
		return model.Reservation{}, err
	}
	slot, err := model.NewTimeSlot(day, input.Start, input.End)
	if err != nil {
		return model.Reservation{}, err
	}

	reservation := model.Reservation{
		Id:        uuid.NewString(),
		Teacher:   teacher.Id,
		Room:      room.Id,
		Slot:      slot,
		Reason:    input.Reason,
		Status:    model.Pending,
		CreatedAt: service.now(),
	}
	service.ledger.Insert(reservation)

	service.logger.Info("reservation requested",
		zap.String("reservation", reservation.Id),
		zap.String("teacher", teacher.Code),
		zap.String("room", room.Code),
		zap.Stringer("slot", slot),
	)
	return reservation, nil
}

// Approve computes the conflicts first and commits the transition only once they are known, a failure leaves
// the reservation PENDING
func (service *Service) Approve(ctx context.Context, id string) (Decision, error) {
	reservation, err := service.ledger.Get(id)
	if err != nil {
		return Decision{}, fmt.Errorf("cannot approve reservation %v: %w", id, err)
	} else if reservation.Status != model.Pending {
		return Decision{}, fmt.Errorf("cannot approve reservation %v: %w", id, ErrAlreadyResolved)
	}

	conflicts, err := service.conflicts(ctx, reservation)
	if err != nil {
		return Decision{}, fmt.Errorf("cannot approve reservation %v: %w", id, err)
	}

	reservation, err = service.ledger.Resolve(id, model.Approved, service.now())
	if err != nil {
		return Decision{}, fmt.Errorf("cannot approve reservation %v: %w", id, err)
	}

	logger := service.logger.With(zap.String("reservation", id))
	if len(conflicts) > 0 {
		logger.Warn("reservation approved over existing bookings", zap.Int("conflicts", len(conflicts)))
	} else {
		logger.Info("reservation approved")
	}
	return Decision{Reservation: reservation, Conflicts: conflicts}, nil
}

func (service *Service) Reject(_ context.Context, id string) (Decision, error) {
	reservation, err := service.ledger.Resolve(id, model.Rejected, service.now())
	if err != nil {
		return Decision{}, fmt.Errorf("cannot reject reservation %v: %w", id, err)
	}

	service.logger.Info("reservation rejected", zap.String("reservation", id))
	return Decision{Reservation: reservation, Conflicts: []Conflict{}}, nil
}

// Process dispatches on the action tag
func (service *Service) Process(ctx context.Context, id string, action string) (Decision, error) {
	switch Action(strings.ToLower(strings.TrimSpace(action))) {
	case ActionApprove:
		return service.Approve(ctx, id)
	case ActionReject:
		return service.Reject(ctx, id)
	}
	return Decision{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

// Preview returns the conflicts the reservation would be flagged with if it were approved now
func (service *Service) Preview(ctx context.Context, id string) (Decision, error) {
	reservation, err := service.ledger.Get(id)
	if err != nil {
		return Decision{}, err
	}

	conflicts, err := service.conflicts(ctx, reservation)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Reservation: reservation, Conflicts: conflicts}, nil
}

func (service *Service) Get(_ context.Context, id string) (model.Reservation, error) {
	return service.ledger.Get(id)
}

// Approved lists the reservations blocking rooms, it feeds the scheduler
func (service *Service) Approved(_ context.Context) ([]model.Reservation, error) {
	return service.ledger.List(func(reservation model.Reservation) bool { return reservation.Status == model.Approved }), nil
}

func (service *Service) Pending(_ context.Context) ([]model.Reservation, error) {
	return service.ledger.List(func(reservation model.Reservation) bool { return reservation.Status == model.Pending }), nil
}

func (service *Service) ByStatus(_ context.Context, status model.ReservationStatus) ([]model.Reservation, error) {
	return service.ledger.List(func(reservation model.Reservation) bool { return status == "" || reservation.Status == status }), nil
}

func (service *Service) ByTeacher(ctx context.Context, teacherCode string) ([]model.Reservation, error) {
	catalog, err := service.catalogs.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	teacher, ok := catalog.TeacherByCode(teacherCode)
	if !ok {
		return nil, &model.DanglingReferenceError{Entity: "query", Key: "reservations", Field: "teacher", Reference: teacherCode}
	}
	return service.ledger.List(func(reservation model.Reservation) bool { return reservation.Teacher == teacher.Id }), nil
}

// published returns the published assignments along with the catalog they were computed against. Before the
// first generation there are no assignments and the source catalog is used
func (service *Service) published(ctx context.Context) (*model.Catalog, []model.Assignment, error) {
	snapshot := service.store.Snapshot()
	if snapshot.Catalog != nil {
		return snapshot.Catalog, snapshot.Assignments, nil
	}
	catalog, err := service.catalogs.Catalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	return catalog, []model.Assignment{}, nil
}

// conflicts lists the scheduled assignments and the other approved reservations overlapping the reservation's room
func (service *Service) conflicts(ctx context.Context, reservation model.Reservation) ([]Conflict, error) {
	catalog, assignments, err := service.published(ctx)
	if err != nil {
		return nil, err
	}
	others := service.ledger.List(func(other model.Reservation) bool {
		return other.Status == model.Approved && other.Id != reservation.Id
	})

	oracle, err := schedule.NewOracle(catalog, assignments, others)
	if err != nil {
		return nil, err
	}
	// Relocation hints must avoid the reserved room itself
	relocations, err := schedule.NewOracle(catalog, assignments, append(others, withStatus(reservation, model.Approved)))
	if err != nil {
		return nil, err
	}
	selector := schedule.NewRoomSelector(catalog.Rooms, relocations)

	return lo.Map(oracle.Conflicts(reservation.Slot, schedule.RoomOf(reservation.Room)), func(occupancy schedule.Occupancy, _ int) Conflict {
		conflict := Conflict{Occupancy: occupancy, Hints: []model.Room{}}
		if occupancy.Source == schedule.FromAssignment {
			conflict.Hints = selector.Candidates(catalog.Courses[occupancy.Course], occupancy.Slot)
		}
		return conflict
	}), nil
}

func withStatus(reservation model.Reservation, status model.ReservationStatus) model.Reservation {
	reservation.Status = status
	return reservation
}
