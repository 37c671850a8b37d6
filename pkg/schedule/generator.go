package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var ErrGenerationInProgress = errors.New("a generation run is already in progress")

// VerificationError is returned when a built assignment set breaks an invariant, the set is not published
type VerificationError struct {
	Violations []Violation
}

func (err *VerificationError) Error() string {
	return fmt.Sprintf("generated timetable breaks %d invariant(s), first: %v", len(err.Violations), err.Violations[0])
}

// Generator runs full regenerations: it pulls fresh inputs, builds a new assignment set aside and publishes it
// with a single Store.Replace. At most one run is in flight, a concurrent call is rejected
type Generator struct {
	catalogs     CatalogSource
	reservations ReservationSource
	store        Store
	timetabler   Timetabler
	grid         model.Grid
	logger       *zap.Logger
	running      atomic.Bool
}

func NewGenerator(
	catalogs CatalogSource,
	reservations ReservationSource,
	store Store,
	timetabler Timetabler,
	grid model.Grid,
	logger *zap.Logger,
) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		catalogs:     catalogs,
		reservations: reservations,
		store:        store,
		timetabler:   timetabler,
		grid:         grid,
		logger:       logger,
	}
}

func (generator *Generator) Generate(ctx context.Context) (Snapshot, error) {
	if !generator.running.CompareAndSwap(false, true) {
		return Snapshot{}, ErrGenerationInProgress
	}
	defer generator.running.Store(false)

	runId := uuid.NewString()
	logger := generator.logger.With(zap.String("run", runId))
	start := time.Now()

	//** Pull inputs
	catalog, err := generator.catalogs.Catalog(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("cannot load catalog: %w", err)
	}
	reservations, err := generator.reservations.Approved(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("cannot load reservations: %w", err)
	}
	input := Input{
		Catalog:      catalog,
		Reservations: filterApproved(reservations),
		Grid:         generator.grid,
	}

	//** Build into a staging set
	result, err := generator.timetabler.Build(input)
	if err != nil {
		logger.Error("timetable construction failed", zap.Error(err))
		return Snapshot{}, err
	}
	if violations := generator.timetabler.Verify(result.Assignments, input); len(violations) > 0 {
		logger.Error("timetable verification failed", zap.Int("violations", len(violations)), zap.Stringer("first", violations[0]))
		return Snapshot{}, &VerificationError{Violations: violations}
	}

	//** Publish
	snapshot := Snapshot{
		RunId:       runId,
		GeneratedAt: time.Now(),
		Catalog:     catalog,
		Assignments: result.Assignments,
		Unscheduled: result.Unscheduled,
	}
	generator.store.Replace(snapshot)

	for _, unscheduled := range result.Unscheduled {
		logger.Warn("course left unscheduled", zap.String("course", unscheduled.Code), zap.Error(unscheduled.Err))
	}
	logger.Info("timetable generated",
		zap.Int("assignments", len(result.Assignments)),
		zap.Int("unscheduled", len(result.Unscheduled)),
		zap.Int("approvedReservations", len(input.Reservations)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return snapshot, nil
}

// Running reports whether a generation run is in flight
func (generator *Generator) Running() bool {
	return generator.running.Load()
}

func filterApproved(reservations []model.Reservation) []model.Reservation {
	return lo.Filter(reservations, func(reservation model.Reservation, _ int) bool {
		return reservation.Status == model.Approved
	})
}
