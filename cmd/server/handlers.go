package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/limaJavier/roomscheduler/pkg/reservation"
	"github.com/limaJavier/roomscheduler/pkg/schedule"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type server struct {
	catalogs     schedule.CatalogSource
	store        schedule.Store
	generator    *schedule.Generator
	reservations *reservation.Service
	grid         model.Grid
	logger       *zap.Logger
}

func newRouter(s *server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))

	router.POST("/timetable/generate", s.handlePostGenerate)
	router.GET("/timetable", s.handleGetTimetable)
	router.GET("/timetable/stats", s.handleGetStatistics)
	router.GET("/rooms/free", s.handleGetFreeRooms)

	router.POST("/reservations", s.handlePostReservation)
	router.GET("/reservations", s.handleGetReservations)
	router.GET("/reservations/:id", s.handleGetReservation)
	router.POST("/reservations/:id/:action", s.handleProcessReservation)

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		logger.Info("request",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func (s *server) handlePostGenerate(ctx *gin.Context) {
	snapshot, err := s.generator.Generate(ctx.Request.Context())
	if err != nil {
		s.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"run":         snapshot.RunId,
		"generatedAt": snapshot.GeneratedAt,
		"assignments": len(snapshot.Assignments),
		"unscheduled": lo.Map(snapshot.Unscheduled, func(course schedule.Unscheduled, _ int) gin.H {
			return gin.H{"course": course.Code, "reason": course.Err.Error()}
		}),
	})
}

func (s *server) handleGetTimetable(ctx *gin.Context) {
	snapshot := s.store.Snapshot()
	if snapshot.Catalog == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no timetable has been generated yet"})
		return
	}
	catalog := snapshot.Catalog
	assignments := snapshot.Assignments

	//** Apply filters
	if code, ok := ctx.GetQuery("teacher"); ok {
		teacher, found := catalog.TeacherByCode(code)
		if !found {
			s.fail(ctx, unknownFilter("teacher", code))
			return
		}
		assignments = schedule.TeacherTimetable(catalog, assignments, teacher.Id)
	}
	if code, ok := ctx.GetQuery("room"); ok {
		room, found := catalog.RoomByCode(code)
		if !found {
			s.fail(ctx, unknownFilter("room", code))
			return
		}
		assignments = schedule.RoomTimetable(assignments, room.Id)
	}
	if code, ok := ctx.GetQuery("group"); ok {
		group, found := catalog.GroupByCode(code)
		if !found {
			s.fail(ctx, unknownFilter("group", code))
			return
		}
		assignments = schedule.CohortTimetable(catalog, assignments, group.Program, group.Id)
	} else if code, ok := ctx.GetQuery("program"); ok {
		program, found := catalog.ProgramByCode(code)
		if !found {
			s.fail(ctx, unknownFilter("program", code))
			return
		}
		assignments = schedule.CohortTimetable(catalog, assignments, program.Id, model.NoGroup)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"run":         snapshot.RunId,
		"generatedAt": snapshot.GeneratedAt,
		"sessions":    schedule.Sessions(catalog, assignments),
	})
}

func (s *server) handleGetStatistics(ctx *gin.Context) {
	snapshot := s.store.Snapshot()
	if snapshot.Catalog == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no timetable has been generated yet"})
		return
	}

	report := schedule.Statistics(snapshot.Assignments, snapshot.Catalog.Rooms, s.grid)
	ctx.JSON(http.StatusOK, gin.H{
		"assignments":   report.Assignments,
		"rooms":         report.Rooms,
		"slots":         report.Slots,
		"occupancyRate": report.OccupancyRate,
		"unscheduled":   len(snapshot.Unscheduled),
		"perRoom": lo.Map(report.PerRoom, func(usage schedule.RoomUsage, _ int) gin.H {
			return gin.H{"room": usage.Code, "sessions": usage.Sessions, "occupancy": usage.Occupancy}
		}),
		"perDay": lo.MapKeys(report.PerDay, func(_ int, day model.Day) string { return day.String() }),
	})
}

type freeRoomsQuery struct {
	Day         string `form:"day" binding:"required"`
	Start       int    `form:"start" binding:"gte=0,lt=24"`
	End         int    `form:"end" binding:"gtfield=Start,lte=24"`
	MinCapacity int    `form:"minCapacity" binding:"gte=0"`
	Equipment   string `form:"equipment"`
}

func (s *server) handleGetFreeRooms(ctx *gin.Context) {
	var query freeRoomsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, err := model.ParseDay(query.Day)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	slot, err := model.NewTimeSlot(day, query.Start, query.End)
	if err != nil {
		s.fail(ctx, err)
		return
	}

	catalog, assignments, err := s.current(ctx)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	approved, err := s.reservations.Approved(ctx.Request.Context())
	if err != nil {
		s.fail(ctx, err)
		return
	}

	rooms, err := schedule.FreeRooms(catalog, assignments, approved, slot, query.MinCapacity, model.ParseEquipment(query.Equipment))
	if err != nil {
		s.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"slot": slot.String(), "rooms": lo.Map(rooms, toRoomView)})
}

func (s *server) handlePostReservation(ctx *gin.Context) {
	var input reservation.RequestInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := s.reservations.Request(ctx.Request.Context(), input)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	catalog, _, err := s.current(ctx)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, toReservationView(catalog, created))
}

func (s *server) handleGetReservations(ctx *gin.Context) {
	var (
		reservations []model.Reservation
		err          error
	)
	status := model.ReservationStatus(strings.ToUpper(ctx.Query("status")))
	if teacher, ok := ctx.GetQuery("teacher"); ok {
		reservations, err = s.reservations.ByTeacher(ctx.Request.Context(), teacher)
		reservations = lo.Filter(reservations, func(reservation model.Reservation, _ int) bool {
			return status == "" || reservation.Status == status
		})
	} else {
		reservations, err = s.reservations.ByStatus(ctx.Request.Context(), status)
	}
	if err != nil {
		s.fail(ctx, err)
		return
	}

	catalog, _, err := s.current(ctx)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"reservations": lo.Map(reservations, func(reservation model.Reservation, _ int) reservationView {
			return toReservationView(catalog, reservation)
		}),
	})
}

// handleGetReservation returns the reservation along with the bookings it would collide with if approved
func (s *server) handleGetReservation(ctx *gin.Context) {
	decision, err := s.reservations.Preview(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.respondDecision(ctx, decision)
}

func (s *server) handleProcessReservation(ctx *gin.Context) {
	decision, err := s.reservations.Process(ctx.Request.Context(), ctx.Param("id"), ctx.Param("action"))
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.respondDecision(ctx, decision)
}

func (s *server) respondDecision(ctx *gin.Context, decision reservation.Decision) {
	catalog, _, err := s.current(ctx)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toDecisionView(catalog, decision))
}

// current returns the catalog and assignments of the published timetable, or the source catalog and no
// assignments before the first generation
func (s *server) current(ctx *gin.Context) (*model.Catalog, []model.Assignment, error) {
	snapshot := s.store.Snapshot()
	if snapshot.Catalog != nil {
		return snapshot.Catalog, snapshot.Assignments, nil
	}
	catalog, err := s.catalogs.Catalog(ctx.Request.Context())
	if err != nil {
		return nil, nil, err
	}
	return catalog, []model.Assignment{}, nil
}

func (s *server) fail(ctx *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

func statusOf(err error) int {
	var (
		dangling     *model.DanglingReferenceError
		verification *schedule.VerificationError
		validation   validator.ValidationErrors
	)
	switch {
	case errors.Is(err, reservation.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, reservation.ErrAlreadyResolved), errors.Is(err, schedule.ErrGenerationInProgress):
		return http.StatusConflict
	case errors.As(err, &verification):
		return http.StatusUnprocessableEntity
	case errors.Is(err, reservation.ErrUnknownAction),
		errors.Is(err, model.ErrInvalidTimeSlot),
		errors.Is(err, model.ErrUnknownDay),
		errors.As(err, &dangling),
		errors.As(err, &validation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func unknownFilter(field string, code string) error {
	return &model.DanglingReferenceError{Entity: "query", Key: "timetable", Field: field, Reference: code}
}
