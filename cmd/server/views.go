package main

import (
	"time"

	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/limaJavier/roomscheduler/pkg/reservation"
	"github.com/limaJavier/roomscheduler/pkg/schedule"
	"github.com/samber/lo"
)

// Views resolve arena ids back into catalog codes

type roomView struct {
	Code      string   `json:"code"`
	Name      string   `json:"name,omitempty"`
	Capacity  int      `json:"capacity"`
	Equipment []string `json:"equipment"`
	Building  string   `json:"building,omitempty"`
}

func toRoomView(room model.Room, _ int) roomView {
	return roomView{
		Code:      room.Code,
		Name:      room.Name,
		Capacity:  room.Capacity,
		Equipment: append([]string{}, room.Equipment...),
		Building:  room.Building,
	}
}

type reservationView struct {
	Id         string     `json:"id"`
	Teacher    string     `json:"teacher"`
	Room       string     `json:"room"`
	Day        string     `json:"day"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Reason     string     `json:"reason,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

func toReservationView(catalog *model.Catalog, reservation model.Reservation) reservationView {
	view := reservationView{
		Id:        reservation.Id,
		Teacher:   catalog.Teachers[reservation.Teacher].Code,
		Room:      catalog.Rooms[reservation.Room].Code,
		Day:       reservation.Slot.Day.String(),
		Start:     reservation.Slot.Start,
		End:       reservation.Slot.End,
		Reason:    reservation.Reason,
		Status:    string(reservation.Status),
		CreatedAt: reservation.CreatedAt,
	}
	if !reservation.ResolvedAt.IsZero() {
		view.ResolvedAt = &reservation.ResolvedAt
	}
	return view
}

type conflictView struct {
	Source      string   `json:"source"`
	Day         string   `json:"day"`
	Start       int      `json:"start"`
	End         int      `json:"end"`
	Course      string   `json:"course,omitempty"`
	Teacher     string   `json:"teacher"`
	Reservation string   `json:"reservation,omitempty"`
	Hints       []string `json:"hints"`
}

type decisionView struct {
	Reservation reservationView `json:"reservation"`
	Conflicts   []conflictView  `json:"conflicts"`
}

func toDecisionView(catalog *model.Catalog, decision reservation.Decision) decisionView {
	return decisionView{
		Reservation: toReservationView(catalog, decision.Reservation),
		Conflicts: lo.Map(decision.Conflicts, func(conflict reservation.Conflict, _ int) conflictView {
			occupancy := conflict.Occupancy
			view := conflictView{
				Source:      occupancy.Source.String(),
				Day:         occupancy.Slot.Day.String(),
				Start:       occupancy.Slot.Start,
				End:         occupancy.Slot.End,
				Teacher:     catalog.Teachers[occupancy.Teacher].Code,
				Reservation: occupancy.Reservation,
				Hints:       lo.Map(conflict.Hints, func(room model.Room, _ int) string { return room.Code }),
			}
			if occupancy.Source == schedule.FromAssignment {
				view.Course = catalog.Courses[occupancy.Course].Code
			}
			return view
		}),
	}
}
