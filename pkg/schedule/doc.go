// Package schedule assigns course demands to (room, timeslot) pairs.
//
// Courses are placed one at a time, largest first, at the first slot of the grid where the teacher and the
// cohort are free and a suitable room is available. Placement never backtracks, so the number of placed courses
// depends on the course order; courses that cannot be placed are reported, not dropped.
package schedule
