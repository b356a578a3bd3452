package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/wardshift/backend/internal/models"
)

// ScheduleEntry is one schedule row joined with its owner's display name.
// The projections below are pure functions over slices of these.
type ScheduleEntry struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"userId"`
	UserName  string           `json:"userName"`
	Date      string           `json:"date"`
	ShiftType models.ShiftType `json:"shiftType"`
}

// CalendarEvent is one colored label on one calendar day.
type CalendarEvent struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Color string `json:"color"`
}

type TableUser struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ShiftTable pivots schedules into date rows and user columns; cells hold the
// short shift code (D/E/N/OFF).
type ShiftTable struct {
	Days  []string                     `json:"days"`
	Users []TableUser                  `json:"users"`
	Cells map[string]map[string]string `json:"cells"`
}

const dateLayout = "2006-01-02"

// BuildCalendarEvents projects schedule rows onto a calendar: one event per
// row inside [from, to] whose shift type passes the filter. A nil or empty
// filter admits everything. An empty color set falls back to the defaults.
func BuildCalendarEvents(entries []ScheduleEntry, from, to string, include map[models.ShiftType]bool, colors map[models.ShiftType]string) []CalendarEvent {
	if len(colors) == 0 {
		colors = models.DefaultShiftColors()
	}

	events := make([]CalendarEvent, 0, len(entries))
	for _, entry := range entries {
		if !inRange(entry.Date, from, to) || !included(entry.ShiftType, include) {
			continue
		}
		events = append(events, CalendarEvent{
			Title: fmt.Sprintf("%s | %s", entry.ShiftType.Code(), entry.UserName),
			Date:  entry.Date,
			Color: colors[entry.ShiftType],
		})
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].Title < events[j].Title
	})
	return events
}

// BuildShiftTable pivots schedule rows into a date-by-user grid over every
// day in [from, to]. Users appear only if they have at least one passing row,
// ordered by name for a stable header.
func BuildShiftTable(entries []ScheduleEntry, from, to string, include map[models.ShiftType]bool) ShiftTable {
	table := ShiftTable{
		Days:  daysBetween(from, to),
		Users: []TableUser{},
		Cells: map[string]map[string]string{},
	}

	names := map[uuid.UUID]string{}
	for _, entry := range entries {
		if !inRange(entry.Date, from, to) || !included(entry.ShiftType, include) {
			continue
		}
		if table.Cells[entry.Date] == nil {
			table.Cells[entry.Date] = map[string]string{}
		}
		table.Cells[entry.Date][entry.UserID.String()] = entry.ShiftType.Code()
		names[entry.UserID] = entry.UserName
	}

	for id, name := range names {
		table.Users = append(table.Users, TableUser{ID: id, Name: name})
	}
	sort.Slice(table.Users, func(i, j int) bool {
		if table.Users[i].Name != table.Users[j].Name {
			return table.Users[i].Name < table.Users[j].Name
		}
		return table.Users[i].ID.String() < table.Users[j].ID.String()
	})

	return table
}

func included(shift models.ShiftType, include map[models.ShiftType]bool) bool {
	if len(include) == 0 {
		return true
	}
	return include[shift]
}

// Dates are yyyy-MM-dd strings, so range checks are plain comparisons.
func inRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

func daysBetween(from, to string) []string {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return []string{}
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil || end.Before(start) {
		return []string{}
	}

	days := []string{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dateLayout))
	}
	return days
}
