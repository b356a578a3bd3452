package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/wardshift/backend/internal/models"
)

func sampleEntries() ([]ScheduleEntry, uuid.UUID, uuid.UUID) {
	alice := uuid.New()
	bob := uuid.New()
	entries := []ScheduleEntry{
		{ID: uuid.New(), UserID: bob, UserName: "Bob", Date: "2025-05-02", ShiftType: models.ShiftNight},
		{ID: uuid.New(), UserID: alice, UserName: "Alice", Date: "2025-05-01", ShiftType: models.ShiftDay},
		{ID: uuid.New(), UserID: bob, UserName: "Bob", Date: "2025-05-01", ShiftType: models.ShiftEvening},
		{ID: uuid.New(), UserID: alice, UserName: "Alice", Date: "2025-05-03", ShiftType: models.ShiftOff},
	}
	return entries, alice, bob
}

func TestBuildCalendarEvents(t *testing.T) {
	entries, _, _ := sampleEntries()

	t.Run("sorted by date then title", func(t *testing.T) {
		events := BuildCalendarEvents(entries, "", "", nil, nil)
		assert.Len(t, events, 4)
		assert.Equal(t, "D | Alice", events[0].Title)
		assert.Equal(t, "E | Bob", events[1].Title)
		assert.Equal(t, "2025-05-02", events[2].Date)
		assert.Equal(t, "2025-05-03", events[3].Date)
	})

	t.Run("default colors apply", func(t *testing.T) {
		events := BuildCalendarEvents(entries, "", "", nil, nil)
		assert.Equal(t, "#4CAF50", events[0].Color)
		assert.Equal(t, "#2196F3", events[1].Color)
	})

	t.Run("custom colors override", func(t *testing.T) {
		colors := models.DefaultShiftColors()
		colors[models.ShiftDay] = "#000000"
		events := BuildCalendarEvents(entries, "", "", nil, colors)
		assert.Equal(t, "#000000", events[0].Color)
	})

	t.Run("range filter", func(t *testing.T) {
		events := BuildCalendarEvents(entries, "2025-05-02", "2025-05-03", nil, nil)
		assert.Len(t, events, 2)
		for _, event := range events {
			assert.GreaterOrEqual(t, event.Date, "2025-05-02")
		}
	})

	t.Run("shift type filter", func(t *testing.T) {
		include := map[models.ShiftType]bool{models.ShiftNight: true}
		events := BuildCalendarEvents(entries, "", "", include, nil)
		assert.Len(t, events, 1)
		assert.Equal(t, "N | Bob", events[0].Title)
	})

	t.Run("no entries", func(t *testing.T) {
		events := BuildCalendarEvents(nil, "", "", nil, nil)
		assert.Empty(t, events)
	})
}

func TestBuildShiftTable(t *testing.T) {
	entries, alice, bob := sampleEntries()

	t.Run("pivots dates by users", func(t *testing.T) {
		table := BuildShiftTable(entries, "2025-05-01", "2025-05-03", nil)
		assert.Equal(t, []string{"2025-05-01", "2025-05-02", "2025-05-03"}, table.Days)
		assert.Len(t, table.Users, 2)
		assert.Equal(t, "Alice", table.Users[0].Name)
		assert.Equal(t, "Bob", table.Users[1].Name)
		assert.Equal(t, "D", table.Cells["2025-05-01"][alice.String()])
		assert.Equal(t, "E", table.Cells["2025-05-01"][bob.String()])
		assert.Equal(t, "OFF", table.Cells["2025-05-03"][alice.String()])
	})

	t.Run("excludes users with no passing rows", func(t *testing.T) {
		include := map[models.ShiftType]bool{models.ShiftNight: true}
		table := BuildShiftTable(entries, "2025-05-01", "2025-05-03", include)
		assert.Len(t, table.Users, 1)
		assert.Equal(t, "Bob", table.Users[0].Name)
	})

	t.Run("invalid range yields no days", func(t *testing.T) {
		table := BuildShiftTable(entries, "2025-05-03", "2025-05-01", nil)
		assert.Empty(t, table.Days)
	})
}
