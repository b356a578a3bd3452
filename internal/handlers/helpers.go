package handlers

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wardshift/backend/internal/models"
)

const dateLayout = "2006-01-02"

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

func parseDate(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if _, err := time.Parse(dateLayout, trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

// parseShiftTypes turns a csv query value into a filter set; empty input
// means no filtering.
func parseShiftTypes(csv string) (map[models.ShiftType]bool, bool) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil, true
	}
	include := map[models.ShiftType]bool{}
	for _, part := range strings.Split(csv, ",") {
		shift := models.ShiftType(strings.ToUpper(strings.TrimSpace(part)))
		if !shift.Valid() {
			return nil, false
		}
		include[shift] = true
	}
	return include, true
}
