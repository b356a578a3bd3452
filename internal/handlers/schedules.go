package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/wardshift/backend/internal/middleware"
	"github.com/wardshift/backend/internal/models"
	"github.com/wardshift/backend/internal/services"
	"github.com/wardshift/backend/pkg/logger"
	"github.com/wardshift/backend/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SchedulesHandler struct {
	DB     *gorm.DB
	Roster *services.RosterService
}

func NewSchedulesHandler(db *gorm.DB, roster *services.RosterService) *SchedulesHandler {
	return &SchedulesHandler{DB: db, Roster: roster}
}

func (h *SchedulesHandler) List(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	var schedules []models.Schedule
	if err := h.DB.
		Where("user_id = ?", session.UserID).
		Order("date ASC").
		Find(&schedules).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing schedules")
	}

	return utils.Success(c, fiber.StatusOK, schedules)
}

// Group serves the roster-wide schedule data behind the group calendar and
// table views. The raw rows come back by default; view=calendar or
// view=table returns the corresponding projection instead.
func (h *SchedulesHandler) Group(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	memberIDs, err := parseMemberIDs(c.Query("memberIds"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "memberIds is required")
	}

	shared, err := h.Roster.SharesGroupWith(session.UserID, memberIDs)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed validating membership")
	}
	if !shared {
		return utils.Error(c, fiber.StatusForbidden, "not in a shared group with all members")
	}

	var schedules []models.Schedule
	if err := h.DB.
		Preload("User").
		Where("user_id IN ?", memberIDs).
		Order("date ASC").
		Find(&schedules).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing group schedules")
	}

	entries := make([]services.ScheduleEntry, 0, len(schedules))
	for _, schedule := range schedules {
		entries = append(entries, services.ScheduleEntry{
			ID:        schedule.ID,
			UserID:    schedule.UserID,
			UserName:  schedule.User.Name,
			Date:      schedule.Date,
			ShiftType: schedule.ShiftType,
		})
	}

	view := strings.ToLower(strings.TrimSpace(c.Query("view")))
	if view == "" {
		return utils.Success(c, fiber.StatusOK, entries)
	}

	include, ok := parseShiftTypes(c.Query("types"))
	if !ok {
		return utils.Error(c, fiber.StatusBadRequest, "invalid shift types")
	}

	from, to := strings.TrimSpace(c.Query("from")), strings.TrimSpace(c.Query("to"))
	if from != "" {
		if from, err = parseDate(from); err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "from must be yyyy-MM-dd")
		}
	}
	if to != "" {
		if to, err = parseDate(to); err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "to must be yyyy-MM-dd")
		}
	}

	switch view {
	case "calendar":
		colors := models.DefaultShiftColors()
		var viewer models.User
		if err := h.DB.First(&viewer, "id = ?", session.UserID).Error; err == nil {
			colors = viewer.ShiftColorMap()
		}
		return utils.Success(c, fiber.StatusOK, services.BuildCalendarEvents(entries, from, to, include, colors))
	case "table":
		if from == "" || to == "" {
			return utils.Error(c, fiber.StatusBadRequest, "table view requires from and to")
		}
		return utils.Success(c, fiber.StatusOK, services.BuildShiftTable(entries, from, to, include))
	default:
		return utils.Error(c, fiber.StatusBadRequest, "view must be calendar or table")
	}
}

type scheduleAssignment struct {
	UserID    uuid.UUID        `json:"userId"`
	Date      string           `json:"date"`
	ShiftType models.ShiftType `json:"shiftType"`
}

type bulkAssignRequest struct {
	Assignments []scheduleAssignment `json:"assignments"`
}

// BulkAssign writes shift assignments for the manager roster editor. One row
// per (user, date): assigning over an existing row replaces its shift type.
func (h *SchedulesHandler) BulkAssign(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req bulkAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Assignments) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, "assignments are required")
	}

	// The upsert allows each (user, date) pair only once per statement, so a
	// payload repeating a pair collapses to its last assignment.
	schedules := make([]models.Schedule, 0, len(req.Assignments))
	seen := map[string]int{}
	for _, assignment := range req.Assignments {
		if assignment.UserID == uuid.Nil {
			return utils.Error(c, fiber.StatusBadRequest, "userId is required")
		}
		date, err := parseDate(assignment.Date)
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "date must be yyyy-MM-dd")
		}
		if !assignment.ShiftType.Valid() {
			return utils.Error(c, fiber.StatusBadRequest, "invalid shift type")
		}

		key := assignment.UserID.String() + "|" + date
		if idx, ok := seen[key]; ok {
			schedules[idx].ShiftType = assignment.ShiftType
			continue
		}
		seen[key] = len(schedules)
		schedules = append(schedules, models.Schedule{
			UserID:    assignment.UserID,
			Date:      date,
			ShiftType: assignment.ShiftType,
		})
	}

	err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"shift_type", "updated_at"}),
	}).Create(&schedules).Error
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed assigning schedules")
	}

	logger.InfoWithUser(session.UserID.String(), "schedules_assigned", map[string]interface{}{
		"count": len(schedules),
	})

	return utils.Success(c, fiber.StatusCreated, fiber.Map{"assigned": len(schedules)})
}

func parseMemberIDs(csv string) ([]uuid.UUID, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil, errors.New("empty member id list")
	}
	parts := strings.Split(csv, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := parseUUID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
