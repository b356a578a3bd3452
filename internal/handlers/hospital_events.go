package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/wardshift/backend/internal/middleware"
	"github.com/wardshift/backend/internal/models"
	"github.com/wardshift/backend/pkg/logger"
	"github.com/wardshift/backend/pkg/utils"
	"gorm.io/gorm"
)

type HospitalEventsHandler struct {
	DB *gorm.DB
}

func NewHospitalEventsHandler(db *gorm.DB) *HospitalEventsHandler {
	return &HospitalEventsHandler{DB: db}
}

func (h *HospitalEventsHandler) List(c *fiber.Ctx) error {
	var events []models.HospitalEvent
	if err := h.DB.Order("start_date ASC").Find(&events).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing hospital events")
	}
	return utils.Success(c, fiber.StatusOK, events)
}

type hospitalEventRequest struct {
	Title       string                   `json:"title"`
	Start       string                   `json:"start"`
	End         string                   `json:"end"`
	Description *string                  `json:"description"`
	Type        models.HospitalEventType `json:"type"`
}

func (r *hospitalEventRequest) validate() (string, string, string) {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return "", "", "title is required"
	}
	start, err := parseDate(r.Start)
	if err != nil {
		return "", "", "start must be yyyy-MM-dd"
	}
	end, err := parseDate(r.End)
	if err != nil {
		return "", "", "end must be yyyy-MM-dd"
	}
	if end < start {
		return "", "", "end must not be before start"
	}
	if r.Type == "" {
		r.Type = models.EventOther
	}
	if !r.Type.Valid() {
		return "", "", "invalid event type"
	}
	return start, end, ""
}

func (h *HospitalEventsHandler) Create(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req hospitalEventRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	start, end, problem := req.validate()
	if problem != "" {
		return utils.Error(c, fiber.StatusBadRequest, problem)
	}

	event := models.HospitalEvent{
		Title:       req.Title,
		Start:       start,
		End:         end,
		Description: req.Description,
		Type:        req.Type,
	}
	if err := h.DB.Create(&event).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating hospital event")
	}

	logger.InfoWithUser(session.UserID.String(), "hospital_event_created", map[string]interface{}{
		"event_id": event.ID.String(),
		"title":    event.Title,
	})

	return utils.Success(c, fiber.StatusCreated, event)
}

func (h *HospitalEventsHandler) Update(c *fiber.Ctx) error {
	eventID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	var req hospitalEventRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	start, end, problem := req.validate()
	if problem != "" {
		return utils.Error(c, fiber.StatusBadRequest, problem)
	}

	var event models.HospitalEvent
	if err := h.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "hospital event not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading hospital event")
	}

	event.Title = req.Title
	event.Start = start
	event.End = end
	event.Description = req.Description
	event.Type = req.Type
	if err := h.DB.Save(&event).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating hospital event")
	}

	return utils.Success(c, fiber.StatusOK, event)
}

func (h *HospitalEventsHandler) Delete(c *fiber.Ctx) error {
	eventID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	result := h.DB.Delete(&models.HospitalEvent{}, "id = ?", eventID)
	if result.Error != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting hospital event")
	}
	if result.RowsAffected == 0 {
		return utils.Error(c, fiber.StatusNotFound, "hospital event not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "hospital event deleted"})
}
