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

type LeaveRequestsHandler struct {
	DB *gorm.DB
}

func NewLeaveRequestsHandler(db *gorm.DB) *LeaveRequestsHandler {
	return &LeaveRequestsHandler{DB: db}
}

func (h *LeaveRequestsHandler) List(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	var requests []models.LeaveRequest
	if err := h.DB.
		Where("user_id = ?", session.UserID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing leave requests")
	}

	return utils.Success(c, fiber.StatusOK, requests)
}

type createLeaveRequest struct {
	Date   string           `json:"date"`
	Type   models.ShiftType `json:"type"`
	Reason string           `json:"reason"`
}

func (h *LeaveRequestsHandler) Create(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req createLeaveRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "date must be yyyy-MM-dd")
	}
	if !req.Type.Valid() {
		return utils.Error(c, fiber.StatusBadRequest, "invalid shift type")
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		return utils.Error(c, fiber.StatusBadRequest, "reason is required")
	}

	// One live request per date: a rejected one may be retried, a pending or
	// approved one may not be duplicated.
	var existing int64
	if err := h.DB.Model(&models.LeaveRequest{}).
		Where("user_id = ? AND date = ? AND status <> ?", session.UserID, date, models.LeaveStatusRejected).
		Count(&existing).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed checking existing requests")
	}
	if existing > 0 {
		return utils.Error(c, fiber.StatusConflict, "a leave request for this date already exists")
	}

	request := models.LeaveRequest{
		UserID: session.UserID,
		Date:   date,
		Type:   req.Type,
		Reason: req.Reason,
		Status: models.LeaveStatusPending,
	}
	if err := h.DB.Create(&request).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating leave request")
	}

	logger.InfoWithUser(session.UserID.String(), "leave_request_created", map[string]interface{}{
		"request_id": request.ID.String(),
		"date":       request.Date,
		"type":       string(request.Type),
	})

	return utils.Success(c, fiber.StatusCreated, request)
}

// Delete cancels a leave request. Owner only, and only while it is still
// PENDING; reviewed requests are part of the record.
func (h *LeaveRequestsHandler) Delete(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	requestID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid leave request id")
	}

	var request models.LeaveRequest
	if err := h.DB.First(&request, "id = ?", requestID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "leave request not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading leave request")
	}

	if request.UserID != session.UserID {
		return utils.Error(c, fiber.StatusForbidden, "not your leave request")
	}
	if request.Status != models.LeaveStatusPending {
		return utils.Error(c, fiber.StatusConflict, "only pending requests can be cancelled")
	}

	if err := h.DB.Delete(&request).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed cancelling leave request")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "leave request cancelled"})
}

// ListForReview serves the manager queue, newest first, optionally filtered
// by status (default PENDING).
func (h *LeaveRequestsHandler) ListForReview(c *fiber.Ctx) error {
	status := models.LeaveStatus(strings.ToUpper(strings.TrimSpace(c.Query("status", string(models.LeaveStatusPending)))))
	switch status {
	case models.LeaveStatusPending, models.LeaveStatusApproved, models.LeaveStatusRejected:
	default:
		return utils.Error(c, fiber.StatusBadRequest, "invalid status")
	}

	var requests []models.LeaveRequest
	if err := h.DB.
		Preload("User").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing leave requests")
	}

	out := make([]fiber.Map, 0, len(requests))
	for _, request := range requests {
		out = append(out, fiber.Map{
			"id":       request.ID,
			"userId":   request.UserID,
			"userName": request.User.Name,
			"date":     request.Date,
			"type":     request.Type,
			"reason":   request.Reason,
			"status":   request.Status,
			"comment":  request.Comment,
		})
	}

	return utils.Success(c, fiber.StatusOK, out)
}

type reviewLeaveRequest struct {
	Status  models.LeaveStatus `json:"status"`
	Comment *string            `json:"comment"`
}

// Review moves a PENDING request to APPROVED or REJECTED. Both outcomes are
// terminal; a reviewed request cannot be re-reviewed.
func (h *LeaveRequestsHandler) Review(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	requestID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid leave request id")
	}

	var req reviewLeaveRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !req.Status.Terminal() {
		return utils.Error(c, fiber.StatusBadRequest, "status must be APPROVED or REJECTED")
	}

	var request models.LeaveRequest
	if err := h.DB.First(&request, "id = ?", requestID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "leave request not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading leave request")
	}
	if request.Status != models.LeaveStatusPending {
		return utils.Error(c, fiber.StatusConflict, "leave request already reviewed")
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Comment != nil {
		trimmed := strings.TrimSpace(*req.Comment)
		if trimmed != "" {
			updates["comment"] = trimmed
		}
	}

	if err := h.DB.Model(&request).Updates(updates).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed reviewing leave request")
	}

	logger.InfoWithUser(session.UserID.String(), "leave_request_reviewed", map[string]interface{}{
		"request_id": request.ID.String(),
		"status":     string(req.Status),
	})

	if err := h.DB.First(&request, "id = ?", requestID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading reviewed request")
	}
	return utils.Success(c, fiber.StatusOK, request)
}
