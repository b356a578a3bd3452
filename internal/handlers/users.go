package handlers

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/wardshift/backend/internal/middleware"
	"github.com/wardshift/backend/internal/models"
	"github.com/wardshift/backend/pkg/logger"
	"github.com/wardshift/backend/pkg/utils"
	"gorm.io/gorm"
)

type UsersHandler struct {
	DB *gorm.DB
}

func NewUsersHandler(db *gorm.DB) *UsersHandler {
	return &UsersHandler{DB: db}
}

func (h *UsersHandler) Me(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	var user models.User
	if err := h.DB.Preload("Department").First(&user, "id = ?", session.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "user not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching user")
	}

	var departmentName *string
	if user.Department != nil {
		departmentName = &user.Department.Name
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"department": departmentName,
	})
}

func (h *UsersHandler) GetPreferences(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", session.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "user not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching user")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"preferredOffDaysPerMonth": user.PreferredOffDaysPerMonth,
		"shiftPreference":          user.ShiftPreference,
		"shiftColors":              user.ShiftColorMap(),
	})
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type updatePreferencesRequest struct {
	PreferredOffDaysPerMonth *int              `json:"preferredOffDaysPerMonth"`
	ShiftPreference          *string           `json:"shiftPreference"`
	ShiftColors              map[string]string `json:"shiftColors"`
}

func (h *UsersHandler) UpdatePreferences(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req updatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.PreferredOffDaysPerMonth == nil || *req.PreferredOffDaysPerMonth < 0 {
		return utils.Error(c, fiber.StatusBadRequest, "invalid preferred off-day count")
	}
	if req.ShiftPreference == nil || strings.TrimSpace(*req.ShiftPreference) == "" {
		return utils.Error(c, fiber.StatusBadRequest, "invalid shift preference")
	}

	preference := strings.ToUpper(strings.ReplaceAll(*req.ShiftPreference, " ", ""))
	if _, ok := parseShiftTypes(preference); !ok {
		return utils.Error(c, fiber.StatusBadRequest, "invalid shift preference")
	}

	updates := map[string]interface{}{
		"preferred_off_days_per_month": *req.PreferredOffDaysPerMonth,
		"shift_preference":             preference,
	}

	if req.ShiftColors != nil {
		colors := map[models.ShiftType]string{}
		for key, color := range req.ShiftColors {
			shift := models.ShiftType(strings.ToUpper(strings.TrimSpace(key)))
			if !shift.Valid() || !hexColorPattern.MatchString(color) {
				return utils.Error(c, fiber.StatusBadRequest, "invalid shift colors")
			}
			colors[shift] = color
		}
		encoded, err := json.Marshal(colors)
		if err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed encoding shift colors")
		}
		updates["shift_colors"] = string(encoded)
	}

	result := h.DB.Model(&models.User{}).Where("id = ?", session.UserID).Updates(updates)
	if result.Error != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating preferences")
	}
	if result.RowsAffected == 0 {
		return utils.Error(c, fiber.StatusNotFound, "user not found")
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", session.UserID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading preferences")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"preferredOffDaysPerMonth": user.PreferredOffDaysPerMonth,
		"shiftPreference":          user.ShiftPreference,
		"shiftColors":              user.ShiftColorMap(),
	})
}

// List serves the admin user directory.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)
	search := strings.TrimSpace(c.Query("search"))

	query := h.DB.Model(&models.User{})
	if search != "" {
		searchValue := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", searchValue, searchValue)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed counting users")
	}

	var users []models.User
	if err := utils.ApplyPagination(query.Preload("Department").Order("created_at DESC"), p).
		Find(&users).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing users")
	}

	return utils.Paginated(c, users, p.Page, p.Limit, total)
}

type updateRoleRequest struct {
	Role models.UserRole `json:"role"`
}

// UpdateRole changes a user's role. Because sessions are stateless the new
// role only applies once the target logs in again.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	userID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	var req updateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !req.Role.Valid() {
		return utils.Error(c, fiber.StatusBadRequest, "invalid role")
	}
	if userID == session.UserID {
		return utils.Error(c, fiber.StatusBadRequest, "cannot change your own role")
	}

	result := h.DB.Model(&models.User{}).Where("id = ?", userID).Update("role", req.Role)
	if result.Error != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating role")
	}
	if result.RowsAffected == 0 {
		return utils.Error(c, fiber.StatusNotFound, "user not found")
	}

	logger.InfoWithUser(session.UserID.String(), "user_role_changed", map[string]interface{}{
		"target_user_id": userID.String(),
		"new_role":       string(req.Role),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"id": userID, "role": req.Role})
}
