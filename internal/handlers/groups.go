package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/wardshift/backend/internal/middleware"
	"github.com/wardshift/backend/internal/models"
	"github.com/wardshift/backend/internal/services"
	"github.com/wardshift/backend/internal/storage"
	"github.com/wardshift/backend/pkg/logger"
	"github.com/wardshift/backend/pkg/utils"
	"gorm.io/gorm"
)

type GroupsHandler struct {
	DB      *gorm.DB
	Roster  *services.RosterService
	Storage *storage.MinIOClient
}

func NewGroupsHandler(db *gorm.DB, roster *services.RosterService, store *storage.MinIOClient) *GroupsHandler {
	return &GroupsHandler{DB: db, Roster: roster, Storage: store}
}

type memberSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type createGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *GroupsHandler) Create(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req createGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return utils.Error(c, fiber.StatusBadRequest, "name is required")
	}

	code, err := h.newInviteCode()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating group")
	}

	group := models.Group{
		Name:        req.Name,
		Description: req.Description,
		InviteCode:  code,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}

		membership := models.GroupMembership{
			UserID:  session.UserID,
			GroupID: group.ID,
			Role:    models.GroupRoleAdmin,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating group")
	}

	logger.InfoWithUser(session.UserID.String(), "group_created", map[string]interface{}{
		"group_id":   group.ID.String(),
		"group_name": group.Name,
	})

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"id":         group.ID,
		"inviteCode": group.InviteCode,
	})
}

func (h *GroupsHandler) List(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	var groups []models.Group
	if err := h.DB.
		Model(&models.Group{}).
		Preload("Memberships.User").
		Joins("JOIN group_memberships ON group_memberships.group_id = groups.id").
		Where("group_memberships.user_id = ?", session.UserID).
		Order("groups.created_at DESC").
		Find(&groups).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing groups")
	}

	summaries := make([]fiber.Map, 0, len(groups))
	for _, group := range groups {
		members := make([]memberSummary, 0, len(group.Memberships))
		for _, membership := range group.Memberships {
			members = append(members, memberSummary{ID: membership.UserID, Name: membership.User.Name})
		}
		summaries = append(summaries, fiber.Map{
			"id":          group.ID,
			"name":        group.Name,
			"description": group.Description,
			"memberCount": len(members),
			"members":     members,
		})
	}

	return utils.Success(c, fiber.StatusOK, summaries)
}

type joinGroupRequest struct {
	InviteCode string `json:"inviteCode"`
}

// Join is the sole way into a group. Joining a group you already belong to
// is a no-op that still answers with the group id.
func (h *GroupsHandler) Join(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req joinGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	code := strings.ToUpper(strings.TrimSpace(req.InviteCode))
	if code == "" {
		return utils.Error(c, fiber.StatusBadRequest, "inviteCode is required")
	}

	var group models.Group
	if err := h.DB.First(&group, "invite_code = ?", code).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "invalid invite code")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed looking up invite code")
	}

	membership := models.GroupMembership{
		UserID:  session.UserID,
		GroupID: group.ID,
		Role:    models.GroupRoleMember,
	}
	if err := h.DB.Where(models.GroupMembership{UserID: session.UserID, GroupID: group.ID}).
		FirstOrCreate(&membership).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed joining group")
	}

	logger.InfoWithUser(session.UserID.String(), "group_joined", map[string]interface{}{
		"group_id": group.ID.String(),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"groupId": group.ID})
}

func (h *GroupsHandler) Get(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	groupID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid group id")
	}

	// Membership first: a non-member gets 403 whether or not the group
	// exists, so invite codes cannot be probed by id.
	if _, err := h.Roster.Membership(groupID, session.UserID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusForbidden, "group access denied")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed validating membership")
	}

	group, err := h.loadGroup(groupID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "group not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading group")
	}

	return utils.Success(c, fiber.StatusOK, h.groupDetail(group))
}

// Update replaces the mutable fields. Only group admins may edit; members
// read, admins write.
func (h *GroupsHandler) Update(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	groupID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid group id")
	}

	membership, err := h.Roster.Membership(groupID, session.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusForbidden, "group access denied")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed validating membership")
	}
	if membership.Role != models.GroupRoleAdmin {
		return utils.Error(c, fiber.StatusForbidden, "group admin required")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "expected multipart form data")
	}

	group, err := h.loadGroup(groupID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "group not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading group")
	}

	updates := map[string]interface{}{}
	if values, ok := form.Value["name"]; ok && len(values) > 0 {
		name := strings.TrimSpace(values[0])
		if name == "" {
			return utils.Error(c, fiber.StatusBadRequest, "name cannot be empty")
		}
		updates["name"] = name
	}
	if values, ok := form.Value["description"]; ok && len(values) > 0 {
		trimmed := strings.TrimSpace(values[0])
		if trimmed == "" {
			updates["description"] = nil
		} else {
			updates["description"] = trimmed
		}
	}

	if files, ok := form.File["image"]; ok && len(files) > 0 {
		objectKey, err := h.storeGroupImage(c, groupID, files[0])
		switch err {
		case nil:
		case errStorageUnavailable:
			return utils.Error(c, fiber.StatusServiceUnavailable, "image storage not configured")
		case errNotAnImage:
			return utils.Error(c, fiber.StatusBadRequest, "image must be an image file")
		default:
			return utils.Error(c, fiber.StatusInternalServerError, "failed storing image")
		}
		if group.ImageKey != nil {
			// Best effort; an orphaned object is not worth failing the update.
			_ = h.Storage.Delete(c.Context(), *group.ImageKey)
		}
		updates["image_key"] = objectKey
	}

	if len(updates) == 0 {
		return utils.Error(c, fiber.StatusBadRequest, "no valid fields to update")
	}

	if err := h.DB.Model(&models.Group{}).Where("id = ?", groupID).Updates(updates).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating group")
	}

	updated, err := h.loadGroup(groupID)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading updated group")
	}

	return utils.Success(c, fiber.StatusOK, h.groupDetail(updated))
}

// Image streams the stored group image to members.
func (h *GroupsHandler) Image(c *fiber.Ctx) error {
	session := middleware.GetCurrentSession(c)
	if session == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	groupID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid group id")
	}

	if _, err := h.Roster.Membership(groupID, session.UserID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusForbidden, "group access denied")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed validating membership")
	}

	var group models.Group
	if err := h.DB.First(&group, "id = ?", groupID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.Error(c, fiber.StatusNotFound, "group not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading group")
	}
	if group.ImageKey == nil {
		return utils.Error(c, fiber.StatusNotFound, "group has no image")
	}
	if h.Storage == nil {
		return utils.Error(c, fiber.StatusServiceUnavailable, "image storage not configured")
	}

	obj, info, err := h.Storage.Download(c.Context(), *group.ImageKey)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading image")
	}

	c.Set(fiber.HeaderContentType, info.ContentType)
	return c.SendStream(obj, int(info.Size))
}

var (
	errStorageUnavailable = errors.New("image storage not configured")
	errNotAnImage         = errors.New("not an image")
)

func (h *GroupsHandler) storeGroupImage(c *fiber.Ctx, groupID uuid.UUID, file *multipart.FileHeader) (string, error) {
	if h.Storage == nil {
		return "", errStorageUnavailable
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", errNotAnImage
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	objectKey := fmt.Sprintf("groups/%s/%s%s", groupID, uuid.New(), filepath.Ext(file.Filename))
	if err := h.Storage.Upload(c.Context(), objectKey, src, file.Size, contentType); err != nil {
		return "", err
	}
	return objectKey, nil
}

// newInviteCode generates a code not already in use. Codes are random over a
// 32^8 space, so a handful of attempts is plenty.
func (h *GroupsHandler) newInviteCode() (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := utils.GenerateInviteCode()
		if err != nil {
			return "", err
		}
		var count int64
		if err := h.DB.Model(&models.Group{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("no free invite code found")
}

func (h *GroupsHandler) loadGroup(groupID uuid.UUID) (*models.Group, error) {
	var group models.Group
	err := h.DB.Preload("Memberships.User").First(&group, "id = ?", groupID).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (h *GroupsHandler) groupDetail(group *models.Group) fiber.Map {
	admins := []memberSummary{}
	members := []memberSummary{}
	for _, membership := range group.Memberships {
		summary := memberSummary{ID: membership.UserID, Name: membership.User.Name}
		members = append(members, summary)
		if membership.Role == models.GroupRoleAdmin {
			admins = append(admins, summary)
		}
	}

	var imageURL *string
	if group.ImageKey != nil {
		url := fmt.Sprintf("/api/groups/%s/image", group.ID)
		imageURL = &url
	}

	return fiber.Map{
		"id":          group.ID,
		"name":        group.Name,
		"description": group.Description,
		"inviteCode":  group.InviteCode,
		"imageUrl":    imageURL,
		"admins":      admins,
		"members":     members,
	}
}
