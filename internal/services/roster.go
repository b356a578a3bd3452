package services

import (
	"github.com/google/uuid"
	"github.com/wardshift/backend/internal/models"
	"gorm.io/gorm"
)

// RosterService answers membership questions for the groups handlers and the
// group schedule views.
type RosterService struct {
	DB *gorm.DB
}

func NewRosterService(db *gorm.DB) *RosterService {
	return &RosterService{DB: db}
}

// Membership returns the membership row linking the user to the group, or
// gorm.ErrRecordNotFound when the user is not a member.
func (s *RosterService) Membership(groupID, userID uuid.UUID) (*models.GroupMembership, error) {
	var membership models.GroupMembership
	err := s.DB.First(&membership, "group_id = ? AND user_id = ?", groupID, userID).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (s *RosterService) IsMember(groupID, userID uuid.UUID) (bool, error) {
	_, err := s.Membership(groupID, userID)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SharesGroupWith reports whether every listed user is in at least one group
// the caller belongs to. The caller always shares with themselves.
func (s *RosterService) SharesGroupWith(callerID uuid.UUID, memberIDs []uuid.UUID) (bool, error) {
	var callerGroupIDs []uuid.UUID
	err := s.DB.Model(&models.GroupMembership{}).
		Where("user_id = ?", callerID).
		Pluck("group_id", &callerGroupIDs).Error
	if err != nil {
		return false, err
	}

	for _, memberID := range memberIDs {
		if memberID == callerID {
			continue
		}
		if len(callerGroupIDs) == 0 {
			return false, nil
		}
		var count int64
		err := s.DB.Model(&models.GroupMembership{}).
			Where("user_id = ? AND group_id IN ?", memberID, callerGroupIDs).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		if count == 0 {
			return false, nil
		}
	}
	return true, nil
}
