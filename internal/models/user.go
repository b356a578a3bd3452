package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleAdmin   UserRole = "ADMIN"
	UserRoleManager UserRole = "MANAGER"
	UserRoleNurse   UserRole = "NURSE"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleNurse:
		return true
	default:
		return false
	}
}

// Home is the area a session of this role lands on after login and gets
// pointed back to on a role mismatch.
func (r UserRole) Home() string {
	switch r {
	case UserRoleAdmin:
		return "/admin"
	case UserRoleManager:
		return "/manager"
	default:
		return "/nurse"
	}
}

type User struct {
	BaseModel
	Email        string      `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string      `json:"-" gorm:"type:text;not null"`
	Name         string      `json:"name" gorm:"type:varchar(100);not null"`
	Role         UserRole    `json:"role" gorm:"type:varchar(20);not null;default:'NURSE'"`
	DepartmentID *uuid.UUID  `json:"-" gorm:"type:uuid;index"`
	Department   *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`

	// Scheduling preferences. ShiftPreference is a comma-separated ordering of
	// shift types, most preferred first. ShiftColors holds the per-user
	// calendar colors as a JSON object keyed by shift type.
	ShiftPreference          string `json:"shiftPreference" gorm:"type:varchar(50);default:''"`
	PreferredOffDaysPerMonth int    `json:"preferredOffDaysPerMonth" gorm:"not null;default:0"`
	ShiftColors              string `json:"-" gorm:"type:text;default:''"`

	Memberships   []GroupMembership `json:"-" gorm:"foreignKey:UserID"`
	Schedules     []Schedule        `json:"-" gorm:"foreignKey:UserID"`
	LeaveRequests []LeaveRequest    `json:"-" gorm:"foreignKey:UserID"`
}

// ShiftColorMap decodes the stored colors, falling back to the defaults for
// anything missing or unreadable.
func (u *User) ShiftColorMap() map[ShiftType]string {
	colors := DefaultShiftColors()
	if u.ShiftColors == "" {
		return colors
	}
	var stored map[ShiftType]string
	if err := json.Unmarshal([]byte(u.ShiftColors), &stored); err != nil {
		return colors
	}
	for shift, color := range stored {
		if shift.Valid() && color != "" {
			colors[shift] = color
		}
	}
	return colors
}
