package models

import "github.com/google/uuid"

type ShiftType string

const (
	ShiftDay     ShiftType = "DAY"
	ShiftEvening ShiftType = "EVENING"
	ShiftNight   ShiftType = "NIGHT"
	ShiftOff     ShiftType = "OFF"
)

func (s ShiftType) Valid() bool {
	switch s {
	case ShiftDay, ShiftEvening, ShiftNight, ShiftOff:
		return true
	default:
		return false
	}
}

// Code is the single-letter label shown in calendar cells.
func (s ShiftType) Code() string {
	switch s {
	case ShiftDay:
		return "D"
	case ShiftEvening:
		return "E"
	case ShiftNight:
		return "N"
	default:
		return "OFF"
	}
}

func DefaultShiftColors() map[ShiftType]string {
	return map[ShiftType]string{
		ShiftDay:     "#4CAF50",
		ShiftEvening: "#2196F3",
		ShiftNight:   "#9C27B0",
		ShiftOff:     "#757575",
	}
}

// Schedule is one user's assignment for one calendar date. Dates are stored
// as yyyy-MM-dd strings so the column sorts chronologically and matches the
// wire format. At most one row may exist per (user, date).
type Schedule struct {
	BaseModel
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index;uniqueIndex:idx_user_date"`
	Date      string    `json:"date" gorm:"type:varchar(10);not null;uniqueIndex:idx_user_date"`
	ShiftType ShiftType `json:"shiftType" gorm:"type:varchar(10);not null"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
}
