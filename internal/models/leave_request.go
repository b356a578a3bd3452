package models

import "github.com/google/uuid"

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "PENDING"
	LeaveStatusApproved LeaveStatus = "APPROVED"
	LeaveStatusRejected LeaveStatus = "REJECTED"
)

func (s LeaveStatus) Terminal() bool {
	return s == LeaveStatusApproved || s == LeaveStatusRejected
}

// LeaveRequest is a user's ask for a specific shift (usually OFF) on a date.
// It is born PENDING; a reviewer moves it to APPROVED or REJECTED, both of
// which are terminal. Only the owner may delete it, and only while PENDING.
type LeaveRequest struct {
	BaseModel
	UserID  uuid.UUID   `json:"userId" gorm:"type:uuid;not null;index"`
	Date    string      `json:"date" gorm:"type:varchar(10);not null;index"`
	Type    ShiftType   `json:"type" gorm:"type:varchar(10);not null"`
	Reason  string      `json:"reason" gorm:"type:text;not null"`
	Status  LeaveStatus `json:"status" gorm:"type:varchar(10);not null;default:'PENDING'"`
	Comment *string     `json:"comment,omitempty" gorm:"type:text"`
	User    User        `json:"-" gorm:"foreignKey:UserID"`
}
