package models

type HospitalEventType string

const (
	EventConference HospitalEventType = "CONFERENCE"
	EventTraining   HospitalEventType = "TRAINING"
	EventGeneral    HospitalEventType = "EVENT"
	EventOther      HospitalEventType = "OTHER"
)

func (t HospitalEventType) Valid() bool {
	switch t {
	case EventConference, EventTraining, EventGeneral, EventOther:
		return true
	default:
		return false
	}
}

// HospitalEvent is hospital-wide and read-only for nurses; admins manage them
// through the admin routes or shiftctl.
type HospitalEvent struct {
	BaseModel
	Title string `json:"title" gorm:"type:varchar(200);not null"`
	// "start"/"end" collide with SQL keywords, so the columns carry suffixes.
	Start       string            `json:"start" gorm:"column:start_date;type:varchar(10);not null;index"`
	End         string            `json:"end" gorm:"column:end_date;type:varchar(10);not null"`
	Description *string           `json:"description,omitempty" gorm:"type:text"`
	Type        HospitalEventType `json:"type" gorm:"type:varchar(20);not null;default:'OTHER'"`
}
