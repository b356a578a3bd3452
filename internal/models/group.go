package models

type Group struct {
	BaseModel
	Name        string  `json:"name" gorm:"type:varchar(150);not null"`
	Description *string `json:"description,omitempty" gorm:"type:text"`
	// InviteCode is generated once at creation and is the only way in.
	InviteCode string `json:"inviteCode" gorm:"type:varchar(16);uniqueIndex;not null"`
	// ImageKey is the object-storage key of the group image, if one was uploaded.
	ImageKey    *string           `json:"-" gorm:"type:text"`
	Memberships []GroupMembership `json:"memberships,omitempty" gorm:"foreignKey:GroupID"`
}
