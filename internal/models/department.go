package models

// Department rows are created lazily the first time a registering user names
// one; nothing ever deletes them.
type Department struct {
	BaseModel
	Name  string `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Users []User `json:"-" gorm:"foreignKey:DepartmentID"`
}
