package models

type User struct {
	BaseModel
	Email        string  `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string  `json:"-" gorm:"type:text;not null"`
	IsAdmin      bool    `json:"isAdmin" gorm:"not null;default:false"`
	Plan         string  `json:"plan" gorm:"type:varchar(20);not null;default:'basic'"`
	Drafts       []Draft `json:"-" gorm:"foreignKey:UserID"`
}
