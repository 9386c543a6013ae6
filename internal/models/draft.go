package models

import "github.com/google/uuid"

// Draft is a saved wall-design state. The design payload is opaque to the
// backend: it is stored and returned byte-for-byte, never interpreted.
type Draft struct {
	BaseModel
	UserID     uuid.UUID  `json:"userID" gorm:"type:uuid;not null;index"`
	UserEmail  string     `json:"userEmail" gorm:"type:varchar(255);not null;index"`
	Data       RawPayload `json:"data" gorm:"type:text"`
	ShareToken *string    `json:"shareToken,omitempty" gorm:"type:varchar(64);uniqueIndex"`

	Owner User `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

func (Draft) TableName() string {
	return "drafts"
}
