package model

import (
	"time"

	"gorm.io/datatypes"
)

// EmailLog records every outbound notification attempt.
type EmailLog struct {
	ID        uint           `gorm:"column:id;primaryKey"`
	Email     string         `gorm:"column:email;index;not null"`
	Template  string         `gorm:"column:template;not null"`
	Payload   datatypes.JSON `gorm:"column:payload"`
	Delivered bool           `gorm:"column:delivered;default:false;not null"`
	CreatedAt time.Time      `gorm:"column:created_at"`
}
