package models

import "time"

type WaitlistEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist"
}
