package models

import (
	"time"
)

// Member rows are created as a batch at submission time and never
// modified afterwards.
type Member struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	InsuranceID   uint      `gorm:"column:insurance_id;not null;index" json:"insurance_id"`
	Role          string    `gorm:"column:role;size:50;not null" json:"role"`
	Name          string    `gorm:"column:name;size:255;not null" json:"name"`
	Gender        string    `gorm:"column:gender;size:20" json:"gender"`
	DateOfBirth   string    `gorm:"column:dob;size:20" json:"dob"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Member) TableName() string {
	return "insurance_members"
}
