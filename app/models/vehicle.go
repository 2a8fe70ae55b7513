package models

import "gorm.io/gorm"

// Vehicle belongs to exactly one user.
type Vehicle struct {
	gorm.Model
	OwnerID uint   `gorm:"not null;index" json:"ownerId"`
	Type    string `gorm:"size:50" json:"type"`
	Make    string `gorm:"size:100" json:"make"`
	VModel  string `gorm:"size:100;column:model" json:"model"`
	Year    int    `json:"year"`
	Plate   string `gorm:"size:20" json:"plate"`
}
