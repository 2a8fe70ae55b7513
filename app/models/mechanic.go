package models

import "gorm.io/gorm"

// Mechanic is the capability profile attached 1:1 to a user with the
// mechanic role. A profile starts unapproved; only an admin flips
// Approved.
type Mechanic struct {
	gorm.Model
	UserID         uint     `gorm:"uniqueIndex;not null" json:"userId"`
	Approved       bool     `gorm:"not null;default:false" json:"approved"`
	Available      bool     `gorm:"not null;default:false" json:"available"`
	Specialties    string   `gorm:"size:500" json:"specialties"`
	Documents      []string `gorm:"serializer:json" json:"documents"`
	ActiveLocation LatLng   `gorm:"embedded;embeddedPrefix:active_" json:"activeLocation"`
	JobsCompleted  int      `gorm:"not null;default:0" json:"jobsCompleted"`
}
