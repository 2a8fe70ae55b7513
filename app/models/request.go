package models

import (
	"time"

	"gorm.io/gorm"
)

// RequestStatus is the service-request lifecycle state.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusAccepted   RequestStatus = "accepted"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
)

// transitions lists the allowed forward moves. Completed and cancelled
// are terminal.
var transitions = map[RequestStatus][]RequestStatus{
	StatusPending:    {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

// CanTransition reports whether moving from → to is a legal lifecycle
// step.
func CanTransition(from, to RequestStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is a defined status.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ServiceRequest is a client's roadside-assistance job. ClientID is set
// at creation and never changes; MechanicID is set only on acceptance.
type ServiceRequest struct {
	gorm.Model
	ClientID    uint          `gorm:"not null;index" json:"clientId"`
	MechanicID  *uint         `gorm:"index" json:"mechanicId"`
	VehicleID   *uint         `gorm:"index" json:"vehicleId"`
	Status      RequestStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	ServiceType string        `gorm:"size:100" json:"serviceType"`
	Description string        `gorm:"size:2000" json:"description"`
	Location    LatLng        `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	AcceptedAt  *time.Time    `json:"acceptedAt"`
	CompletedAt *time.Time    `json:"completedAt"`
}
