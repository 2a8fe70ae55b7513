package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/app/repositories"
	"github.com/roadassist/roadassist/pkg/apperr"
)

// VehicleService manages the vehicles a client registers.
type VehicleService struct {
	vehicles *repositories.VehicleRepository
}

func NewVehicleService(vehicles *repositories.VehicleRepository) *VehicleService {
	return &VehicleService{vehicles: vehicles}
}

// VehicleInput is the payload for creating or updating a vehicle.
type VehicleInput struct {
	Type  string `json:"type" validate:"nullable,max=50"`
	Make  string `json:"make" validate:"required,max=100"`
	Model string `json:"model" validate:"required,max=100"`
	Year  int    `json:"year" validate:"nullable,gte=1900,lte=2100"`
	Plate string `json:"plate" validate:"nullable,max=20"`
}

// Create registers a vehicle owned by the caller.
func (s *VehicleService) Create(userID uint, in VehicleInput) (models.Vehicle, error) {
	v := models.Vehicle{
		OwnerID: userID,
		Type:    in.Type,
		Make:    in.Make,
		VModel:  in.Model,
		Year:    in.Year,
		Plate:   in.Plate,
	}
	if err := s.vehicles.Create(&v); err != nil {
		return models.Vehicle{}, apperr.From(err)
	}
	return v, nil
}

// Mine lists the caller's vehicles.
func (s *VehicleService) Mine(userID uint) ([]models.Vehicle, error) {
	out, err := s.vehicles.ByOwner(userID)
	if err != nil {
		return nil, apperr.From(err)
	}
	return out, nil
}

// Update edits a vehicle the caller owns.
func (s *VehicleService) Update(userID, id uint, in VehicleInput) (models.Vehicle, error) {
	v, err := s.owned(userID, id)
	if err != nil {
		return models.Vehicle{}, err
	}

	v.Type = in.Type
	v.Make = in.Make
	v.VModel = in.Model
	v.Year = in.Year
	v.Plate = in.Plate
	if err := s.vehicles.Update(&v); err != nil {
		return models.Vehicle{}, apperr.From(err)
	}
	return v, nil
}

// Delete removes a vehicle the caller owns.
func (s *VehicleService) Delete(userID, id uint) error {
	v, err := s.owned(userID, id)
	if err != nil {
		return err
	}
	if err := s.vehicles.Delete(&v); err != nil {
		return apperr.From(err)
	}
	return nil
}

func (s *VehicleService) owned(userID, id uint) (models.Vehicle, error) {
	v, err := s.vehicles.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Vehicle{}, apperr.NotFound("vehicle")
		}
		return models.Vehicle{}, apperr.From(err)
	}
	if v.OwnerID != userID {
		return models.Vehicle{}, apperr.NotFound("vehicle")
	}
	return v, nil
}
