package dto

import "time"

type EventCreateRequest struct {
	ClubID          uint      `json:"club_id" validate:"required"`
	Title           string    `json:"title" validate:"required,max=255"`
	Description     string    `json:"description"`
	EventDate       time.Time `json:"event_date" validate:"required"`
	Location        string    `json:"location" validate:"max=255"`
	MaxParticipants *int      `json:"max_participants" validate:"omitempty,gte=1"`
	Status          string    `json:"status" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
}

type EventUpdateRequest struct {
	Title           *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description     *string    `json:"description"`
	EventDate       *time.Time `json:"event_date"`
	Location        *string    `json:"location" validate:"omitempty,max=255"`
	MaxParticipants *int       `json:"max_participants" validate:"omitempty,gte=1"`
	Status          *string    `json:"status" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
}
