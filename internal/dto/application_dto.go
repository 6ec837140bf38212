package dto

import "github.com/morocclubs/clubs-api/internal/models"

type ApplicationCreateRequest struct {
	ClubID        *uint          `json:"club_id"`
	ApplicantName string         `json:"applicant_name" validate:"required,max=255"`
	Email         string         `json:"email" validate:"required,email,max=255"`
	Phone         string         `json:"phone" validate:"max=50"`
	PreferredClub string         `json:"preferred_club" validate:"max=255"`
	Interests     []string       `json:"interests"`
	Motivation    string         `json:"motivation" validate:"max=5000"`
	Answers       map[string]any `json:"answers"`
}

type ApplicationReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=under_review approved rejected"`
	Notes  string `json:"notes" validate:"max=5000"`
}

type ApplicationListResponse struct {
	Applications []models.ClubApplication `json:"applications"`
	Total        int64                    `json:"total"`
}
