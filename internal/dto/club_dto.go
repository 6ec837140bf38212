package dto

import "github.com/morocclubs/clubs-api/internal/models"

type ClubCreateRequest struct {
	Name            string            `json:"name" validate:"required,max=255"`
	Description     string            `json:"description" validate:"required"`
	LongDescription string            `json:"long_description"`
	Image           string            `json:"image" validate:"omitempty,url,max=500"`
	Location        string            `json:"location" validate:"required,max=255"`
	Features        []string          `json:"features"`
	ContactPhone    string            `json:"contact_phone" validate:"max=50"`
	ContactEmail    string            `json:"contact_email" validate:"omitempty,email,max=255"`
	Website         string            `json:"website" validate:"omitempty,url,max=500"`
	SocialMedia     map[string]string `json:"social_media"`
	Rating          *int              `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Established     string            `json:"established" validate:"max=50"`
}

type ClubUpdateRequest struct {
	Name            *string            `json:"name" validate:"omitempty,min=1,max=255"`
	Description     *string            `json:"description" validate:"omitempty,min=1"`
	LongDescription *string            `json:"long_description"`
	Image           *string            `json:"image" validate:"omitempty,url,max=500"`
	Location        *string            `json:"location" validate:"omitempty,min=1,max=255"`
	Features        *[]string          `json:"features"`
	ContactPhone    *string            `json:"contact_phone" validate:"omitempty,max=50"`
	ContactEmail    *string            `json:"contact_email" validate:"omitempty,email,max=255"`
	Website         *string            `json:"website" validate:"omitempty,url,max=500"`
	SocialMedia     *map[string]string `json:"social_media"`
	Rating          *int               `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Established     *string            `json:"established" validate:"omitempty,max=50"`
	IsActive        *bool              `json:"is_active"`
}

type ClubListResponse struct {
	Clubs []models.Club `json:"clubs"`
	Total int64         `json:"total"`
}

type ReviewCreateRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type GalleryCreateRequest struct {
	ImageURL string `json:"image_url" validate:"required,url,max=500"`
	Caption  string `json:"caption" validate:"max=255"`
}
