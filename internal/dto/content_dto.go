package dto

import (
	"time"

	"github.com/morocclubs/clubs-api/internal/models"
)

type LandingSectionRequest struct {
	PageID    int            `json:"page_id" validate:"omitempty,gte=1"`
	Key       string         `json:"key" validate:"required,max=100"`
	Type      string         `json:"type" validate:"required,max=50"`
	Title     string         `json:"title" validate:"max=255"`
	Subtitle  string         `json:"subtitle"`
	Data      map[string]any `json:"data"`
	Design    map[string]any `json:"design"`
	Order     int            `json:"order"`
	IsVisible *bool          `json:"is_visible"`
	Locale    string         `json:"locale" validate:"omitempty,max=10"`
}

type LandingSectionUpdateRequest struct {
	Type      *string         `json:"type" validate:"omitempty,min=1,max=50"`
	Title     *string         `json:"title" validate:"omitempty,max=255"`
	Subtitle  *string         `json:"subtitle"`
	Data      *map[string]any `json:"data"`
	Design    *map[string]any `json:"design"`
	Order     *int            `json:"order"`
	IsVisible *bool           `json:"is_visible"`
	Locale    *string         `json:"locale" validate:"omitempty,min=1,max=10"`
}

type NewsCreateRequest struct {
	Title         string   `json:"title" validate:"required,max=255"`
	Slug          string   `json:"slug" validate:"max=255"`
	Excerpt       string   `json:"excerpt"`
	Content       string   `json:"content" validate:"required"`
	FeaturedImage string   `json:"featured_image" validate:"omitempty,url,max=500"`
	Category      string   `json:"category" validate:"max=100"`
	Tags          []string `json:"tags"`
	IsPublished   bool     `json:"is_published"`
	IsFeatured    bool     `json:"is_featured"`
}

type NewsUpdateRequest struct {
	Title         *string   `json:"title" validate:"omitempty,min=1,max=255"`
	Slug          *string   `json:"slug" validate:"omitempty,min=1,max=255"`
	Excerpt       *string   `json:"excerpt"`
	Content       *string   `json:"content" validate:"omitempty,min=1"`
	FeaturedImage *string   `json:"featured_image" validate:"omitempty,url,max=500"`
	Category      *string   `json:"category" validate:"omitempty,max=100"`
	Tags          *[]string `json:"tags"`
	IsPublished   *bool     `json:"is_published"`
	IsFeatured    *bool     `json:"is_featured"`
}

type JoinConfigRequest struct {
	PageTitle          string                        `json:"page_title" validate:"required,max=255"`
	PageSubtitle       string                        `json:"page_subtitle"`
	HeaderGradient     string                        `json:"header_gradient" validate:"max=255"`
	Sections           map[string]models.FormSection `json:"sections"`
	AvailableClubs     []models.AvailableClub        `json:"available_clubs"`
	AvailableInterests []string                      `json:"available_interests"`
	SuccessPage        map[string]any                `json:"success_page"`
	TermsText          string                        `json:"terms_text"`
	TermsDescription   string                        `json:"terms_description"`
	Validation         map[string]any                `json:"validation"`
}

type ActivityItem struct {
	Type   string    `json:"type"`
	ID     uint      `json:"id"`
	Title  string    `json:"title"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

type DashboardOverview struct {
	ActiveClubs         int64 `json:"active_clubs"`
	ActiveMemberships   int64 `json:"active_memberships"`
	TotalUsers          int64 `json:"total_users"`
	TotalEvents         int64 `json:"total_events"`
	UpcomingEvents      int64 `json:"upcoming_events"`
	PendingApplications int64 `json:"pending_applications"`
	PublishedArticles   int64 `json:"published_articles"`
}

type DashboardResponse struct {
	Overview       DashboardOverview `json:"overview"`
	RecentActivity []ActivityItem    `json:"recent_activity"`
}
