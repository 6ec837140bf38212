package services

import (
	"context"
	"sort"

	"github.com/morocclubs/clubs-api/internal/dto"
	"github.com/morocclubs/clubs-api/internal/models"
	"gorm.io/gorm"
)

const recentActivityLimit = 10

type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// Dashboard computes overview counts and the latest applications and events.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	db := s.db.WithContext(ctx)
	var o dto.DashboardOverview

	counts := []struct {
		name  string
		query *gorm.DB
		dest  *int64
	}{
		{"active clubs", db.Model(&models.Club{}).Where("is_active = ?", true), &o.ActiveClubs},
		{"active memberships", db.Model(&models.ClubMembership{}).Where("is_active = ?", true), &o.ActiveMemberships},
		{"users", db.Model(&models.User{}), &o.TotalUsers},
		{"events", db.Model(&models.ClubEvent{}), &o.TotalEvents},
		{"upcoming events", db.Model(&models.ClubEvent{}).Where("status = ?", models.EventStatusUpcoming), &o.UpcomingEvents},
		{"pending applications", db.Model(&models.ClubApplication{}).Where("status IN ?", []string{
			models.ApplicationStatusSubmitted, models.ApplicationStatusUnderReview,
		}), &o.PendingApplications},
		{"published articles", db.Model(&models.NewsArticle{}).Where("is_published = ?", true), &o.PublishedArticles},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, dbError("count "+c.name, err)
		}
	}

	var apps []models.ClubApplication
	if err := db.Order("created_at DESC").Limit(recentActivityLimit).Find(&apps).Error; err != nil {
		return nil, dbError("recent applications", err)
	}
	var events []models.ClubEvent
	if err := db.Order("created_at DESC").Limit(recentActivityLimit).Find(&events).Error; err != nil {
		return nil, dbError("recent events", err)
	}

	activity := make([]dto.ActivityItem, 0, len(apps)+len(events))
	for _, a := range apps {
		activity = append(activity, dto.ActivityItem{
			Type: "application", ID: a.ID, Title: a.ApplicantName, Status: a.Status, At: a.CreatedAt,
		})
	}
	for _, e := range events {
		activity = append(activity, dto.ActivityItem{
			Type: "event", ID: e.ID, Title: e.Title, Status: e.Status, At: e.CreatedAt,
		})
	}
	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].At.After(activity[j].At)
	})
	if len(activity) > recentActivityLimit {
		activity = activity[:recentActivityLimit]
	}

	return &dto.DashboardResponse{Overview: o, RecentActivity: activity}, nil
}
