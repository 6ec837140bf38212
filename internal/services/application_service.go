package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/morocclubs/clubs-api/internal/auth"
	"github.com/morocclubs/clubs-api/internal/dto"
	"github.com/morocclubs/clubs-api/internal/models"
	"github.com/morocclubs/clubs-api/internal/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationService struct {
	db *gorm.DB
}

func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db}
}

// Submit stores a join application in the submitted state.
func (s *ApplicationService) Submit(ctx context.Context, req *dto.ApplicationCreateRequest) (*models.ClubApplication, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	if req.ClubID != nil {
		var n int64
		if err := db.Model(&models.Club{}).Where("id = ? AND is_active = ?", *req.ClubID, true).Count(&n).Error; err != nil {
			return nil, dbError("load club", err)
		}
		if n == 0 {
			return nil, validation.Field("club_id", "must reference an active club")
		}
	}

	answers := datatypes.JSONMap(req.Answers)
	if answers == nil {
		answers = datatypes.JSONMap{}
	}
	app := models.ClubApplication{
		ClubID:        req.ClubID,
		ApplicantName: strings.TrimSpace(req.ApplicantName),
		Email:         normalizeEmail(req.Email),
		Phone:         req.Phone,
		PreferredClub: req.PreferredClub,
		Interests:     datatypes.JSONSlice[string](nonNil(req.Interests)),
		Motivation:    req.Motivation,
		Answers:       answers,
		Status:        models.ApplicationStatusSubmitted,
	}
	if err := db.Create(&app).Error; err != nil {
		return nil, dbError("create application", err)
	}
	return &app, nil
}

// List returns applications newest first, optionally filtered by status.
func (s *ApplicationService) List(ctx context.Context, status string, limit, offset int) ([]models.ClubApplication, int64, error) {
	limit, offset = clampPage(limit, offset)

	query := s.db.WithContext(ctx).Model(&models.ClubApplication{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dbError("count applications", err)
	}
	apps := []models.ClubApplication{}
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&apps).Error; err != nil {
		return nil, 0, dbError("list applications", err)
	}
	return apps, total, nil
}

func (s *ApplicationService) Get(ctx context.Context, id uint) (*models.ClubApplication, error) {
	return s.find(s.db.WithContext(ctx), id)
}

func (s *ApplicationService) find(tx *gorm.DB, id uint) (*models.ClubApplication, error) {
	var app models.ClubApplication
	if err := tx.Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, dbError("load application", err)
	}
	return &app, nil
}

// Review moves an application to a new status and records who reviewed it.
// Approved and rejected applications cannot change again.
func (s *ApplicationService) Review(ctx context.Context, id uint, reviewer auth.Principal, req *dto.ApplicationReviewRequest) (*models.ClubApplication, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var app *models.ClubApplication
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.find(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
		if err != nil {
			return err
		}
		if !models.CanTransition(current.Status, req.Status) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, req.Status)
		}

		now := time.Now()
		if err := tx.Model(current).Updates(map[string]interface{}{
			"status":         req.Status,
			"notes":          req.Notes,
			"reviewed_by":    reviewer.UserID(),
			"reviewer_label": reviewerLabel(reviewer),
			"reviewed_at":    &now,
		}).Error; err != nil {
			return dbError("review application", err)
		}
		app, err = s.find(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func reviewerLabel(p auth.Principal) string {
	if p.IsAdmin() || p.User == nil {
		return models.AdminSubject
	}
	return p.User.Email
}
