package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/morocclubs/clubs-api/internal/dto"
	"github.com/morocclubs/clubs-api/internal/models"
	"github.com/morocclubs/clubs-api/internal/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

type EventFilter struct {
	Status string
	ClubID uint
	Limit  int
	Offset int
}

// List returns events ordered by date, soonest first.
func (s *EventService) List(ctx context.Context, f EventFilter) ([]models.ClubEvent, error) {
	if f.Status != "" && !models.ValidEventStatus(f.Status) {
		return nil, validation.Field("status", "must be one of: upcoming, ongoing, completed, cancelled")
	}
	limit, offset := clampPage(f.Limit, f.Offset)

	query := s.db.WithContext(ctx).Model(&models.ClubEvent{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.ClubID != 0 {
		query = query.Where("club_id = ?", f.ClubID)
	}

	events := []models.ClubEvent{}
	if err := query.Order("event_date ASC").Limit(limit).Offset(offset).Find(&events).Error; err != nil {
		return nil, dbError("list events", err)
	}
	return events, nil
}

// ClubEvents lists a club's events. With upcomingOnly, only events in the
// upcoming status are returned, soonest first.
func (s *EventService) ClubEvents(ctx context.Context, clubID uint, upcomingOnly bool) ([]models.ClubEvent, error) {
	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Model(&models.Club{}).Where("id = ? AND is_active = ?", clubID, true).Count(&n).Error; err != nil {
		return nil, dbError("load club", err)
	}
	if n == 0 {
		return nil, ErrClubNotFound
	}

	query := db.Where("club_id = ?", clubID)
	if upcomingOnly {
		query = query.Where("status = ?", models.EventStatusUpcoming)
	}
	events := []models.ClubEvent{}
	if err := query.Order("event_date ASC").Find(&events).Error; err != nil {
		return nil, dbError("list club events", err)
	}
	return events, nil
}

func (s *EventService) Get(ctx context.Context, id uint) (*models.ClubEvent, error) {
	return s.find(s.db.WithContext(ctx), id)
}

func (s *EventService) find(tx *gorm.DB, id uint) (*models.ClubEvent, error) {
	var event models.ClubEvent
	if err := tx.Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, dbError("load event", err)
	}
	return &event, nil
}

// Create adds an event to an active club. creatorID is nil for the admin principal.
func (s *EventService) Create(ctx context.Context, creatorID *string, req *dto.EventCreateRequest) (*models.ClubEvent, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var n int64
	if err := db.Model(&models.Club{}).Where("id = ? AND is_active = ?", req.ClubID, true).Count(&n).Error; err != nil {
		return nil, dbError("load club", err)
	}
	if n == 0 {
		return nil, validation.Field("club_id", "must reference an active club")
	}

	status := req.Status
	if status == "" {
		status = models.EventStatusUpcoming
	}
	event := models.ClubEvent{
		ClubID:          req.ClubID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		EventDate:       req.EventDate,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		Status:          status,
		CreatedBy:       creatorID,
	}
	if err := db.Create(&event).Error; err != nil {
		return nil, dbError("create event", err)
	}
	return &event, nil
}

func (s *EventService) Update(ctx context.Context, id uint, req *dto.EventUpdateRequest) (*models.ClubEvent, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var event *models.ClubEvent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.find(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.Title != nil {
			updates["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.EventDate != nil {
			updates["event_date"] = *req.EventDate
		}
		if req.Location != nil {
			updates["location"] = *req.Location
		}
		if req.Status != nil {
			updates["status"] = *req.Status
		}
		if req.MaxParticipants != nil {
			if *req.MaxParticipants < current.CurrentParticipants {
				return validation.Field("max_participants", ErrCapacityBelowSignup.Error())
			}
			updates["max_participants"] = *req.MaxParticipants
		}
		if len(updates) > 0 {
			if err := tx.Model(current).Updates(updates).Error; err != nil {
				return dbError("update event", err)
			}
		}
		event, err = s.find(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Register signs userID up for an event. The event row is locked so that
// concurrent registrations cannot exceed max_participants.
func (s *EventService) Register(ctx context.Context, userID string, eventID uint) (*models.EventParticipant, error) {
	var participant models.EventParticipant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := s.find(tx.Clauses(clause.Locking{Strength: "UPDATE"}), eventID)
		if err != nil {
			return err
		}
		if event.Status == models.EventStatusCancelled || event.Status == models.EventStatusCompleted {
			return ErrEventClosed
		}

		var existing int64
		if err := tx.Model(&models.EventParticipant{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Count(&existing).Error; err != nil {
			return dbError("load participant", err)
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}
		if event.Full() {
			return ErrEventFull
		}

		participant = models.EventParticipant{
			EventID:      eventID,
			UserID:       userID,
			RegisteredAt: time.Now(),
		}
		if err := tx.Create(&participant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRegistered
			}
			return dbError("create participant", err)
		}
		return recountParticipants(tx, eventID)
	})
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (s *EventService) Unregister(ctx context.Context, userID string, eventID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.find(tx.Clauses(clause.Locking{Strength: "UPDATE"}), eventID); err != nil {
			return err
		}
		result := tx.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&models.EventParticipant{})
		if result.Error != nil {
			return dbError("delete participant", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotRegistered
		}
		return recountParticipants(tx, eventID)
	})
}

// Participants lists who registered for an event, earliest first.
func (s *EventService) Participants(ctx context.Context, eventID uint) ([]models.EventParticipant, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.find(db, eventID); err != nil {
		return nil, err
	}
	participants := []models.EventParticipant{}
	if err := db.Where("event_id = ?", eventID).Order("registered_at ASC").Find(&participants).Error; err != nil {
		return nil, dbError("list participants", err)
	}
	return participants, nil
}

func recountParticipants(tx *gorm.DB, eventID uint) error {
	var n int64
	if err := tx.Model(&models.EventParticipant{}).Where("event_id = ?", eventID).Count(&n).Error; err != nil {
		return dbError("count participants", err)
	}
	if err := tx.Model(&models.ClubEvent{}).Where("id = ?", eventID).
		UpdateColumn("current_participants", n).Error; err != nil {
		return dbError("update current_participants", err)
	}
	return nil
}
