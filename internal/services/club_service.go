package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/morocclubs/clubs-api/internal/dto"
	"github.com/morocclubs/clubs-api/internal/models"
	"github.com/morocclubs/clubs-api/internal/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClubService struct {
	db        *gorm.DB
	moderator *Moderator
}

func NewClubService(db *gorm.DB) *ClubService {
	return &ClubService{db: db, moderator: NewModerator()}
}

// screen rejects member-written text that would be shown publicly.
func (s *ClubService) screen(field, text string) error {
	if reason := s.moderator.Check(text); reason != "" {
		slog.Info("text rejected by moderation", "field", field, "reason", reason)
		return validation.Field(field, s.moderator.Message(reason))
	}
	return nil
}

type ClubFilter struct {
	Location string
	Query    string
	Limit    int
	Offset   int
}

// List returns active clubs, newest first, with the total before paging.
func (s *ClubService) List(ctx context.Context, f ClubFilter) ([]models.Club, int64, error) {
	limit, offset := clampPage(f.Limit, f.Offset)

	query := s.db.WithContext(ctx).Model(&models.Club{}).Where("is_active = ?", true)
	if f.Location != "" {
		query = query.Where("LOWER(location) = ?", strings.ToLower(f.Location))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, dbError("count clubs", err)
	}
	clubs := []models.Club{}
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&clubs).Error; err != nil {
		return nil, 0, dbError("list clubs", err)
	}
	return clubs, total, nil
}

// Get returns an active club.
func (s *ClubService) Get(ctx context.Context, id uint) (*models.Club, error) {
	return s.find(s.db.WithContext(ctx).Where("is_active = ?", true), id)
}

func (s *ClubService) find(tx *gorm.DB, id uint) (*models.Club, error) {
	var club models.Club
	if err := tx.Where("id = ?", id).First(&club).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, dbError("load club", err)
	}
	return &club, nil
}

func (s *ClubService) Create(ctx context.Context, ownerID *string, req *dto.ClubCreateRequest) (*models.Club, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	club := models.Club{
		Name:            req.Name,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		Image:           req.Image,
		Location:        req.Location,
		Features:        datatypes.JSONSlice[string](nonNil(req.Features)),
		ContactPhone:    req.ContactPhone,
		ContactEmail:    req.ContactEmail,
		Website:         req.Website,
		SocialMedia:     datatypes.NewJSONType(models.SocialLinks(req.SocialMedia)),
		Rating:          5,
		Established:     req.Established,
		IsActive:        true,
		OwnerID:         ownerID,
	}
	if req.Rating != nil {
		club.Rating = *req.Rating
	}
	if err := s.db.WithContext(ctx).Create(&club).Error; err != nil {
		return nil, dbError("create club", err)
	}
	return &club, nil
}

// Update applies the non-nil fields of req. Inactive clubs can be updated,
// which is how a soft-deleted club is restored.
func (s *ClubService) Update(ctx context.Context, id uint, req *dto.ClubUpdateRequest) (*models.Club, error) {
	trimPtr(req.Name)
	trimPtr(req.Location)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	club, err := s.find(db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	setString := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	setString("name", req.Name)
	setString("description", req.Description)
	setString("long_description", req.LongDescription)
	setString("image", req.Image)
	setString("location", req.Location)
	setString("contact_phone", req.ContactPhone)
	setString("contact_email", req.ContactEmail)
	setString("website", req.Website)
	setString("established", req.Established)
	if req.Features != nil {
		updates["features"] = datatypes.JSONSlice[string](nonNil(*req.Features))
	}
	if req.SocialMedia != nil {
		updates["social_media"] = datatypes.NewJSONType(models.SocialLinks(*req.SocialMedia))
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return club, nil
	}

	if err := db.Model(club).Updates(updates).Error; err != nil {
		return nil, dbError("update club", err)
	}
	return s.find(db, id)
}

// Delete deactivates a club. Memberships, events and reviews are kept.
func (s *ClubService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Model(&models.Club{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return dbError("delete club", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrClubNotFound
	}
	return nil
}

// Join makes userID an active member of an active club. A previous
// membership row is reactivated rather than duplicated. member_count is
// recounted in the same transaction.
func (s *ClubService) Join(ctx context.Context, userID string, clubID uint) (*models.ClubMembership, error) {
	var membership models.ClubMembership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.find(tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("is_active = ?", true), clubID); err != nil {
			return err
		}

		now := time.Now()
		err := tx.Where("user_id = ? AND club_id = ?", userID, clubID).First(&membership).Error
		switch {
		case err == nil:
			if membership.IsActive {
				return ErrAlreadyMember
			}
			membership.IsActive = true
			membership.JoinedAt = now
			if err := tx.Model(&membership).Updates(map[string]interface{}{
				"is_active": true,
				"joined_at": now,
			}).Error; err != nil {
				return dbError("reactivate membership", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			membership = models.ClubMembership{
				UserID:   userID,
				ClubID:   clubID,
				Role:     models.MembershipRoleMember,
				JoinedAt: now,
				IsActive: true,
			}
			if err := tx.Create(&membership).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrAlreadyMember
				}
				return dbError("create membership", err)
			}
		default:
			return dbError("load membership", err)
		}

		return recountMembers(tx, clubID)
	})
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// Leave deactivates userID's membership and recounts member_count.
func (s *ClubService) Leave(ctx context.Context, userID string, clubID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.find(tx.Clauses(clause.Locking{Strength: "UPDATE"}), clubID); err != nil {
			return err
		}
		result := tx.Model(&models.ClubMembership{}).
			Where("user_id = ? AND club_id = ? AND is_active = ?", userID, clubID, true).
			Update("is_active", false)
		if result.Error != nil {
			return dbError("deactivate membership", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotMember
		}
		return recountMembers(tx, clubID)
	})
}

func trimPtr(v *string) {
	if v != nil {
		*v = strings.TrimSpace(*v)
	}
}

func recountMembers(tx *gorm.DB, clubID uint) error {
	var n int64
	if err := tx.Model(&models.ClubMembership{}).
		Where("club_id = ? AND is_active = ?", clubID, true).
		Count(&n).Error; err != nil {
		return dbError("count members", err)
	}
	if err := tx.Model(&models.Club{}).Where("id = ?", clubID).
		UpdateColumn("member_count", n).Error; err != nil {
		return dbError("update member_count", err)
	}
	return nil
}

// Members lists active memberships of an active club, oldest first.
func (s *ClubService) Members(ctx context.Context, clubID uint) ([]models.ClubMembership, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.find(db.Where("is_active = ?", true), clubID); err != nil {
		return nil, err
	}
	members := []models.ClubMembership{}
	if err := db.Where("club_id = ? AND is_active = ?", clubID, true).
		Order("joined_at ASC").Find(&members).Error; err != nil {
		return nil, dbError("list members", err)
	}
	return members, nil
}

func (s *ClubService) UserMemberships(ctx context.Context, userID string) ([]models.ClubMembership, error) {
	memberships := []models.ClubMembership{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("joined_at DESC").Find(&memberships).Error; err != nil {
		return nil, dbError("list memberships", err)
	}
	return memberships, nil
}

func (s *ClubService) Reviews(ctx context.Context, clubID uint) ([]models.ClubReview, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.find(db.Where("is_active = ?", true), clubID); err != nil {
		return nil, err
	}
	reviews := []models.ClubReview{}
	if err := db.Where("club_id = ?", clubID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, dbError("list reviews", err)
	}
	return reviews, nil
}

func (s *ClubService) AddReview(ctx context.Context, userID string, clubID uint, req *dto.ReviewCreateRequest) (*models.ClubReview, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.screen("comment", req.Comment); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if _, err := s.find(db.Where("is_active = ?", true), clubID); err != nil {
		return nil, err
	}
	review := models.ClubReview{
		ClubID:  clubID,
		UserID:  userID,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	}
	if err := db.Create(&review).Error; err != nil {
		return nil, dbError("create review", err)
	}
	return &review, nil
}

func (s *ClubService) Gallery(ctx context.Context, clubID uint) ([]models.ClubGallery, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.find(db.Where("is_active = ?", true), clubID); err != nil {
		return nil, err
	}
	images := []models.ClubGallery{}
	if err := db.Where("club_id = ?", clubID).Order("uploaded_at DESC").Find(&images).Error; err != nil {
		return nil, dbError("list gallery", err)
	}
	return images, nil
}

// AddGalleryImage records an image URL. uploaderID is nil for the admin principal.
func (s *ClubService) AddGalleryImage(ctx context.Context, uploaderID *string, clubID uint, req *dto.GalleryCreateRequest) (*models.ClubGallery, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.screen("caption", req.Caption); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if _, err := s.find(db.Where("is_active = ?", true), clubID); err != nil {
		return nil, err
	}
	image := models.ClubGallery{
		ClubID:     clubID,
		ImageURL:   req.ImageURL,
		Caption:    strings.TrimSpace(req.Caption),
		UploadedBy: uploaderID,
		UploadedAt: time.Now(),
	}
	if err := db.Create(&image).Error; err != nil {
		return nil, dbError("create gallery image", err)
	}
	return &image, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
