package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/morocclubs/clubs-api/internal/dto"
	"github.com/morocclubs/clubs-api/internal/models"
	"github.com/morocclubs/clubs-api/internal/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentService manages the editable public content: landing sections,
// news articles and the join-page configuration.
type ContentService struct {
	db     *gorm.DB
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{
		db:     db,
		ugc:    bluemonday.UGCPolicy(),
		strict: bluemonday.StrictPolicy(),
	}
}

var orderBySectionOrder = clause.OrderByColumn{Column: clause.Column{Name: "order"}}

// LandingSections lists sections by their order. Without includeHidden only
// visible sections are returned. An empty locale matches every locale.
func (s *ContentService) LandingSections(ctx context.Context, locale string, includeHidden bool) ([]models.LandingSection, error) {
	query := s.db.WithContext(ctx).Model(&models.LandingSection{})
	if !includeHidden {
		query = query.Where("is_visible = ?", true)
	}
	if locale != "" {
		query = query.Where("locale = ?", locale)
	}
	sections := []models.LandingSection{}
	if err := query.Order(orderBySectionOrder).Order("id").Find(&sections).Error; err != nil {
		return nil, dbError("list landing sections", err)
	}
	return sections, nil
}

func (s *ContentService) CreateSection(ctx context.Context, req *dto.LandingSectionRequest) (*models.LandingSection, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	section := models.LandingSection{
		PageID:    req.PageID,
		Key:       strings.TrimSpace(req.Key),
		Type:      req.Type,
		Title:     req.Title,
		Subtitle:  req.Subtitle,
		Data:      jsonMap(req.Data),
		Design:    jsonMap(req.Design),
		Order:     req.Order,
		IsVisible: true,
		Locale:    req.Locale,
	}
	if section.PageID == 0 {
		section.PageID = 1
	}
	if section.Locale == "" {
		section.Locale = "en"
	}
	if req.IsVisible != nil {
		section.IsVisible = *req.IsVisible
	}

	if err := s.db.WithContext(ctx).Create(&section).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSectionKeyTaken
		}
		return nil, dbError("create landing section", err)
	}
	return &section, nil
}

func (s *ContentService) UpdateSection(ctx context.Context, key string, req *dto.LandingSectionUpdateRequest) (*models.LandingSection, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	section, err := s.findSection(db, key)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Subtitle != nil {
		updates["subtitle"] = *req.Subtitle
	}
	if req.Data != nil {
		updates["data"] = jsonMap(*req.Data)
	}
	if req.Design != nil {
		updates["design"] = jsonMap(*req.Design)
	}
	if req.Order != nil {
		updates["order"] = *req.Order
	}
	if req.IsVisible != nil {
		updates["is_visible"] = *req.IsVisible
	}
	if req.Locale != nil {
		updates["locale"] = *req.Locale
	}
	if len(updates) == 0 {
		return section, nil
	}
	if err := db.Model(section).Updates(updates).Error; err != nil {
		return nil, dbError("update landing section", err)
	}
	return s.findSection(db, key)
}

func (s *ContentService) DeleteSection(ctx context.Context, key string) error {
	result := s.db.WithContext(ctx).Where("key = ?", key).Delete(&models.LandingSection{})
	if result.Error != nil {
		return dbError("delete landing section", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSectionNotFound
	}
	return nil
}

func (s *ContentService) findSection(tx *gorm.DB, key string) (*models.LandingSection, error) {
	var section models.LandingSection
	if err := tx.Where("key = ?", key).First(&section).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, dbError("load landing section", err)
	}
	return &section, nil
}

type NewsFilter struct {
	Category           string
	FeaturedOnly       bool
	IncludeUnpublished bool
	Limit              int
	Offset             int
}

// ListNews returns articles, most recently published first.
func (s *ContentService) ListNews(ctx context.Context, f NewsFilter) ([]models.NewsArticle, error) {
	limit, offset := clampPage(f.Limit, f.Offset)
	query := s.db.WithContext(ctx).Model(&models.NewsArticle{})
	if !f.IncludeUnpublished {
		query = query.Where("is_published = ?", true)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	articles := []models.NewsArticle{}
	if err := query.Order("published_at DESC").Order("created_at DESC").
		Limit(limit).Offset(offset).Find(&articles).Error; err != nil {
		return nil, dbError("list news", err)
	}
	return articles, nil
}

// GetNewsBySlug returns a published article.
func (s *ContentService) GetNewsBySlug(ctx context.Context, slug string) (*models.NewsArticle, error) {
	var article models.NewsArticle
	err := s.db.WithContext(ctx).Where("slug = ? AND is_published = ?", slug, true).First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, dbError("load article", err)
	}
	return &article, nil
}

// CreateNews stores a sanitized article. When no slug is given one is derived
// from the title and made unique with a numeric suffix.
func (s *ContentService) CreateNews(ctx context.Context, authorID *string, req *dto.NewsCreateRequest) (*models.NewsArticle, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	base := Slugify(req.Slug)
	if base == "" {
		base = Slugify(req.Title)
	}
	slug, err := s.uniqueSlug(db, base, 0)
	if err != nil {
		return nil, err
	}

	article := models.NewsArticle{
		Title:         strings.TrimSpace(req.Title),
		Slug:          slug,
		Excerpt:       s.strict.Sanitize(req.Excerpt),
		Content:       s.ugc.Sanitize(req.Content),
		FeaturedImage: req.FeaturedImage,
		Category:      req.Category,
		Tags:          datatypes.JSONSlice[string](nonNil(req.Tags)),
		IsPublished:   req.IsPublished,
		IsFeatured:    req.IsFeatured,
		AuthorID:      authorID,
	}
	if article.IsPublished {
		now := time.Now()
		article.PublishedAt = &now
	}
	if err := db.Create(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validation.Field("slug", "is already in use")
		}
		return nil, dbError("create article", err)
	}
	return &article, nil
}

// UpdateNews applies the non-nil fields of req. published_at is set the first
// time an article is published and kept when it is unpublished.
func (s *ContentService) UpdateNews(ctx context.Context, id uint, req *dto.NewsUpdateRequest) (*models.NewsArticle, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	article, err := s.findArticle(db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Slug != nil {
		slug, err := s.uniqueSlug(db, Slugify(*req.Slug), id)
		if err != nil {
			return nil, err
		}
		updates["slug"] = slug
	}
	if req.Excerpt != nil {
		updates["excerpt"] = s.strict.Sanitize(*req.Excerpt)
	}
	if req.Content != nil {
		updates["content"] = s.ugc.Sanitize(*req.Content)
	}
	if req.FeaturedImage != nil {
		updates["featured_image"] = *req.FeaturedImage
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Tags != nil {
		updates["tags"] = datatypes.JSONSlice[string](nonNil(*req.Tags))
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
		if *req.IsPublished && article.PublishedAt == nil {
			updates["published_at"] = time.Now()
		}
	}
	if len(updates) == 0 {
		return article, nil
	}
	if err := db.Model(article).Updates(updates).Error; err != nil {
		return nil, dbError("update article", err)
	}
	return s.findArticle(db, id)
}

func (s *ContentService) DeleteNews(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.NewsArticle{}, id)
	if result.Error != nil {
		return dbError("delete article", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func (s *ContentService) findArticle(tx *gorm.DB, id uint) (*models.NewsArticle, error) {
	var article models.NewsArticle
	if err := tx.Where("id = ?", id).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, dbError("load article", err)
	}
	return &article, nil
}

// uniqueSlug returns base, or base-2, base-3, ... whichever is not used by an
// article other than exceptID.
func (s *ContentService) uniqueSlug(tx *gorm.DB, base string, exceptID uint) (string, error) {
	if base == "" {
		return "", validation.Field("slug", "must contain letters or digits")
	}
	for i := 1; i <= 100; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		var n int64
		if err := tx.Model(&models.NewsArticle{}).
			Where("slug = ? AND id <> ?", candidate, exceptID).
			Count(&n).Error; err != nil {
			return "", dbError("check slug", err)
		}
		if n == 0 {
			return candidate, nil
		}
	}
	return "", validation.Field("slug", "is already in use")
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its ASCII letters and digits with hyphens.
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// JoinConfig returns the most recently saved join-page configuration.
func (s *ContentService) JoinConfig(ctx context.Context) (*models.JoinUsConfiguration, error) {
	var cfg models.JoinUsConfiguration
	err := s.db.WithContext(ctx).Order("updated_at DESC").Order("id DESC").First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJoinConfigNotFound
		}
		return nil, dbError("load join configuration", err)
	}
	return &cfg, nil
}

// SaveJoinConfig overwrites the current configuration, creating it on first use.
func (s *ContentService) SaveJoinConfig(ctx context.Context, req *dto.JoinConfigRequest) (*models.JoinUsConfiguration, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	sections := req.Sections
	if sections == nil {
		sections = map[string]models.FormSection{}
	}

	cfg, err := s.JoinConfig(ctx)
	if errors.Is(err, ErrJoinConfigNotFound) {
		cfg, err = &models.JoinUsConfiguration{}, nil
	}
	if err != nil {
		return nil, err
	}

	cfg.PageTitle = req.PageTitle
	cfg.PageSubtitle = req.PageSubtitle
	cfg.HeaderGradient = req.HeaderGradient
	cfg.Sections = datatypes.NewJSONType(sections)
	cfg.AvailableClubs = datatypes.JSONSlice[models.AvailableClub](nonNil(req.AvailableClubs))
	cfg.AvailableInterests = datatypes.JSONSlice[string](nonNil(req.AvailableInterests))
	cfg.SuccessPage = jsonMap(req.SuccessPage)
	cfg.TermsText = req.TermsText
	cfg.TermsDescription = req.TermsDescription
	cfg.Validation = jsonMap(req.Validation)

	if err := s.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return nil, dbError("save join configuration", err)
	}
	return cfg, nil
}

func jsonMap(m map[string]any) datatypes.JSONMap {
	if m == nil {
		return datatypes.JSONMap{}
	}
	return datatypes.JSONMap(m)
}
