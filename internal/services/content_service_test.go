package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morocclubs/clubs-api/internal/dto"
	"github.com/morocclubs/clubs-api/internal/models"
	"github.com/morocclubs/clubs-api/internal/services"
	"github.com/morocclubs/clubs-api/internal/testutil"
)

func boolPtr(b bool) *bool { return &b }

func TestLandingSections(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewContentService(db)
	ctx := context.Background()

	_, err := svc.CreateSection(ctx, &dto.LandingSectionRequest{Key: "hero", Type: "hero", Order: 2, Data: map[string]any{"cta": "Join"}})
	require.NoError(t, err)
	_, err = svc.CreateSection(ctx, &dto.LandingSectionRequest{Key: "stats", Type: "stats", Order: 1})
	require.NoError(t, err)
	_, err = svc.CreateSection(ctx, &dto.LandingSectionRequest{Key: "draft", Type: "text", Order: 0, IsVisible: boolPtr(false)})
	require.NoError(t, err)
	_, err = svc.CreateSection(ctx, &dto.LandingSectionRequest{Key: "hero", Type: "hero"})
	assert.ErrorIs(t, err, services.ErrSectionKeyTaken)

	visible, err := svc.LandingSections(ctx, "en", false)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "stats", visible[0].Key)
	assert.Equal(t, "hero", visible[1].Key)
	assert.Equal(t, "Join", visible[1].Data["cta"])

	all, err := svc.LandingSections(ctx, "", true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	order := 5
	updated, err := svc.UpdateSection(ctx, "stats", &dto.LandingSectionUpdateRequest{Order: &order})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Order)

	require.NoError(t, svc.DeleteSection(ctx, "draft"))
	assert.ErrorIs(t, svc.DeleteSection(ctx, "draft"), services.ErrSectionNotFound)
	_, err = svc.UpdateSection(ctx, "draft", &dto.LandingSectionUpdateRequest{Order: &order})
	assert.ErrorIs(t, err, services.ErrSectionNotFound)
}

func TestNews(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewContentService(db)
	ctx := context.Background()

	a, err := svc.CreateNews(ctx, nil, &dto.NewsCreateRequest{
		Title:   "Spring Festival!",
		Excerpt: "<b>Big</b> news",
		Content: `<p onclick="x()">Hello</p><script>alert(1)</script>`,
	})
	require.NoError(t, err)
	assert.Equal(t, "spring-festival", a.Slug)
	assert.Equal(t, "Big news", a.Excerpt)
	assert.Equal(t, "<p>Hello</p>", a.Content)
	assert.Nil(t, a.PublishedAt)

	b, err := svc.CreateNews(ctx, nil, &dto.NewsCreateRequest{Title: "Spring festival", Content: "x", IsPublished: true, Category: "events"})
	require.NoError(t, err)
	assert.Equal(t, "spring-festival-2", b.Slug)
	assert.NotNil(t, b.PublishedAt)

	t.Run("drafts are hidden from the public", func(t *testing.T) {
		_, err := svc.GetNewsBySlug(ctx, a.Slug)
		assert.ErrorIs(t, err, services.ErrArticleNotFound)

		list, err := svc.ListNews(ctx, services.NewsFilter{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, b.ID, list[0].ID)

		list, err = svc.ListNews(ctx, services.NewsFilter{IncludeUnpublished: true})
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("publishing sets published_at once", func(t *testing.T) {
		published, err := svc.UpdateNews(ctx, a.ID, &dto.NewsUpdateRequest{IsPublished: boolPtr(true)})
		require.NoError(t, err)
		require.NotNil(t, published.PublishedAt)
		first := *published.PublishedAt

		again, err := svc.UpdateNews(ctx, a.ID, &dto.NewsUpdateRequest{IsPublished: boolPtr(true)})
		require.NoError(t, err)
		assert.True(t, first.Equal(*again.PublishedAt))

		got, err := svc.GetNewsBySlug(ctx, "spring-festival")
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
	})

	t.Run("category filter", func(t *testing.T) {
		list, err := svc.ListNews(ctx, services.NewsFilter{Category: "events"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, b.ID, list[0].ID)
	})

	require.NoError(t, svc.DeleteNews(ctx, a.ID))
	assert.ErrorIs(t, svc.DeleteNews(ctx, a.ID), services.ErrArticleNotFound)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":        "hello-world",
		"  --Club  Night-- ": "club-night",
		"Ünïcode & More":     "n-code-more",
		"!!!":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, services.Slugify(in), in)
	}
}

func TestJoinConfig(t *testing.T) {
	db := testutil.NewDB(t)
	svc := services.NewContentService(db)
	ctx := context.Background()

	_, err := svc.JoinConfig(ctx)
	assert.ErrorIs(t, err, services.ErrJoinConfigNotFound)

	saved, err := svc.SaveJoinConfig(ctx, &dto.JoinConfigRequest{
		PageTitle: "Join us",
		Sections: map[string]models.FormSection{
			"personal": {Title: "About you", Fields: []models.FormField{{Name: "name", Label: "Name", Type: "text", Required: true}}},
		},
		AvailableClubs: []models.AvailableClub{{ID: 1, Name: "Rabat Runners"}},
	})
	require.NoError(t, err)

	_, err = svc.SaveJoinConfig(ctx, &dto.JoinConfigRequest{PageTitle: "Join the community"})
	require.NoError(t, err)

	got, err := svc.JoinConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID, "saving updates the single configuration row")
	assert.Equal(t, "Join the community", got.PageTitle)
	assert.Empty(t, got.Sections.Data())

	var n int64
	db.Model(&models.JoinUsConfiguration{}).Count(&n)
	assert.Equal(t, int64(1), n)
}
