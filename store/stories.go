package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	bundb "github.com/padraicbc/yachtclub/db"
	"github.com/padraicbc/yachtclub/models"
)

// slugAttempts bounds how often a story write re-allocates its slug after
// losing a race on the unique index.
const slugAttempts = 3

// StoryFilter narrows ListStories.
type StoryFilter struct {
	Category  string
	Published *bool
	Page      Page
}

// ListStories returns one page of stories, newest first, and the total count.
func (s *Store) ListStories(ctx context.Context, f StoryFilter) ([]*models.Story, int, error) {
	page := f.Page.Normalize()
	stories := []*models.Story{}

	q := s.db.NewSelect().Model(&stories)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Published != nil {
		q = q.Where("published = ?", *f.Published)
	}

	total, err := q.OrderExpr("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return stories, total, nil
}

// GetStoryByID loads a story by primary key.
func (s *Store) GetStoryByID(ctx context.Context, id int64) (*models.Story, error) {
	story := &models.Story{}
	if err := s.db.NewSelect().Model(story).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, notFound(err)
	}
	return story, nil
}

// GetStory looks a story up by numeric id or, failing that, by slug.
func (s *Store) GetStory(ctx context.Context, idOrSlug string) (*models.Story, error) {
	if id, err := strconv.ParseInt(idOrSlug, 10, 64); err == nil {
		story, err := s.GetStoryByID(ctx, id)
		if !errors.Is(err, ErrNotFound) {
			return story, err
		}
	}

	story := &models.Story{}
	if err := s.db.NewSelect().Model(story).Where("slug = ?", idOrSlug).Scan(ctx); err != nil {
		return nil, notFound(err)
	}
	return story, nil
}

// CreateStory allocates a slug and inserts story. A duplicate slug at insert
// time means a concurrent writer took it; allocation is retried.
func (s *Store) CreateStory(ctx context.Context, story *models.Story) error {
	now := time.Now().UTC()
	story.CreatedAt = now
	story.UpdatedAt = now
	if story.Published && story.PublishedAt == nil {
		story.PublishedAt = &now
	}

	return s.withSlug(ctx, story, func() error {
		_, err := s.db.NewInsert().Model(story).Exec(ctx)
		return err
	})
}

// UpdateStory writes the named columns of story. When "title" is among them
// the slug is allocated again from the new title.
func (s *Store) UpdateStory(ctx context.Context, story *models.Story, columns []string) error {
	now := time.Now().UTC()
	story.UpdatedAt = now
	columns = append(append([]string(nil), columns...), "updated_at")
	if story.Published && story.PublishedAt == nil {
		story.PublishedAt = &now
		columns = append(columns, "published_at")
	}

	update := func() error {
		res, err := s.db.NewUpdate().Model(story).Column(columns...).WherePK().Exec(ctx)
		if err != nil {
			return err
		}
		return affected(res)
	}

	if !contains(columns, "title") {
		return update()
	}
	columns = append(columns, "slug")
	return s.withSlug(ctx, story, update)
}

// DeleteStory removes a story by id.
func (s *Store) DeleteStory(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().Model((*models.Story)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	return affected(res)
}

func (s *Store) withSlug(ctx context.Context, story *models.Story, write func() error) error {
	var err error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		story.Slug, err = AllocateSlug(ctx, story.Title, storySlugExists(s.db))
		if err != nil {
			return err
		}
		if err = write(); err == nil || !bundb.IsUniqueViolation(err) {
			return err
		}
	}
	return fmt.Errorf("allocate slug for %q: %w", story.Title, err)
}

func affected(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
