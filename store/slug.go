package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/padraicbc/yachtclub/models"
)

// FallbackSlug is used when a title has no ASCII letters or digits.
const FallbackSlug = "story"

// SlugExists reports whether a story already uses slug.
type SlugExists func(ctx context.Context, slug string) (bool, error)

// Slugify lowercases title, collapses every run of characters outside
// [a-z0-9] into one hyphen and trims hyphens from both ends.
func Slugify(title string) string {
	lower := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lower))
	pendingHyphen := false
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteByte(c)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// AllocateSlug derives a slug from title and probes exists with base, base-1,
// base-2, ... until an unused one is found.
//
// The probe and the later insert are not atomic. Two concurrent allocations
// for the same title can both succeed here; the unique index on stories.slug
// rejects the second insert and the caller has to allocate again.
func AllocateSlug(ctx context.Context, title string, exists SlugExists) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = FallbackSlug
	}

	candidate := base
	for n := 1; ; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func storySlugExists(db bun.IDB) SlugExists {
	return func(ctx context.Context, slug string) (bool, error) {
		return db.NewSelect().Model((*models.Story)(nil)).
			Where("slug = ?", slug).
			Exists(ctx)
	}
}

// AllocateSlug allocates a story slug against the stories table.
func (s *Store) AllocateSlug(ctx context.Context, title string) (string, error) {
	return AllocateSlug(ctx, title, storySlugExists(s.db))
}
