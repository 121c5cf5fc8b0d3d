package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/yachtclub/identity"
	mw "github.com/padraicbc/yachtclub/middleware"
	"github.com/padraicbc/yachtclub/models"
	"github.com/padraicbc/yachtclub/store"
)

const storyNotFound = "Story not found"

type storyFields struct {
	Excerpt       *string `json:"excerpt" validate:"omitempty,max=500"`
	Author        *string `json:"author" validate:"omitempty,max=100"`
	FeaturedImage *string `json:"featuredImage" validate:"omitempty,max=500"`
	Category      *string `json:"category" validate:"omitempty,max=50"`
	Published     *bool   `json:"published"`
}

type createStoryRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
	storyFields
}

type updateStoryRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content *string `json:"content" validate:"omitempty,min=1"`
	storyFields
}

func (f storyFields) apply(s *models.Story) []string {
	var cols []string
	if f.Excerpt != nil {
		s.Excerpt = f.Excerpt
		cols = append(cols, "excerpt")
	}
	if f.Author != nil {
		s.Author = f.Author
		cols = append(cols, "author")
	}
	if f.FeaturedImage != nil {
		s.FeaturedImage = f.FeaturedImage
		cols = append(cols, "featured_image")
	}
	if f.Category != nil {
		s.Category = f.Category
		cols = append(cols, "category")
	}
	if f.Published != nil {
		s.Published = *f.Published
		cols = append(cols, "published")
	}
	return cols
}

func isAdmin(c echo.Context) bool {
	user, _ := mw.UserFrom(c)
	return identity.Allowed(user, identity.RoleAdmin)
}

// ListStories returns a page of stories. Only administrators see unpublished
// stories or may filter on publication state.
func (h *Handler) ListStories(c echo.Context) error {
	published, err := boolQuery(c, "published")
	if err != nil {
		return err
	}
	if !isAdmin(c) {
		t := true
		published = &t
	}

	page := pageFrom(c)
	stories, total, err := h.store.ListStories(c.Request().Context(), store.StoryFilter{
		Category:  c.QueryParam("category"),
		Published: published,
		Page:      page,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, Success{
		Data:       stories,
		Pagination: NewPagination(page.Page, page.Limit, total),
	})
}

// GetStory looks a story up by id or slug. An unpublished story is reported
// to non-administrators exactly like a missing one.
func (h *Handler) GetStory(c echo.Context) error {
	story, err := h.store.GetStory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return notFoundOr(err, storyNotFound)
	}
	if !story.Published && !isAdmin(c) {
		return echo.NewHTTPError(http.StatusNotFound, storyNotFound)
	}
	return sendData(c, story)
}

// CreateStory inserts a story under a freshly allocated slug.
func (h *Handler) CreateStory(c echo.Context) error {
	var req createStoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	story := &models.Story{Title: req.Title, Content: req.Content}
	req.storyFields.apply(story)
	if story.Author == nil {
		if user, ok := mw.UserFrom(c); ok {
			story.Author = &user.Name
		}
	}

	if err := h.store.CreateStory(c.Request().Context(), story); err != nil {
		return err
	}
	return sendCreated(c, story, "Story created successfully")
}

// UpdateStory changes the fields present in the body. A changed title
// allocates a new slug.
func (h *Handler) UpdateStory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateStoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	story, err := h.store.GetStoryByID(ctx, id)
	if err != nil {
		return notFoundOr(err, storyNotFound)
	}

	var cols []string
	if req.Title != nil && *req.Title != story.Title {
		story.Title = *req.Title
		cols = append(cols, "title")
	}
	if req.Content != nil {
		story.Content = *req.Content
		cols = append(cols, "content")
	}
	cols = append(cols, req.storyFields.apply(story)...)

	if len(cols) > 0 {
		if err := h.store.UpdateStory(ctx, story, cols); err != nil {
			return notFoundOr(err, storyNotFound)
		}
	}
	return respond(c, http.StatusOK, Success{Data: story, Message: "Story updated successfully"})
}

// DeleteStory removes a story.
func (h *Handler) DeleteStory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.store.DeleteStory(c.Request().Context(), id); err != nil {
		return notFoundOr(err, storyNotFound)
	}
	return respond(c, http.StatusOK, Success{Message: "Story deleted successfully"})
}
