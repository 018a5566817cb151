package ports

import (
	"context"

	"github.com/borgir/video-archive/internal/core/domain"
)

// ListVideosFilter carries the query parameters for listing videos.
type ListVideosFilter struct {
	UserID string // empty = all users
	Tag    string // optional exact tag match
	Search string // optional partial, case-insensitive match on title
	Page   int    // 1-based
	Limit  int    // capped at 100 by the service
}

// VideoRepository defines persistence operations for the catalog.
type VideoRepository interface {
	Create(ctx context.Context, v *domain.Video) (*domain.Video, error)
	FindByID(ctx context.Context, id string) (*domain.Video, error)
	// List returns a page of videos, newest first, and the total match count.
	List(ctx context.Context, filter ListVideosFilter) ([]*domain.Video, int64, error)
	Delete(ctx context.Context, id string) error
	DistinctTags(ctx context.Context) ([]string, error)
}
