package ports

import (
	"context"

	"github.com/borgir/video-archive/internal/core/domain"
)

// SaveVideoInput is the metadata returned by the media host after upload.
type SaveVideoInput struct {
	Title    string
	URL      string
	PublicID string
	Tags     []string
	Duration float64
	Format   string
	Size     int64
}

// ListVideosInput carries all parameters for the list endpoints.
type ListVideosInput struct {
	UserID string
	Tag    string
	Search string
	Page   int
	Limit  int
}

// ListVideosResult is one page of the feed.
type ListVideosResult struct {
	Items      []*domain.Video
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// VideoService defines use-case operations for the catalog.
type VideoService interface {
	List(ctx context.Context, input ListVideosInput) (*ListVideosResult, error)
	Tags(ctx context.Context) ([]string, error)
	Save(ctx context.Context, owner domain.Principal, input SaveVideoInput) (*domain.Video, error)
	Delete(ctx context.Context, caller domain.Principal, id string) error
}
