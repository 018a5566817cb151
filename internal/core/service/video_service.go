package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/borgir/video-archive/internal/core/domain"
	"github.com/borgir/video-archive/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	// maxPage keeps the skip offset (page-1)*limit well inside int64.
	maxPage = 1_000_000
)

type VideoService struct {
	repo   ports.VideoRepository
	logger zerolog.Logger
}

func NewVideoService(repo ports.VideoRepository, logger zerolog.Logger) *VideoService {
	return &VideoService{repo: repo, logger: logger}
}

// List returns one page of the feed, newest first.
func (s *VideoService) List(ctx context.Context, in ports.ListVideosInput) (*ports.ListVideosResult, error) {
	page, limit := normalizePage(in.Page, in.Limit)

	items, total, err := s.repo.List(ctx, ports.ListVideosFilter{
		UserID: in.UserID,
		Tag:    normalizeTag(in.Tag),
		Search: strings.TrimSpace(in.Search),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	if items == nil {
		items = []*domain.Video{}
	}

	return &ports.ListVideosResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// Tags returns the sorted set of tags used across the catalog.
func (s *VideoService) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.repo.DistinctTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	sort.Strings(tags)
	return tags, nil
}

// Save records a video uploaded by owner.
func (s *VideoService) Save(ctx context.Context, owner domain.Principal, in ports.SaveVideoInput) (*domain.Video, error) {
	if owner.Subject == "" {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.URL) == "" || strings.TrimSpace(in.PublicID) == "" {
		return nil, fmt.Errorf("save video: %w: title, url and public_id are required", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	video := &domain.Video{
		Title:     strings.TrimSpace(in.Title),
		URL:       in.URL,
		PublicID:  in.PublicID,
		UserID:    owner.Subject,
		Username:  owner.Username,
		Tags:      normalizeTags(in.Tags),
		Duration:  in.Duration,
		Format:    in.Format,
		Size:      in.Size,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, video)
	if err != nil {
		return nil, fmt.Errorf("save video: %w", err)
	}
	s.logger.Info().Str("video_id", created.ID).Str("user_id", owner.Subject).Msg("video saved")
	return created, nil
}

// Delete removes a video. Only its owner or an admin may do so.
func (s *VideoService) Delete(ctx context.Context, caller domain.Principal, id string) error {
	video, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !video.CanBeDeletedBy(caller) {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	s.logger.Info().Str("video_id", id).Str("user_id", caller.Subject).Msg("video deleted")
	return nil
}

// normalizePage clamps page to [1, maxPage] and limit to [1, maxPageLimit].
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// normalizeTags lower-cases, trims and de-duplicates tags, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = normalizeTag(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
