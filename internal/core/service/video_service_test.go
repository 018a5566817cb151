package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/borgir/video-archive/internal/core/domain"
	"github.com/borgir/video-archive/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubVideoRepo struct {
	videos     []*domain.Video
	nextID     int
	lastFilter ports.ListVideosFilter
	listErr    error
}

func (r *stubVideoRepo) Create(_ context.Context, v *domain.Video) (*domain.Video, error) {
	r.nextID++
	clone := *v
	clone.ID = fmt.Sprintf("v%d", r.nextID)
	r.videos = append(r.videos, &clone)
	out := clone
	return &out, nil
}

func (r *stubVideoRepo) FindByID(_ context.Context, id string) (*domain.Video, error) {
	for _, v := range r.videos {
		if v.ID == id {
			clone := *v
			return &clone, nil
		}
	}
	return nil, domain.ErrVideoNotFound
}

// List applies the same filters the real Mongo repo would use.
func (r *stubVideoRepo) List(_ context.Context, f ports.ListVideosFilter) ([]*domain.Video, int64, error) {
	r.lastFilter = f
	if r.listErr != nil {
		return nil, 0, r.listErr
	}

	var matched []*domain.Video
	for _, v := range r.videos {
		if f.UserID != "" && v.UserID != f.UserID {
			continue
		}
		if f.Tag != "" && !containsTag(v.Tags, f.Tag) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(f.Search)) {
			continue
		}
		clone := *v
		matched = append(matched, &clone)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip > len(matched) {
		return []*domain.Video{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubVideoRepo) Delete(_ context.Context, id string) error {
	for i, v := range r.videos {
		if v.ID == id {
			r.videos = append(r.videos[:i], r.videos[i+1:]...)
			return nil
		}
	}
	return domain.ErrVideoNotFound
}

func (r *stubVideoRepo) DistinctTags(context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, v := range r.videos {
		for _, t := range v.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	owner    = domain.Principal{Subject: "u1", Username: "alice", Role: domain.RoleUser}
	stranger = domain.Principal{Subject: "u2", Username: "bob", Role: domain.RoleUser}
	admin    = domain.Principal{Subject: domain.AdminSubject, Username: "root", Role: domain.RoleAdmin}
)

func saveInput(title string, tags ...string) ports.SaveVideoInput {
	return ports.SaveVideoInput{
		Title:    title,
		URL:      "https://media.example.com/" + title,
		PublicID: "pub-" + title,
		Tags:     tags,
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestVideoService_Save_Success(t *testing.T) {
	repo := &stubVideoRepo{}
	svc := NewVideoService(repo, zerolog.Nop())

	v, err := svc.Save(context.Background(), owner, saveInput("intro", " Funny", "funny", "", "Cats"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if v.UserID != "u1" || v.Username != "alice" {
		t.Fatalf("owner not recorded: %+v", v)
	}
	if strings.Join(v.Tags, ",") != "funny,cats" {
		t.Fatalf("tags not normalized: %v", v.Tags)
	}
}

func TestVideoService_Save_Validation(t *testing.T) {
	svc := NewVideoService(&stubVideoRepo{}, zerolog.Nop())

	if _, err := svc.Save(context.Background(), owner, ports.SaveVideoInput{Title: "x"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Save(context.Background(), domain.Principal{}, saveInput("x")); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestVideoService_List_FiltersAndPaginates(t *testing.T) {
	repo := &stubVideoRepo{}
	svc := NewVideoService(repo, zerolog.Nop())
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		_, _ = svc.Save(ctx, owner, saveInput(fmt.Sprintf("clip-%d", i), "music"))
		repo.videos[len(repo.videos)-1].CreatedAt = base.Add(time.Duration(i) * time.Minute)
	}
	_, _ = svc.Save(ctx, stranger, saveInput("other", "sports"))

	res, err := svc.List(ctx, ports.ListVideosInput{Tag: " MUSIC ", Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if repo.lastFilter.Tag != "music" {
		t.Fatalf("tag not normalized: %q", repo.lastFilter.Tag)
	}
	if res.Total != 5 || res.TotalPages != 3 || len(res.Items) != 2 {
		t.Fatalf("unexpected page: total=%d pages=%d items=%d", res.Total, res.TotalPages, len(res.Items))
	}
	if res.Items[0].Title != "clip-4" {
		t.Fatalf("expected newest first, got %s", res.Items[0].Title)
	}

	res, _ = svc.List(ctx, ports.ListVideosInput{UserID: "u2"})
	if res.Total != 1 || res.Items[0].Title != "other" {
		t.Fatalf("user filter not applied: %+v", res)
	}
}

func TestVideoService_List_LimitCapped(t *testing.T) {
	repo := &stubVideoRepo{}
	svc := NewVideoService(repo, zerolog.Nop())

	res, err := svc.List(context.Background(), ports.ListVideosInput{Page: -3, Limit: 1000})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if res.Limit != maxPageLimit || res.Page != 1 {
		t.Fatalf("expected page 1 limit %d, got page %d limit %d", maxPageLimit, res.Page, res.Limit)
	}
	if res.Items == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

func TestVideoService_List_HugePageClamped(t *testing.T) {
	repo := &stubVideoRepo{}
	svc := NewVideoService(repo, zerolog.Nop())

	res, err := svc.List(context.Background(), ports.ListVideosInput{Page: math.MaxInt, Limit: 100})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if repo.lastFilter.Page != maxPage || res.Page != maxPage {
		t.Fatalf("expected page clamped to %d, got filter %d result %d", maxPage, repo.lastFilter.Page, res.Page)
	}
	if len(res.Items) != 0 {
		t.Fatalf("expected empty page, got %d items", len(res.Items))
	}
}

func TestVideoService_Delete_Ownership(t *testing.T) {
	repo := &stubVideoRepo{}
	svc := NewVideoService(repo, zerolog.Nop())
	ctx := context.Background()

	v, _ := svc.Save(ctx, owner, saveInput("mine"))

	if err := svc.Delete(ctx, stranger, v.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, owner, v.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if err := svc.Delete(ctx, owner, v.ID); err != domain.ErrVideoNotFound {
		t.Fatalf("expected ErrVideoNotFound, got %v", err)
	}

	v, _ = svc.Save(ctx, owner, saveInput("moderated"))
	if err := svc.Delete(ctx, admin, v.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
}

func TestVideoService_Tags_Sorted(t *testing.T) {
	repo := &stubVideoRepo{}
	svc := NewVideoService(repo, zerolog.Nop())
	ctx := context.Background()
	_, _ = svc.Save(ctx, owner, saveInput("a", "zebra", "apple"))
	_, _ = svc.Save(ctx, owner, saveInput("b", "mango", "apple"))

	tags, err := svc.Tags(ctx)
	if err != nil {
		t.Fatalf("Tags returned error: %v", err)
	}
	if strings.Join(tags, ",") != "apple,mango,zebra" {
		t.Fatalf("unexpected tags: %v", tags)
	}
}
