package mongo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/borgir/video-archive/internal/core/domain"
	"github.com/borgir/video-archive/internal/core/ports"
)

const videosCollection = "videos"

type VideoRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewVideoRepository(db *mongo.Database, timeout time.Duration) *VideoRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &VideoRepository{coll: db.Collection(videosCollection), timeout: timeout}
}

type mongoVideo struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	URL       string             `bson:"url"`
	PublicID  string             `bson:"public_id"`
	UserID    string             `bson:"user_id"`
	Username  string             `bson:"username"`
	Tags      []string           `bson:"tags"`
	Duration  float64            `bson:"duration,omitempty"`
	Format    string             `bson:"format,omitempty"`
	Size      int64              `bson:"size,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// EnsureIndexes creates the feed, owner and tag indexes.
func (r *VideoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *VideoRepository) Create(ctx context.Context, v *domain.Video) (*domain.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := fromDomainVideo(v)
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}

	created := *v
	created.Tags = doc.Tags
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *VideoRepository) FindByID(ctx context.Context, id string) (*domain.Video, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrVideoNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var mv mongoVideo
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, fmt.Errorf("find video: %w", err)
	}
	return mv.toDomain(), nil
}

// List returns one page of matches sorted newest first, plus the total
// number of matches.
func (r *VideoRepository) List(ctx context.Context, f ports.ListVideosFilter) ([]*domain.Video, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := listFilter(f)
	skip, limit := pageWindow(f.Page, f.Limit)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list videos: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoVideo
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("list videos: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	videos := make([]*domain.Video, 0, len(docs))
	for i := range docs {
		videos = append(videos, docs[i].toDomain())
	}
	return videos, total, nil
}

func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrVideoNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}

func (r *VideoRepository) DistinctTags(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "tags", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct tags: %w", err)
	}

	tags := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			tags = append(tags, s)
		}
	}
	return tags, nil
}

func listFilter(f ports.ListVideosFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.Search != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	return filter
}

func fromDomainVideo(v *domain.Video) mongoVideo {
	return mongoVideo{
		Title:     v.Title,
		URL:       v.URL,
		PublicID:  v.PublicID,
		UserID:    v.UserID,
		Username:  v.Username,
		Tags:      v.Tags,
		Duration:  v.Duration,
		Format:    v.Format,
		Size:      v.Size,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func (mv *mongoVideo) toDomain() *domain.Video {
	tags := mv.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Video{
		ID:        mv.ID.Hex(),
		Title:     mv.Title,
		URL:       mv.URL,
		PublicID:  mv.PublicID,
		UserID:    mv.UserID,
		Username:  mv.Username,
		Tags:      tags,
		Duration:  mv.Duration,
		Format:    mv.Format,
		Size:      mv.Size,
		CreatedAt: mv.CreatedAt.UTC(),
		UpdatedAt: mv.UpdatedAt.UTC(),
	}
}

// pageWindow converts page/limit into skip/limit. A skip that would overflow
// saturates at math.MaxInt64, which simply yields an empty page.
func pageWindow(page, limit int) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	p, l := int64(page-1), int64(limit)
	if p > math.MaxInt64/l {
		return math.MaxInt64, l
	}
	return p * l, l
}
