// Package confession is the data-access layer for confessions and their
// likes. The stored like_count is treated as a cache of the confession_likes
// fact table: it is repaired on every list read and on demand, rather than
// being trusted to stay in sync.
package confession

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/confessfeed/confess/internal/models"
)

// MaxTextLength is the longest confession text accepted, in characters.
const MaxTextLength = 500

// Repository wraps a database handle with the confession and like
// operations. Construct with New; the handle is injected so tests can supply
// their own store.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateInput is a request to persist a new confession.
type CreateInput struct {
	Text        string
	Author      string
	UserFID     *int64
	IsAnonymous *bool
}

// FetchAll returns every confession, newest first. As a side effect it
// compares each stored like_count against the live count of like rows and
// persists a correction for any that drifted, so a list read doubles as a
// consistency repair.
func (r *Repository) FetchAll(ctx context.Context) ([]models.Confession, error) {
	var confessions []models.Confession
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&confessions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch confessions: %w", err)
	}

	counts, err := r.liveLikeCounts(ctx)
	if err != nil {
		return nil, err
	}

	for i := range confessions {
		live := counts[confessions[i].ID]
		if confessions[i].LikeCount == live {
			continue
		}
		log.Printf("fixing like count for confession %d: %d -> %d", confessions[i].ID, confessions[i].LikeCount, live)
		err := r.db.WithContext(ctx).Model(&models.Confession{}).
			Where("id = ?", confessions[i].ID).
			Update("like_count", live).Error
		if err != nil {
			return nil, fmt.Errorf("failed to fix like count for confession %d: %w", confessions[i].ID, err)
		}
		confessions[i].LikeCount = live
	}

	return confessions, nil
}

// Create validates and persists a new confession, returning the stored row
// with its server-assigned ID and timestamps.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*models.Confession, error) {
	text := strings.TrimSpace(input.Text)
	author := strings.TrimSpace(input.Author)

	if text == "" {
		return nil, &ValidationError{Field: "text", Reason: "confession text cannot be empty"}
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return nil, &ValidationError{Field: "text", Reason: fmt.Sprintf("confession text cannot exceed %d characters", MaxTextLength)}
	}
	if author == "" {
		return nil, &ValidationError{Field: "author", Reason: "author name is required"}
	}

	isAnonymous := true
	if input.IsAnonymous != nil {
		isAnonymous = *input.IsAnonymous
	}

	c := models.Confession{
		Text:        text,
		Author:      author,
		UserFID:     input.UserFID,
		IsAnonymous: isAnonymous,
	}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create confession: %w", err)
	}
	return &c, nil
}

// liveLikeCounts aggregates the fact table in one grouped query. Confessions
// with no likes are simply absent from the map.
func (r *Repository) liveLikeCounts(ctx context.Context) (map[uint]int, error) {
	var rows []struct {
		ConfessionID uint
		N            int
	}
	err := r.db.WithContext(ctx).Model(&models.ConfessionLike{}).
		Select("confession_id, count(*) as n").
		Group("confession_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.ConfessionID] = row.N
	}
	return counts, nil
}

func (r *Repository) confessionExists(ctx context.Context, id uint) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Confession{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to look up confession %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
