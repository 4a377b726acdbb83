package confession

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/confessfeed/confess/internal/identity"
	"github.com/confessfeed/confess/internal/models"
)

func newTestRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "confess_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Confession{}, &models.ConfessionLike{}))
	return New(db), db
}

func mustCreate(t *testing.T, repo *Repository, text, author string) *models.Confession {
	t.Helper()
	c, err := repo.Create(context.Background(), CreateInput{Text: text, Author: author})
	require.NoError(t, err)
	return c
}

func TestCreateValidation(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		text   string
		author string
		field  string
	}{
		{"empty text", "", "Anon Zendaya", "text"},
		{"whitespace text", "   \n\t ", "Anon Zendaya", "text"},
		{"text too long", strings.Repeat("a", 501), "Anon Zendaya", "text"},
		{"empty author", "hello", "", "author"},
		{"whitespace author", "hello", "   ", "author"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(ctx, CreateInput{Text: tt.text, Author: tt.author})
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	t.Run("accepts exactly 500 characters", func(t *testing.T) {
		c, err := repo.Create(ctx, CreateInput{Text: strings.Repeat("a", 500), Author: "Anon Zendaya"})
		require.NoError(t, err)
		assert.Len(t, c.Text, 500)
	})
}

func TestCreateTrimsAndDefaults(t *testing.T) {
	repo, _ := newTestRepo(t)

	c, err := repo.Create(context.Background(), CreateInput{
		Text:   "  my secret  ",
		Author: "  Secret Pedro Pascal ",
	})
	require.NoError(t, err)

	assert.Equal(t, "my secret", c.Text)
	assert.Equal(t, "Secret Pedro Pascal", c.Author)
	assert.True(t, c.IsAnonymous)
	assert.Equal(t, 0, c.LikeCount)
	assert.NotZero(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestFetchAllNewestFirst(t *testing.T) {
	repo, db := newTestRepo(t)

	older := mustCreate(t, repo, "older", "Anon Emma Stone")
	newer := mustCreate(t, repo, "newer", "Anon Tom Cruise")

	// Force distinct timestamps; two inserts can land in the same tick.
	now := time.Now()
	require.NoError(t, db.Model(older).UpdateColumn("created_at", now.Add(-time.Hour)).Error)
	require.NoError(t, db.Model(newer).UpdateColumn("created_at", now).Error)

	got, err := repo.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0].Text)
	assert.Equal(t, "older", got[1].Text)
}

func TestFetchAllRepairsDriftedCounts(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	first := mustCreate(t, repo, "first", "Anon Gal Gadot")
	second := mustCreate(t, repo, "second", "Anon Ryan Gosling")

	require.NoError(t, repo.Like(ctx, first.ID, identity.Anonymous("anon_1_1")))
	require.NoError(t, repo.Like(ctx, first.ID, identity.Anonymous("anon_2_2")))
	require.NoError(t, repo.Like(ctx, second.ID, identity.Platform(42)))

	// Corrupt both stored counters.
	require.NoError(t, db.Model(first).UpdateColumn("like_count", 99).Error)
	require.NoError(t, db.Model(second).UpdateColumn("like_count", 0).Error)

	got, err := repo.FetchAll(ctx)
	require.NoError(t, err)

	byID := make(map[uint]models.Confession)
	for _, c := range got {
		byID[c.ID] = c
	}
	assert.Equal(t, 2, byID[first.ID].LikeCount)
	assert.Equal(t, 1, byID[second.ID].LikeCount)

	// The corrections must be persisted, not just reflected in the result.
	var stored models.Confession
	require.NoError(t, db.First(&stored, first.ID).Error)
	assert.Equal(t, 2, stored.LikeCount)
	stored = models.Confession{}
	require.NoError(t, db.First(&stored, second.ID).Error)
	assert.Equal(t, 1, stored.LikeCount)
}

func TestLikeTwiceIsAlreadyLiked(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()
	c := mustCreate(t, repo, "hello", "Anon Keanu Reeves")

	id := identity.Anonymous("anon_123_456")
	require.NoError(t, repo.Like(ctx, c.ID, id))

	err := repo.Like(ctx, c.ID, id)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	var n int64
	require.NoError(t, db.Model(&models.ConfessionLike{}).Where("confession_id = ?", c.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestLikeStoresExactlyOneIdentityColumn(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()
	c := mustCreate(t, repo, "hello", "Agent Viola Davis")

	require.NoError(t, repo.Like(ctx, c.ID, identity.Platform(7)))
	require.NoError(t, repo.Like(ctx, c.ID, identity.Anonymous("anon_9_9")))

	var likes []models.ConfessionLike
	require.NoError(t, db.Where("confession_id = ?", c.ID).Order("id").Find(&likes).Error)
	require.Len(t, likes, 2)

	require.NotNil(t, likes[0].UserFID)
	assert.EqualValues(t, 7, *likes[0].UserFID)
	assert.Nil(t, likes[0].UserIdentifier)

	assert.Nil(t, likes[1].UserFID)
	require.NotNil(t, likes[1].UserIdentifier)
	assert.Equal(t, "anon_9_9", *likes[1].UserIdentifier)
}

func TestLikeRequiresIdentityAndConfession(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	c := mustCreate(t, repo, "hello", "Undercover Emily Blunt")

	assert.ErrorIs(t, repo.Like(ctx, c.ID, identity.Identity{}), ErrNoIdentity)
	assert.ErrorIs(t, repo.Unlike(ctx, c.ID, identity.Identity{}), ErrNoIdentity)
	assert.ErrorIs(t, repo.Like(ctx, c.ID+1000, identity.Platform(1)), ErrNotFound)
}

func TestUnlikeNeverCrossesIdentities(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()
	c := mustCreate(t, repo, "hello", "Totally-Not Christian Bale")

	anon := identity.Anonymous("anon_5_5")
	require.NoError(t, repo.Like(ctx, c.ID, anon))
	require.NoError(t, repo.Like(ctx, c.ID, identity.Platform(5)))

	// Removing the platform like must leave the anonymous like untouched.
	require.NoError(t, repo.Unlike(ctx, c.ID, identity.Platform(5)))

	var likes []models.ConfessionLike
	require.NoError(t, db.Where("confession_id = ?", c.ID).Find(&likes).Error)
	require.Len(t, likes, 1)
	require.NotNil(t, likes[0].UserIdentifier)
	assert.Equal(t, "anon_5_5", *likes[0].UserIdentifier)

	assert.True(t, repo.HasLiked(ctx, c.ID, anon))
	assert.False(t, repo.HasLiked(ctx, c.ID, identity.Platform(5)))
}

func TestHasLikedDefaultsToFalse(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	c := mustCreate(t, repo, "hello", "Definitely-Not Florence Pugh")

	assert.False(t, repo.HasLiked(ctx, c.ID, identity.Identity{}))
	assert.False(t, repo.HasLiked(ctx, c.ID, identity.Anonymous("anon_0_0")))
	assert.False(t, repo.HasLiked(ctx, c.ID+1000, identity.Platform(3)))
}

func TestRecalculateLikeCounts(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	liked := mustCreate(t, repo, "liked", "Anon Margot Robbie")
	unliked := mustCreate(t, repo, "unliked", "Anon Dwayne Johnson")

	require.NoError(t, repo.Like(ctx, liked.ID, identity.Anonymous("anon_1_1")))
	require.NoError(t, repo.Like(ctx, liked.ID, identity.Anonymous("anon_2_2")))

	require.NoError(t, db.Model(liked).UpdateColumn("like_count", 0).Error)
	require.NoError(t, db.Model(unliked).UpdateColumn("like_count", 17).Error)

	require.NoError(t, repo.RecalculateLikeCounts(ctx))

	var stored models.Confession
	require.NoError(t, db.First(&stored, liked.ID).Error)
	assert.Equal(t, 2, stored.LikeCount)
	stored = models.Confession{}
	require.NoError(t, db.First(&stored, unliked.ID).Error)
	assert.Equal(t, 0, stored.LikeCount)
}

func TestLikeUnlikeRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	c := mustCreate(t, repo, "hello", "Anon Keanu Reeves")

	got, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Text)
	assert.Equal(t, 0, got[0].LikeCount)

	id := identity.Anonymous("anon_123")
	require.NoError(t, repo.Like(ctx, c.ID, id))

	got, err = repo.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got[0].LikeCount)
	assert.True(t, repo.HasLiked(ctx, c.ID, id))

	require.NoError(t, repo.Unlike(ctx, c.ID, id))

	got, err = repo.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got[0].LikeCount)
	assert.False(t, repo.HasLiked(ctx, c.ID, id))
}
