package confession

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/confessfeed/confess/internal/identity"
	"github.com/confessfeed/confess/internal/models"
)

// Like records a like for the given identity. The platform FID takes
// precedence: the stored row carries exactly one identity column no matter
// what the caller resolved from. A second like by the same identity returns
// ErrAlreadyLiked.
func (r *Repository) Like(ctx context.Context, confessionID uint, id identity.Identity) error {
	if id.IsZero() {
		return ErrNoIdentity
	}
	if err := r.confessionExists(ctx, confessionID); err != nil {
		return err
	}

	row := models.ConfessionLike{ConfessionID: confessionID}
	if fid, ok := id.FID(); ok {
		row.UserFID = &fid
	} else if anon, ok := id.Anonymous(); ok {
		row.UserIdentifier = &anon
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Model(&models.Confession{}).
			Where("id = ?", confessionID).
			Update("like_count", gorm.Expr("like_count + 1")).Error
	})
	if isDuplicate(err) {
		return ErrAlreadyLiked
	}
	if err != nil {
		return fmt.Errorf("failed to like confession: %w", err)
	}
	return nil
}

// Unlike removes the identity's like. The delete filters on the identity
// column that was populated at like time and requires the other to be NULL,
// so a like made under one identity can never be removed through the other.
func (r *Repository) Unlike(ctx context.Context, confessionID uint, id identity.Identity) error {
	if id.IsZero() {
		return ErrNoIdentity
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("confession_id = ?", confessionID)
		if fid, ok := id.FID(); ok {
			q = q.Where("user_fid = ? AND user_identifier IS NULL", fid)
		} else if anon, ok := id.Anonymous(); ok {
			q = q.Where("user_identifier = ? AND user_fid IS NULL", anon)
		}

		res := q.Delete(&models.ConfessionLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Confession{}).
			Where("id = ? AND like_count > 0", confessionID).
			Update("like_count", gorm.Expr("like_count - ?", res.RowsAffected)).Error
	})
	if err != nil {
		return fmt.Errorf("failed to unlike confession: %w", err)
	}
	return nil
}

// HasLiked reports whether the identity has liked the confession. It is
// best-effort: no identity or a lookup failure reads as "not liked" rather
// than an error, so a status check can never break the feed.
func (r *Repository) HasLiked(ctx context.Context, confessionID uint, id identity.Identity) bool {
	if id.IsZero() {
		return false
	}

	q := r.db.WithContext(ctx).Model(&models.ConfessionLike{}).
		Where("confession_id = ?", confessionID)
	if fid, ok := id.FID(); ok {
		q = q.Where("user_fid = ? AND user_identifier IS NULL", fid)
	} else if anon, ok := id.Anonymous(); ok {
		q = q.Where("user_identifier = ? AND user_fid IS NULL", anon)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		log.Printf("error checking like status for confession %d: %v", confessionID, err)
		return false
	}
	return n > 0
}

// RecalculateLikeCounts overwrites every stored like_count with the live
// count from the fact table. This is the manual remediation behind a "fix
// like counts" action, independent of the per-read repair in FetchAll.
func (r *Repository) RecalculateLikeCounts(ctx context.Context) error {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Confession{}).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to fetch confessions: %w", err)
	}

	counts, err := r.liveLikeCounts(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		err := r.db.WithContext(ctx).Model(&models.Confession{}).
			Where("id = ?", id).
			Update("like_count", counts[id]).Error
		if err != nil {
			return fmt.Errorf("failed to update like count for confession %d: %w", id, err)
		}
	}
	return nil
}
