package models

import (
	"time"
)

// Confession is a single anonymous post in the feed. LikeCount is a
// denormalized projection of the confession_likes rows; it may drift and is
// repaired on read (see internal/confession).
type Confession struct {
	ID          uint             `gorm:"primarykey" json:"id"`
	Text        string           `gorm:"size:500;not null" json:"text"`
	Author      string           `gorm:"not null" json:"author"`
	UserFID     *int64           `gorm:"column:user_fid;index" json:"user_fid,omitempty"`
	IsAnonymous bool             `gorm:"not null;default:true" json:"is_anonymous"`
	LikeCount   int              `gorm:"not null;default:0" json:"like_count"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Likes       []ConfessionLike `gorm:"foreignKey:ConfessionID" json:"-"`
}

func (Confession) TableName() string {
	return "confessions"
}

// ConfessionLike is one like row. Exactly one of UserFID and UserIdentifier is
// set. The two composite unique indexes enforce at most one like per identity
// per confession; hitting one is the expected "already liked" case, not
// corruption.
type ConfessionLike struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	ConfessionID   uint      `gorm:"not null;index;uniqueIndex:uniq_like_fid;uniqueIndex:uniq_like_anon" json:"confession_id"`
	UserFID        *int64    `gorm:"column:user_fid;uniqueIndex:uniq_like_fid" json:"user_fid,omitempty"`
	UserIdentifier *string   `gorm:"uniqueIndex:uniq_like_anon" json:"user_identifier,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (ConfessionLike) TableName() string {
	return "confession_likes"
}
