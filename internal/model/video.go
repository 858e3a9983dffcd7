package model

import "time"

type Video struct {
	Id          string    `db:"id" json:"id"`
	VideoFile   string    `db:"video_file" json:"videoFile"`
	Thumbnail   string    `db:"thumbnail" json:"thumbnail"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Duration    float64   `db:"duration" json:"duration"`
	Views       int64     `db:"views" json:"views"`
	IsPublished bool      `db:"is_published" json:"isPublished"`
	OwnerId     string    `db:"owner_id" json:"ownerId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// WatchedVideo — элемент истории просмотров вместе с автором ролика
type WatchedVideo struct {
	Video
	WatchedAt     time.Time `db:"watched_at" json:"watchedAt"`
	OwnerUsername string    `db:"owner_username" json:"ownerUsername"`
	OwnerFullName string    `db:"owner_full_name" json:"ownerFullName"`
	OwnerAvatar   string    `db:"owner_avatar" json:"ownerAvatar"`
}
