package models

import "time"

// Subscription represents a user's subscription to a YouTube channel.
type Subscription struct {
	ID               int       `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"user_id"`
	ChannelID        string    `db:"channel_id" json:"channel_id"`
	ChannelTitle     string    `db:"channel_title" json:"channel_title"`
	ChannelThumbnail *string   `db:"channel_thumbnail" json:"channel_thumbnail"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
