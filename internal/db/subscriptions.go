package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	apperrors "yt-summarizer/internal/errors"
	"yt-summarizer/internal/models"
)

const subscriptionColumns = `id, user_id, channel_id, channel_title, channel_thumbnail, created_at`

// SubscriptionStore persists channel subscriptions. Writes run in their own
// transaction, committed on success and rolled back on any failure.
type SubscriptionStore struct {
	db *sqlx.DB
}

func NewSubscriptionStore(db *sqlx.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

func (s *SubscriptionStore) ListByUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM channel_subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	subscriptions := []models.Subscription{}
	if err := s.db.SelectContext(ctx, &subscriptions, query, userID); err != nil {
		return nil, handlePostgresError(err, "failed to list subscriptions")
	}
	return subscriptions, nil
}

// Get returns the subscription for (userID, channelID), or a CodeNotFound error.
func (s *SubscriptionStore) Get(ctx context.Context, userID, channelID string) (*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM channel_subscriptions
		WHERE user_id = $1 AND channel_id = $2
	`
	sub := &models.Subscription{}
	err := s.db.GetContext(ctx, sub, query, userID, channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.New(apperrors.CodeNotFound, "Subscription not found")
	}
	if err != nil {
		return nil, handlePostgresError(err, "failed to get subscription")
	}
	return sub, nil
}

// Create inserts a subscription. A concurrent or repeated insert of the same
// (user_id, channel_id) pair fails with CodeConflict.
func (s *SubscriptionStore) Create(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	query := `
		INSERT INTO channel_subscriptions (user_id, channel_id, channel_title, channel_thumbnail)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + subscriptionColumns

	created := &models.Subscription{}
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, created, query, sub.UserID, sub.ChannelID, sub.ChannelTitle, sub.ChannelThumbnail)
	})
	if err != nil {
		return nil, handlePostgresError(err, "failed to create subscription")
	}
	return created, nil
}

// Delete removes the subscription for (userID, channelID), or returns a
// CodeNotFound error when there is none.
func (s *SubscriptionStore) Delete(ctx context.Context, userID, channelID string) error {
	query := `
		DELETE FROM channel_subscriptions
		WHERE user_id = $1 AND channel_id = $2
	`
	var affected int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, userID, channelID)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return handlePostgresError(err, "failed to delete subscription")
	}
	if affected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "Subscription not found")
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *SubscriptionStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SubscriptionStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
