//go:build integration

package db

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	apperrors "yt-summarizer/internal/errors"
	"yt-summarizer/internal/models"
)

// setupTestDB starts a Postgres testcontainer and applies the embedded migrations.
func setupTestDB(t *testing.T) *SubscriptionStore {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	databaseURL := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())
	require.NoError(t, Migrate(databaseURL, Up))

	sqlxDB, err := Open(ctx, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlxDB.Close()
		container.Terminate(ctx)
	})

	return NewSubscriptionStore(sqlxDB)
}

func TestSubscriptionStoreIntegration(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	sub := models.Subscription{UserID: "user-1", ChannelID: "UC123", ChannelTitle: "Example"}

	t.Run("concurrent creates leave one row", func(t *testing.T) {
		var wg sync.WaitGroup
		results := make([]error, 2)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, results[i] = store.Create(ctx, sub)
			}(i)
		}
		wg.Wait()

		var conflicts int
		for _, err := range results {
			if err != nil {
				assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
				conflicts++
			}
		}
		assert.LessOrEqual(t, conflicts, 1)

		subs, err := store.ListByUser(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, subs, 1)
		assert.Nil(t, subs[0].ChannelThumbnail)
	})

	t.Run("pair is per user", func(t *testing.T) {
		other := sub
		other.UserID = "user-2"
		_, err := store.Create(ctx, other)
		require.NoError(t, err)

		subs, err := store.ListByUser(ctx, "user-2")
		require.NoError(t, err)
		assert.Len(t, subs, 1)
	})

	t.Run("delete then delete again", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "user-1", "UC123"))
		err := store.Delete(ctx, "user-1", "UC123")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

		_, err = store.Get(ctx, "user-1", "UC123")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	})
}
