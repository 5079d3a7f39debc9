package subscriptions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "yt-summarizer/internal/errors"
	"yt-summarizer/internal/models"
)

// memoryStore keys subscriptions by user and channel.
type memoryStore struct {
	subs map[[2]string]models.Subscription
	// raceOnCreate inserts the row behind the caller's back and reports a conflict.
	raceOnCreate bool
	nextID       int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{subs: map[[2]string]models.Subscription{}}
}

func (m *memoryStore) ListByUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	out := []models.Subscription{}
	for k, v := range m.subs {
		if k[0] == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memoryStore) Get(ctx context.Context, userID, channelID string) (*models.Subscription, error) {
	sub, ok := m.subs[[2]string{userID, channelID}]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "Subscription not found")
	}
	return &sub, nil
}

func (m *memoryStore) Create(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	key := [2]string{sub.UserID, sub.ChannelID}
	m.nextID++
	sub.ID = m.nextID
	sub.CreatedAt = time.Now()
	if _, ok := m.subs[key]; ok || m.raceOnCreate {
		if m.raceOnCreate {
			m.subs[key] = sub
		}
		return nil, apperrors.New(apperrors.CodeConflict, "already subscribed to this channel")
	}
	m.subs[key] = sub
	return &sub, nil
}

func (m *memoryStore) Delete(ctx context.Context, userID, channelID string) error {
	key := [2]string{userID, channelID}
	if _, ok := m.subs[key]; !ok {
		return apperrors.New(apperrors.CodeNotFound, "Subscription not found")
	}
	delete(m.subs, key)
	return nil
}

type fakeChannels struct {
	info *models.ChannelInfo
	err  error
}

func (f *fakeChannels) GetChannelInfo(ctx context.Context, channelID string) (*models.ChannelInfo, error) {
	return f.info, f.err
}

var exampleChannel = &models.ChannelInfo{ChannelID: "UC123", Title: "Example", ThumbnailURL: "https://yt3/high.jpg"}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	svc := NewService(store, &fakeChannels{info: exampleChannel}, zerolog.Nop())

	sub, created, err := svc.Subscribe(ctx, "user-1", "UC123")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Example", sub.ChannelTitle)
	require.NotNil(t, sub.ChannelThumbnail)
	assert.Equal(t, "https://yt3/high.jpg", *sub.ChannelThumbnail)

	again, created, err := svc.Subscribe(ctx, "user-1", "UC123")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, sub.ID, again.ID)

	list, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSubscribeLosesRace(t *testing.T) {
	store := newMemoryStore()
	store.raceOnCreate = true
	svc := NewService(store, &fakeChannels{info: exampleChannel}, zerolog.Nop())

	sub, created, err := svc.Subscribe(context.Background(), "user-1", "UC123")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "UC123", sub.ChannelID)
}

func TestSubscribeErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty channel id", func(t *testing.T) {
		svc := NewService(newMemoryStore(), &fakeChannels{info: exampleChannel}, zerolog.Nop())
		_, _, err := svc.Subscribe(ctx, "user-1", "  ")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidArg))
	})

	t.Run("unknown channel", func(t *testing.T) {
		store := newMemoryStore()
		svc := NewService(store, &fakeChannels{}, zerolog.Nop())
		_, _, err := svc.Subscribe(ctx, "user-1", "UCnope")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
		assert.Empty(t, store.subs)
	})

	t.Run("channel lookup failure", func(t *testing.T) {
		svc := NewService(newMemoryStore(), &fakeChannels{err: errors.New("quota")}, zerolog.Nop())
		_, _, err := svc.Subscribe(ctx, "user-1", "UC123")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	})

	t.Run("no thumbnail stored as null", func(t *testing.T) {
		svc := NewService(newMemoryStore(), &fakeChannels{info: &models.ChannelInfo{ChannelID: "UC1", Title: "T"}}, zerolog.Nop())
		sub, _, err := svc.Subscribe(ctx, "user-1", "UC1")
		require.NoError(t, err)
		assert.Nil(t, sub.ChannelThumbnail)
	})
}

func TestUnsubscribe(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryStore(), &fakeChannels{info: exampleChannel}, zerolog.Nop())

	_, _, err := svc.Subscribe(ctx, "user-1", "UC123")
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(ctx, "user-1", "UC123"))
	err = svc.Unsubscribe(ctx, "user-1", "UC123")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	err = svc.Unsubscribe(ctx, "user-1", "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidArg))
}
