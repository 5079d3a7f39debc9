package subscriptions

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	apperrors "yt-summarizer/internal/errors"
	"yt-summarizer/internal/models"
)

// Store is the persistence the service needs.
type Store interface {
	ListByUser(ctx context.Context, userID string) ([]models.Subscription, error)
	Get(ctx context.Context, userID, channelID string) (*models.Subscription, error)
	Create(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	Delete(ctx context.Context, userID, channelID string) error
}

// ChannelLookup resolves channel metadata; nil, nil means not found.
type ChannelLookup interface {
	GetChannelInfo(ctx context.Context, channelID string) (*models.ChannelInfo, error)
}

type Service struct {
	store    Store
	channels ChannelLookup
	logger   zerolog.Logger
}

func NewService(store Store, channels ChannelLookup, logger zerolog.Logger) *Service {
	return &Service{store: store, channels: channels, logger: logger}
}

func (s *Service) List(ctx context.Context, userID string) ([]models.Subscription, error) {
	return s.store.ListByUser(ctx, userID)
}

// Subscribe records a subscription of userID to channelID. Subscribing again
// returns the existing row with created == false.
func (s *Service) Subscribe(ctx context.Context, userID, channelID string) (sub *models.Subscription, created bool, err error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, false, apperrors.New(apperrors.CodeInvalidArg, "Channel ID is required")
	}

	info, err := s.channels.GetChannelInfo(ctx, channelID)
	if err != nil {
		s.logger.Warn().Err(err).Str("channel_id", channelID).Msg("channel lookup failed")
		return nil, false, apperrors.Wrap(err, apperrors.CodeNotFound, "Channel not found")
	}
	if info == nil {
		return nil, false, apperrors.New(apperrors.CodeNotFound, "Channel not found")
	}

	existing, err := s.store.Get(ctx, userID, channelID)
	if err == nil {
		return existing, false, nil
	}
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		return nil, false, err
	}

	newSub := models.Subscription{
		UserID:       userID,
		ChannelID:    channelID,
		ChannelTitle: info.Title,
	}
	if info.ThumbnailURL != "" {
		thumb := info.ThumbnailURL
		newSub.ChannelThumbnail = &thumb
	}

	sub, err = s.store.Create(ctx, newSub)
	if apperrors.HasCode(err, apperrors.CodeConflict) {
		// Lost a race with a concurrent subscribe of the same pair.
		existing, getErr := s.store.Get(ctx, userID, channelID)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.logger.Info().Str("user_id", userID).Str("channel_id", channelID).Msg("subscription created")
	return sub, true, nil
}

func (s *Service) Unsubscribe(ctx context.Context, userID, channelID string) error {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return apperrors.New(apperrors.CodeInvalidArg, "Channel ID is required")
	}
	return s.store.Delete(ctx, userID, channelID)
}
