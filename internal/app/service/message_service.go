package service

import (
	"context"
	"unicode/utf8"

	"message_board/internal/common"
	"message_board/internal/domain/model"
	"message_board/internal/domain/repository"
	"message_board/internal/platform/cache"
)

const (
	// DefaultFeedLimit caps ListAll results when the caller gives no limit.
	DefaultFeedLimit = 100

	maxMessageLen = 500
)

type MessageService struct {
	messageRepo repository.MessageRepository
	feedCache   *cache.FeedCache // nil disables caching
}

func NewMessageService(messageRepo repository.MessageRepository, feedCache *cache.FeedCache) *MessageService {
	return &MessageService{messageRepo: messageRepo, feedCache: feedCache}
}

type CreateMessageRequest struct {
	Message string `json:"message"`
}

// ListAll returns up to limit messages with id > since in creation order,
// serving the public feed from the cache when a fresh page is available.
// A limit of zero is honored literally and yields an empty page.
func (s *MessageService) ListAll(ctx context.Context, limit int, since int64) ([]model.Message, error) {
	if limit < 0 {
		return nil, common.Errorf("negative limit: %w", common.ErrValidation)
	}
	if limit == 0 {
		return []model.Message{}, nil
	}

	var page *cache.FeedPage
	if s.feedCache != nil {
		page = s.feedCache.Lookup(ctx, limit, since)
		if messages, ok := page.Cached(); ok {
			return messages, nil
		}
	}

	messages, err := s.messageRepo.ListAll(ctx, limit, since)
	if err != nil {
		return nil, err
	}
	if page != nil {
		page.Store(ctx, messages)
	}
	return messages, nil
}

// ListMine returns every message authored by the user, oldest first.
func (s *MessageService) ListMine(ctx context.Context, user *model.User) ([]model.Message, error) {
	return s.messageRepo.ListByUser(ctx, user.ID)
}

// ListTagged returns every message whose text mentions "@<username>".
func (s *MessageService) ListTagged(ctx context.Context, user *model.User) ([]model.Message, error) {
	return s.messageRepo.ListTagged(ctx, user.Username)
}

func (s *MessageService) Create(ctx context.Context, user *model.User, req CreateMessageRequest) (*model.Message, error) {
	if req.Message == "" {
		return nil, common.Errorf("missing message: %w", common.ErrValidation)
	}
	if utf8.RuneCountInString(req.Message) > maxMessageLen {
		return nil, common.Errorf("message longer than %d characters: %w", maxMessageLen, common.ErrValidation)
	}

	id, err := s.messageRepo.Create(ctx, user.ID, req.Message)
	if err != nil {
		return nil, err
	}
	if s.feedCache != nil {
		s.feedCache.Bump(ctx)
	}
	return &model.Message{ID: id, Username: user.Username, Text: req.Message}, nil
}

// PurgeAll removes every message on the board. The caller is responsible
// for gating this to the privileged identity.
func (s *MessageService) PurgeAll(ctx context.Context) error {
	if err := s.messageRepo.PurgeAll(ctx); err != nil {
		return err
	}
	if s.feedCache != nil {
		s.feedCache.Bump(ctx)
	}
	return nil
}
