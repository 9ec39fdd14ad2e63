package data

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "somni-backend/internal/errors"
	"somni-backend/internal/model"
)

// GetChats loads the active user's chat list, deserializing every stored
// timestamp back into a point in time. A user with no entry in the chats
// document gets an empty list, not an error.
func (s *Service) GetChats(ctx context.Context) ([]model.Chat, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	doc, err := s.docs.Chats(ctx)
	if err != nil {
		return nil, err
	}

	stored := doc[user.ID]
	chats := make([]model.Chat, 0, len(stored))
	for _, sc := range stored {
		chat, err := sc.ToChat()
		if err != nil {
			return nil, fmt.Errorf("%w: corrupt timestamp in chat %s: %v", apperrors.ErrOperationFailed, sc.ID, err)
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

// GetChatByID returns one chat from the active user's list.
func (s *Service) GetChatByID(ctx context.Context, chatID string) (model.Chat, error) {
	chats, err := s.GetChats(ctx)
	if err != nil {
		return model.Chat{}, err
	}
	for _, c := range chats {
		if c.ID == chatID {
			return c, nil
		}
	}
	return model.Chat{}, fmt.Errorf("%w: chat %s", apperrors.ErrNotFound, chatID)
}

// CreateChat appends a new empty chat to the user's list. The id is a
// client-generated timestamp-plus-random-suffix value, not a UUID; the
// theoretical multi-client collision is accepted for this store.
func (s *Service) CreateChat(ctx context.Context, title string) (model.Chat, error) {
	user, err := s.requireUser()
	if err != nil {
		return model.Chat{}, err
	}
	if title == "" {
		title = model.TitleNewChat
	}

	doc, err := s.docs.Chats(ctx)
	if err != nil {
		return model.Chat{}, err
	}

	stored := model.StoredChat{ID: NewID(), Title: title, Messages: []model.StoredMessage{}}
	doc[user.ID] = append(doc[user.ID], stored)

	if err := s.docs.ReplaceChats(ctx, doc); err != nil {
		return model.Chat{}, err
	}
	return model.Chat{ID: stored.ID, Title: stored.Title, Messages: []model.Message{}}, nil
}

// UpdateChatTitle replaces a chat's title and persists the whole document,
// then re-reads it to verify the write landed. The verification is a soft
// durability check: a mismatch or a failed re-read is logged, never
// returned, because the underlying store offers no transactional guarantee
// to do better with.
func (s *Service) UpdateChatTitle(ctx context.Context, chatID, newTitle string) (model.Chat, error) {
	user, err := s.requireUser()
	if err != nil {
		return model.Chat{}, err
	}
	if newTitle == "" {
		newTitle = model.TitleUntitled
	}

	doc, err := s.docs.Chats(ctx)
	if err != nil {
		return model.Chat{}, err
	}

	if _, ok := doc[user.ID]; !ok {
		slog.Warn("User chats not found in document, creating new entry", "user_id", user.ID)
		doc[user.ID] = []model.StoredChat{}
	}

	userChats := doc[user.ID]
	idx := -1
	for i := range userChats {
		if userChats[i].ID == chatID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return model.Chat{}, fmt.Errorf("%w: chat %s for user %s", apperrors.ErrNotFound, chatID, user.ID)
	}

	userChats[idx].Title = newTitle
	doc[user.ID] = userChats

	if err := s.docs.ReplaceChats(ctx, doc); err != nil {
		return model.Chat{}, err
	}

	s.verifyTitleSaved(ctx, user.ID, chatID, newTitle)

	updated, err := userChats[idx].ToChat()
	if err != nil {
		return model.Chat{}, fmt.Errorf("%w: corrupt timestamp in chat %s: %v", apperrors.ErrOperationFailed, chatID, err)
	}
	return updated, nil
}

// verifyTitleSaved re-fetches the document and checks that the title update
// is visible. Log-only on every path.
func (s *Service) verifyTitleSaved(ctx context.Context, userID, chatID, wantTitle string) {
	refreshed, err := s.docs.Chats(ctx)
	if err != nil {
		slog.Warn("Title verification re-read failed, update may still have succeeded", "chat_id", chatID, "error", err)
		return
	}
	for _, sc := range refreshed[userID] {
		if sc.ID != chatID {
			continue
		}
		if sc.Title != wantTitle {
			slog.Warn("Title mismatch after save", "chat_id", chatID, "stored", sc.Title, "expected", wantTitle)
		}
		return
	}
	slog.Error("Chat not found after title update", "chat_id", chatID)
}

// DeleteChat removes a chat from the user's list. Deleting an id that is
// not there is reported as not found rather than silently succeeding.
func (s *Service) DeleteChat(ctx context.Context, chatID string) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}

	doc, err := s.docs.Chats(ctx)
	if err != nil {
		return err
	}

	userChats := doc[user.ID]
	filtered := make([]model.StoredChat, 0, len(userChats))
	for _, c := range userChats {
		if c.ID != chatID {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == len(userChats) {
		return fmt.Errorf("%w: chat %s", apperrors.ErrNotFound, chatID)
	}

	doc[user.ID] = filtered
	return s.docs.ReplaceChats(ctx, doc)
}

// SendMessage appends a user-authored message to a chat.
func (s *Service) SendMessage(ctx context.Context, chatID, text string) (model.Message, error) {
	msg := model.Message{
		ID:        NewID(),
		Text:      text,
		Sender:    model.SenderUser,
		Timestamp: model.Now(),
	}
	return s.addMessageToChat(ctx, chatID, msg)
}

// BotMessageOptions carries the optional SQL metadata a bot reply may have.
type BotMessageOptions struct {
	IsSQLQuery bool
	RawSQL     string
	Results    []map[string]any
	UserQuery  string
}

// SendBotMessage appends a bot reply, optionally tagged with the generated
// SQL, its result rows and a back-reference to the originating user query.
func (s *Service) SendBotMessage(ctx context.Context, chatID, text string, opts BotMessageOptions) (model.Message, error) {
	msg := model.Message{
		ID:         NewID(),
		Text:       text,
		Sender:     model.SenderBot,
		Timestamp:  model.Now(),
		IsSQLQuery: opts.IsSQLQuery,
		RawSQL:     opts.RawSQL,
		Results:    opts.Results,
		UserQuery:  opts.UserQuery,
	}
	return s.addMessageToChat(ctx, chatID, msg)
}

// addMessageToChat is the shared read-modify-write append. The timestamp is
// serialized to ISO-8601 text on the way in; readers parse it back.
func (s *Service) addMessageToChat(ctx context.Context, chatID string, msg model.Message) (model.Message, error) {
	user, err := s.requireUser()
	if err != nil {
		return model.Message{}, err
	}

	doc, err := s.docs.Chats(ctx)
	if err != nil {
		return model.Message{}, err
	}

	userChats := doc[user.ID]
	idx := -1
	for i := range userChats {
		if userChats[i].ID == chatID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return model.Message{}, fmt.Errorf("%w: chat %s", apperrors.ErrNotFound, chatID)
	}

	userChats[idx].Messages = append(userChats[idx].Messages, msg.ToStored())
	doc[user.ID] = userChats

	if err := s.docs.ReplaceChats(ctx, doc); err != nil {
		return model.Message{}, err
	}
	return msg, nil
}
