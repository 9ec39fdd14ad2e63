// Package conversation drives one open chat: it posts the user's message,
// asks the NLQ gateway for an answer, and decides if and when the chat's
// placeholder title gets replaced by an inferred one.
package conversation

import (
	"context"
	"log/slog"

	"somni-backend/internal/data"
	"somni-backend/internal/model"
	"somni-backend/internal/nlq"
)

// ChatData is the slice of the data façade the flow needs.
type ChatData interface {
	SendMessage(ctx context.Context, chatID, text string) (model.Message, error)
	SendBotMessage(ctx context.Context, chatID, text string, opts data.BotMessageOptions) (model.Message, error)
	UpdateChatTitle(ctx context.Context, chatID, newTitle string) (model.Chat, error)
	CurrentUser() *model.User
	CurrentUserModel() model.ModelOption
}

// Conversation is the per-view state of one open chat. It is meant to be
// driven from a single goroutine, the way the original event-driven UI
// drove it; nothing here is safe for concurrent Sends.
type Conversation struct {
	data    ChatData
	gateway nlq.Gateway

	chatID   string
	title    string
	messages []model.Message

	// hasCustomTitle records that a non-placeholder title has been observed,
	// which permanently ends title inference for this chat. titleUpdating
	// guards against overlapping title updates if a response arrives while
	// an earlier update is still in flight.
	hasCustomTitle bool
	titleUpdating  bool

	historyBudget int
}

// Turn is the outcome of one user-submitted message.
type Turn struct {
	UserMessage model.Message
	BotMessage  model.Message
	Response    *nlq.QueryResponse
	// Title is the chat's title after the turn, inferred or not.
	Title string
}

// New opens a conversation over an already-loaded chat.
func New(d ChatData, gateway nlq.Gateway, chat model.Chat) *Conversation {
	return &Conversation{
		data:           d,
		gateway:        gateway,
		chatID:         chat.ID,
		title:          chat.Title,
		messages:       append([]model.Message(nil), chat.Messages...),
		hasCustomTitle: !model.IsPlaceholderTitle(chat.Title),
		historyBudget:  nlq.DefaultHistoryTokenBudget,
	}
}

// Title returns the chat's current title as this conversation last saw it.
func (c *Conversation) Title() string {
	return c.title
}

// Messages returns the thread as this conversation last saw it.
func (c *Conversation) Messages() []model.Message {
	return append([]model.Message(nil), c.messages...)
}

// Send runs one full turn: persist the user's message, query the gateway,
// apply an inferred title when one is due, then persist the bot's reply.
//
// The ordering is deliberate: when a title update is needed it runs to
// completion, verification re-read included, before the bot message is
// written. With no transaction spanning the two writes, sequencing is the
// only way a single client observes the sidebar label and the message list
// change consistently.
func (c *Conversation) Send(ctx context.Context, text string) (*Turn, error) {
	firstExchange := len(c.messages) == 0

	userMsg, err := c.data.SendMessage(ctx, c.chatID, text)
	if err != nil {
		return nil, err
	}
	history := nlq.TruncateHistory(c.messages, c.historyBudget)
	c.messages = append(c.messages, userMsg)

	needsTitle := firstExchange || (model.IsPlaceholderTitle(c.title) && !c.hasCustomTitle)

	req := nlq.QueryRequest{
		Query:           text,
		IsNewChat:       needsTitle,
		ChatHistory:     history,
		ModelPreference: c.data.CurrentUserModel().Key,
	}
	if user := c.data.CurrentUser(); user != nil {
		req.UserID = user.ID
		req.UserEmail = user.Email
	}

	resp, err := c.gateway.SendQuery(ctx, req)
	if err != nil {
		return nil, err
	}

	if needsTitle && resp.Title != "" && !c.titleUpdating {
		c.applyInferredTitle(ctx, resp.Title)
	}

	botMsg, err := c.data.SendBotMessage(ctx, c.chatID, resp.Summary, data.BotMessageOptions{
		IsSQLQuery: resp.IsSQLQuery,
		RawSQL:     resp.SQL,
		Results:    resp.Result,
		UserQuery:  text,
	})
	if err != nil {
		return nil, err
	}
	c.messages = append(c.messages, botMsg)

	return &Turn{UserMessage: userMsg, BotMessage: botMsg, Response: resp, Title: c.title}, nil
}

// applyInferredTitle runs the title update round-trip. A failed update is
// logged and the turn carries on; the bot reply must not be lost over a
// label. When the model hands back something that is itself still a
// placeholder, hasCustomTitle stays false so inference gets another go on
// the next turn instead of retrying forever within this one.
func (c *Conversation) applyInferredTitle(ctx context.Context, title string) {
	c.titleUpdating = true
	defer func() { c.titleUpdating = false }()

	updated, err := c.data.UpdateChatTitle(ctx, c.chatID, title)
	if err != nil {
		slog.Warn("Failed to apply inferred chat title", "chat_id", c.chatID, "title", title, "error", err)
		return
	}
	c.title = updated.Title
	c.hasCustomTitle = !model.IsPlaceholderTitle(updated.Title)
}
