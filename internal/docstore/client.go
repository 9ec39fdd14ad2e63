// Package docstore is the HTTP client for the mock JSON document store. It
// exposes exactly the raw operations the store supports: list or append
// users, replace a user record, and fetch/replace/merge the whole chats
// document. All higher-level chat operations are built on top of these by
// the data façade as read-modify-write cycles.
package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	apperrors "somni-backend/internal/errors"
	"somni-backend/internal/model"
)

// Client talks to the store's /api surface. Any transport or server failure
// comes back wrapped in the generic operation-failed sentinel; there is no
// retry and no optimistic-lock/version check anywhere in this path.
type Client struct {
	http *resty.Client
}

// New builds a client for the store at baseURL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30 * time.Second),
	}
}

// Status checks that the API is reachable.
func (c *Client) Status(ctx context.Context) error {
	res, err := c.http.R().SetContext(ctx).Get("/api/status")
	if err != nil {
		return fmt.Errorf("%w: status check: %v", apperrors.ErrOperationFailed, err)
	}
	if res.IsError() {
		return fmt.Errorf("%w: status check returned %s", apperrors.ErrOperationFailed, res.Status())
	}
	return nil
}

// Users fetches every user record.
func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var users []model.User
	res, err := c.http.R().SetContext(ctx).SetResult(&users).Get("/api/users")
	if err != nil {
		return nil, fmt.Errorf("%w: fetching users: %v", apperrors.ErrOperationFailed, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: fetching users returned %s", apperrors.ErrOperationFailed, res.Status())
	}
	return users, nil
}

// CreateUser appends a user record.
func (c *Client) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	var created model.User
	res, err := c.http.R().SetContext(ctx).SetBody(user).SetResult(&created).Post("/api/users")
	if err != nil {
		return model.User{}, fmt.Errorf("%w: creating user: %v", apperrors.ErrOperationFailed, err)
	}
	if res.IsError() {
		return model.User{}, fmt.Errorf("%w: creating user returned %s", apperrors.ErrOperationFailed, res.Status())
	}
	return created, nil
}

// ReplaceUser overwrites the record with the given id.
func (c *Client) ReplaceUser(ctx context.Context, userID string, user model.User) (model.User, error) {
	var updated model.User
	res, err := c.http.R().SetContext(ctx).SetBody(user).SetResult(&updated).Put("/api/users/" + userID)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: updating user: %v", apperrors.ErrOperationFailed, err)
	}
	if res.StatusCode() == 404 {
		return model.User{}, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	if res.IsError() {
		return model.User{}, fmt.Errorf("%w: updating user returned %s", apperrors.ErrOperationFailed, res.Status())
	}
	return updated, nil
}

// Chats fetches the whole chats document.
func (c *Client) Chats(ctx context.Context) (model.ChatsDocument, error) {
	var doc model.ChatsDocument
	res, err := c.http.R().SetContext(ctx).SetResult(&doc).Get("/api/chats")
	if err != nil {
		return nil, fmt.Errorf("%w: fetching chats: %v", apperrors.ErrOperationFailed, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: fetching chats returned %s", apperrors.ErrOperationFailed, res.Status())
	}
	if doc == nil {
		doc = model.ChatsDocument{}
	}
	return doc, nil
}

// ReplaceChats overwrites the whole chats document.
func (c *Client) ReplaceChats(ctx context.Context, doc model.ChatsDocument) error {
	res, err := c.http.R().SetContext(ctx).SetBody(doc).Put("/api/chats")
	if err != nil {
		return fmt.Errorf("%w: saving chats: %v", apperrors.ErrOperationFailed, err)
	}
	if res.IsError() {
		return fmt.Errorf("%w: saving chats returned %s", apperrors.ErrOperationFailed, res.Status())
	}
	return nil
}

// MergeChats patches the chats document, replacing only the posted user ids.
func (c *Client) MergeChats(ctx context.Context, patch model.ChatsDocument) error {
	res, err := c.http.R().SetContext(ctx).SetBody(patch).Patch("/api/chats")
	if err != nil {
		return fmt.Errorf("%w: patching chats: %v", apperrors.ErrOperationFailed, err)
	}
	if res.IsError() {
		return fmt.Errorf("%w: patching chats returned %s", apperrors.ErrOperationFailed, res.Status())
	}
	return nil
}
