// Package nlq talks to the external natural-language-query service: it
// sends the user's query plus a truncated slice of chat history and gets
// back a summary, optionally the generated SQL with its result rows, and a
// suggested title for brand-new chats.
package nlq

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	apperrors "somni-backend/internal/errors"
)

// QueryRequest is the gateway's wire request. ChatHistory is only attached
// for follow-up turns and is truncated client-side to bound payload size.
type QueryRequest struct {
	Query           string         `json:"query"`
	IsNewChat       bool           `json:"isNewChat"`
	ChatHistory     []HistoryEntry `json:"chatHistory,omitempty"`
	ModelPreference string         `json:"modelPreference"`
	UserID          string         `json:"userId,omitempty"`
	UserEmail       string         `json:"userEmail,omitempty"`
}

// QueryResponse is the gateway's wire response. Title is populated only when
// the request carried IsNewChat.
type QueryResponse struct {
	Summary    string           `json:"summary"`
	Title      string           `json:"title,omitempty"`
	IsSQLQuery bool             `json:"is_sql_query,omitempty"`
	SQL        string           `json:"sql,omitempty"`
	Result     []map[string]any `json:"result,omitempty"`
}

// Gateway is the query-answering contract the conversation flow depends on.
type Gateway interface {
	SendQuery(ctx context.Context, req QueryRequest) (*QueryResponse, error)
}

// Client is the HTTP implementation of Gateway.
type Client struct {
	http *resty.Client
}

// NewClient builds a gateway client for the NLQ backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(2 * time.Minute),
	}
}

// SendQuery posts the query to the backend's /query endpoint.
func (c *Client) SendQuery(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	var out QueryResponse
	res, err := c.http.R().SetContext(ctx).SetBody(req).SetResult(&out).Post("/query")
	if err != nil {
		return nil, fmt.Errorf("%w: NLQ query: %v", apperrors.ErrOperationFailed, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: NLQ query returned %s", apperrors.ErrOperationFailed, res.Status())
	}
	return &out, nil
}
