package model

import (
	"time"
)

// User is an account record in the mock document store. The password is kept
// as plaintext because the store is demo-grade infrastructure; hardening it
// is explicitly out of scope.
type User struct {
	ID             string `json:"id"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	PreferredModel string `json:"preferredModel,omitempty"`
}

// Sender tags who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is a single chat message. Messages are immutable once appended to
// a chat. Bot messages may carry SQL metadata returned by the NLQ gateway.
type Message struct {
	ID         string           `json:"id"`
	Text       string           `json:"text"`
	Sender     Sender           `json:"sender"`
	Timestamp  time.Time        `json:"timestamp"`
	IsSQLQuery bool             `json:"isSqlQuery,omitempty"`
	RawSQL     string           `json:"rawSql,omitempty"`
	Results    []map[string]any `json:"results,omitempty"`
	UserQuery  string           `json:"userQuery,omitempty"`
}

// Chat is one conversation thread, owned by exactly one user.
type Chat struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

// StoredMessage is the wire/storage form of Message: the timestamp is
// ISO-8601 text, which is how the document store holds it.
type StoredMessage struct {
	ID         string           `json:"id"`
	Text       string           `json:"text"`
	Sender     Sender           `json:"sender"`
	Timestamp  string           `json:"timestamp"`
	IsSQLQuery bool             `json:"isSqlQuery,omitempty"`
	RawSQL     string           `json:"rawSql,omitempty"`
	Results    []map[string]any `json:"results,omitempty"`
	UserQuery  string           `json:"userQuery,omitempty"`
}

// StoredChat is the wire/storage form of Chat.
type StoredChat struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Messages []StoredMessage `json:"messages"`
}

// ChatsDocument is the whole chats document: one chat list per user id.
// Every mutation replaces the entire document, so there is no partial update
// anywhere in the data path.
type ChatsDocument map[string][]StoredChat

// timestampLayout matches JavaScript's Date.toISOString output: UTC with
// millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp serializes a timestamp for storage. Precision beyond a
// millisecond is dropped, so a format/parse round trip is lossless only to
// the millisecond.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Millisecond).Format(timestampLayout)
}

// ParseTimestamp reads a stored ISO-8601 timestamp back into a point in time.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// Now returns the current time truncated to storable precision. Messages are
// stamped with this so that the value read back from the store compares equal
// to the value that was written.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// ToStored converts a runtime message to its storage form.
func (m Message) ToStored() StoredMessage {
	return StoredMessage{
		ID:         m.ID,
		Text:       m.Text,
		Sender:     m.Sender,
		Timestamp:  FormatTimestamp(m.Timestamp),
		IsSQLQuery: m.IsSQLQuery,
		RawSQL:     m.RawSQL,
		Results:    m.Results,
		UserQuery:  m.UserQuery,
	}
}

// ToMessage converts a stored message back to its runtime form.
func (m StoredMessage) ToMessage() (Message, error) {
	ts, err := ParseTimestamp(m.Timestamp)
	if err != nil {
		return Message{}, err
	}
	return Message{
		ID:         m.ID,
		Text:       m.Text,
		Sender:     m.Sender,
		Timestamp:  ts,
		IsSQLQuery: m.IsSQLQuery,
		RawSQL:     m.RawSQL,
		Results:    m.Results,
		UserQuery:  m.UserQuery,
	}, nil
}

// ToChat converts a stored chat, parsing every message timestamp.
func (c StoredChat) ToChat() (Chat, error) {
	chat := Chat{ID: c.ID, Title: c.Title, Messages: make([]Message, 0, len(c.Messages))}
	for _, sm := range c.Messages {
		msg, err := sm.ToMessage()
		if err != nil {
			return Chat{}, err
		}
		chat.Messages = append(chat.Messages, msg)
	}
	return chat, nil
}
