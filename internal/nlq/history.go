package nlq

import (
	"strings"

	"somni-backend/internal/model"
)

// DefaultHistoryTokenBudget bounds how much chat history rides along with a
// query. Tokens here are whitespace-separated words, a cheap approximation
// of the model tokenizer that is good enough for payload bounding.
const DefaultHistoryTokenBudget = 200

// HistoryEntry is one prior message as the gateway sees it.
type HistoryEntry struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// TruncateHistory selects the most recent messages whose combined
// approximate token count fits the budget, walking the list from newest to
// oldest and stopping before the first message that would exceed it. The
// result is in chronological order. A budget of zero or less yields nil.
func TruncateHistory(messages []model.Message, tokenBudget int) []HistoryEntry {
	if tokenBudget <= 0 || len(messages) == 0 {
		return nil
	}

	used := 0
	start := len(messages)
	for i := len(messages) - 1; i >= 0; i-- {
		cost := len(strings.Fields(messages[i].Text))
		if used+cost > tokenBudget {
			break
		}
		used += cost
		start = i
	}

	if start == len(messages) {
		return nil
	}

	entries := make([]HistoryEntry, 0, len(messages)-start)
	for _, m := range messages[start:] {
		entries = append(entries, HistoryEntry{Sender: string(m.Sender), Text: m.Text})
	}
	return entries
}
