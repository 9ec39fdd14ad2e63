package model

// Placeholder chat titles. A chat starts its life with one of these and the
// conversation flow replaces it with an inferred title on the first real
// exchange. The set is closed on purpose: membership decides whether title
// inference still needs to run, and an ad hoc string comparison would drift
// silently as new placeholders get introduced.
const (
	TitleNewChat         = "New Chat"
	TitleNewConversation = "New Conversation"
	TitleUntitled        = "Untitled Chat"
)

var placeholderTitles = map[string]struct{}{
	TitleNewChat:         {},
	TitleNewConversation: {},
	TitleUntitled:        {},
}

// IsPlaceholderTitle reports whether a title is still a generic placeholder
// pending replacement by inferred content.
func IsPlaceholderTitle(title string) bool {
	_, ok := placeholderTitles[title]
	return ok
}
