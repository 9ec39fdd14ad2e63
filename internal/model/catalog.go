package model

// ModelOption is a static catalog entry describing an AI model a user can
// pick as their preferred one. The catalog is read-only reference data; only
// the chosen key is persisted on the user record.
type ModelOption struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

var availableModels = []ModelOption{
	{
		Key:         "gpt-4",
		Value:       "OpenAI GPT-4",
		Description: "Most capable OpenAI model for complex tasks",
	},
	{
		Key:         "gpt-3.5-turbo",
		Value:       "OpenAI GPT-3.5 Turbo",
		Description: "Fast and efficient for most conversational tasks",
	},
	{
		Key:         "meta-llama/llama-3-1-70b-instruct",
		Value:       "Meta Llama 3.1 70B",
		Description: "Large language model by Meta with strong reasoning",
	},
	{
		Key:         "meta-llama/llama-3-1-8b-instruct",
		Value:       "Meta Llama 3.1 8B",
		Description: "Smaller, faster Llama model for quick responses",
	},
	{
		Key:         "claude-3-sonnet",
		Value:       "Anthropic Claude 3 Sonnet",
		Description: "Balanced model with strong analytical capabilities",
	},
	{
		Key:         "claude-3-haiku",
		Value:       "Anthropic Claude 3 Haiku",
		Description: "Fast and efficient for everyday tasks",
	},
	{
		Key:         "mistral-large",
		Value:       "Mistral Large",
		Description: "High-performance model with multilingual support",
	},
	{
		Key:         "mistral-medium",
		Value:       "Mistral Medium",
		Description: "Balanced performance and speed",
	},
}

// AvailableModels returns a copy of the model catalog.
func AvailableModels() []ModelOption {
	out := make([]ModelOption, len(availableModels))
	copy(out, availableModels)
	return out
}

// ModelByKey looks a catalog entry up by key.
func ModelByKey(key string) (ModelOption, bool) {
	for _, m := range availableModels {
		if m.Key == key {
			return m, true
		}
	}
	return ModelOption{}, false
}

// DefaultModel is the catalog entry assigned to users who never picked one.
func DefaultModel() ModelOption {
	return availableModels[0]
}
