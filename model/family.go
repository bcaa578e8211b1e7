package model

import (
	"strings"

	ai "github.com/spetersoncode/aiagent"
)

// DefaultModel is bound when an identifier matches no known family.
const DefaultModel = "gpt-4o"

// Family is the provider family a model identifier belongs to.
type Family int

const (
	// FamilyOpenAI is served through the OpenAI chat-completions API.
	FamilyOpenAI Family = iota
	// FamilyGoogle is served through the Gemini API.
	FamilyGoogle
)

const (
	googlePrefix = "gemini-"
	openAIPrefix = "gpt-"
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyGoogle:
		return "google"
	default:
		return "openai"
	}
}

// Provider returns the provider identifier for the family.
func (f Family) Provider() ai.Provider {
	if f == FamilyGoogle {
		return ai.ProviderGoogle
	}
	return ai.ProviderOpenAI
}

// Classify returns the family for id and the identifier to bind.
// Unrecognized identifiers, including the empty string, resolve to DefaultModel.
func Classify(id string) (Family, string) {
	switch {
	case strings.HasPrefix(id, googlePrefix):
		return FamilyGoogle, id
	case strings.HasPrefix(id, openAIPrefix):
		return FamilyOpenAI, id
	default:
		return FamilyOpenAI, DefaultModel
	}
}
