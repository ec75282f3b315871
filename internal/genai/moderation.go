package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ghostnseek/backend/internal/config"
)

// ModerationResult is the outcome of classifying one message.
type ModerationResult struct {
	// IsAppropriate reports whether the original message was clean.
	IsAppropriate bool `json:"is_appropriate"`
	// ModeratedMessage is the display text: the original when clean, the
	// fixed placeholder otherwise.
	ModeratedMessage string `json:"moderated_message"`
}

// ModerationService classifies messages before display. Classification is
// delegated entirely to the hosted model; this service only enforces the
// fail-closed policy around it.
type ModerationService struct {
	Gen Generator
}

func NewModerationService(gen Generator) *ModerationService {
	return &ModerationService{Gen: gen}
}

// Moderate screens one message. Empty or whitespace-only input short-circuits
// to appropriate without an upstream call. Any gateway failure defaults to
// the safe side: flagged, with the placeholder.
func (s *ModerationService) Moderate(ctx context.Context, message string) ModerationResult {
	if strings.TrimSpace(message) == "" {
		return ModerationResult{IsAppropriate: true, ModeratedMessage: message}
	}

	raw, err := s.Gen.Complete(ctx, moderationSystemPrompt, fmt.Sprintf("Message: %s", message))
	if err != nil {
		log.Printf("WARNING: moderation call failed, failing closed: %v", err)
		return failClosed()
	}

	var result ModerationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		log.Printf("WARNING: moderation reply unparseable, failing closed: %v", err)
		return failClosed()
	}

	if !result.IsAppropriate {
		// The placeholder is fixed locally; the model never chooses it.
		result.ModeratedMessage = config.ModeratedPlaceholder
		return result
	}

	result.ModeratedMessage = message
	return result
}

func failClosed() ModerationResult {
	return ModerationResult{
		IsAppropriate:    false,
		ModeratedMessage: config.ModeratedPlaceholder,
	}
}
