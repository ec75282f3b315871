package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ghostnseek/backend/internal/config"
	"ghostnseek/backend/internal/models"
)

// ChatClueResult carries suggestions extracted from a transcript for both
// perspectives: the requesting user ("me") and their partner.
type ChatClueResult struct {
	UserSuggestions    []models.Clue `json:"user_suggestions"`
	PartnerSuggestions []models.Clue `json:"partner_suggestions"`
}

// IdentifyingAnalysis is the verdict on whether clue card content could
// deanonymize its author.
type IdentifyingAnalysis struct {
	HasIdentifyingInformation bool   `json:"has_identifying_information"`
	Explanation               string `json:"explanation"`
}

// ClueService produces clue suggestions via the hosted model.
type ClueService struct {
	Gen Generator
}

func NewClueService(gen Generator) *ClueService {
	return &ClueService{Gen: gen}
}

type suggestionEnvelope struct {
	Suggestions []models.Clue `json:"suggestions"`
}

// GenerateForTopic suggests clues for a free-text topic, for use before any
// chat has occurred. Topics shorter than the minimum are rejected before any
// upstream call is made.
func (s *ClueService) GenerateForTopic(ctx context.Context, topic, currentDate string) ([]models.Clue, error) {
	if len(strings.TrimSpace(topic)) < config.MinTopicLength {
		return nil, ErrTopicTooShort
	}

	raw, err := s.Gen.Complete(ctx, topicSuggestionsSystemPrompt, topicSuggestionsUserPrompt(topic, currentDate))
	if err != nil {
		log.Printf("WARNING: topic suggestion call failed: %v", err)
		return nil, ErrNoSuggestions
	}
	return parseSuggestions(raw)
}

// GenerateFromChat extracts clues from a transcript for both participants.
// The transcript is expected in the requesting user's perspective; the
// partner's clues come from the same conversation with the roles swapped.
func (s *ClueService) GenerateFromChat(ctx context.Context, history []models.TranscriptMessage) (*ChatClueResult, error) {
	if len(history) == 0 {
		return nil, ErrNoSuggestions
	}

	userClues, userErr := s.extract(ctx, history)
	partnerClues, partnerErr := s.extract(ctx, swapPerspective(history))

	if userErr != nil && partnerErr != nil {
		return nil, ErrNoSuggestions
	}
	return &ChatClueResult{
		UserSuggestions:    userClues,
		PartnerSuggestions: partnerClues,
	}, nil
}

func (s *ClueService) extract(ctx context.Context, history []models.TranscriptMessage) ([]models.Clue, error) {
	raw, err := s.Gen.Complete(ctx, chatCluesSystemPrompt, chatCluesUserPrompt(history))
	if err != nil {
		log.Printf("WARNING: chat clue extraction failed: %v", err)
		return nil, ErrNoSuggestions
	}
	return parseSuggestions(raw)
}

// EmojiDNA converts a clue phrase into a fresh 3-5 emoji tag.
func (s *ClueService) EmojiDNA(ctx context.Context, clue string) (string, error) {
	raw, err := s.Gen.Complete(ctx, emojiDNASystemPrompt, fmt.Sprintf("Phrase: %s", clue))
	if err != nil {
		return "", ErrNoSuggestions
	}

	var result struct {
		Emojis string `json:"emojis"`
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil || result.Emojis == "" {
		return "", ErrNoSuggestions
	}
	return result.Emojis, nil
}

// AnalyzeIdentifying checks clue card content for deanonymizing details.
func (s *ClueService) AnalyzeIdentifying(ctx context.Context, content string) (*IdentifyingAnalysis, error) {
	raw, err := s.Gen.Complete(ctx, identifyingAnalysisSystemPrompt, fmt.Sprintf("Clue Card Content: %s", content))
	if err != nil {
		return nil, err
	}

	var analysis IdentifyingAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func parseSuggestions(raw string) ([]models.Clue, error) {
	var envelope suggestionEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		log.Printf("WARNING: suggestion reply unparseable: %v", err)
		return nil, ErrNoSuggestions
	}
	if len(envelope.Suggestions) == 0 {
		return nil, ErrNoSuggestions
	}
	if len(envelope.Suggestions) > config.MaxSuggestions {
		envelope.Suggestions = envelope.Suggestions[:config.MaxSuggestions]
	}
	return envelope.Suggestions, nil
}

func swapPerspective(history []models.TranscriptMessage) []models.TranscriptMessage {
	swapped := make([]models.TranscriptMessage, len(history))
	for i, msg := range history {
		sender := "me"
		if msg.Sender == "me" {
			sender = "them"
		}
		swapped[i] = models.TranscriptMessage{Sender: sender, Text: msg.Text}
	}
	return swapped
}
