package genai

import (
	"context"
	"errors"
)

// ArtworkService generates the optional clue card illustration.
type ArtworkService struct {
	Gen Generator
}

func NewArtworkService(gen Generator) *ArtworkService {
	return &ArtworkService{Gen: gen}
}

// Illustrate produces a card illustration from the clue texts and the chosen
// color theme, returned as a PNG data URI suitable for direct display and
// later export. Safety refusals surface as ErrSafetyBlocked.
func (s *ArtworkService) Illustrate(ctx context.Context, clues []string, colorPreference string) (string, error) {
	if len(clues) == 0 {
		return "", errors.New("at least one clue is required")
	}

	b64, err := s.Gen.Illustrate(ctx, artworkPrompt(clues, colorPreference))
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + b64, nil
}
