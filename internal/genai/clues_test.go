package genai_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ghostnseek/backend/internal/genai"
	"ghostnseek/backend/internal/models"
)

const fiveSuggestions = `{"suggestions": [
	{"clue": "My go-to karaoke song is a power ballad from the 80s.", "emojis": "🎤👩‍🎤✨"},
	{"clue": "I once hiked a volcano at sunrise.", "emojis": "🌋🌅🥾"},
	{"clue": "I collect vintage postcards of lighthouses.", "emojis": "🗼📮🌊"},
	{"clue": "I brew my own kombucha.", "emojis": "🫙🍄🧪"},
	{"clue": "I can solve a Rubik's cube behind my back.", "emojis": "🧊🙌🎲"}
]}`

// TestGenerateForTopic_TooShort verifies a short topic is rejected before any
// upstream call is made.
func TestGenerateForTopic_TooShort(t *testing.T) {
	gen := &fakeGenerator{replies: []string{fiveSuggestions}}
	svc := genai.NewClueService(gen)

	_, err := svc.GenerateForTopic(context.Background(), "hi", "2026-08-27")

	assert.ErrorIs(t, err, genai.ErrTopicTooShort)
	assert.Zero(t, gen.completeCalls, "Validation failures must not reach the model")

	// Whitespace padding does not rescue a short topic.
	_, err = svc.GenerateForTopic(context.Background(), "  a  ", "2026-08-27")
	assert.ErrorIs(t, err, genai.ErrTopicTooShort)
	assert.Zero(t, gen.completeCalls)
}

func TestGenerateForTopic_Success(t *testing.T) {
	gen := &fakeGenerator{replies: []string{fiveSuggestions}}
	svc := genai.NewClueService(gen)

	clues, err := svc.GenerateForTopic(context.Background(), "Music", "2026-08-27")

	assert.NoError(t, err)
	assert.Len(t, clues, 5)
	assert.NotEmpty(t, clues[0].Clue)
	assert.NotEmpty(t, clues[0].Emojis)
	assert.Contains(t, gen.userPrompts[0], "Music")
	assert.Contains(t, gen.userPrompts[0], "2026-08-27", "The date provides temporal context")
}

func TestGenerateForTopic_EmptyUpstream(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"suggestions": []}`}}
	svc := genai.NewClueService(gen)

	_, err := svc.GenerateForTopic(context.Background(), "Music", "2026-08-27")
	assert.ErrorIs(t, err, genai.ErrNoSuggestions)
}

func TestGenerateForTopic_UpstreamFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("timeout")}
	svc := genai.NewClueService(gen)

	_, err := svc.GenerateForTopic(context.Background(), "Music", "2026-08-27")
	assert.ErrorIs(t, err, genai.ErrNoSuggestions, "Upstream failures surface as the typed no-suggestions result")
}

// TestGenerateForTopic_ClampsOversizedReply verifies no more than the maximum
// number of suggestions is returned.
func TestGenerateForTopic_ClampsOversizedReply(t *testing.T) {
	oversized := `{"suggestions": [
		{"clue": "a", "emojis": "🌑"}, {"clue": "b", "emojis": "🌒"},
		{"clue": "c", "emojis": "🌓"}, {"clue": "d", "emojis": "🌔"},
		{"clue": "e", "emojis": "🌕"}, {"clue": "f", "emojis": "🌖"},
		{"clue": "g", "emojis": "🌗"}
	]}`
	gen := &fakeGenerator{replies: []string{oversized}}
	svc := genai.NewClueService(gen)

	clues, err := svc.GenerateForTopic(context.Background(), "Moons", "2026-08-27")

	assert.NoError(t, err)
	assert.Len(t, clues, 5)
}

func TestGenerateFromChat_BothPerspectives(t *testing.T) {
	gen := &fakeGenerator{replies: []string{fiveSuggestions, fiveSuggestions}}
	svc := genai.NewClueService(gen)

	history := []models.TranscriptMessage{
		{Sender: "me", Text: "I love hiking volcanoes"},
		{Sender: "them", Text: "I prefer karaoke nights"},
	}

	result, err := svc.GenerateFromChat(context.Background(), history)

	assert.NoError(t, err)
	assert.Equal(t, 2, gen.completeCalls, "One extraction per perspective")
	assert.NotEmpty(t, result.UserSuggestions)
	assert.NotEmpty(t, result.PartnerSuggestions)

	// The first call sees the transcript as given, the second with roles swapped.
	assert.Contains(t, gen.userPrompts[0], "me: I love hiking volcanoes")
	assert.Contains(t, gen.userPrompts[1], "them: I love hiking volcanoes")
	assert.Contains(t, gen.userPrompts[1], "me: I prefer karaoke nights")
}

func TestGenerateFromChat_EmptyTranscript(t *testing.T) {
	gen := &fakeGenerator{}
	svc := genai.NewClueService(gen)

	_, err := svc.GenerateFromChat(context.Background(), nil)

	assert.ErrorIs(t, err, genai.ErrNoSuggestions)
	assert.Zero(t, gen.completeCalls)
}

func TestEmojiDNA(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"emojis": "🎬🤖🤔"}`}}
	svc := genai.NewClueService(gen)

	emojis, err := svc.EmojiDNA(context.Background(), "I think the ending of the new sci-fi blockbuster was brilliant.")

	assert.NoError(t, err)
	assert.Equal(t, "🎬🤖🤔", emojis)
}

func TestEmojiDNA_EmptyReply(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"emojis": ""}`}}
	svc := genai.NewClueService(gen)

	_, err := svc.EmojiDNA(context.Background(), "some clue")
	assert.ErrorIs(t, err, genai.ErrNoSuggestions)
}

func TestAnalyzeIdentifying(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"has_identifying_information": true, "explanation": "The clue names a workplace."}`}}
	svc := genai.NewClueService(gen)

	analysis, err := svc.AnalyzeIdentifying(context.Background(), "I work at the bakery on 5th street")

	assert.NoError(t, err)
	assert.True(t, analysis.HasIdentifyingInformation)
	assert.NotEmpty(t, analysis.Explanation)
}

func TestArtworkIllustrate(t *testing.T) {
	gen := &fakeGenerator{illustrateB64: "aGVsbG8="}
	svc := genai.NewArtworkService(gen)

	uri, err := svc.Illustrate(context.Background(), []string{"volcano hikes", "karaoke"}, "Lavender")

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	assert.Contains(t, gen.userPrompts[0], "volcano hikes, karaoke")
	assert.Contains(t, gen.userPrompts[0], "Lavender")
}

func TestArtworkIllustrate_SafetyBlocked(t *testing.T) {
	gen := &fakeGenerator{illustrateErr: genai.ErrSafetyBlocked}
	svc := genai.NewArtworkService(gen)

	_, err := svc.Illustrate(context.Background(), []string{"something"}, "Indigo")
	assert.ErrorIs(t, err, genai.ErrSafetyBlocked)
}
