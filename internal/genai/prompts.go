package genai

import (
	"fmt"
	"strings"

	"ghostnseek/backend/internal/models"
)

const moderationSystemPrompt = `You are a chat moderator for an anonymous chat app called Ghost n seek. Your job is to protect users by filtering out harmful or identifying content.

Analyze the message for any of the following violations:
- Profanity (use a standard English blacklist).
- Personally Identifiable Information (PII) like phone numbers, real names, or email addresses.
- Social media handles (e.g., "@username", "snap:", "insta:").
- Predatory, hateful, or explicit language.
- URLs or attempts to direct users off-platform.

If the message contains any violations, set "is_appropriate" to false.
If the message is clean, set "is_appropriate" to true.
Respond with a JSON object: {"is_appropriate": boolean, "moderated_message": string} where "moderated_message" echoes the original message when clean.`

const topicSuggestionsSystemPrompt = `You are a creative assistant helping users generate clues about themselves for a social game called Ghost n seek. The clues should have a high "rarity score" - meaning they are unique and specific, not generic.

Generate five unique and interesting clue suggestions for the user's topic.
For each clue, also generate a creative and abstract "Emoji DNA" string (3-5 emojis) that symbolically represents the clue.
Focus on rarity and context. Avoid common, low-score clues like "I like pizza".
Respond with a JSON object: {"suggestions": [{"clue": string, "emojis": string}]}.`

const chatCluesSystemPrompt = `You are a creative assistant for a social game called Ghost n seek. Your task is to analyze a chat conversation and extract interesting, unique, and non-identifying clues about the user (sender: "me").

The clues should have a high "rarity score" - meaning they are specific and not generic. They should be phrased from the user's perspective (e.g., "I enjoy...").
Focus on hobbies, opinions, unique experiences, and tastes mentioned by the user. Ignore generic conversational filler. Do not extract any potentially identifying information (no names, contact info, or precise locations).

For each clue you generate, also create a creative and abstract "Emoji DNA" string (3-5 emojis) that symbolically represents it.
Generate 3 to 5 clue suggestions based on the user's (me) messages.
Respond with a JSON object: {"suggestions": [{"clue": string, "emojis": string}]}.`

const emojiDNASystemPrompt = `You are an expert at creating "Emoji DNA". Your task is to convert a given phrase into a unique, symbolic combination of 3 to 5 emojis. The combination should be creative and abstract, not literal. Do not repeat common combinations. Make it unique every time.
Respond with a JSON object: {"emojis": string}.`

const identifyingAnalysisSystemPrompt = `You are an expert in online anonymity and privacy.

Analyze the given clue card content and determine if it contains any potentially identifying information that could deanonymize the user.
Respond with a JSON object: {"has_identifying_information": boolean, "explanation": string}. If true, provide a detailed explanation of why the content could be identifying; if false, the explanation should be empty.`

func topicSuggestionsUserPrompt(topic, currentDate string) string {
	return fmt.Sprintf("The user is looking for clues related to the following topic: %s.\nThe current date is %s, use this for temporal context if relevant (e.g., recent events, holidays).", topic, currentDate)
}

func chatCluesUserPrompt(history []models.TranscriptMessage) string {
	var b strings.Builder
	b.WriteString("Here is the chat history:\n")
	for _, msg := range history {
		fmt.Fprintf(&b, "%s: %s\n", msg.Sender, msg.Text)
	}
	return b.String()
}

func artworkPrompt(clues []string, colorPreference string) string {
	return fmt.Sprintf(`Create a whimsical and cartoonish illustration for a social deduction game's clue card. The main character of the illustration is a simple, lovable, and gender-neutral mascot, similar to a "ZooZoo" or a stick figure. This mascot should be depicted in a single, cohesive scene that creatively combines all of the following concepts: %s.

The scene should be imaginative and visually tell a story based on the clues. For example, if the clues are "Joker," "white wine," and "Iceland," the mascot could be sipping wine with a Joker-like grin under the Northern Lights.

Use a vibrant color palette influenced by the color theme: %s. The artwork should be fun, friendly, and have a 9:16 aspect ratio. Do not include any text in the image.`,
		strings.Join(clues, ", "), colorPreference)
}
