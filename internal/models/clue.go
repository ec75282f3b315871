package models

// Clue is a short phrase plus a symbolic emoji tag describing a participant
// without identifying them. Clues are ephemeral: they are returned by the
// generation gateway and held client-side, never persisted.
type Clue struct {
	// Clue is the suggested clue text, phrased from the user's perspective.
	Clue string `json:"clue"`
	// Emojis is the "Emoji DNA": 3-5 emojis symbolically representing the clue.
	Emojis string `json:"emojis"`
}

// TranscriptMessage is one line of a chat transcript as seen from one
// participant's perspective, the input shape for clue extraction.
type TranscriptMessage struct {
	// Sender is "me" or "them".
	Sender string `json:"sender"`
	Text   string `json:"text"`
}
