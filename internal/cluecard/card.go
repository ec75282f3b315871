// Package cluecard composes clues into the exportable card and produces the
// shareable image for it.
package cluecard

import (
	"ghostnseek/backend/internal/config"
	"ghostnseek/backend/internal/models"
)

// Card is the view-model for one exportable clue card. It is never persisted;
// it exists only between composition and export.
type Card struct {
	Clues []models.Clue `json:"clues"`
	// Theme is one of config.ColorThemes.
	Theme string `json:"theme"`
	// ArtworkURL optionally points at generated artwork (a data URI or a
	// fetchable URL). When set, export uses the artwork and never rasterizes
	// the composed card.
	ArtworkURL string `json:"artwork_url,omitempty"`
}

// palette maps a theme to background/accent/text colors for the rendered card.
type palette struct {
	Background string
	Accent     string
	Text       string
}

var palettes = map[string]palette{
	"Indigo":   {Background: "#1e1b4b", Accent: "#818cf8", Text: "#e0e7ff"},
	"Lavender": {Background: "#4c3a6e", Accent: "#c4b5fd", Text: "#f5f3ff"},
	"Purple":   {Background: "#3b0764", Accent: "#c084fc", Text: "#faf5ff"},
	"Crimson":  {Background: "#4c0519", Accent: "#fb7185", Text: "#fff1f2"},
	"Teal":     {Background: "#042f2e", Accent: "#2dd4bf", Text: "#f0fdfa"},
}

// Compose builds a card from clues and a theme. Unknown themes fall back to
// the default rather than failing: the theme only influences looks.
func Compose(clues []models.Clue, theme, artworkURL string) Card {
	if _, ok := palettes[theme]; !ok {
		theme = config.DefaultColorTheme
	}
	if len(clues) > config.MaxSuggestions {
		clues = clues[:config.MaxSuggestions]
	}
	return Card{
		Clues:      clues,
		Theme:      theme,
		ArtworkURL: artworkURL,
	}
}

func (c Card) palette() palette {
	if p, ok := palettes[c.Theme]; ok {
		return p
	}
	return palettes[config.DefaultColorTheme]
}
