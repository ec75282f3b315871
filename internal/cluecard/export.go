package cluecard

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrExportFailed is surfaced to the user as a "try again" state. No
// automatic retry happens anywhere; retrying is a manual action.
var ErrExportFailed = errors.New("could not export the card, please try again")

const exportFetchTimeout = 15 * time.Second

// Exporter turns a composed card into shareable image bytes.
type Exporter struct {
	HTTPClient *http.Client
}

func NewExporter() *Exporter {
	return &Exporter{
		HTTPClient: &http.Client{Timeout: exportFetchTimeout},
	}
}

// Export produces the final shareable image. With artwork present the
// artwork bytes are fetched and re-encoded as PNG; without artwork the
// composed card itself is rendered. Returns the bytes and their content type.
func (e *Exporter) Export(ctx context.Context, card Card) ([]byte, string, error) {
	if card.ArtworkURL != "" {
		data, err := e.fetchArtwork(ctx, card.ArtworkURL)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrExportFailed, err)
		}
		reencoded, err := reencodePNG(data)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrExportFailed, err)
		}
		return reencoded, "image/png", nil
	}

	rendered, err := renderSVG(card)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return rendered, "image/svg+xml", nil
}

// ShareQR encodes a share link as a PNG QR code.
func ShareQR(url string) ([]byte, error) {
	data, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return data, nil
}

// fetchArtwork retrieves the artwork bytes from a data URI or over HTTP.
func (e *Exporter) fetchArtwork(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "data:") {
		_, payload, found := strings.Cut(url, ";base64,")
		if !found {
			return nil, errors.New("unsupported data URI encoding")
		}
		return base64.StdEncoding.DecodeString(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork fetch returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// reencodePNG decodes the fetched image and writes it back out as PNG,
// normalizing whatever format the provider returned.
func reencodePNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cardTemplateText renders the text card in a 9:16 frame matching the
// on-screen look.
const cardTemplateText = `<svg xmlns="http://www.w3.org/2000/svg" width="540" height="960" viewBox="0 0 540 960">
  <rect width="540" height="960" rx="24" fill="{{.Palette.Background}}"/>
  <text x="270" y="90" text-anchor="middle" font-family="sans-serif" font-size="34" font-weight="bold" fill="{{.Palette.Accent}}">Ghost n seek</text>
  <text x="270" y="140" text-anchor="middle" font-family="sans-serif" font-size="18" fill="{{.Palette.Text}}">Can you guess who I am?</text>
{{- range $i, $clue := .Clues}}
  <g transform="translate(40, {{clueY $i}})">
    <rect width="460" height="110" rx="16" fill="none" stroke="{{$.Palette.Accent}}" stroke-width="2"/>
    <text x="24" y="44" font-family="sans-serif" font-size="20" fill="{{$.Palette.Text}}">{{$clue.Clue}}</text>
    <text x="24" y="86" font-family="sans-serif" font-size="26">{{$clue.Emojis}}</text>
  </g>
{{- end}}
</svg>
`

var cardTemplate = template.Must(template.New("card").Funcs(template.FuncMap{
	"clueY": func(i int) int { return 200 + i*140 },
}).Parse(cardTemplateText))

func renderSVG(card Card) ([]byte, error) {
	var buf bytes.Buffer
	err := cardTemplate.Execute(&buf, struct {
		Clues   []struct{ Clue, Emojis string }
		Palette palette
	}{
		Clues:   flattenClues(card),
		Palette: card.palette(),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func flattenClues(card Card) []struct{ Clue, Emojis string } {
	out := make([]struct{ Clue, Emojis string }, len(card.Clues))
	for i, c := range card.Clues {
		out[i] = struct{ Clue, Emojis string }{Clue: c.Clue, Emojis: c.Emojis}
	}
	return out
}
