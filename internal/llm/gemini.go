package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultTextModel     = "gemini-3-flash-preview"
	defaultImageModel    = "gemini-2.5-flash-image"
	defaultTimeout       = 120 * time.Second
)

type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
}

// GeminiClient talks to the generateContent REST endpoint directly.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	textModel  string
	imageModel string
	httpClient *http.Client
}

func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}
	if cfg.TextModel == "" {
		cfg.TextModel = defaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaultImageModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &GeminiClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type contentPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []contentPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r *generateContentResponse) parts() []contentPart {
	if len(r.Candidates) == 0 {
		return nil
	}
	return r.Candidates[0].Content.Parts
}

// --------------------------------------------------
// Menu text -> dishes
// --------------------------------------------------
func (g *GeminiClient) ParseMenuText(ctx context.Context, text string) (*ParsedMenu, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Err: errors.New("empty menu text")}
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]string{
					{"text": BuildMenuParsePrompt(text)},
				},
			},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
			"responseSchema":   menuResponseSchema,
		},
	}

	resp, err := g.generateContent(ctx, g.textModel, payload)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	var sb strings.Builder
	for _, p := range resp.parts() {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return nil, &ParseError{Err: errors.New("empty gemini response")}
	}

	return DecodeParsedMenu(sb.String())
}

// --------------------------------------------------
// Dish -> image data URI
// --------------------------------------------------
func (g *GeminiClient) SynthesizeImage(
	ctx context.Context,
	dishName string,
	description string,
	style Style,
) (string, error) {

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]string{
					{"text": BuildImagePrompt(dishName, description, style)},
				},
			},
		},
		"generationConfig": map[string]any{
			"responseModalities": []string{"IMAGE"},
			"imageConfig": map[string]any{
				"aspectRatio": "1:1",
			},
		},
	}

	resp, err := g.generateContent(ctx, g.imageModel, payload)
	if err != nil {
		return "", &GenerationError{Dish: dishName, Err: err}
	}

	for _, p := range resp.parts() {
		if p.InlineData == nil || p.InlineData.Data == "" {
			continue
		}
		mime := p.InlineData.MimeType
		if mime == "" {
			mime = "image/png"
		}
		return fmt.Sprintf("data:%s;base64,%s", mime, p.InlineData.Data), nil
	}

	return "", &GenerationError{Dish: dishName, Err: errors.New("no image was generated")}
}

func (g *GeminiClient) generateContent(
	ctx context.Context,
	model string,
	payload any,
) (*generateContentResponse, error) {

	if g.apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gemini response: %w", err)
	}

	log.Printf("GEMINI_CALL model=%s status=%d bytes=%d took=%s", model, resp.StatusCode, len(raw), time.Since(start).Round(time.Millisecond))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini api error (status %d): %s", resp.StatusCode, truncate(string(raw), 512))
	}

	var result generateContentResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	return &result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
