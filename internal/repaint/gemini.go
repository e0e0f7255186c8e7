package repaint

// gemini.go provides a REST API client for Gemini image editing. It uses
// direct HTTP calls so the inline image output of generateContent can be read
// without going through a text-oriented SDK surface.

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fpang/paint-visualizer/internal/assets"
	"github.com/fpang/paint-visualizer/internal/imagedata"
	"github.com/fpang/paint-visualizer/internal/palette"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the Gemini REST API base URL.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultTimeout bounds a single repaint call. Image generation can take 10-30s.
const DefaultTimeout = 120 * time.Second

// GeminiClient repaints room photos with a Gemini image model.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a GeminiClient.
type Option func(*GeminiClient)

// WithModel overrides the image model.
func WithModel(model string) Option {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *GeminiClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithTimeout sets the per-call HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *GeminiClient) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *GeminiClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewGeminiClient creates a new client for Gemini image editing.
func NewGeminiClient(apiKey string, opts ...Option) *GeminiClient {
	c := &GeminiClient{
		apiKey:  apiKey,
		model:   GetModelName(),
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the image model the client calls.
func (c *GeminiClient) Model() string {
	return c.model
}

// --- REST API request/response types ---

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *geminiBlobData `json:"inlineData,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiBlobData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64 encoded
}

type geminiResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
	Error          *geminiError          `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Repaint sends the room photo with a repaint instruction for the given colour
// and returns the edited photo.
func (c *GeminiClient) Repaint(ctx context.Context, img imagedata.Image, colorName, colorHex string) (imagedata.Image, error) {
	data := assets.RepaintPromptData{ColorName: colorName, ColorHex: colorHex}
	if preset, ok := palette.ByName(colorName); ok && strings.EqualFold(preset.Hex, colorHex) {
		data.ColorDescription = preset.Description
	}
	return c.EditImage(ctx, img, assets.RenderRepaintInstruction(data), assets.RepaintSystemPrompt)
}

// EditImage sends an image with a natural language instruction and returns the
// edited image.
func (c *GeminiClient) EditImage(ctx context.Context, img imagedata.Image, instruction, systemInstruction string) (imagedata.Image, error) {
	startTime := time.Now()
	log.Info().
		Str("model", c.model).
		Int("image_bytes", len(img.Data)).
		Str("image_mime", img.MIMEType).
		Msg("Sending image to Gemini for editing")

	req := geminiRequest{
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{
					InlineData: &geminiBlobData{
						MIMEType: img.MIMEType,
						Data:     base64.StdEncoding.EncodeToString(img.Data),
					},
				},
				{Text: instruction},
			},
		}},
	}
	if systemInstruction != "" {
		req.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: systemInstruction}},
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return imagedata.Image{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return imagedata.Image{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return imagedata.Image{}, fmt.Errorf("could not reach the image service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return imagedata.Image{}, fmt.Errorf("failed to read response: %w", err)
	}

	var geminiResp geminiResponse
	parseErr := json.Unmarshal(respBody, &geminiResp)

	if resp.StatusCode != http.StatusOK {
		log.Error().
			Int("status", resp.StatusCode).
			Str("body", truncateString(string(respBody), 500)).
			Msg("Gemini image editing API returned error")
		apiErr := &APIError{HTTPStatus: resp.StatusCode}
		if parseErr == nil && geminiResp.Error != nil {
			apiErr.Status = geminiResp.Error.Status
			apiErr.Message = geminiResp.Error.Message
		}
		return imagedata.Image{}, apiErr
	}

	if parseErr != nil {
		return imagedata.Image{}, fmt.Errorf("failed to parse response: %w", parseErr)
	}
	if geminiResp.Error != nil {
		return imagedata.Image{}, &APIError{
			HTTPStatus: geminiResp.Error.Code,
			Status:     geminiResp.Error.Status,
			Message:    geminiResp.Error.Message,
		}
	}

	result, text, err := extractImage(geminiResp)
	if err != nil {
		return imagedata.Image{}, err
	}
	if result.IsZero() {
		noImg := &NoImageError{Text: truncateString(strings.TrimSpace(text), 200)}
		if geminiResp.PromptFeedback != nil {
			noImg.Reason = geminiResp.PromptFeedback.BlockReason
		}
		if noImg.Reason == "" && len(geminiResp.Candidates) > 0 {
			if fr := geminiResp.Candidates[0].FinishReason; fr != "" && fr != "STOP" {
				noImg.Reason = fr
			}
		}
		return imagedata.Image{}, noImg
	}

	log.Info().
		Int("output_bytes", len(result.Data)).
		Str("output_mime", result.MIMEType).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini image editing complete")

	return result, nil
}

// extractImage returns the last inline image and all text in the response.
func extractImage(resp geminiResponse) (imagedata.Image, string, error) {
	var result imagedata.Image
	var text strings.Builder
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil {
				decoded, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					return imagedata.Image{}, "", fmt.Errorf("failed to decode image data: %w", err)
				}
				result = imagedata.Image{MIMEType: part.InlineData.MIMEType, Data: decoded}
			}
			text.WriteString(part.Text)
		}
	}
	return result, text.String(), nil
}

// truncateString truncates a string to maxLen, appending "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
