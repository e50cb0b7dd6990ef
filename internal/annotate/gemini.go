package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// requestTimeout bounds every remote call. The UI shows fallback copy when
// we miss it — a slow annotation must never hold up anything else.
const requestTimeout = 5 * time.Second

// Gemini is a Provider backed by the Gemini generateContent REST API.
//
// Authentication is a per-request API key header (x-goog-api-key) — no OAuth
// flow. We only unmarshal the first candidate's text from the much larger
// response object.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

var _ Provider = (*Gemini)(nil)

// NewGemini creates a Gemini provider for the given API key and model
// (e.g. "gemini-3-flash-preview").
func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// newGeminiForTest points the provider at a test server. Used by the tests
// in this package.
func newGeminiForTest(apiKey, model, baseURL string) *Gemini {
	g := NewGemini(apiKey, model)
	g.baseURL = baseURL
	return g
}

func (g *Gemini) WelcomeMessage(ctx context.Context) (string, error) {
	return g.generate(ctx,
		"Generate a 1-sentence welcome message for a secure cloud storage user in the style of MEGA.nz.")
}

func (g *Gemini) AnalyzeFile(ctx context.Context, name, fileType string) (string, error) {
	return g.generate(ctx, fmt.Sprintf(
		"Describe what might be in a file named %q of type %s in a cloud storage context. Keep it professional and brief.",
		name, fileType))
}

// Request/response shapes for generateContent. The API returns far more than
// this; unknown fields are simply ignored by encoding/json.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generate performs one generateContent call and returns the first
// candidate's text.
func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("annotate: encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("annotate: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("annotate: calling generateContent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("annotate: generateContent returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("annotate: decoding response: %w", err)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("annotate: response contained no candidates")
	}

	text := out.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("annotate: response candidate was empty")
	}

	return text, nil
}
