package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient implements Enricher over the Generative Language REST API.
type GeminiClient struct {
	httpClient *http.Client
	log        *slog.Logger
	endpoint   string
	model      string
	apiKey     string
}

func NewGeminiClient(log *slog.Logger, model, apiKey string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
		endpoint:   defaultEndpoint,
		model:      model,
		apiKey:     apiKey,
	}
}

type generateRequest struct {
	Contents          []content       `json:"contents"`
	SystemInstruction *content        `json:"systemInstruction,omitempty"`
	GenerationConfig  *generateConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) CompanionReply(ctx context.Context, prompt string, history []HistoryEntry, members []string) (string, error) {
	var sb strings.Builder
	sb.WriteString("You are the duospace companion, a warm mutual friend of a two-person private space.\n")
	sb.WriteString("The members are: " + strings.Join(members, ", ") + ".\n")
	sb.WriteString("Be casual and brief. This is not a real-time chat.\n")

	// Nudge the model to answer in the language the prompt was written in.
	if info := whatlanggo.Detect(prompt); info.IsReliable() {
		sb.WriteString("Reply in " + info.Lang.String() + ".\n")
	}

	if len(history) > 0 {
		sb.WriteString("Recent conversation:\n")
		for _, h := range history {
			sb.WriteString(h.Sender + ": " + h.Content + "\n")
		}
	}

	text, err := c.generate(ctx, generateRequest{
		Contents:          []content{{Parts: []part{{Text: prompt}}}},
		SystemInstruction: &content{Parts: []part{{Text: sb.String()}}},
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *GeminiClient) SongMetadata(ctx context.Context, url string) (SongMetadata, error) {
	prompt := fmt.Sprintf(
		"Analyze this URL: %s. Return a JSON object with title, artist, platform "+
			"(spotify, youtube, apple, soundcloud, or other), and a generic coverArt description.", url)

	text, err := c.generate(ctx, generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generateConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return SongMetadata{}, err
	}

	var meta SongMetadata
	if err := json.Unmarshal([]byte(text), &meta); err != nil {
		return SongMetadata{}, fmt.Errorf("metadata response is not valid JSON: %w", err)
	}
	return meta, nil
}

func (c *GeminiClient) generate(ctx context.Context, reqBody generateRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("enrichment call failed", "status", resp.StatusCode)
		return "", fmt.Errorf("enrichment call returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("enrichment call returned no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
