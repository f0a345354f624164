package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"standvirtual-scraper/config"
	"standvirtual-scraper/models"
)

// parseSystemPrompt instructs the model to emit a filter object matching
// models.SearchFilter. The schema below enforces the shape; the prompt
// carries the normalisation rules.
const parseSystemPrompt = `You are a helpful assistant that extracts structured search parameters from a user's car search query. ` +
	`The search will be conducted on Standvirtual, a Portuguese marketplace. Output MUST be valid JSON, according to the schema provided. ` +
	`Extract the following fields:
- brand (string, e.g., BMW, Mercedes, Fiat)
- model (string, e.g., Series 3, Class A, Panda)
- min_price (integer, numeric value only)
- max_price (integer, numeric value only)
- min_year (integer, 4 digit year)
- max_km (integer, numeric value only)
- fuel (string, valid values: Diesel, Gasolina, Elétrico, Híbrido, Petrol)
- location (string) - Set to null as scraping is country-wide.
Rules:
1. If a value is not mentioned, set it to null.
2. Convert "k" to thousands (e.g., "20k km" -> 20000).
3. Infer the Brand if only the Model is given (e.g., "Golf" -> Brand: VW, Model: Golf).`

const chatSystemPrompt = `You are a helpful car analyst. Analyze the following list of car listings ` +
	`and answer the user's question concisely. Base your answer ONLY on the provided data.`

// parseSchema is the structured-output schema for ParseFilters.
var parseSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"brand":     map[string]any{"type": "STRING", "nullable": true},
		"model":     map[string]any{"type": "STRING", "nullable": true},
		"min_price": map[string]any{"type": "INTEGER", "nullable": true},
		"max_price": map[string]any{"type": "INTEGER", "nullable": true},
		"min_year":  map[string]any{"type": "INTEGER", "nullable": true},
		"max_km":    map[string]any{"type": "INTEGER", "nullable": true},
		"fuel":      map[string]any{"type": "STRING", "nullable": true},
		"location":  map[string]any{"type": "STRING", "nullable": true},
	},
}

// GeminiClient calls the Gemini generateContent REST endpoint for query
// parsing and result analysis. With no API key configured every method
// degrades gracefully and the pipeline runs unconstrained searches.
type GeminiClient struct {
	apiKey      string
	baseURL     string
	model       string
	maxAttempts int
	httpClient  *http.Client
}

func NewGeminiClient(cfg config.Config) *GeminiClient {
	if cfg.APIKey == "" {
		log.Printf("[gemini] WARNING: no API key found, AI features are disabled")
	}
	return &GeminiClient{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.APIBaseURL,
		model:       cfg.Model,
		maxAttempts: cfg.MaxLLMAttempts,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenConfig struct {
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
	Temperature      float64        `json:"temperature"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// ParseFilters turns free text into a best-effort SearchFilter. On any
// failure it returns an empty filter, which downstream code treats as an
// unconstrained search rather than an error.
func (c *GeminiClient) ParseFilters(ctx context.Context, query string) models.SearchFilter {
	var filter models.SearchFilter
	if c.apiKey == "" {
		return filter
	}

	req := geminiRequest{
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: query}}}},
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: parseSystemPrompt}}},
		GenerationConfig: geminiGenConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   parseSchema,
			Temperature:      0.0,
		},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		log.Printf("[gemini] parse query: %v", err)
		return models.SearchFilter{}
	}
	if err := json.Unmarshal([]byte(text), &filter); err != nil {
		log.Printf("[gemini] decode filters: %v", err)
		return models.SearchFilter{}
	}
	return filter
}

// ChatAboutResults answers a follow-up question about a result set. The
// chat caller never sees an error, only an apology string.
func (c *GeminiClient) ChatAboutResults(ctx context.Context, question string, cars []models.Car) string {
	if c.apiKey == "" {
		return "Cannot analyze results: API key is missing."
	}

	listings, err := json.MarshalIndent(cars, "", "  ")
	if err != nil {
		return "Sorry, I encountered an error while trying to analyze the results."
	}
	prompt := fmt.Sprintf("CAR LISTINGS (JSON):\n%s\n\nUSER QUESTION: %s", listings, question)

	req := geminiRequest{
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: chatSystemPrompt}}},
		GenerationConfig:  geminiGenConfig{Temperature: 0.5},
	}

	answer, err := c.generate(ctx, req)
	if err != nil {
		log.Printf("[gemini] chat: %v", err)
		return "Sorry, I encountered an error while trying to analyze the results."
	}
	return answer
}

// SummarizeResults produces a short natural-language digest of a result
// set, or a fixed string when there is nothing to summarise.
func (c *GeminiClient) SummarizeResults(ctx context.Context, cars []models.Car) string {
	if len(cars) == 0 {
		return "No matching listings were found."
	}
	return c.ChatAboutResults(ctx,
		"Summarize these listings in 2-3 sentences: typical price range, years and anything notable.", cars)
}

// generate posts one request with bounded retries and quadratic backoff,
// returning the first candidate's text.
func (c *GeminiClient) generate(ctx context.Context, req geminiRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		text, err := c.post(ctx, endpoint, payload)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if attempt < c.maxAttempts {
			backoff := time.Duration(attempt*attempt) * 400 * time.Millisecond
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return "", fmt.Errorf("retries exhausted: %w", lastErr)
}

func (c *GeminiClient) post(ctx context.Context, endpoint string, payload []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}
