package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/config"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/ports"
)

// extractionPrompt is the fixed instruction sent with every receipt image.
const extractionPrompt = `Analyze this image (receipt or statement). Extract transactions. Return ONLY a JSON array with objects: { "amount": number, "description": "string", "type": "income" or "expense" }. Ignore dates, assume today.`

// Client calls a generateContent-style image-analysis API to extract
// transactions from receipt images.
type Client struct {
	http     *http.Client
	endpoint string
	model    string
	apiKey   string
	logger   *logger.Logger
}

// New creates a vision client from configuration.
func New(cfg config.VisionConfig, appLogger *logger.Logger) *Client {
	return &Client{
		http:     &http.Client{Timeout: cfg.Timeout},
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		logger:   appLogger.WithComponent("vision"),
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ExtractTransactions sends the image and instruction to the API and parses
// the returned text as a transaction array.
func (c *Client) ExtractTransactions(ctx context.Context, imageBase64, mimeType string) ([]ports.ScannedTransaction, error) {
	if c.apiKey == "" {
		return nil, entities.ErrMissingAPIKey
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: extractionPrompt},
				{InlineData: &inlineData{MimeType: mimeType, Data: imageBase64}},
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode vision request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build vision request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call vision api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read vision response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warnw("Vision API returned an error", "status", resp.StatusCode)
		return nil, fmt.Errorf("vision api status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode vision response: %w", err)
	}

	var text strings.Builder
	for _, cand := range decoded.Candidates {
		for _, p := range cand.Content.Parts {
			text.WriteString(p.Text)
		}
	}

	txs, err := ParseTransactions(text.String())
	if err != nil {
		return nil, err
	}

	c.logger.Infow("Receipt analyzed", "transactions", len(txs))
	return txs, nil
}

// ParseTransactions parses model output into transactions. Markdown code
// fences around the JSON are stripped first; anything that is not a JSON
// array is an error, never a silent no-op.
func ParseTransactions(text string) ([]ports.ScannedTransaction, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	if !strings.HasPrefix(cleaned, "[") {
		return nil, fmt.Errorf("%w: response is not a JSON array", entities.ErrScanFailed)
	}

	var txs []ports.ScannedTransaction
	if err := json.Unmarshal([]byte(cleaned), &txs); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrScanFailed, err)
	}

	return txs, nil
}
