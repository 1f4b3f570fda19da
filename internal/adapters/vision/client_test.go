package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/config"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/ports"
)

func TestParseTransactions(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []ports.ScannedTransaction
		wantErr bool
	}{
		{
			name: "plain array",
			text: `[{"amount": 12.5, "description": "Coffee", "type": "expense"}]`,
			want: []ports.ScannedTransaction{{Amount: 12.5, Description: "Coffee", Type: "expense"}},
		},
		{
			name: "fenced array",
			text: "```json\n[{\"amount\": 100, \"description\": \"Refund\", \"type\": \"income\"}]\n```",
			want: []ports.ScannedTransaction{{Amount: 100, Description: "Refund", Type: "income"}},
		},
		{
			name: "fenced without language tag",
			text: "```\n[]\n```",
			want: []ports.ScannedTransaction{},
		},
		{
			name: "surrounding whitespace",
			text: "\n\n  [ ]  \n",
			want: []ports.ScannedTransaction{},
		},
		{
			name:    "not an array",
			text:    `{"amount": 12.5}`,
			wantErr: true,
		},
		{
			name:    "prose response",
			text:    "I could not find any transactions in this image.",
			wantErr: true,
		},
		{
			name:    "malformed json",
			text:    `[{"amount": }]`,
			wantErr: true,
		},
		{
			name:    "empty response",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTransactions(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, entities.ErrScanFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractTransactionsMissingKey(t *testing.T) {
	client := New(config.VisionConfig{Model: "m"}, logger.NewNop())

	_, err := client.ExtractTransactions(context.Background(), "aW1hZ2U=", "image/png")
	assert.ErrorIs(t, err, entities.ErrMissingAPIKey)
}

func TestExtractTransactions(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		text := "```json\n[{\"amount\": 42, \"description\": \"Dinner\", \"type\": \"expense\"}]\n```"
		body := map[string]interface{}{
			"candidates": []interface{}{
				map[string]interface{}{
					"content": map[string]interface{}{
						"parts": []interface{}{
							map[string]interface{}{"text": text},
						},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	client := New(config.VisionConfig{
		Endpoint: srv.URL,
		Model:    "test-model",
		APIKey:   "secret",
		Timeout:  5 * time.Second,
	}, logger.NewNop())

	txs, err := client.ExtractTransactions(context.Background(), "aW1hZ2U=", "image/png")
	require.NoError(t, err)

	require.Len(t, txs, 1)
	assert.Equal(t, 42.0, txs[0].Amount)
	assert.Equal(t, "Dinner", txs[0].Description)

	assert.Equal(t, "/models/test-model:generateContent", gotPath)
	assert.Equal(t, "secret", gotKey)

	// The request carries both the instruction and the image payload.
	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 2)
	assert.NotEmpty(t, gotReq.Contents[0].Parts[0].Text)
	require.NotNil(t, gotReq.Contents[0].Parts[1].InlineData)
	assert.Equal(t, "aW1hZ2U=", gotReq.Contents[0].Parts[1].InlineData.Data)
	assert.Equal(t, "image/png", gotReq.Contents[0].Parts[1].InlineData.MimeType)
}

func TestExtractTransactionsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := New(config.VisionConfig{
		Endpoint: srv.URL,
		Model:    "test-model",
		APIKey:   "secret",
		Timeout:  5 * time.Second,
	}, logger.NewNop())

	_, err := client.ExtractTransactions(context.Background(), "aW1hZ2U=", "image/png")
	assert.Error(t, err)
}
