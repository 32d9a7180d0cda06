package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClassifier posts text to a classification endpoint and keeps the
// highest-scored label. The endpoint may answer with a ranked list or with
// one list nested per input, as inference servers commonly do.
type HTTPClassifier struct {
	url    string
	client *http.Client
}

func NewHTTPClassifier(url string, timeout time.Duration) *HTTPClassifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClassifier{
		url:    strings.TrimSpace(url),
		client: &http.Client{Timeout: timeout},
	}
}

type scoredLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *HTTPClassifier) Classify(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", fmt.Errorf("emotion http status %d: %s", res.StatusCode, string(body))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	label, ok := topLabel(body)
	if !ok {
		return "", fmt.Errorf("emotion response carried no labels")
	}
	return label, nil
}

// topLabel extracts the best-scored label from either a flat ranked list or
// a per-input nested list.
func topLabel(body []byte) (string, bool) {
	var flat []scoredLabel
	if err := json.Unmarshal(body, &flat); err == nil {
		return bestOf(flat)
	}
	var nested [][]scoredLabel
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 {
		return bestOf(nested[0])
	}
	return "", false
}

func bestOf(ranked []scoredLabel) (string, bool) {
	best := ""
	bestScore := -1.0
	for _, r := range ranked {
		label := strings.ToLower(strings.TrimSpace(r.Label))
		if label == "" {
			continue
		}
		if r.Score > bestScore {
			best = label
			bestScore = r.Score
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
