package brain

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPAdapter streams completions from an ollama-compatible generate
// endpoint. Each NDJSON line carries a response fragment; the line with
// done=true closes the turn.
type HTTPAdapter struct {
	url    string
	model  string
	client *http.Client
}

func NewHTTPAdapter(rawURL, model string) *HTTPAdapter {
	return &HTTPAdapter{
		url:   strings.TrimSpace(rawURL),
		model: strings.TrimSpace(model),
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type generateWire struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateLine struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

func (a *HTTPAdapter) StreamGenerate(ctx context.Context, req GenerateRequest, onDelta DeltaHandler) (GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = a.model
	}
	payload, err := json.Marshal(generateWire{Model: model, Prompt: req.Prompt, Stream: true})
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(payload))
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := a.client.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return GenerateResponse{}, fmt.Errorf("brain http status %d: %s", res.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(res.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var out strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var obj generateLine
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			continue
		}
		if obj.Error != "" {
			return GenerateResponse{}, fmt.Errorf("brain stream error: %s", obj.Error)
		}

		if obj.Response != "" {
			out.WriteString(obj.Response)
			if onDelta != nil {
				if err := onDelta(obj.Response); err != nil {
					return GenerateResponse{}, err
				}
			}
		}
		if obj.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return GenerateResponse{}, fmt.Errorf("read stream: %w", err)
	}

	return GenerateResponse{Text: out.String()}, nil
}

// probeEndpoint checks whether the generate endpoint's host answers at all.
func probeEndpoint(rawURL string, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return false
	}
	client := &http.Client{Timeout: timeout}
	res, err := client.Get(u.Scheme + "://" + u.Host + "/")
	if err != nil {
		return false
	}
	res.Body.Close()
	return true
}
