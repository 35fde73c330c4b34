package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ent0n29/aliya/internal/reliability"
)

// HTTPBackend forwards utterances to a zero-shot classification endpoint
// (anything speaking the {"text","candidate_labels"} convention).
type HTTPBackend struct {
	url    string
	client *http.Client
}

func NewHTTPBackend(url string) *HTTPBackend {
	return &HTTPBackend{
		url: strings.TrimSpace(url),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type zeroShotRequest struct {
	Text            string   `json:"text"`
	CandidateLabels []string `json:"candidate_labels"`
}

type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

func (b *HTTPBackend) Predict(ctx context.Context, utterance string, labels []Label) (Label, error) {
	req := zeroShotRequest{Text: utterance}
	for _, l := range labels {
		req.CandidateLabels = append(req.CandidateLabels, string(l))
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	const maxAttempts = 2
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			wait := reliability.ExponentialBackoff(attempt, 100*time.Millisecond, time.Second)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
		}

		label, retryable, err := b.predictOnce(ctx, payload)
		if err == nil {
			return label, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return "", lastErr
}

func (b *HTTPBackend) predictOnce(ctx context.Context, payload []byte) (label Label, retryable bool, err error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := b.client.Do(httpReq)
	if err != nil {
		return "", true, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", reliability.IsRetryableHTTPStatus(res.StatusCode),
			fmt.Errorf("intent backend status %d: %s", res.StatusCode, string(body))
	}

	var parsed zeroShotResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", false, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Labels) == 0 {
		return "", false, fmt.Errorf("intent backend returned no labels")
	}
	top := strings.TrimSpace(parsed.Labels[0])
	if !isKnownLabel(top) {
		return "", false, fmt.Errorf("intent backend returned unknown label %q", top)
	}
	return Label(top), false, nil
}
