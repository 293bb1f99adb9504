package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/halcyonlab/notetracker/internal/dispatch"
	"github.com/halcyonlab/notetracker/internal/store"
)

const (
	vendorCallTimeout  = 10 * time.Second
	mediaFetchTimeout  = 30 * time.Second
	maxTranscriptBytes = 32 << 20
)

type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPClient(baseURL, apiKey string) dispatch.Client {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{},
	}
}

func (c *HTTPClient) Deploy(ctx context.Context, input dispatch.DeployInput) (*dispatch.DeployResult, error) {
	ctx, cancel := context.WithTimeout(ctx, vendorCallTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"meeting_link": input.MeetingURL})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/v3/grants/%s/notetakers", c.baseURL, input.GrantID)
	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, url, bytes.NewReader(body), &out); err != nil {
		return nil, fmt.Errorf("deploying notetaker: %w", err)
	}
	if out.Data.ID == "" {
		return nil, errors.New("vendor returned no notetaker id")
	}
	return &dispatch.DeployResult{BotID: out.Data.ID}, nil
}

func (c *HTTPClient) BotStatus(ctx context.Context, grantID, botID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, vendorCallTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/v3/grants/%s/notetakers/%s", c.baseURL, grantID, botID)
	var out struct {
		Data struct {
			MeetingState string `json:"meeting_state"`
			State        string `json:"state"`
		} `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &out); err != nil {
		return "", fmt.Errorf("fetching notetaker status: %w", err)
	}
	if out.Data.MeetingState != "" {
		return out.Data.MeetingState, nil
	}
	return out.Data.State, nil
}

func (c *HTTPClient) Transcript(ctx context.Context, grantID, botID string) (*store.Transcript, error) {
	callCtx, cancel := context.WithTimeout(ctx, vendorCallTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/v3/grants/%s/notetakers/%s/media", c.baseURL, grantID, botID)
	var out struct {
		Data struct {
			Transcript string `json:"transcript"`
		} `json:"data"`
	}
	if err := c.doJSON(callCtx, http.MethodGet, url, nil, &out); err != nil {
		return nil, fmt.Errorf("fetching notetaker media: %w", err)
	}
	if out.Data.Transcript == "" {
		return nil, fmt.Errorf("notetaker %s: %w", botID, dispatch.ErrVendorNotFound)
	}
	return c.FetchTranscript(ctx, out.Data.Transcript)
}

func (c *HTTPClient) FetchTranscript(ctx context.Context, url string) (*store.Transcript, error) {
	ctx, cancel := context.WithTimeout(ctx, mediaFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTranscriptBytes))
	if err != nil {
		return nil, fmt.Errorf("reading transcript body: %w", err)
	}
	return decodeTranscript(body)
}

// decodeTranscript accepts both the current "entries" document and the
// internal "segments" shape.
func decodeTranscript(body []byte) (*store.Transcript, error) {
	var doc struct {
		Segments []rawSegment `json:"segments"`
		Entries  []rawSegment `json:"entries"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding transcript: %w", err)
	}
	raw := doc.Segments
	if len(raw) == 0 {
		raw = doc.Entries
	}
	t := &store.Transcript{Segments: make([]store.TranscriptSegment, 0, len(raw))}
	for _, seg := range raw {
		start := seg.StartSec
		if start == 0 {
			start = seg.Start
		}
		end := seg.EndSec
		if end == 0 {
			end = seg.End
		}
		t.Segments = append(t.Segments, store.TranscriptSegment{
			Speaker:  seg.Speaker,
			Text:     seg.Text,
			StartSec: start,
			EndSec:   end,
		})
	}
	return t, nil
}

type rawSegment struct {
	Speaker  string  `json:"speaker"`
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
}

func (c *HTTPClient) doJSON(ctx context.Context, method, url string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := classifyStatus(resp.StatusCode); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding vendor response: %w", err)
	}
	return nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", dispatch.ErrVendorTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", dispatch.ErrVendorTimeout, err)
	}
	return err
}

func classifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return dispatch.ErrVendorNotFound
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: status %d", dispatch.ErrVendorTimeout, code)
	case code == http.StatusBadGateway || code == http.StatusServiceUnavailable:
		return fmt.Errorf("%w: status %d", dispatch.ErrVendorGateway, code)
	default:
		return fmt.Errorf("vendor returned status %d", code)
	}
}
