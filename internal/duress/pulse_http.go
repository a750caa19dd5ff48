package duress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"sovereign/pkg/platform/sentinel"
)

// HTTPPulseSensor reads {"bpm":..} from a wearable bridge endpoint.
type HTTPPulseSensor struct {
	URL    string
	Client *http.Client
}

func (p HTTPPulseSensor) ReadBPM(ctx context.Context) (float64, error) {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: pulse status %d", sentinel.ErrUnavailable, resp.StatusCode)
	}
	var body struct {
		BPM float64 `json:"bpm"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode pulse: %w", err)
	}
	if !PlausibleBPM(body.BPM) {
		return 0, fmt.Errorf("%w: implausible reading %.1f", sentinel.ErrUnavailable, body.BPM)
	}
	return body.BPM, nil
}
