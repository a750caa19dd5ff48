package duress

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sovereign/pkg/platform/sentinel"
)

func TestHTTPPulseSensor(t *testing.T) {
	body := `{"bpm":72}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()
	sensor := HTTPPulseSensor{URL: srv.URL}

	bpm, err := sensor.ReadBPM(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 72, bpm, 0.001)

	body = `{"bpm":5}`
	_, err = sensor.ReadBPM(context.Background())
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}
