package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/themis/internal/logging"
	"github.com/backmassage/themis/internal/pipeline"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestJobMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"JobsTotal", JobsTotal},
		{"JobsInProgress", JobsInProgress},
		{"JobDuration", JobDuration},
		{"PhaseDuration", PhaseDuration},
		{"EncodeSpeedRatio", EncodeSpeedRatio},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestJobObserver(t *testing.T) {
	obs := NewJobObserver()

	obs.JobStarted()
	obs.PhaseFinished(pipeline.PhaseAnalyzing, 2*time.Second)
	obs.PhaseFinished(pipeline.PhaseEncoding, 30*time.Second)
	obs.JobFinished(pipeline.Result{Phase: pipeline.PhaseCompleted, Elapsed: 32 * time.Second, Speed: 1.9})

	obs.JobStarted()
	obs.JobFinished(pipeline.Result{Phase: pipeline.PhaseAborted, Elapsed: time.Second})

	body := scrape(t)
	assert.Contains(t, body, `themis_jobs_total{result="completed"}`)
	assert.Contains(t, body, `themis_jobs_total{result="aborted"}`)
	assert.Contains(t, body, `themis_phase_duration_seconds_count{phase="encoding"}`)
	assert.Contains(t, body, "themis_encode_speed_ratio_count")
	assert.Contains(t, body, "themis_jobs_in_progress 0")
}

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out strings.Builder
	addr, err := Serve(ctx, "127.0.0.1:0", logging.New(&out, io.Discard, false))
	require.NoError(t, err)
	assert.Contains(t, out.String(), addr.String())

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServe_BadAddress(t *testing.T) {
	_, err := Serve(context.Background(), "256.0.0.1:bad", logging.Discard())
	assert.Error(t, err)
}
