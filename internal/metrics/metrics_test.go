package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Interaction("click", "standard")
	m.Interaction("click", "forced")
	m.Interaction("click", "forced")
	m.Run("test_oneway_booking_flow_BOG-CTG", "PASS")
	m.Step("Home", 3*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.interactions.WithLabelValues("click", "forced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.interactions.WithLabelValues("click", "standard")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("test_oneway_booking_flow_BOG-CTG", "PASS")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.steps))
}

func TestNilIsNoop(t *testing.T) {
	var m *Metrics
	m.Interaction("click", "forced")
	m.Run("x", "FAIL")
	m.Step("Home", time.Second)
	require.NoError(t, m.WriteTextfile("/nonexistent/file.prom"))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Run("test_oneway_booking_flow_MDE-SCL", "FAIL")

	path := filepath.Join(t.TempDir(), "booking.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `booking_e2e_funnel_runs_total{result="FAIL",test_name="test_oneway_booking_flow_MDE-SCL"} 1`)
}
