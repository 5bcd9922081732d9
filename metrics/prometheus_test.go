// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

// gather returns the families of the prometheus backend by name.
func gather(t *testing.T) map[string]*dto.MetricFamily {
	p, ok := backend.(*prometheusMetrics)
	require.True(t, ok, "prometheus backend not initialized")
	families, err := p.registry.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}
	return byName
}

func sumOf(f *dto.MetricFamily) (sum float64) {
	for _, m := range f.GetMetric() {
		switch {
		case m.GetCounter() != nil:
			sum += m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			sum += m.GetGauge().GetValue()
		case m.GetHistogram() != nil:
			sum += m.GetHistogram().GetSampleSum()
		}
	}
	return
}

func TestPrometheusMeters(t *testing.T) {
	backend = noopMetrics{}
	InitializePrometheusMetrics()

	bids := CounterVec("bids", []string{"type"})
	for _, typ := range []string{"eth", "eth", "cst", "rw", "eth"} {
		bids.AddWithLabel(1, map[string]string{"type": typ})
	}
	claims := Counter("claims")
	claims.Add(2)
	Counter("claims").Add(1)

	best := Gauge("best")
	best.Set(10)
	best.Add(-3)

	staked := GaugeVec("staked", []string{"ledger"})
	staked.SetWithLabel(4, map[string]string{"ledger": "cs"})
	staked.SetWithLabel(1, map[string]string{"ledger": "rw"})
	staked.AddWithLabel(1, map[string]string{"ledger": "rw"})

	Histogram("latency", []int64{10, 100}).Observe(50)
	durations := HistogramVec("durations", []string{"code"}, nil)
	durations.ObserveWithLabels(5, map[string]string{"code": "200"})
	durations.ObserveWithLabels(7, map[string]string{"code": "400"})

	families := gather(t)
	tests := []struct {
		name   string
		series int
		sum    float64
	}{
		{"cosmic_metrics_bids", 3, 5},
		{"cosmic_metrics_claims", 1, 3},
		{"cosmic_metrics_best", 1, 7},
		{"cosmic_metrics_staked", 2, 6},
		{"cosmic_metrics_latency", 1, 50},
		{"cosmic_metrics_durations", 2, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := families[tt.name]
			require.True(t, ok)
			assert.Len(t, f.GetMetric(), tt.series)
			assert.Equal(t, tt.sum, sumOf(f))
		})
	}

	buckets := families["cosmic_metrics_latency"].GetMetric()[0].GetHistogram().GetBucket()
	require.Len(t, buckets, 2)
	assert.Equal(t, uint64(0), buckets[0].GetCumulativeCount())
	assert.Equal(t, uint64(1), buckets[1].GetCumulativeCount())

	// runtime collectors are registered alongside the meters
	assert.Contains(t, families, "go_goroutines")
}

func TestInitializeKeepsRegistry(t *testing.T) {
	backend = noopMetrics{}
	InitializePrometheusMetrics()
	Counter("kept").Add(1)
	InitializePrometheusMetrics()
	Counter("kept").Add(1)

	assert.Equal(t, float64(2), sumOf(gather(t)["cosmic_metrics_kept"]))
}

func TestLazyMetersBindOnFirstUse(t *testing.T) {
	backend = noopMetrics{}

	for _, m := range []any{
		Counter("c"),
		CounterVec("cv", nil),
		Gauge("g"),
		GaugeVec("gv", nil),
		Histogram("h", nil),
		HistogramVec("hv", nil, nil),
	} {
		assert.IsType(t, noopMeter{}, m)
	}

	counter := LazyLoadCounter("lazy_counter")
	counterVec := LazyLoadCounterVec("lazy_counter_vec", nil)
	gauge := LazyLoadGauge("lazy_gauge")
	gaugeVec := LazyLoadGaugeVec("lazy_gauge_vec", nil)
	histogram := LazyLoadHistogram("lazy_histogram", nil)
	histogramVec := LazyLoadHistogramVec("lazy_histogram_vec", nil, nil)

	InitializePrometheusMetrics()

	assert.IsType(t, promCounter{}, counter())
	assert.IsType(t, promCounterVec{}, counterVec())
	assert.IsType(t, promGauge{}, gauge())
	assert.IsType(t, promGaugeVec{}, gaugeVec())
	assert.IsType(t, promHistogram{}, histogram())
	assert.IsType(t, promHistogramVec{}, histogramVec())

	// bound once
	backend = noopMetrics{}
	assert.IsType(t, promCounter{}, counter())
}

func TestPrometheusHandler(t *testing.T) {
	backend = noopMetrics{}
	InitializePrometheusMetrics()
	Counter("served").Add(3)

	ts := httptest.NewServer(HTTPHandler())
	defer ts.Close()

	res, err := http.Get(ts.URL) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "cosmic_metrics_served 3")
}
