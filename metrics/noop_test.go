// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopMeters(t *testing.T) {
	backend = noopMetrics{}

	assert.Nil(t, HTTPHandler())

	// any label set is accepted
	assert.NotPanics(t, func() {
		Counter("count").Add(1)
		CounterVec("count_vec", []string{"type"}).AddWithLabel(1, map[string]string{"unknown": "label"})
		Gauge("gauge").Set(1)
		GaugeVec("gauge_vec", nil).SetWithLabel(1, nil)
		GaugeVec("gauge_vec", nil).AddWithLabel(1, map[string]string{"a": "b"})
		Histogram("hist", BucketHTTPReqs).Observe(1)
		HistogramVec("hist_vec", []string{"code"}, nil).ObserveWithLabels(1, nil)
	})
}
