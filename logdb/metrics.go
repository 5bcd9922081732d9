// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/cosmicsignature/engine/metrics"
)

var (
	metricQueryCount   = metrics.LazyLoadCounterVec("logdb_query_count", []string{"type", "order"})
	metricCriteriaSize = metrics.LazyLoadHistogramVec("logdb_criteria_length_bucket", []string{"type"}, []int64{0, 2, 5, 10, 25, 100})
	metricLimitBucket  = metrics.LazyLoadHistogramVec("logdb_query_limit_bucket", []string{"type"}, []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleFilter(queryType string, options *Options, order Order, criteriaLen int) {
	metricQueryCount().AddWithLabel(1, map[string]string{"type": queryType, "order": string(order)})
	metricCriteriaSize().ObserveWithLabels(int64(criteriaLen), map[string]string{"type": queryType})
	if options == nil {
		return
	}
	limit := options.Limit
	if limit > 1000 {
		limit = 1001
	}
	metricLimitBucket().ObserveWithLabels(int64(limit), map[string]string{"type": queryType})
}
