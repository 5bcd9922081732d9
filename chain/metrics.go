// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import "github.com/cosmicsignature/engine/metrics"

var (
	metricBestBlock       = metrics.LazyLoadGauge("chain_best_block")
	metricBlockTxCount    = metrics.LazyLoadHistogram("chain_block_tx_count", []int64{0, 1, 2, 5, 10, 25, 50, 100})
	metricHeaderCacheHits = metrics.LazyLoadCounterVec("chain_header_cache_count", []string{"event"})
)
