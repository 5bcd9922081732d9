// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import "github.com/cosmicsignature/engine/metrics"

var (
	metricBidCount    = metrics.LazyLoadCounterVec("game_bids_count", []string{"type"})
	metricClaimCount  = metrics.LazyLoadCounter("game_claims_count")
	metricStakedNfts  = metrics.LazyLoadGaugeVec("staking_staked_nfts", []string{"ledger"})
	metricRevertCount = metrics.LazyLoadCounterVec("node_reverted_tx_count", []string{"method"})
)
