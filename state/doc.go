// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages balances and contract storage of the ledger.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv store ]
//	         |
//	  [ direct cache ]
//	         |
//	   [ kv store ]
//
// There is a single canonical head, so reads always go to the latest
// committed values. The root is a hash chain over committed change sets.
package state
