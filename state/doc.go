// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages balances and contract storage of the builtin contracts.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ kv bulk ]
//	         |
//	   [ lru cache ]
//	         |
//	  [ committed kv ]
//
// Unlike a trie based state, the committed layer is a flat key space.
// The state root is a running digest over every committed change.
package state
