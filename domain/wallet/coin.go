// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"fmt"

	"github.com/meridiannet/meridiand/app/appmessage"
	"github.com/meridiannet/meridiand/util"
)

// Coin describes one spendable transaction output offered to the selector:
// where it sits, what it is worth, and the ownership and safety attributes
// the eligibility filters act on. Candidates are enumerated fresh from
// wallet state for every selection call; the selector never retains them.
type Coin struct {
	// Outpoint locates the transaction output being offered.
	Outpoint appmessage.Outpoint

	// Value is the amount the output carries.
	Value util.Amount

	// Depth is the number of confirmations of the containing transaction.
	// Zero means the transaction is still unconfirmed.
	Depth int64

	// FromMe reports whether the containing transaction was created by
	// this wallet. Change from the wallet's own spends is trusted at a
	// lower depth than payments received from others.
	FromMe bool

	// Spendable reports whether the wallet holds the keys to spend the
	// output rather than merely watching it.
	Spendable bool

	// Solvable reports whether the wallet knows how to build a full
	// signature script for the output, which holds for watch-only
	// outputs with known redeem scripts even when Spendable is false.
	Solvable bool

	// Safe reports whether spending the output is currently sound.
	// Outputs of conflicted or abandoned transactions are not.
	Safe bool

	// RemoteStaked reports whether the output is delegated to another
	// node for staking.
	RemoteStaked bool
}

func (c *Coin) String() string {
	return fmt.Sprintf("Coin(%s:%d, depth=%d, %s)",
		c.Outpoint.TxID, c.Outpoint.Index, c.Depth, c.Value)
}
