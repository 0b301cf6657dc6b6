// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"github.com/meridiannet/meridiand/app/appmessage"
)

// CoinControl narrows the candidate set a selection call may draw from and
// can pin specific outpoints that must be spent. The zero value imposes no
// restrictions.
type CoinControl struct {
	// IgnoreRemoteStaked excludes outputs that are delegated to another
	// node for staking.
	IgnoreRemoteStaked bool

	// AllowOtherInputs lets the selector add candidates beyond the pinned
	// outpoints when those cannot cover the target on their own. When
	// false and outpoints are pinned, exactly the pinned set is spent.
	AllowOtherInputs bool

	selected map[appmessage.Outpoint]struct{}
}

// Select pins an outpoint so that any selection honoring this control
// spends it.
func (cc *CoinControl) Select(outpoint appmessage.Outpoint) {
	if cc.selected == nil {
		cc.selected = make(map[appmessage.Outpoint]struct{})
	}
	cc.selected[outpoint] = struct{}{}
}

// Unselect releases a previously pinned outpoint.
func (cc *CoinControl) Unselect(outpoint appmessage.Outpoint) {
	delete(cc.selected, outpoint)
}

// UnselectAll releases every pinned outpoint.
func (cc *CoinControl) UnselectAll() {
	cc.selected = nil
}

// HasSelected reports whether any outpoint is pinned.
func (cc *CoinControl) HasSelected() bool {
	return len(cc.selected) > 0
}

// IsSelected reports whether the given outpoint is pinned.
func (cc *CoinControl) IsSelected(outpoint appmessage.Outpoint) bool {
	_, ok := cc.selected[outpoint]
	return ok
}
