// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"github.com/meridiannet/meridiand/app/appmessage"
	"github.com/meridiannet/meridiand/util/chainhash"
)

// TxIndexUnknown is the value returned for a transaction index that is
// unknown. This is typically because the transaction has not been inserted
// into a block yet.
const TxIndexUnknown = -1

// Tx defines a transaction that provides easier and more efficient
// manipulation of raw transactions. It also memoizes the ID and hash for
// the transaction on their first access so subsequent accesses don't have
// to repeat the relatively expensive hashing operations.
type Tx struct {
	msgTx   *appmessage.MsgTx
	txID    *chainhash.TxID
	txHash  *chainhash.Hash
	txIndex int
}

// MsgTx returns the underlying appmessage.MsgTx for the transaction.
func (t *Tx) MsgTx() *appmessage.MsgTx {
	return t.msgTx
}

// ID returns the id of the transaction. This is equivalent to calling TxID
// on the underlying appmessage.MsgTx, however it caches the result so
// subsequent calls are more efficient.
func (t *Tx) ID() *chainhash.TxID {
	if t.txID != nil {
		return t.txID
	}

	id := t.msgTx.TxID()
	t.txID = &id
	return t.txID
}

// Hash returns the witness hash of the transaction. This is equivalent to
// calling TxHash on the underlying appmessage.MsgTx, however it caches the
// result so subsequent calls are more efficient.
func (t *Tx) Hash() *chainhash.Hash {
	if t.txHash != nil {
		return t.txHash
	}

	hash := t.msgTx.TxHash()
	t.txHash = &hash
	return t.txHash
}

// Index returns the saved index of the transaction within a block. This
// value will be TxIndexUnknown if it hasn't already explicitly been set.
func (t *Tx) Index() int {
	return t.txIndex
}

// SetIndex sets the index of the transaction in within a block.
func (t *Tx) SetIndex(index int) {
	t.txIndex = index
}

// IsCoinBase determines whether or not the transaction is a coinbase.
func (t *Tx) IsCoinBase() bool {
	return t.msgTx.IsCoinBase()
}

// NewTx returns a new instance of a transaction given an underlying
// appmessage.MsgTx. See Tx.
func NewTx(msgTx *appmessage.MsgTx) *Tx {
	return &Tx{
		msgTx:   msgTx,
		txIndex: TxIndexUnknown,
	}
}
