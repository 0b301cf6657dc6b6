// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"bytes"

	"github.com/meridiannet/meridiand/app/appmessage"
	"github.com/meridiannet/meridiand/util/chainhash"
	"github.com/pkg/errors"
)

// OutOfRangeError describes an error due to accessing an element that is out
// of range.
type OutOfRangeError string

// CoinbaseTransactionIndex is the index of the coinbase transaction in every
// block.
const CoinbaseTransactionIndex = 0

// Error satisfies the error interface and prints human-readable errors.
func (e OutOfRangeError) Error() string {
	return string(e)
}

// Block defines a meridian block that provides easier and more efficient
// manipulation of raw blocks. It also memoizes hashes for the block and its
// transactions on their first access so subsequent accesses don't have to
// repeat the relatively expensive hashing operations.
type Block struct {
	msgBlock        *appmessage.MsgBlock
	serializedBlock []byte
	blockHash       *chainhash.Hash
	transactions    []*Tx
	txnsGenerated   bool
}

// MsgBlock returns the underlying appmessage.MsgBlock for the Block.
func (b *Block) MsgBlock() *appmessage.MsgBlock {
	return b.msgBlock
}

// Bytes returns the serialized bytes for the Block. This is equivalent to
// calling Serialize on the underlying appmessage.MsgBlock, however it caches
// the result so subsequent calls are more efficient.
func (b *Block) Bytes() ([]byte, error) {
	// Return the cached serialized bytes if it has already been generated.
	if len(b.serializedBlock) != 0 {
		return b.serializedBlock, nil
	}

	w := bytes.NewBuffer(make([]byte, 0, b.msgBlock.SerializeSize()))
	err := b.msgBlock.Serialize(w)
	if err != nil {
		return nil, err
	}
	serializedBlock := w.Bytes()

	b.serializedBlock = serializedBlock
	return serializedBlock, nil
}

// Hash returns the block identifier hash for the Block. This is equivalent
// to calling BlockHash on the underlying appmessage.MsgBlock, however it
// caches the result so subsequent calls are more efficient.
func (b *Block) Hash() *chainhash.Hash {
	if b.blockHash != nil {
		return b.blockHash
	}

	hash := b.msgBlock.BlockHash()
	b.blockHash = &hash
	return b.blockHash
}

// Tx returns a wrapped transaction (util.Tx) for the transaction at the
// specified index in the Block. The supplied index is 0 based. That is to
// say, the first transaction in the block is txNum 0. This is nearly
// equivalent to accessing the raw transaction (appmessage.MsgTx) from the
// underlying appmessage.MsgBlock, however the wrapped transaction has some
// helpful properties such as caching the ID so subsequent requests are
// more efficient.
func (b *Block) Tx(txNum int) (*Tx, error) {
	// Ensure the requested transaction is in range.
	numTx := len(b.msgBlock.Transactions)
	if txNum < 0 || txNum >= numTx {
		str := errors.Errorf("transaction index %d is out of range - max %d",
			txNum, numTx-1)
		return nil, OutOfRangeError(str.Error())
	}

	// Generate the wrapped transactions if needed.
	if !b.txnsGenerated {
		b.Transactions()
	}

	return b.transactions[txNum], nil
}

// Transactions returns a slice of wrapped transactions (util.Tx) for all
// transactions in the Block. This is nearly equivalent to accessing the raw
// transactions (appmessage.MsgTx) in the underlying appmessage.MsgBlock,
// however it instead provides easy access to wrapped versions of them.
func (b *Block) Transactions() []*Tx {
	// Return transactions if they have ALL already been generated. This
	// flag is necessary because the wrapped transactions are lazily
	// generated in a sparse fashion.
	if b.txnsGenerated {
		return b.transactions
	}

	// Generate slice to hold all of the wrapped transactions if needed.
	if len(b.transactions) == 0 {
		b.transactions = make([]*Tx, len(b.msgBlock.Transactions))
	}

	// Generate and cache the wrapped transactions for all that haven't
	// already been done.
	for i, tx := range b.transactions {
		if tx == nil {
			newTx := NewTx(b.msgBlock.Transactions[i])
			newTx.SetIndex(i)
			b.transactions[i] = newTx
		}
	}

	b.txnsGenerated = true
	return b.transactions
}

// CoinbaseTransaction returns the coinbase transaction of the block, i.e.
// the transaction at CoinbaseTransactionIndex.
func (b *Block) CoinbaseTransaction() *Tx {
	return b.Transactions()[CoinbaseTransactionIndex]
}

// IsGenesis returns whether or not this block is the genesis block.
func (b *Block) IsGenesis() bool {
	return b.msgBlock.Header.IsGenesis()
}

// Timestamp returns the block timestamp in Unix seconds.
func (b *Block) Timestamp() int64 {
	return b.msgBlock.Header.Timestamp
}

// NewBlock returns a new instance of a meridian block given an underlying
// appmessage.MsgBlock. See Block.
func NewBlock(msgBlock *appmessage.MsgBlock) *Block {
	return &Block{
		msgBlock: msgBlock,
	}
}
