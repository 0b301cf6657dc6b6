// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/meridiannet/meridiand/util"
)

const (
	// WitnessScaleFactor determines the level of "discount" witness data
	// receives when calculating the weight of a transaction or block.
	WitnessScaleFactor = 4
)

// GetBlockWeight computes the value of the weight metric for a given block.
// The weight metric is the sum of the block's serialized size without any
// witness data scaled proportionally by the WitnessScaleFactor, and the
// block's serialized size including any witness data.
func GetBlockWeight(blk *util.Block) int64 {
	msgBlock := blk.MsgBlock()

	baseSize := msgBlock.SerializeSizeStripped()
	totalSize := msgBlock.SerializeSize()

	// (baseSize * 3) + totalSize
	return int64((baseSize * (WitnessScaleFactor - 1)) + totalSize)
}

// GetTransactionWeight computes the value of the weight metric for a given
// transaction. The weight metric is the sum of the transaction's serialized
// size without any witness data scaled proportionally by the
// WitnessScaleFactor, and the transaction's serialized size including any
// witness data.
func GetTransactionWeight(tx *util.Tx) int64 {
	msgTx := tx.MsgTx()

	baseSize := msgTx.SerializeSizeStripped()
	totalSize := msgTx.SerializeSize()

	// (baseSize * 3) + totalSize
	return int64((baseSize * (WitnessScaleFactor - 1)) + totalSize)
}
