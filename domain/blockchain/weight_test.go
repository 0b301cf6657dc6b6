// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/meridiannet/meridiand/app/appmessage"
)

// TestTransactionWeight ensures a witness-free transaction weighs exactly
// four times its stripped serialized size.
func TestTransactionWeight(t *testing.T) {
	tx := createTestTransaction(t)
	if tx.MsgTx().HasWitness() {
		t.Fatal("test transaction unexpectedly carries witness data")
	}

	strippedSize := int64(tx.MsgTx().SerializeSizeStripped())
	want := strippedSize * WitnessScaleFactor
	if got := GetTransactionWeight(tx); got != want {
		t.Fatalf("GetTransactionWeight: got %d, want %d", got, want)
	}
}

// TestBlockWeight ensures a block without witness data weighs four times its
// stripped serialized size.
func TestBlockWeight(t *testing.T) {
	block := newTestBlock([]*appmessage.MsgTx{
		createTestCoinbase(t).MsgTx(),
		createTestTransaction(t).MsgTx(),
	})

	strippedSize := int64(block.MsgBlock().SerializeSizeStripped())
	want := strippedSize * WitnessScaleFactor
	if got := GetBlockWeight(block); got != want {
		t.Fatalf("GetBlockWeight: got %d, want %d", got, want)
	}
}
