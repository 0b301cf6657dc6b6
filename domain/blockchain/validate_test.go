// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/meridiannet/meridiand/app/appmessage"
	"github.com/meridiannet/meridiand/domain/blocknode"
	"github.com/meridiannet/meridiand/domain/chaincfg"
	"github.com/meridiannet/meridiand/domain/txscript"
	"github.com/meridiannet/meridiand/util"
)

// TestCheckBlockEmpty ensures a block without any transactions is rejected
// outright.
func TestCheckBlockEmpty(t *testing.T) {
	validator := New(&chaincfg.SimnetParams, NewTimeSource())

	block := newTestBlock(nil)
	state := &ValidationState{}
	if validator.CheckBlock(block, state) {
		t.Fatal("CheckBlock accepted a block with no transactions")
	}
	if err := checkRejectCode(state, ErrBlockTooBig); err != nil {
		t.Fatal(err)
	}
}

// TestCheckBlockTooManyTransactions ensures the transaction count bound
// rejects an overstuffed block before any per-transaction work happens.
func TestCheckBlockTooManyTransactions(t *testing.T) {
	params := &chaincfg.SimnetParams
	validator := New(params, NewTimeSource())

	// The count check fires before anything looks at the transactions
	// themselves, so a block stuffed with the same transaction over and
	// over is enough to trip it.
	tx := createTestTransaction(t).MsgTx()
	numTxs := params.MaxBlockWeight/WitnessScaleFactor + 1
	transactions := make([]*appmessage.MsgTx, numTxs)
	for i := range transactions {
		transactions[i] = tx
	}

	block := util.NewBlock(&appmessage.MsgBlock{Transactions: transactions})
	state := &ValidationState{}
	if validator.CheckBlock(block, state) {
		t.Fatal("CheckBlock accepted a block with too many transactions")
	}
	if err := checkRejectCode(state, ErrBlockTooBig); err != nil {
		t.Fatal(err)
	}
}

// TestCheckBlockCoinbaseMissing ensures a block whose first transaction is
// not a coinbase is rejected.
func TestCheckBlockCoinbaseMissing(t *testing.T) {
	validator := New(&chaincfg.SimnetParams, NewTimeSource())

	block := newTestBlock([]*appmessage.MsgTx{
		createTestTransaction(t).MsgTx(),
	})
	state := &ValidationState{}
	if validator.CheckBlock(block, state) {
		t.Fatal("CheckBlock accepted a block without a coinbase")
	}
	if err := checkRejectCode(state, ErrFirstTxNotCoinbase); err != nil {
		t.Fatal(err)
	}
}

// TestCheckBlockDuplicateCoinbase ensures a second coinbase anywhere after
// the first transaction is rejected.
func TestCheckBlockDuplicateCoinbase(t *testing.T) {
	validator := New(&chaincfg.SimnetParams, NewTimeSource())

	block := newTestBlock([]*appmessage.MsgTx{
		createTestCoinbase(t).MsgTx(),
		createTestTransaction(t).MsgTx(),
		createTestCoinbase(t).MsgTx(),
	})
	state := &ValidationState{}
	if validator.CheckBlock(block, state) {
		t.Fatal("CheckBlock accepted a block with two coinbases")
	}
	if err := checkRejectCode(state, ErrMultipleCoinbases); err != nil {
		t.Fatal(err)
	}
}

// TestCheckBlockTooManySigOps ensures the weighted signature operation
// budget rejects a block with one operation too many.
func TestCheckBlockTooManySigOps(t *testing.T) {
	params := &chaincfg.SimnetParams
	validator := New(params, NewTimeSource())

	numSigOps := params.MaxBlockSigOpsCost/WitnessScaleFactor + 1
	manyChecksigs := bytes.Repeat([]byte{txscript.OP_CHECKSIG}, int(numSigOps))

	tx := createTestTransaction(t).MsgTx()
	tx.TxOut[0].ScriptPubKey = manyChecksigs

	block := newTestBlock([]*appmessage.MsgTx{
		createTestCoinbase(t).MsgTx(),
		tx,
	})
	state := &ValidationState{}
	if validator.CheckBlock(block, state) {
		t.Fatal("CheckBlock accepted a block over the signature operation budget")
	}
	if err := checkRejectCode(state, ErrTooManySigOps); err != nil {
		t.Fatal(err)
	}
}

// TestCheckBlockBadMerkleRoot ensures a header whose merkle root does not
// match the transactions is rejected.
func TestCheckBlockBadMerkleRoot(t *testing.T) {
	validator := New(&chaincfg.SimnetParams, NewTimeSource())

	block := newTestBlock([]*appmessage.MsgTx{
		createTestCoinbase(t).MsgTx(),
	})
	block.MsgBlock().Header.HashMerkleRoot = *randomHash()

	state := &ValidationState{}
	if validator.CheckBlock(block, state) {
		t.Fatal("CheckBlock accepted a block with a mismatched merkle root")
	}
	if err := checkRejectCode(state, ErrBadMerkleRoot); err != nil {
		t.Fatal(err)
	}
}

// TestCheckBlockBadWitnessMerkleRoot ensures a header whose witness merkle
// root does not match the transactions is rejected.
func TestCheckBlockBadWitnessMerkleRoot(t *testing.T) {
	validator := New(&chaincfg.SimnetParams, NewTimeSource())

	block := newTestBlock([]*appmessage.MsgTx{
		createTestCoinbase(t).MsgTx(),
	})
	block.MsgBlock().Header.HashWitnessMerkleRoot = *randomHash()

	state := &ValidationState{}
	if validator.CheckBlock(block, state) {
		t.Fatal("CheckBlock accepted a block with a mismatched witness merkle root")
	}
	if err := checkRejectCode(state, ErrBadWitnessMerkleRoot); err != nil {
		t.Fatal(err)
	}
}

// TestCheckBlockDuplicateTransactions ensures reusing the same transaction
// twice is reported as a duplicate rather than an ordering problem.
func TestCheckBlockDuplicateTransactions(t *testing.T) {
	validator := New(&chaincfg.SimnetParams, NewTimeSource())

	tx := createTestTransaction(t).MsgTx()
	block := newTestBlock([]*appmessage.MsgTx{
		createTestCoinbase(t).MsgTx(),
		tx,
		tx,
	})
	state := &ValidationState{}
	if validator.CheckBlock(block, state) {
		t.Fatal("CheckBlock accepted a block carrying the same transaction twice")
	}
	if err := checkRejectCode(state, ErrDuplicateTx); err != nil {
		t.Fatal(err)
	}
}

// TestCheckBlockMerkleRootMutated ensures a duplicated transaction pair is
// caught even when the header commits to the merkle root of the mutated
// list, so a matching root proves nothing about distinctness.
func TestCheckBlockMerkleRootMutated(t *testing.T) {
	validator := New(&chaincfg.SimnetParams, NewTimeSource())

	tx := createTestTransaction(t).MsgTx()
	transactions := []*appmessage.MsgTx{
		createTestCoinbase(t).MsgTx(),
		createTestTransaction(t).MsgTx(),
		tx,
		tx,
	}
	sortTransactions(transactions, false)
	block := newTestBlock(transactions)

	state := &ValidationState{}
	if validator.CheckBlock(block, state) {
		t.Fatal("CheckBlock accepted a block with a duplicated transaction pair")
	}
	if err := checkRejectCode(state, ErrDuplicateTx); err != nil {
		t.Fatal(err)
	}
}

// TestCheckBlockTransactionOrdering ensures transactions after the coinbase
// must appear in canonical ID order.
func TestCheckBlockTransactionOrdering(t *testing.T) {
	validator := New(&chaincfg.SimnetParams, NewTimeSource())

	transactions := []*appmessage.MsgTx{
		createTestCoinbase(t).MsgTx(),
		createTestTransaction(t).MsgTx(),
		createTestTransaction(t).MsgTx(),
	}
	sortTransactions(transactions, true)
	block := newTestBlock(transactions)

	state := &ValidationState{}
	if validator.CheckBlock(block, state) {
		t.Fatal("CheckBlock accepted a block with misordered transactions")
	}
	if err := checkRejectCode(state, ErrTransactionsNotSorted); err != nil {
		t.Fatal(err)
	}
}

// TestCheckBlockValid ensures a well-formed block passes every structural
// check.
func TestCheckBlockValid(t *testing.T) {
	validator := New(&chaincfg.SimnetParams, NewTimeSource())

	transactions := []*appmessage.MsgTx{
		createTestCoinbase(t).MsgTx(),
		createTestTransaction(t).MsgTx(),
		createTestTransaction(t).MsgTx(),
		createTestTransaction(t).MsgTx(),
	}
	sortTransactions(transactions, false)
	block := newTestBlock(transactions)

	state := &ValidationState{}
	if !validator.CheckBlock(block, state) {
		t.Fatalf("CheckBlock rejected a well-formed block: %s: %s",
			state.RejectCode(), state.RejectReason())
	}
	if err := checkRejectCode(state, ""); err != nil {
		t.Fatal(err)
	}
}

// TestCheckBlockGenesis ensures the genesis block of every network passes
// the structural checks.
func TestCheckBlockGenesis(t *testing.T) {
	for _, params := range []*chaincfg.Params{
		&chaincfg.MainnetParams,
		&chaincfg.TestnetParams,
		&chaincfg.SimnetParams,
	} {
		validator := New(params, NewTimeSource())
		block := util.NewBlock(params.GenesisBlock)
		state := &ValidationState{}
		if !validator.CheckBlock(block, state) {
			t.Errorf("%s: CheckBlock rejected the genesis block: %s: %s",
				params.Name, state.RejectCode(), state.RejectReason())
		}
	}
}

// TestContextualCheckBlockFinality ensures blocks carrying transactions that
// are not final at the attach point are rejected, whether the lock time
// names a height or a timestamp.
func TestContextualCheckBlockFinality(t *testing.T) {
	validator := New(&chaincfg.MainnetParams, NewTimeSource())

	// A chain whose tip sits at height 10 with a median time of 100000.
	index := blocknode.NewIndex()
	timestamps := make([]int64, 11)
	for i := range timestamps {
		timestamps[i] = 100000
	}
	prev := buildChain(index, timestamps...)

	finalTx := createTestTransaction(t).MsgTx()

	// Locked to height 12 while the block attaches at height 11.
	notFinalHeight := createTestTransaction(t).MsgTx()
	notFinalHeight.LockTime = 12
	notFinalHeight.TxIn = notFinalHeight.TxIn[:1]
	notFinalHeight.TxIn[0].Sequence = 0

	// Locked to a timestamp after the chain's median time.
	notFinalTime := createTestTransaction(t).MsgTx()
	notFinalTime.LockTime = 500000001
	notFinalTime.TxIn = notFinalTime.TxIn[:1]
	notFinalTime.TxIn[0].Sequence = 0

	tests := []struct {
		name string
		tx   *appmessage.MsgTx
	}{
		{"height lock", notFinalHeight},
		{"time lock", notFinalTime},
	}
	for _, test := range tests {
		block := newTestBlock([]*appmessage.MsgTx{finalTx, test.tx})
		state := &ValidationState{}
		if validator.ContextualCheckBlock(block, prev, state) {
			t.Errorf("%s: ContextualCheckBlock accepted a block with a "+
				"non-final transaction", test.name)
			continue
		}
		if err := checkRejectCode(state, ErrUnfinalizedTx); err != nil {
			t.Errorf("%s: %s", test.name, err)
		}
	}
}

// TestContextualCheckBlockWeight ensures the full block weight bound,
// witness data included, is enforced at the attach point.
func TestContextualCheckBlockWeight(t *testing.T) {
	validator := New(&chaincfg.MainnetParams, NewTimeSource())

	index := blocknode.NewIndex()
	prev := buildChain(index, 0)

	// Enough signed transactions to push the block weight past the budget.
	transactions := createTestTransactions(t, 10000)
	block := util.NewBlock(&appmessage.MsgBlock{Transactions: transactions})

	state := &ValidationState{}
	if validator.ContextualCheckBlock(block, prev, state) {
		t.Fatal("ContextualCheckBlock accepted a block over the weight budget")
	}
	if err := checkRejectCode(state, ErrBlockWeightTooHigh); err != nil {
		t.Fatal(err)
	}
}

// TestContextualCheckBlockHeaderMedianTime ensures a header is accepted only
// when its timestamp is strictly after the median time of the chain it
// extends.
func TestContextualCheckBlockHeaderMedianTime(t *testing.T) {
	validator := New(&chaincfg.MainnetParams, fakeTimeSource(151230))

	index := blocknode.NewIndex()
	prev := buildChain(index, 1000, 2000, 3000)

	// One past the median of {1000, 2000, 3000}.
	header := &appmessage.MsgBlockHeader{
		Version:   1,
		Timestamp: 2001,
		Bits:      0x207fffff,
	}
	state := &ValidationState{}
	if !validator.ContextualCheckBlockHeader(header, prev, state) {
		t.Fatalf("ContextualCheckBlockHeader rejected a timestamp just past "+
			"the median: %s", state.RejectReason())
	}

	// One under the median.
	header.Timestamp = 1999
	state = &ValidationState{}
	if validator.ContextualCheckBlockHeader(header, prev, state) {
		t.Fatal("ContextualCheckBlockHeader accepted a timestamp under the median")
	}
	if err := checkRejectCode(state, ErrTimeTooOld); err != nil {
		t.Fatal(err)
	}
}

// TestContextualCheckBlockHeaderFutureDrift ensures the allowed clock drift
// bound is inclusive.
func TestContextualCheckBlockHeaderFutureDrift(t *testing.T) {
	params := &chaincfg.TestnetParams
	adjustedTime := int64(0)
	validator := New(params, fakeTimeSource(adjustedTime))

	index := blocknode.NewIndex()
	prev := buildChain(index, 0)

	maxDrift := int64(params.MaxFutureBlockTime / time.Second)
	header := &appmessage.MsgBlockHeader{
		Version:   1,
		Timestamp: adjustedTime + maxDrift,
		Bits:      0x207fffff,
	}
	state := &ValidationState{}
	if !validator.ContextualCheckBlockHeader(header, prev, state) {
		t.Fatalf("ContextualCheckBlockHeader rejected a timestamp at the "+
			"drift bound: %s", state.RejectReason())
	}

	header.Timestamp = adjustedTime + maxDrift + 1
	state = &ValidationState{}
	if validator.ContextualCheckBlockHeader(header, prev, state) {
		t.Fatal("ContextualCheckBlockHeader accepted a timestamp past the drift bound")
	}
	if err := checkRejectCode(state, ErrTimeTooNew); err != nil {
		t.Fatal(err)
	}
}

// TestCheckTransactionSanity verifies the context-free transaction rules one
// violation at a time.
func TestCheckTransactionSanity(t *testing.T) {
	validator := New(&chaincfg.SimnetParams, NewTimeSource())

	tests := []struct {
		name string
		tx   func(t *testing.T) *appmessage.MsgTx
		want RejectCode
	}{
		{"valid", func(t *testing.T) *appmessage.MsgTx {
			return createTestTransaction(t).MsgTx()
		}, ""},
		{"valid coinbase", func(t *testing.T) *appmessage.MsgTx {
			return createTestCoinbase(t).MsgTx()
		}, ""},
		{"no inputs", func(t *testing.T) *appmessage.MsgTx {
			tx := createTestTransaction(t).MsgTx()
			tx.TxIn = nil
			return tx
		}, ErrNoTxInputs},
		{"no outputs", func(t *testing.T) *appmessage.MsgTx {
			tx := createTestTransaction(t).MsgTx()
			tx.TxOut = nil
			return tx
		}, ErrNoTxOutputs},
		{"output value too large", func(t *testing.T) *appmessage.MsgTx {
			tx := createTestTransaction(t).MsgTx()
			tx.TxOut[0].Value = util.MaxMite + 1
			return tx
		}, ErrBadTxOutValue},
		{"output total too large", func(t *testing.T) *appmessage.MsgTx {
			tx := createTestTransaction(t).MsgTx()
			for _, txOut := range tx.TxOut {
				txOut.Value = util.MaxMite
			}
			return tx
		}, ErrBadTxOutTotal},
		{"duplicate inputs", func(t *testing.T) *appmessage.MsgTx {
			tx := createTestTransaction(t).MsgTx()
			tx.TxIn[1].PreviousOutpoint = tx.TxIn[0].PreviousOutpoint
			return tx
		}, ErrDuplicateTxInputs},
		{"coinbase script too short", func(t *testing.T) *appmessage.MsgTx {
			tx := createTestCoinbase(t).MsgTx()
			tx.TxIn[0].SignatureScript = tx.TxIn[0].SignatureScript[:1]
			return tx
		}, ErrBadCoinbaseScriptLen},
		{"coinbase script too long", func(t *testing.T) *appmessage.MsgTx {
			tx := createTestCoinbase(t).MsgTx()
			tx.TxIn[0].SignatureScript = bytes.Repeat(
				[]byte{0x00}, MaxCoinbaseScriptLen+1)
			return tx
		}, ErrBadCoinbaseScriptLen},
		{"null previous outpoint", func(t *testing.T) *appmessage.MsgTx {
			tx := createTestTransaction(t).MsgTx()
			tx.TxIn[2].PreviousOutpoint = appmessage.Outpoint{
				Index: math.MaxUint32,
			}
			return tx
		}, ErrBadTxInput},
	}

	for _, test := range tests {
		state := &ValidationState{}
		got := validator.CheckTransactionSanity(util.NewTx(test.tx(t)), state)
		if got != state.Valid() {
			t.Errorf("%s: CheckTransactionSanity returned %v with state "+
				"validity %v", test.name, got, state.Valid())
		}
		if err := checkRejectCode(state, test.want); err != nil {
			t.Errorf("%s: %s", test.name, err)
		}
	}
}

// TestIsFinalizedTransaction exercises the lock-time release rules directly.
func TestIsFinalizedTransaction(t *testing.T) {
	tx := createTestTransaction(t)
	msgTx := tx.MsgTx()

	// Zero lock time is always final.
	if !IsFinalizedTransaction(tx, 100, 100000) {
		t.Error("transaction with a zero lock time reported non-final")
	}

	// Height locks release only past the lock height.
	msgTx.LockTime = 100
	msgTx.TxIn[0].Sequence = 0
	if IsFinalizedTransaction(tx, 100, 100000) {
		t.Error("transaction locked to the attach height reported final")
	}
	if !IsFinalizedTransaction(tx, 101, 100000) {
		t.Error("transaction past its lock height reported non-final")
	}

	// Time locks compare against the reference time the same way.
	msgTx.LockTime = txscript.LockTimeThreshold + 500
	if IsFinalizedTransaction(tx, 101, txscript.LockTimeThreshold+500) {
		t.Error("transaction locked to the reference time reported final")
	}
	if !IsFinalizedTransaction(tx, 101, txscript.LockTimeThreshold+501) {
		t.Error("transaction past its lock time reported non-final")
	}

	// Maxed-out sequence numbers finalize regardless of lock time.
	msgTx.TxIn[0].Sequence = appmessage.MaxTxInSequenceNum
	if !IsFinalizedTransaction(tx, 0, 0) {
		t.Error("transaction with final sequence numbers reported non-final")
	}
}

// TestCountSigOps ensures input and output scripts both contribute to the
// count.
func TestCountSigOps(t *testing.T) {
	tx := createTestTransaction(t).MsgTx()

	// Four pay-to-pubkey-hash outputs carry one signature operation each,
	// and the push-only signature script carries none.
	if got := CountSigOps(util.NewTx(tx)); got != 4 {
		t.Fatalf("CountSigOps: got %d, want 4", got)
	}

	tx.TxIn[0].SignatureScript = []byte{txscript.OP_CHECKSIG}
	if got := CountSigOps(util.NewTx(tx)); got != 5 {
		t.Fatalf("CountSigOps: got %d, want 5", got)
	}
}
