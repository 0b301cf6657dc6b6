// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/kaspanet/go-secp256k1"
	"github.com/meridiannet/meridiand/app/appmessage"
	"github.com/meridiannet/meridiand/domain/blocknode"
	"github.com/meridiannet/meridiand/domain/txscript"
	"github.com/meridiannet/meridiand/util"
	"github.com/meridiannet/meridiand/util/chainhash"
	"github.com/pkg/errors"
)

// testPrng provides a deterministic prng for the random outpoints and hashes
// in generated test transactions.
var testPrng = rand.New(rand.NewSource(0))

// fakeTimeSource reports a fixed adjusted time.
type fakeTimeSource int64

func (f fakeTimeSource) AdjustedTime() int64 {
	return int64(f)
}

func randomTxID() *chainhash.TxID {
	txID := &chainhash.TxID{}
	testPrng.Read(txID[:])
	return txID
}

func randomHash() *chainhash.Hash {
	hash := &chainhash.Hash{}
	testPrng.Read(hash[:])
	return hash
}

// createTestTransaction returns a signed transaction with four inputs
// spending random previous outpoints and four pay-to-pubkey-hash outputs of
// 100 MERD each. A fresh key is generated per call, so no two returned
// transactions share an ID.
func createTestTransaction(t *testing.T) *util.Tx {
	privateKey, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("Failed to generate a private key: %s", err)
	}
	publicKey, err := privateKey.SchnorrPublicKey()
	if err != nil {
		t.Fatalf("Failed to generate a public key: %s", err)
	}
	publicKeySerialized, err := publicKey.Serialize()
	if err != nil {
		t.Fatalf("Failed to serialize the public key: %s", err)
	}

	scriptPubKey, err := txscript.PayToPubKeyHashScript(
		util.Hash160(publicKeySerialized[:]))
	if err != nil {
		t.Fatalf("Failed to build a pay-to-pubkey-hash script: %s", err)
	}

	msgTx := appmessage.NewMsgTx(1)
	for i := 0; i < 4; i++ {
		msgTx.AddTxIn(appmessage.NewTxIn(
			appmessage.NewOutpoint(randomTxID(), 0), nil, nil))
	}
	for i := 0; i < 4; i++ {
		msgTx.AddTxOut(appmessage.NewTxOut(100*util.MitePerMeridian, scriptPubKey))
	}

	// Sign over the unsigned transaction ID and fill the signature into the
	// first input the way a wallet completes a pay-to-pubkey-hash spend.
	secpHash := secp256k1.Hash(msgTx.TxID())
	signature, err := privateKey.SchnorrSign(&secpHash)
	if err != nil {
		t.Fatalf("Failed to sign the transaction: %s", err)
	}
	signatureScript, err := txscript.NewScriptBuilder().
		AddData(signature.Serialize()[:]).
		AddData(publicKeySerialized[:]).
		Script()
	if err != nil {
		t.Fatalf("Failed to build a signature script: %s", err)
	}
	msgTx.TxIn[0].SignatureScript = signatureScript

	return util.NewTx(msgTx)
}

// createTestTransactions returns count distinct signed transactions derived
// from a single template so bulk block tests avoid count key generations.
// Distinctness comes from fresh random previous outpoints per clone.
func createTestTransactions(t *testing.T, count int) []*appmessage.MsgTx {
	template := createTestTransaction(t).MsgTx()
	transactions := make([]*appmessage.MsgTx, count)
	for i := range transactions {
		clone := template.Copy()
		for _, txIn := range clone.TxIn {
			testPrng.Read(txIn.PreviousOutpoint.TxID[:])
		}
		transactions[i] = clone
	}
	return transactions
}

// createTestCoinbase returns a minimal coinbase transaction: a single null
// previous outpoint whose signature script carries a height push plus random
// bytes, and one zero-value output with an empty script. The random bytes
// keep coinbases from colliding when a test needs more than one.
func createTestCoinbase(t *testing.T) *util.Tx {
	signatureScript, err := txscript.NewScriptBuilder().
		AddInt64(0).AddData(randomHash()[:]).Script()
	if err != nil {
		t.Fatalf("Failed to build a coinbase signature script: %s", err)
	}

	msgTx := appmessage.NewMsgTx(1)
	msgTx.Type = appmessage.TxTypeCoinbase
	msgTx.AddTxIn(appmessage.NewTxIn(
		appmessage.NewOutpoint(&chainhash.TxID{}, math.MaxUint32),
		signatureScript, nil))
	msgTx.AddTxOut(appmessage.NewTxOut(0, nil))

	return util.NewTx(msgTx)
}

// sortTransactions sorts every transaction after the coinbase into canonical
// ID order. With reverse set the tail is flipped instead, so the block
// violates the ordering rule in a single known way.
func sortTransactions(transactions []*appmessage.MsgTx, reverse bool) {
	tail := transactions[1:]
	sort.Slice(tail, func(i, j int) bool {
		idI, idJ := tail[i].TxID(), tail[j].TxID()
		return chainhash.LessTxID(&idI, &idJ)
	})
	if reverse {
		for i, j := 0, len(tail)-1; i < j; i, j = i+1, j-1 {
			tail[i], tail[j] = tail[j], tail[i]
		}
	}
}

// newTestBlock assembles the given transactions into a block whose header
// commits to both recomputed merkle roots. Transaction order is taken as
// given so tests can exercise the ordering rules.
func newTestBlock(transactions []*appmessage.MsgTx) *util.Block {
	msgBlock := &appmessage.MsgBlock{
		Header: appmessage.MsgBlockHeader{
			Version:   1,
			Timestamp: 1572480000, // 2019-10-31 00:00:00 +0000 UTC
			Bits:      0x207fffff,
		},
		Transactions: transactions,
	}

	if len(transactions) > 0 {
		txs := make([]*util.Tx, 0, len(transactions))
		for i, msgTx := range transactions {
			tx := util.NewTx(msgTx)
			tx.SetIndex(i)
			txs = append(txs, tx)
		}
		merkles, _ := BuildMerkleTreeStore(txs)
		msgBlock.Header.HashMerkleRoot = *merkles[len(merkles)-1]
		witnessMerkles, _ := BuildWitnessMerkleTreeStore(txs)
		msgBlock.Header.HashWitnessMerkleRoot = *witnessMerkles[len(witnessMerkles)-1]
	}

	return util.NewBlock(msgBlock)
}

// buildChain adds a linear chain of headers with the given timestamps to the
// index and returns its tip.
func buildChain(index *blocknode.Index, timestamps ...int64) *blocknode.BlockNode {
	var tip *blocknode.BlockNode
	for _, timestamp := range timestamps {
		header := &appmessage.MsgBlockHeader{
			Version:   1,
			Timestamp: timestamp,
			Bits:      0x207fffff,
		}
		if tip != nil {
			header.PrevBlock = *tip.Hash()
		}
		tip = index.AddNode(header, tip)
	}
	return tip
}

// checkRejectCode ensures the state records exactly the wanted rejection. An
// empty want means the state must still be valid.
func checkRejectCode(state *ValidationState, want RejectCode) error {
	if want == "" {
		if !state.Valid() {
			return errors.Errorf("unexpected rejection %s: %s",
				state.RejectCode(), state.RejectReason())
		}
		return nil
	}
	if state.Valid() {
		return errors.Errorf("validation passed, want rejection %s", want)
	}
	if state.RejectCode() != want {
		return errors.Errorf("mismatched reject code - got %s (%s), want %s",
			state.RejectCode(), state.RejectReason(), want)
	}
	return nil
}
