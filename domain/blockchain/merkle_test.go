// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/meridiannet/meridiand/util"
	"github.com/meridiannet/meridiand/util/chainhash"
)

// TestMerkleTreeStore ensures the tree folds transaction IDs the documented
// way, duplicating the odd leaf out.
func TestMerkleTreeStore(t *testing.T) {
	transactions := []*util.Tx{
		createTestCoinbase(t),
		createTestTransaction(t),
		createTestTransaction(t),
	}

	merkles, mutated := BuildMerkleTreeStore(transactions)
	if mutated {
		t.Fatal("BuildMerkleTreeStore reported a mutation for distinct transactions")
	}
	root := merkles[len(merkles)-1]

	h1 := chainhash.Hash(*transactions[0].ID())
	h2 := chainhash.Hash(*transactions[1].ID())
	h3 := chainhash.Hash(*transactions[2].ID())
	want := HashMerkleBranches(
		HashMerkleBranches(&h1, &h2),
		HashMerkleBranches(&h3, &h3))
	if !root.IsEqual(want) {
		t.Fatalf("BuildMerkleTreeStore: got root %s, want %s", root, want)
	}
}

// TestMerkleTreeStoreSingleTransaction ensures a lone transaction is its own
// merkle root.
func TestMerkleTreeStoreSingleTransaction(t *testing.T) {
	coinbase := createTestCoinbase(t)

	merkles, mutated := BuildMerkleTreeStore([]*util.Tx{coinbase})
	if mutated {
		t.Fatal("BuildMerkleTreeStore reported a mutation for a single transaction")
	}
	root := merkles[len(merkles)-1]

	want := chainhash.Hash(*coinbase.ID())
	if !root.IsEqual(&want) {
		t.Fatalf("BuildMerkleTreeStore: got root %s, want %s", root, &want)
	}
}

// TestWitnessMerkleTreeStore ensures the witness tree commits to full
// transaction hashes with a zeroed coinbase leaf.
func TestWitnessMerkleTreeStore(t *testing.T) {
	coinbase := createTestCoinbase(t)
	tx := createTestTransaction(t)

	merkles, _ := BuildWitnessMerkleTreeStore([]*util.Tx{coinbase, tx})
	root := merkles[len(merkles)-1]

	want := HashMerkleBranches(&chainhash.Hash{}, tx.Hash())
	if !root.IsEqual(want) {
		t.Fatalf("BuildWitnessMerkleTreeStore: got root %s, want %s", root, want)
	}

	// A coinbase on its own commits to nothing but the zero hash.
	merkles, _ = BuildWitnessMerkleTreeStore([]*util.Tx{coinbase})
	root = merkles[len(merkles)-1]
	if !root.IsEqual(&chainhash.Hash{}) {
		t.Fatalf("BuildWitnessMerkleTreeStore: got root %s for a lone "+
			"coinbase, want the zero hash", root)
	}
}

// TestMerkleTreeStoreMutation ensures an aligned pair of equal leaves trips
// the mutation flag while forced duplication of the odd leaf out does not.
func TestMerkleTreeStoreMutation(t *testing.T) {
	coinbase := createTestCoinbase(t)
	tx := createTestTransaction(t)
	duplicated := createTestTransaction(t)

	_, mutated := BuildMerkleTreeStore([]*util.Tx{
		coinbase, tx, duplicated, duplicated,
	})
	if !mutated {
		t.Fatal("BuildMerkleTreeStore missed an equal aligned leaf pair")
	}

	_, mutated = BuildMerkleTreeStore([]*util.Tx{coinbase, tx})
	if mutated {
		t.Fatal("BuildMerkleTreeStore flagged a list without equal pairs")
	}
}
