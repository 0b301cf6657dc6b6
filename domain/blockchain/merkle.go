// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math"

	"github.com/meridiannet/meridiand/util"
	"github.com/meridiannet/meridiand/util/chainhash"
)

// nextPowerOfTwo returns the next highest power of two from a given number if
// it is not already a power of two. This is a helper function used during the
// calculation of a merkle tree.
func nextPowerOfTwo(n int) int {
	// Return the number if it's already a power of 2.
	if n&(n-1) == 0 {
		return n
	}

	// Figure out and return the next power of two.
	exponent := uint(math.Log2(float64(n))) + 1
	return 1 << exponent // 2^exponent
}

// HashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash of their concatenation. This is a helper
// function used to aid in the generation of a merkle tree.
func HashMerkleBranches(left *chainhash.Hash, right *chainhash.Hash) *chainhash.Hash {
	writer := chainhash.NewMerkleBranchWriter()
	writer.InfallibleWrite(left[:])
	writer.InfallibleWrite(right[:])

	newHash := writer.Finalize()
	return &newHash
}

// BuildMerkleTreeStore creates a merkle tree from a slice of transactions,
// stores it using a linear array, and returns a slice of the backing array
// along with a flag reporting whether a mutation was detected. A linear array
// was chosen as opposed to an actual tree structure since it uses about half
// as much memory. The following describes a merkle tree and how it is stored
// in a linear array.
//
// A merkle tree is a tree in which every non-leaf node is the hash of its
// children nodes. A diagram depicting how this works for meridian
// transactions where h(x) is a keyed blake2b hash follows:
//
//	         root = h1234 = h(h12 + h34)
//	        /                           \
//	  h12 = h(h1 + h2)            h34 = h(h3 + h4)
//	   /            \              /            \
//	h1 = h(tx1)  h2 = h(tx2)  h3 = h(tx3)  h4 = h(tx4)
//
// The above stored as a linear array is as follows:
//
//	[h1 h2 h3 h4 h12 h34 root]
//
// As the above shows, the merkle root is always the last element in the
// array.
//
// The number of inputs is not always a power of two which results in a
// balanced tree structure as above. In that case, parent nodes with no
// children are also zero and parent nodes with only a single left node are
// calculated by concatenating the left node with itself before hashing.
// Since this method of duplicating the final transaction allows two
// different transaction lists to produce the same root, the mutated return
// reports whether any adjacent pair of equal hashes was found while folding;
// forced duplications of the last element do not count.
func BuildMerkleTreeStore(transactions []*util.Tx) ([]*chainhash.Hash, bool) {
	leaves := make([]*chainhash.Hash, 0, len(transactions))
	for _, tx := range transactions {
		id := chainhash.Hash(*tx.ID())
		leaves = append(leaves, &id)
	}
	return buildMerkleTreeStore(leaves)
}

// BuildWitnessMerkleTreeStore builds the witness form of the transaction
// merkle tree. The witness tree commits to the full transaction hashes,
// witness data included, except for the coinbase whose leaf is the zero hash
// so the root never depends on the coinbase's own witness slot.
func BuildWitnessMerkleTreeStore(transactions []*util.Tx) ([]*chainhash.Hash, bool) {
	leaves := make([]*chainhash.Hash, 0, len(transactions))
	for i, tx := range transactions {
		if i == util.CoinbaseTransactionIndex {
			leaves = append(leaves, &chainhash.Hash{})
			continue
		}
		leaves = append(leaves, tx.Hash())
	}
	return buildMerkleTreeStore(leaves)
}

// buildMerkleTreeStore folds the given leaves into a merkle tree stored as a
// linear array, reporting whether an equal adjacent pair was hashed anywhere
// in the tree.
func buildMerkleTreeStore(leaves []*chainhash.Hash) ([]*chainhash.Hash, bool) {
	// Calculate how many entries are required to hold the binary merkle
	// tree as a linear array and create an array of that size.
	nextPoT := nextPowerOfTwo(len(leaves))
	arraySize := nextPoT*2 - 1
	merkles := make([]*chainhash.Hash, arraySize)
	copy(merkles, leaves)

	// Start the array offset after the last leaf and loop through
	// each level of the tree building up the hashes of the lower level
	// nodes toward the root.
	mutated := false
	offset := nextPoT
	for i := 0; i < arraySize-1; i += 2 {
		switch {
		// When there is no left child node, the parent is nil too.
		case merkles[i] == nil:
			merkles[offset] = nil

		// When there is no right child, the parent is generated by
		// hashing the concatenation of the left child with itself.
		case merkles[i+1] == nil:
			newHash := HashMerkleBranches(merkles[i], merkles[i])
			merkles[offset] = newHash

		// The normal case sets the parent node to the hash of the
		// concatenation of the left and right children. Two equal
		// children here mean the transaction list was mutated into a
		// form that shares this tree's root with another list.
		default:
			if merkles[i].IsEqual(merkles[i+1]) {
				mutated = true
			}
			newHash := HashMerkleBranches(merkles[i], merkles[i+1])
			merkles[offset] = newHash
		}
		offset++
	}

	return merkles, mutated
}
