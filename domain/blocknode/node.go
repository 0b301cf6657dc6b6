// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocknode

import (
	"sort"

	"github.com/meridiannet/meridiand/app/appmessage"
	"github.com/meridiannet/meridiand/util/chainhash"
)

// medianTimeBlocks is the number of previous blocks which should be used to
// calculate the median time used to validate block timestamps.
const medianTimeBlocks = 11

// BlockNode represents a block within the block chain and is primarily used
// to aid in validating new blocks in their chain context. Nodes are owned
// by the Index that created them and live in its chunked backing storage,
// so they must never be copied.
type BlockNode struct {
	// NOTE: Additions, deletions, or modifications to the order of the
	// definitions in this struct should not be changed without
	// considering how it affects alignment on 64-bit platforms. The
	// current order is specifically crafted to result in minimal padding.
	// There will be hundreds of thousands of these in memory, so a few
	// extra bytes of padding adds up.

	// parent is the parent block for this node.
	parent *BlockNode

	// hash is the hash of the block this node represents.
	hash chainhash.Hash

	// height is the position in the block chain.
	height uint64

	// Some fields from block headers to aid in reconstructing headers
	// from memory. These must be treated as immutable and are
	// intentionally ordered to avoid padding on 64-bit platforms.
	timestamp             int64
	hashMerkleRoot        chainhash.Hash
	hashWitnessMerkleRoot chainhash.Hash
	version               int32
	bits                  uint32
}

// initBlockNode initializes a block node from the given header and parent
// node. The node is expected to have been allocated by the owning Index.
//
// This function is NOT safe for concurrent access.
func initBlockNode(node *BlockNode, blockHeader *appmessage.MsgBlockHeader, parent *BlockNode) {
	*node = BlockNode{
		hash:                  blockHeader.BlockHash(),
		version:               blockHeader.Version,
		bits:                  blockHeader.Bits,
		timestamp:             blockHeader.Timestamp,
		hashMerkleRoot:        blockHeader.HashMerkleRoot,
		hashWitnessMerkleRoot: blockHeader.HashWitnessMerkleRoot,
	}
	if parent != nil {
		node.parent = parent
		node.height = parent.height + 1
	}
}

// Hash returns the hash of the block this node represents.
func (node *BlockNode) Hash() *chainhash.Hash {
	return &node.hash
}

// Height returns the position of the node in the block chain.
func (node *BlockNode) Height() uint64 {
	return node.height
}

// Timestamp returns the block timestamp in Unix seconds.
func (node *BlockNode) Timestamp() int64 {
	return node.timestamp
}

// Bits returns the difficulty bits of the block this node represents.
func (node *BlockNode) Bits() uint32 {
	return node.bits
}

// Version returns the block version.
func (node *BlockNode) Version() int32 {
	return node.version
}

// Parent returns the parent of the node, or nil for the genesis block.
func (node *BlockNode) Parent() *BlockNode {
	return node.parent
}

// IsGenesis returns whether the node represents the genesis block.
func (node *BlockNode) IsGenesis() bool {
	return node.parent == nil
}

// Header constructs a block header from the node and returns it.
//
// This function is safe for concurrent access.
func (node *BlockNode) Header() appmessage.MsgBlockHeader {
	// No lock is needed because all accessed fields are immutable.
	prevBlock := chainhash.Hash{}
	if node.parent != nil {
		prevBlock = node.parent.hash
	}
	return appmessage.MsgBlockHeader{
		Version:               node.version,
		PrevBlock:             prevBlock,
		HashMerkleRoot:        node.hashMerkleRoot,
		HashWitnessMerkleRoot: node.hashWitnessMerkleRoot,
		Timestamp:             node.timestamp,
		Bits:                  node.bits,
	}
}

// Ancestor returns the ancestor block node at the provided height by
// following the chain backwards from this node. The returned block will be
// nil when a height is requested that is after the height of the passed
// node.
//
// This function is safe for concurrent access.
func (node *BlockNode) Ancestor(height uint64) *BlockNode {
	if height > node.height {
		return nil
	}

	n := node
	for ; n != nil && n.height != height; n = n.parent {
		// Intentionally left blank
	}

	return n
}

// RelativeAncestor returns the ancestor block node a relative 'distance'
// blocks before this node. This is equivalent to calling Ancestor with the
// node's height minus provided distance.
//
// This function is safe for concurrent access.
func (node *BlockNode) RelativeAncestor(distance uint64) *BlockNode {
	if distance > node.height {
		return nil
	}
	return node.Ancestor(node.height - distance)
}

// PastMedianTime returns the median time of the previous few blocks prior
// to, and including, the block node, in Unix seconds.
//
// This function is safe for concurrent access.
func (node *BlockNode) PastMedianTime() int64 {
	// Create a slice of the previous few block timestamps used to
	// calculate the median per the number defined by the constant
	// medianTimeBlocks.
	timestamps := make([]int64, medianTimeBlocks)
	numNodes := 0
	iterNode := node
	for i := 0; i < medianTimeBlocks && iterNode != nil; i++ {
		timestamps[numNodes] = iterNode.timestamp
		numNodes++
		iterNode = iterNode.parent
	}

	// Prune the slice to the actual number of available timestamps which
	// will be fewer than desired near the beginning of the block chain
	// and sort them.
	timestamps = timestamps[:numNodes]
	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i] < timestamps[j]
	})

	// When the window holds an even number of timestamps there is no
	// true median and the higher of the two middle elements is used.
	medianTimestamp := timestamps[numNodes/2]
	return medianTimestamp
}

// String returns a string that contains the block hash.
func (node *BlockNode) String() string {
	return node.hash.String()
}
