// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocknode

import (
	"sync"

	"github.com/meridiannet/meridiand/app/appmessage"
	"github.com/meridiannet/meridiand/util/chainhash"
	"github.com/pkg/errors"
)

// nodesPerChunk is the number of nodes allocated at a time by the Index.
// Allocating nodes in chunks amortizes allocation overhead and keeps the
// nodes close together in memory, which matters when walking long parent
// chains.
const nodesPerChunk = 1024

// Index provides facilities for keeping track of an in-memory index of the
// block chain. All nodes are allocated from chunked backing arrays owned by
// the index so their addresses stay stable for the lifetime of the index.
type Index struct {
	sync.RWMutex
	index  map[chainhash.Hash]*BlockNode
	chunks [][]BlockNode
}

// NewIndex returns a new empty instance of a block index. The index will be
// dynamically populated as block nodes are added.
func NewIndex() *Index {
	return &Index{
		index: make(map[chainhash.Hash]*BlockNode),
	}
}

// newNode hands out the next node from the tail chunk, growing the backing
// storage by a whole chunk when the tail is full. Chunks are never resized
// once created, so pointers into them remain valid.
//
// This function MUST be called with the index lock held for writes.
func (bi *Index) newNode() *BlockNode {
	if len(bi.chunks) == 0 ||
		len(bi.chunks[len(bi.chunks)-1]) == nodesPerChunk {
		bi.chunks = append(bi.chunks, make([]BlockNode, 0, nodesPerChunk))
	}

	tail := bi.chunks[len(bi.chunks)-1]
	tail = tail[:len(tail)+1]
	bi.chunks[len(bi.chunks)-1] = tail
	return &tail[len(tail)-1]
}

// AddNode allocates a block node for the provided header with the provided
// parent and adds it to the index. The parent is taken as given and is not
// checked against the header, so it is up to the caller to hand in the node
// the header's PrevBlock refers to, or nil for the genesis block.
//
// This function is safe for concurrent access.
func (bi *Index) AddNode(header *appmessage.MsgBlockHeader, parent *BlockNode) *BlockNode {
	bi.Lock()
	defer bi.Unlock()

	node := bi.newNode()
	initBlockNode(node, header, parent)
	bi.index[node.hash] = node
	return node
}

// AddHeader allocates a block node for the provided header, resolving the
// parent node through the header's PrevBlock hash. Headers whose parent is
// not present in the index are rejected, with the exception of headers with
// an all-zero PrevBlock which start a new chain.
//
// This function is safe for concurrent access.
func (bi *Index) AddHeader(header *appmessage.MsgBlockHeader) (*BlockNode, error) {
	bi.Lock()
	defer bi.Unlock()

	var parent *BlockNode
	if !header.IsGenesis() {
		var ok bool
		parent, ok = bi.index[header.PrevBlock]
		if !ok {
			return nil, errors.Errorf("parent block %s is unknown",
				&header.PrevBlock)
		}
	}

	node := bi.newNode()
	initBlockNode(node, header, parent)
	bi.index[node.hash] = node
	return node, nil
}

// HaveNode returns whether or not the block index contains the provided
// hash.
//
// This function is safe for concurrent access.
func (bi *Index) HaveNode(hash *chainhash.Hash) bool {
	bi.RLock()
	defer bi.RUnlock()
	_, hasBlock := bi.index[*hash]
	return hasBlock
}

// LookupNode returns the block node identified by the provided hash. It
// will return nil if there is no entry for the hash.
//
// This function is safe for concurrent access.
func (bi *Index) LookupNode(hash *chainhash.Hash) (*BlockNode, bool) {
	bi.RLock()
	defer bi.RUnlock()
	node, ok := bi.index[*hash]
	return node, ok
}

// NumNodes returns the number of nodes held by the index.
//
// This function is safe for concurrent access.
func (bi *Index) NumNodes() int {
	bi.RLock()
	defer bi.RUnlock()
	return len(bi.index)
}
