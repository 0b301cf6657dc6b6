// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"

	"github.com/meridiannet/meridiand/util/chainhash"
	"github.com/pkg/errors"
)

// BlockHeaderPayload is the number of bytes a block header can be.
// Version 4 bytes + PrevBlock hash + HashMerkleRoot hash +
// HashWitnessMerkleRoot hash + Timestamp 8 bytes + Bits 4 bytes.
const BlockHeaderPayload = 16 + 3*chainhash.HashSize

// MsgBlockHeader defines information about a block and is used in the
// meridian block message. Block production is proposer-based, so there is
// no nonce; the witness merkle root is committed directly in the header
// rather than in a coinbase output.
type MsgBlockHeader struct {
	// Version of the block. This is not the same as the protocol version.
	Version int32

	// Hash of the previous block in the block chain.
	PrevBlock chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	HashMerkleRoot chainhash.Hash

	// Merkle tree reference to the witness hashes of all transactions for
	// the block.
	HashWitnessMerkleRoot chainhash.Hash

	// Time the block was created, in Unix seconds.
	Timestamp int64

	// Difficulty target for the block.
	Bits uint32
}

// BlockHash computes the block identifier hash for the given block header.
func (h *MsgBlockHeader) BlockHash() chainhash.Hash {
	writer := chainhash.NewBlockHashWriter()
	err := writeBlockHeader(writer, h)
	if err != nil {
		// The hash writer never fails, so neither can the serialization.
		panic(errors.Wrap(err, "BlockHash digest should never fail"))
	}
	return writer.Finalize()
}

// IsGenesis checks if the header is the header of a genesis block: one that
// references no previous block.
func (h *MsgBlockHeader) IsGenesis() bool {
	return h.PrevBlock == chainhash.Hash{}
}

// Serialize encodes a block header from h into w.
func (h *MsgBlockHeader) Serialize(w io.Writer) error {
	return writeBlockHeader(w, h)
}

// Deserialize decodes a block header from r into the receiver.
func (h *MsgBlockHeader) Deserialize(r io.Reader) error {
	return readBlockHeader(r, h)
}

// SerializeSize returns the number of bytes it would take to serialize the
// block header.
func (h *MsgBlockHeader) SerializeSize() int {
	return BlockHeaderPayload
}

// NewBlockHeader returns a new MsgBlockHeader using the provided version,
// previous block hash, merkle root hashes, and timestamp.
func NewBlockHeader(version int32, prevBlock *chainhash.Hash, hashMerkleRoot *chainhash.Hash,
	hashWitnessMerkleRoot *chainhash.Hash, timestamp int64, bits uint32) *MsgBlockHeader {

	return &MsgBlockHeader{
		Version:               version,
		PrevBlock:             *prevBlock,
		HashMerkleRoot:        *hashMerkleRoot,
		HashWitnessMerkleRoot: *hashWitnessMerkleRoot,
		Timestamp:             timestamp,
		Bits:                  bits,
	}
}

// readBlockHeader reads a block header from r.
func readBlockHeader(r io.Reader, h *MsgBlockHeader) error {
	err := ReadElement(r, &h.Version)
	if err != nil {
		return err
	}
	err = ReadElement(r, &h.PrevBlock)
	if err != nil {
		return err
	}
	err = ReadElement(r, &h.HashMerkleRoot)
	if err != nil {
		return err
	}
	err = ReadElement(r, &h.HashWitnessMerkleRoot)
	if err != nil {
		return err
	}
	err = ReadElement(r, &h.Timestamp)
	if err != nil {
		return err
	}
	return ReadElement(r, &h.Bits)
}

// writeBlockHeader writes a block header to w.
func writeBlockHeader(w io.Writer, h *MsgBlockHeader) error {
	return WriteElements(w, h.Version, &h.PrevBlock, &h.HashMerkleRoot,
		&h.HashWitnessMerkleRoot, h.Timestamp, h.Bits)
}
