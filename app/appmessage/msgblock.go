// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"

	"github.com/meridiannet/meridiand/util/chainhash"
	"github.com/pkg/errors"
)

// defaultTransactionAlloc is the default size used for the backing array
// for transactions. The transaction array will dynamically grow as needed,
// but this figure is intended to provide enough space for the number of
// transactions in the vast majority of blocks without needing to grow the
// backing array multiple times.
const defaultTransactionAlloc = 2048

// MaxBlocksPerMsg is the maximum number of blocks allowed per message.
const MaxBlocksPerMsg = 500

// maxTxPerBlock is the maximum number of transactions that could possibly
// fit into a block.
const maxTxPerBlock = (MaxMessagePayload / minTxPayload) + 1

// MsgBlock represents a meridian block: a header followed by the block's
// transactions, led by the coinbase.
type MsgBlock struct {
	Header       MsgBlockHeader
	Transactions []*MsgTx
}

// AddTransaction adds a transaction to the message.
func (msg *MsgBlock) AddTransaction(tx *MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// ClearTransactions removes all transactions from the message.
func (msg *MsgBlock) ClearTransactions() {
	msg.Transactions = make([]*MsgTx, 0, defaultTransactionAlloc)
}

// Serialize encodes the block to w, including witness data for all
// transactions that carry any.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	return msg.serialize(w, true)
}

// SerializeNoWitness encodes the block to w using the stripped transaction
// encoding regardless of the presence of witness data.
func (msg *MsgBlock) SerializeNoWitness(w io.Writer) error {
	return msg.serialize(w, false)
}

func (msg *MsgBlock) serialize(w io.Writer, includeWitness bool) error {
	err := writeBlockHeader(w, &msg.Header)
	if err != nil {
		return err
	}

	err = WriteVarInt(w, uint64(len(msg.Transactions)))
	if err != nil {
		return err
	}

	for _, tx := range msg.Transactions {
		err = tx.serialize(w, includeWitness)
		if err != nil {
			return err
		}
	}

	return nil
}

// Deserialize decodes a block from r into the receiver.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	err := readBlockHeader(r, &msg.Header)
	if err != nil {
		return err
	}

	txCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}

	// Prevent more transactions than could possibly fit into a block.
	// It would be possible to cause memory exhaustion and panics without
	// a sane upper bound on this count.
	if txCount > maxTxPerBlock {
		return errors.Errorf("too many transactions to fit into a block "+
			"[count %d, max %d]", txCount, maxTxPerBlock)
	}

	msg.Transactions = make([]*MsgTx, 0, txCount)
	for i := uint64(0); i < txCount; i++ {
		tx := MsgTx{}
		err := tx.Deserialize(r)
		if err != nil {
			return err
		}
		msg.Transactions = append(msg.Transactions, &tx)
	}

	return nil
}

// SerializeSize returns the number of bytes it would take to serialize the
// block, witness data included.
func (msg *MsgBlock) SerializeSize() int {
	// Block header bytes + serialized varint size for the number of
	// transactions.
	n := BlockHeaderPayload + VarIntSerializeSize(uint64(len(msg.Transactions)))

	for _, tx := range msg.Transactions {
		n += tx.SerializeSize()
	}

	return n
}

// SerializeSizeStripped returns the number of bytes it would take to
// serialize the block, excluding any witness data.
func (msg *MsgBlock) SerializeSizeStripped() int {
	n := BlockHeaderPayload + VarIntSerializeSize(uint64(len(msg.Transactions)))

	for _, tx := range msg.Transactions {
		n += tx.SerializeSizeStripped()
	}

	return n
}

// BlockHash computes the block identifier hash for this block.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// TxIDs returns a slice of IDs of all of transactions in this block.
func (msg *MsgBlock) TxIDs() []*chainhash.TxID {
	txIDs := make([]*chainhash.TxID, 0, len(msg.Transactions))

	for _, tx := range msg.Transactions {
		id := tx.TxID()
		txIDs = append(txIDs, &id)
	}

	return txIDs
}

// NewMsgBlock returns a new meridian block with the provided header and no
// transactions.
func NewMsgBlock(blockHeader *MsgBlockHeader) *MsgBlock {
	return &MsgBlock{
		Header:       *blockHeader,
		Transactions: make([]*MsgTx, 0, defaultTransactionAlloc),
	}
}
