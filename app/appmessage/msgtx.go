// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"
	"strconv"

	"github.com/meridiannet/meridiand/util/binaryserializer"
	"github.com/meridiannet/meridiand/util/chainhash"
	"github.com/pkg/errors"
)

const (
	// TxVersion is the current latest supported transaction version.
	TxVersion int32 = 1

	// MaxTxInSequenceNum is the maximum sequence number the sequence field
	// of a transaction input can be. An input with this sequence number is
	// treated as final regardless of the transaction lock time.
	MaxTxInSequenceNum uint32 = 0xffffffff

	// MaxPrevOutIndex is the maximum index the index field of a previous
	// outpoint can be.
	MaxPrevOutIndex uint32 = 0xffffffff

	// defaultTxInOutAlloc is the default size used for the backing array
	// for transaction inputs and outputs. The array will dynamically grow
	// as needed, but this figure is intended to provide enough space for
	// the number of inputs and outputs in a typical transaction without
	// needing to grow the backing array multiple times.
	defaultTxInOutAlloc = 15

	// minTxInPayload is the minimum payload size for a transaction input.
	// PreviousOutpoint.TxID + PreviousOutpoint.Index 4 bytes + Varint for
	// SignatureScript length 1 byte + Sequence 4 bytes.
	minTxInPayload = 9 + chainhash.HashSize

	// maxTxInPerMessage is the maximum number of transaction inputs that
	// a transaction which fits into a message could possibly have.
	maxTxInPerMessage = (MaxMessagePayload / minTxInPayload) + 1

	// MinTxOutPayload is the minimum payload size for a transaction
	// output. Value 8 bytes + Varint for ScriptPubKey length 1 byte.
	MinTxOutPayload = 9

	// maxTxOutPerMessage is the maximum number of transaction outputs that
	// a transaction which fits into a message could possibly have.
	maxTxOutPerMessage = (MaxMessagePayload / MinTxOutPayload) + 1

	// maxWitnessItemsPerInput is the maximum number of witness items to
	// be read for the witness data for a single TxIn.
	maxWitnessItemsPerInput = 500000

	// maxWitnessItemSize is the maximum allowed size for an item within
	// an input's witness data.
	maxWitnessItemSize = 11000

	// witnessMarkerLen is the length of the marker and flag bytes that
	// prefix the input counter of a transaction serialized with witness
	// data.
	witnessMarkerLen = 2

	// minTxPayload is the minimum payload size for a transaction. Version
	// 4 bytes + Type 2 bytes + Varint number of transaction inputs 1
	// byte + Varint number of transaction outputs 1 byte + LockTime 8
	// bytes + min input payload + min output payload.
	minTxPayload = 16
)

// TxType is the transaction type tag. The tag, not the shape of the inputs,
// decides whether a transaction is a coinbase.
type TxType uint16

// The known transaction types.
const (
	// TxTypeRegular is an ordinary value transfer.
	TxTypeRegular TxType = iota

	// TxTypeCoinbase is the reward transaction leading a block.
	TxTypeCoinbase
)

// String returns the TxType in human-readable form.
func (t TxType) String() string {
	switch t {
	case TxTypeRegular:
		return "regular"
	case TxTypeCoinbase:
		return "coinbase"
	default:
		return "unknown type " + strconv.FormatUint(uint64(t), 10)
	}
}

// Outpoint defines a meridian data type that is used to track previous
// transaction outputs.
type Outpoint struct {
	TxID  chainhash.TxID
	Index uint32
}

// NewOutpoint returns a new meridian transaction outpoint with the provided
// transaction ID and index.
func NewOutpoint(txID *chainhash.TxID, index uint32) *Outpoint {
	return &Outpoint{
		TxID:  *txID,
		Index: index,
	}
}

// String returns the Outpoint in the human-readable form "txID:index".
func (o Outpoint) String() string {
	// Allocate enough for ID string, colon, and 10 digits, which will fit
	// any uint32.
	buf := make([]byte, 2*chainhash.HashSize+1, 2*chainhash.HashSize+1+10)
	copy(buf, o.TxID.String())
	buf[2*chainhash.HashSize] = ':'
	buf = strconv.AppendUint(buf, uint64(o.Index), 10)
	return string(buf)
}

// TxWitness defines the witness for a TxIn. A witness is to be interpreted
// as a slice of byte slices, or a stack with one or many elements.
type TxWitness [][]byte

// SerializeSize returns the number of bytes it would take to serialize the
// transaction input's witness.
func (t TxWitness) SerializeSize() int {
	// A varint to signal the number of elements the witness has.
	n := VarIntSerializeSize(uint64(len(t)))

	// For each element in the witness, we'll need a varint to signal the
	// size of the element, then finally the number of bytes the element
	// itself comprises.
	for _, witItem := range t {
		n += VarIntSerializeSize(uint64(len(witItem)))
		n += len(witItem)
	}

	return n
}

// TxIn defines a meridian transaction input.
type TxIn struct {
	PreviousOutpoint Outpoint
	SignatureScript  []byte
	Witness          TxWitness
	Sequence         uint32
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction input, excluding any witness data.
func (t *TxIn) SerializeSize() int {
	// Outpoint TxID 32 bytes + Outpoint Index 4 bytes + Sequence 4 bytes +
	// serialized varint size for the length of SignatureScript +
	// SignatureScript bytes.
	return 40 + VarIntSerializeSize(uint64(len(t.SignatureScript))) +
		len(t.SignatureScript)
}

// NewTxIn returns a new meridian transaction input with the provided
// previous outpoint and signature script with a default sequence of
// MaxTxInSequenceNum.
func NewTxIn(prevOut *Outpoint, signatureScript []byte, witness TxWitness) *TxIn {
	return &TxIn{
		PreviousOutpoint: *prevOut,
		SignatureScript:  signatureScript,
		Witness:          witness,
		Sequence:         MaxTxInSequenceNum,
	}
}

// TxOut defines a meridian transaction output.
type TxOut struct {
	Value        uint64
	ScriptPubKey []byte
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction output.
func (t *TxOut) SerializeSize() int {
	// Value 8 bytes + serialized varint size for the length of
	// ScriptPubKey + ScriptPubKey bytes.
	return 8 + VarIntSerializeSize(uint64(len(t.ScriptPubKey))) +
		len(t.ScriptPubKey)
}

// NewTxOut returns a new meridian transaction output with the provided
// transaction value and public key script.
func NewTxOut(value uint64, scriptPubKey []byte) *TxOut {
	return &TxOut{
		Value:        value,
		ScriptPubKey: scriptPubKey,
	}
}

// MsgTx represents a meridian transaction. It carries the type tag that
// separates coinbase rewards from regular transfers, and per-input witness
// stacks when segregated witness data is present.
//
// Use the AddTxIn and AddTxOut functions to build up the list of transaction
// inputs and outputs.
type MsgTx struct {
	Version  int32
	Type     TxType
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint64
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// IsCoinBase determines whether or not a transaction is a coinbase
// transaction. The coinbase leads every block and mints the block reward;
// it is identified by its type tag alone.
func (msg *MsgTx) IsCoinBase() bool {
	return msg.Type == TxTypeCoinbase
}

// HasWitness returns whether or not any of the inputs within the transaction
// contain witness data.
func (msg *MsgTx) HasWitness() bool {
	for _, txIn := range msg.TxIn {
		if len(txIn.Witness) != 0 {
			return true
		}
	}

	return false
}

// TxID generates the identifier of the transaction: the digest of the
// serialization that excludes all witness data. This is the identifier used
// for block ordering, duplicate detection and the transaction merkle tree.
func (msg *MsgTx) TxID() chainhash.TxID {
	writer := chainhash.NewTxIDWriter()
	err := msg.serialize(writer, false)
	if err != nil {
		// The hash writer never fails, so neither can the serialization.
		panic(errors.Wrap(err, "TxID digest should never fail"))
	}
	return chainhash.TxID(writer.Finalize())
}

// TxHash generates the hash of the transaction over the full serialization,
// witness data included. For a transaction without witness data this is the
// TxID under a different hashing domain.
func (msg *MsgTx) TxHash() chainhash.Hash {
	writer := chainhash.NewTxHashWriter()
	err := msg.serialize(writer, true)
	if err != nil {
		// The hash writer never fails, so neither can the serialization.
		panic(errors.Wrap(err, "TxHash digest should never fail"))
	}
	return writer.Finalize()
}

// Copy creates a deep copy of a transaction so that the original does not get
// modified when the copy is manipulated.
func (msg *MsgTx) Copy() *MsgTx {
	// Create new tx and start by copying primitive values and making space
	// for the transaction inputs and outputs.
	newTx := MsgTx{
		Version:  msg.Version,
		Type:     msg.Type,
		TxIn:     make([]*TxIn, 0, len(msg.TxIn)),
		TxOut:    make([]*TxOut, 0, len(msg.TxOut)),
		LockTime: msg.LockTime,
	}

	// Deep copy the old TxIn data.
	for _, oldTxIn := range msg.TxIn {
		// Deep copy the old previous outpoint.
		oldOutpoint := oldTxIn.PreviousOutpoint
		newOutpoint := Outpoint{}
		newOutpoint.TxID = oldOutpoint.TxID
		newOutpoint.Index = oldOutpoint.Index

		// Deep copy the old signature script.
		var newScript []byte
		oldScript := oldTxIn.SignatureScript
		oldScriptLen := len(oldScript)
		if oldScriptLen > 0 {
			newScript = make([]byte, oldScriptLen)
			copy(newScript, oldScript[:oldScriptLen])
		}

		// Create new txIn with the deep copied data.
		newTxIn := TxIn{
			PreviousOutpoint: newOutpoint,
			SignatureScript:  newScript,
			Sequence:         oldTxIn.Sequence,
		}

		// If the transaction is witnessy, then also copy the witness
		// stack of this input.
		if len(oldTxIn.Witness) != 0 {
			newTxIn.Witness = make(TxWitness, len(oldTxIn.Witness))
			for i, oldItem := range oldTxIn.Witness {
				newItem := make([]byte, len(oldItem))
				copy(newItem, oldItem)
				newTxIn.Witness[i] = newItem
			}
		}

		// Finally, append this fully copied txin.
		newTx.TxIn = append(newTx.TxIn, &newTxIn)
	}

	// Deep copy the old TxOut data.
	for _, oldTxOut := range msg.TxOut {
		// Deep copy the old ScriptPubKey.
		var newScript []byte
		oldScript := oldTxOut.ScriptPubKey
		oldScriptLen := len(oldScript)
		if oldScriptLen > 0 {
			newScript = make([]byte, oldScriptLen)
			copy(newScript, oldScript[:oldScriptLen])
		}

		// Create new txOut with the deep copied data and append it to
		// new Tx.
		newTxOut := TxOut{
			Value:        oldTxOut.Value,
			ScriptPubKey: newScript,
		}
		newTx.TxOut = append(newTx.TxOut, &newTxOut)
	}

	return &newTx
}

// Deserialize decodes a transaction from r into the receiver. The encoding
// is self-describing: witness data is picked up when the witness marker is
// present.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	err := ReadElement(r, &msg.Version)
	if err != nil {
		return err
	}

	var txType uint16
	err = ReadElement(r, &txType)
	if err != nil {
		return err
	}
	msg.Type = TxType(txType)

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}

	// A count of zero (meaning no TxIn's to the uninitiated) indicates
	// that the value is a serialization marker for witness data.
	var hasWitness bool
	if count == 0 {
		flag, err := binaryserializer.Uint8(r)
		if err != nil {
			return err
		}
		if flag != 0x01 {
			return errors.Errorf("witness tx but flag byte is %x", flag)
		}
		hasWitness = true

		// With the witness flag available, we're able to read the
		// actual input count.
		count, err = ReadVarInt(r)
		if err != nil {
			return err
		}
	}

	// Prevent more input transactions than could possibly fit into a
	// message. It would be possible to cause memory exhaustion and panics
	// without a sane upper bound on this count.
	if count > uint64(maxTxInPerMessage) {
		return errors.Errorf("too many input transactions to fit into "+
			"max message size [count %d, max %d]", count, maxTxInPerMessage)
	}

	msg.TxIn = make([]*TxIn, count)
	for i := uint64(0); i < count; i++ {
		txIn := TxIn{}
		err = readTxIn(r, &txIn)
		if err != nil {
			return err
		}
		msg.TxIn[i] = &txIn
	}

	count, err = ReadVarInt(r)
	if err != nil {
		return err
	}

	// Prevent more output transactions than could possibly fit into a
	// message.
	if count > uint64(maxTxOutPerMessage) {
		return errors.Errorf("too many output transactions to fit into "+
			"max message size [count %d, max %d]", count, maxTxOutPerMessage)
	}

	msg.TxOut = make([]*TxOut, count)
	for i := uint64(0); i < count; i++ {
		txOut := TxOut{}
		err = readTxOut(r, &txOut)
		if err != nil {
			return err
		}
		msg.TxOut[i] = &txOut
	}

	// If the transaction's serialization was marked as including witness
	// data, then read a witness stack for each input.
	if hasWitness {
		for _, txIn := range msg.TxIn {
			witCount, err := ReadVarInt(r)
			if err != nil {
				return err
			}
			if witCount > maxWitnessItemsPerInput {
				return errors.Errorf("too many witness items to fit "+
					"into max message size [count %d, max %d]",
					witCount, maxWitnessItemsPerInput)
			}

			txIn.Witness = make(TxWitness, witCount)
			for j := uint64(0); j < witCount; j++ {
				txIn.Witness[j], err = ReadVarBytes(r,
					maxWitnessItemSize, "script witness item")
				if err != nil {
					return err
				}
			}
		}
	}

	return ReadElement(r, &msg.LockTime)
}

// Serialize encodes the transaction to w, including any witness data.
func (msg *MsgTx) Serialize(w io.Writer) error {
	return msg.serialize(w, true)
}

// SerializeNoWitness encodes the transaction to w in an identical manner to
// Serialize, however even if the source transaction has inputs with witness
// data, the old serialization format will still be used.
func (msg *MsgTx) SerializeNoWitness(w io.Writer) error {
	return msg.serialize(w, false)
}

func (msg *MsgTx) serialize(w io.Writer, includeWitness bool) error {
	err := WriteElement(w, msg.Version)
	if err != nil {
		return err
	}

	err = WriteElement(w, uint16(msg.Type))
	if err != nil {
		return err
	}

	// If the encoding carries witness data, a marker and flag precede the
	// input count. The zero marker cannot collide with a real input count
	// because transactions without inputs are rejected long before they
	// are encoded.
	doWitness := includeWitness && msg.HasWitness()
	if doWitness {
		err = binaryserializer.PutUint8(w, 0x00)
		if err != nil {
			return err
		}
		err = binaryserializer.PutUint8(w, 0x01)
		if err != nil {
			return err
		}
	}

	err = WriteVarInt(w, uint64(len(msg.TxIn)))
	if err != nil {
		return err
	}

	for _, txIn := range msg.TxIn {
		err = writeTxIn(w, txIn)
		if err != nil {
			return err
		}
	}

	err = WriteVarInt(w, uint64(len(msg.TxOut)))
	if err != nil {
		return err
	}

	for _, txOut := range msg.TxOut {
		err = writeTxOut(w, txOut)
		if err != nil {
			return err
		}
	}

	if doWitness {
		for _, txIn := range msg.TxIn {
			err = writeTxWitness(w, txIn.Witness)
			if err != nil {
				return err
			}
		}
	}

	return WriteElement(w, msg.LockTime)
}

// baseSize returns the serialized size of the transaction without accounting
// for any witness data.
func (msg *MsgTx) baseSize() int {
	// Version 4 bytes + Type 2 bytes + LockTime 8 bytes + serialized
	// varint size for the number of transaction inputs and outputs.
	n := 14 + VarIntSerializeSize(uint64(len(msg.TxIn))) +
		VarIntSerializeSize(uint64(len(msg.TxOut)))

	for _, txIn := range msg.TxIn {
		n += txIn.SerializeSize()
	}

	for _, txOut := range msg.TxOut {
		n += txOut.SerializeSize()
	}

	return n
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction, witness data included.
func (msg *MsgTx) SerializeSize() int {
	n := msg.baseSize()

	if msg.HasWitness() {
		// The marker, and flag fields take up two additional bytes.
		n += witnessMarkerLen

		// Additionally, factor in the serialized size of each of the
		// witnesses for each txin.
		for _, txIn := range msg.TxIn {
			n += txIn.Witness.SerializeSize()
		}
	}

	return n
}

// SerializeSizeStripped returns the number of bytes it would take to
// serialize the transaction, excluding any witness data.
func (msg *MsgTx) SerializeSizeStripped() int {
	return msg.baseSize()
}

// NewMsgTx returns a meridian transaction with the provided version. The
// returned instance has the regular type tag and no transaction inputs or
// outputs. Also, the lock time is set to zero to indicate the transaction
// is valid immediately as opposed to some time in future.
func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{
		Version: version,
		Type:    TxTypeRegular,
		TxIn:    make([]*TxIn, 0, defaultTxInOutAlloc),
		TxOut:   make([]*TxOut, 0, defaultTxInOutAlloc),
	}
}

// readOutpoint reads the next sequence of bytes from r as an Outpoint.
func readOutpoint(r io.Reader, o *Outpoint) error {
	err := ReadElement(r, &o.TxID)
	if err != nil {
		return err
	}

	return ReadElement(r, &o.Index)
}

// writeOutpoint encodes o to w.
func writeOutpoint(w io.Writer, o *Outpoint) error {
	err := WriteElement(w, &o.TxID)
	if err != nil {
		return err
	}

	return WriteElement(w, o.Index)
}

// readTxIn reads the next sequence of bytes from r as a transaction input.
func readTxIn(r io.Reader, ti *TxIn) error {
	err := readOutpoint(r, &ti.PreviousOutpoint)
	if err != nil {
		return err
	}

	ti.SignatureScript, err = ReadVarBytes(r, MaxMessagePayload,
		"transaction input signature script")
	if err != nil {
		return err
	}

	return ReadElement(r, &ti.Sequence)
}

// writeTxIn encodes ti to w, excluding any witness data.
func writeTxIn(w io.Writer, ti *TxIn) error {
	err := writeOutpoint(w, &ti.PreviousOutpoint)
	if err != nil {
		return err
	}

	err = WriteVarBytes(w, ti.SignatureScript)
	if err != nil {
		return err
	}

	return WriteElement(w, ti.Sequence)
}

// readTxOut reads the next sequence of bytes from r as a transaction output.
func readTxOut(r io.Reader, to *TxOut) error {
	err := ReadElement(r, &to.Value)
	if err != nil {
		return err
	}

	to.ScriptPubKey, err = ReadVarBytes(r, MaxMessagePayload,
		"transaction output public key script")
	return err
}

// writeTxOut encodes to to w.
func writeTxOut(w io.Writer, to *TxOut) error {
	err := WriteElement(w, to.Value)
	if err != nil {
		return err
	}

	return WriteVarBytes(w, to.ScriptPubKey)
}

// writeTxWitness encodes the transaction input's witness stack to w.
func writeTxWitness(w io.Writer, wit TxWitness) error {
	err := WriteVarInt(w, uint64(len(wit)))
	if err != nil {
		return err
	}
	for _, item := range wit {
		err = WriteVarBytes(w, item)
		if err != nil {
			return err
		}
	}

	return nil
}
