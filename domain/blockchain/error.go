// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

// RejectCode identifies the consensus rule a block or transaction violated.
// The codes are stable wire-visible strings carried in reject messages, so
// they must never change once released even when the constant names do.
type RejectCode string

// These constants are the reject codes a validation failure can carry.
const (
	// ErrBlockTooBig indicates the block failed the preliminary size
	// limits, either by being empty, carrying more transactions than
	// could ever fit, or exceeding the stripped-size budget.
	ErrBlockTooBig RejectCode = "bad-blk-length"

	// ErrFirstTxNotCoinbase indicates the first transaction in a block
	// does not carry the coinbase type tag.
	ErrFirstTxNotCoinbase RejectCode = "bad-cb-missing"

	// ErrMultipleCoinbases indicates a block contains more than one
	// transaction with the coinbase type tag.
	ErrMultipleCoinbases RejectCode = "bad-cb-multiple"

	// ErrTransactionsNotSorted indicates the transactions after the
	// coinbase are not sorted in increasing transaction ID order.
	ErrTransactionsNotSorted RejectCode = "bad-tx-ordering"

	// ErrDuplicateTx indicates a block contains the same transaction
	// twice, or a merkle tree mutation disguising one.
	ErrDuplicateTx RejectCode = "bad-txns-duplicate"

	// ErrBadMerkleRoot indicates the calculated merkle root does not
	// match the expected value in the block header.
	ErrBadMerkleRoot RejectCode = "bad-txnmrklroot"

	// ErrBadWitnessMerkleRoot indicates the calculated witness merkle
	// root does not match the expected value in the block header.
	ErrBadWitnessMerkleRoot RejectCode = "bad-witness-merkle-match"

	// ErrTooManySigOps indicates the total weighted signature operation
	// cost of a block exceeds the per-block budget.
	ErrTooManySigOps RejectCode = "bad-blk-sigops"

	// ErrUnfinalizedTx indicates a transaction has not reached its lock
	// time yet at the height and time the block claims.
	ErrUnfinalizedTx RejectCode = "bad-txns-nonfinal"

	// ErrBlockWeightTooHigh indicates the total weight of a block
	// exceeds the maximum allowed weight.
	ErrBlockWeightTooHigh RejectCode = "bad-blk-weight"

	// ErrTimeTooOld indicates the block timestamp is not after the
	// median time of the previous blocks.
	ErrTimeTooOld RejectCode = "time-too-old"

	// ErrTimeTooNew indicates the block timestamp is further in the
	// future than the adjusted time allows.
	ErrTimeTooNew RejectCode = "time-too-new"

	// ErrNoTxInputs indicates a transaction has no inputs.
	ErrNoTxInputs RejectCode = "bad-txns-vin-empty"

	// ErrNoTxOutputs indicates a transaction has no outputs.
	ErrNoTxOutputs RejectCode = "bad-txns-vout-empty"

	// ErrTxTooBig indicates a transaction exceeds the maximum allowed
	// stripped size when serialized.
	ErrTxTooBig RejectCode = "bad-txns-oversize"

	// ErrBadTxOutValue indicates a single transaction output value is
	// higher than the maximum amount of coins that can exist.
	ErrBadTxOutValue RejectCode = "bad-txns-vout-toolarge"

	// ErrBadTxOutTotal indicates the sum of the transaction output
	// values overflows or is higher than the maximum amount of coins
	// that can exist.
	ErrBadTxOutTotal RejectCode = "bad-txns-txouttotal-toolarge"

	// ErrDuplicateTxInputs indicates a transaction references the same
	// previous outpoint more than once.
	ErrDuplicateTxInputs RejectCode = "bad-txns-inputs-duplicate"

	// ErrBadCoinbaseScriptLen indicates the length of the signature
	// script for a coinbase transaction is out of range.
	ErrBadCoinbaseScriptLen RejectCode = "bad-cb-length"

	// ErrBadTxInput indicates a non-coinbase transaction references a
	// null previous outpoint.
	ErrBadTxInput RejectCode = "bad-txns-prevout-null"

	// ErrInternal is recorded when validation fails with an error that
	// does not carry a rule violation, which indicates a bug rather
	// than a bad block.
	ErrInternal RejectCode = "internal-error"
)

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block or transaction failed due to one of the many
// validation rules. The caller can use type assertions to determine if a
// failure was specifically due to a rule violation and access the Code
// field to ascertain the specific reason for the rule violation.
type RuleError struct {
	Code        RejectCode // The stable code to send with reject messages
	Description string     // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c RejectCode, desc string) RuleError {
	return RuleError{Code: c, Description: desc}
}
