// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"math"
	"time"

	"github.com/meridiannet/meridiand/app/appmessage"
	"github.com/meridiannet/meridiand/domain/blocknode"
	"github.com/meridiannet/meridiand/domain/chaincfg"
	"github.com/meridiannet/meridiand/domain/txscript"
	"github.com/meridiannet/meridiand/util"
	"github.com/meridiannet/meridiand/util/chainhash"
)

const (
	// MinCoinbaseScriptLen is the minimum length a coinbase script can be.
	MinCoinbaseScriptLen = 2

	// MaxCoinbaseScriptLen is the maximum length a coinbase script can be.
	MaxCoinbaseScriptLen = 100
)

// BlockValidator carries everything block validation needs: the parameters
// of the network being validated and the clock used to bound timestamps.
// It holds no chain state of its own, so a single validator is safe for
// concurrent use on independent blocks.
type BlockValidator struct {
	params     *chaincfg.Params
	timeSource TimeSource
}

// New returns a BlockValidator for the given network parameters and time
// source.
func New(params *chaincfg.Params, timeSource TimeSource) *BlockValidator {
	return &BlockValidator{
		params:     params,
		timeSource: timeSource,
	}
}

// blockCheck is one named rule of the structural validation pipeline.
type blockCheck struct {
	name  string
	check func(*BlockValidator, *util.Block) error
}

// blockStructuralChecks is the ordered rule pipeline run by CheckBlock.
// Order matters: later checks rely on properties the earlier ones establish.
// The merkle fold, for example, requires a non-empty transaction list, which
// the size-limits check guarantees.
var blockStructuralChecks = []blockCheck{
	{"size-limits", (*BlockValidator).checkBlockSizeLimits},
	{"first-transaction-coinbase", (*BlockValidator).checkFirstTransactionCoinbase},
	{"single-coinbase", (*BlockValidator).checkSingleCoinbase},
	{"transaction-ordering", (*BlockValidator).checkTransactionOrdering},
	{"transaction-sanity", (*BlockValidator).checkTransactionsSanity},
	{"duplicate-transactions", (*BlockValidator).checkDuplicateTransactions},
	{"merkle-root", (*BlockValidator).checkMerkleRoot},
	{"witness-merkle-root", (*BlockValidator).checkWitnessMerkleRoot},
	{"sigop-budget", (*BlockValidator).checkSigOpBudget},
}

// CheckBlock performs the context-free structural checks on a block: size
// limits, coinbase placement, canonical transaction ordering, per-transaction
// sanity, duplicate scanning, both merkle commitments, and the signature
// operation budget. The checks run in pipeline order and the first rule
// violation is recorded in state. It returns true when the block passes
// every check.
//
// The checks require no chain state, no UTXO set, and no clock. A block
// that passes may still be rejected by the contextual checks once its
// position in the chain is known.
func (v *BlockValidator) CheckBlock(block *util.Block, state *ValidationState) bool {
	for _, c := range blockStructuralChecks {
		err := c.check(v, block)
		if err != nil {
			log.Debugf("Block %s failed the %s check: %s", block.Hash(),
				c.name, err)
			return state.recordRuleError(err)
		}
	}
	return true
}

// checkBlockSizeLimits rejects blocks that are trivially too large before
// any expensive work happens: an empty transaction list, more transactions
// than the weight budget could ever admit, or a stripped serialization over
// that same budget.
func (v *BlockValidator) checkBlockSizeLimits(block *util.Block) error {
	msgBlock := block.MsgBlock()
	numTx := int64(len(msgBlock.Transactions))
	if numTx == 0 {
		return ruleError(ErrBlockTooBig, "size limits failed: block "+
			"does not contain any transactions")
	}

	maxBlockWeight := v.params.MaxBlockWeight
	if numTx*WitnessScaleFactor > maxBlockWeight {
		str := fmt.Sprintf("size limits failed: block contains too many "+
			"transactions - got %d, max %d", numTx,
			maxBlockWeight/WitnessScaleFactor)
		return ruleError(ErrBlockTooBig, str)
	}

	serializedSize := int64(msgBlock.SerializeSizeStripped())
	if serializedSize*WitnessScaleFactor > maxBlockWeight {
		str := fmt.Sprintf("size limits failed: serialized block is too "+
			"big - got %d, max %d", serializedSize,
			maxBlockWeight/WitnessScaleFactor)
		return ruleError(ErrBlockTooBig, str)
	}

	return nil
}

// checkFirstTransactionCoinbase ensures a block leads with its coinbase.
func (v *BlockValidator) checkFirstTransactionCoinbase(block *util.Block) error {
	transactions := block.Transactions()
	if !transactions[util.CoinbaseTransactionIndex].IsCoinBase() {
		return ruleError(ErrFirstTxNotCoinbase, "first transaction in "+
			"block is not a coinbase")
	}
	return nil
}

// checkSingleCoinbase ensures no transaction after the first carries the
// coinbase type tag.
func (v *BlockValidator) checkSingleCoinbase(block *util.Block) error {
	transactions := block.Transactions()
	for i, tx := range transactions[util.CoinbaseTransactionIndex+1:] {
		if tx.IsCoinBase() {
			str := fmt.Sprintf("block contains second coinbase at "+
				"index %d", i+1)
			return ruleError(ErrMultipleCoinbases, str)
		}
	}
	return nil
}

// checkTransactionOrdering ensures the transactions after the coinbase are
// sorted in non-decreasing transaction ID order. An equal neighbor pair is
// not an ordering violation; the duplicate scan that follows rejects it with
// the code that names the real problem.
func (v *BlockValidator) checkTransactionOrdering(block *util.Block) error {
	transactions := block.Transactions()
	for i := 2; i < len(transactions); i++ {
		prevID := transactions[i-1].ID()
		curID := transactions[i].ID()
		if chainhash.LessTxID(curID, prevID) {
			str := fmt.Sprintf("transaction %s at index %d is not in "+
				"canonical order", curID, i)
			return ruleError(ErrTransactionsNotSorted, str)
		}
	}
	return nil
}

// checkTransactionsSanity runs the context-free transaction checks over
// every transaction in the block. The failing transaction's own reject code
// propagates.
func (v *BlockValidator) checkTransactionsSanity(block *util.Block) error {
	for _, tx := range block.Transactions() {
		err := v.checkTransactionSanity(tx)
		if err != nil {
			return err
		}
	}
	return nil
}

// checkDuplicateTransactions scans for repeated transaction IDs with an
// explicit set. The merkle fold detects most duplicates as tree mutations,
// but a crafted duplicate pair whose recomputed root still matches the
// header must not pass on the strength of the root alone.
func (v *BlockValidator) checkDuplicateTransactions(block *util.Block) error {
	transactions := block.Transactions()
	existingTxIDs := make(map[chainhash.TxID]struct{}, len(transactions))
	for _, tx := range transactions {
		id := tx.ID()
		if _, exists := existingTxIDs[*id]; exists {
			str := fmt.Sprintf("block contains duplicate "+
				"transaction %s", id)
			return ruleError(ErrDuplicateTx, str)
		}
		existingTxIDs[*id] = struct{}{}
	}
	return nil
}

// checkMerkleRoot recomputes the transaction merkle tree and requires the
// root to match the header commitment. A mutation found while folding is
// reported as a duplicate transaction, since an equal sibling pair is
// exactly what a list mutated to preserve the root looks like.
func (v *BlockValidator) checkMerkleRoot(block *util.Block) error {
	header := &block.MsgBlock().Header
	merkles, mutated := BuildMerkleTreeStore(block.Transactions())
	if mutated {
		return ruleError(ErrDuplicateTx, "duplicate transaction "+
			"mutation of the merkle tree detected")
	}

	calculatedMerkleRoot := merkles[len(merkles)-1]
	if !header.HashMerkleRoot.IsEqual(calculatedMerkleRoot) {
		str := fmt.Sprintf("block merkle root is invalid - block "+
			"header indicates %s, but calculated value is %s",
			&header.HashMerkleRoot, calculatedMerkleRoot)
		return ruleError(ErrBadMerkleRoot, str)
	}
	return nil
}

// checkWitnessMerkleRoot recomputes the witness merkle tree, whose coinbase
// leaf is pinned to the zero hash, and requires the root to match the header
// commitment. Mutation detection already happened on the transaction tree,
// so the flag is not consulted again here.
func (v *BlockValidator) checkWitnessMerkleRoot(block *util.Block) error {
	header := &block.MsgBlock().Header
	merkles, _ := BuildWitnessMerkleTreeStore(block.Transactions())

	calculatedWitnessMerkleRoot := merkles[len(merkles)-1]
	if !header.HashWitnessMerkleRoot.IsEqual(calculatedWitnessMerkleRoot) {
		str := fmt.Sprintf("block witness merkle root is invalid - block "+
			"header indicates %s, but calculated value is %s",
			&header.HashWitnessMerkleRoot, calculatedWitnessMerkleRoot)
		return ruleError(ErrBadWitnessMerkleRoot, str)
	}
	return nil
}

// checkSigOpBudget accumulates the cheap signature operation count over
// every transaction, scaled to weight units, and holds the total to the
// block budget.
func (v *BlockValidator) checkSigOpBudget(block *util.Block) error {
	totalSigOpCost := int64(0)
	for _, tx := range block.Transactions() {
		totalSigOpCost += int64(CountSigOps(tx)) * WitnessScaleFactor
		if totalSigOpCost > v.params.MaxBlockSigOpsCost {
			str := fmt.Sprintf("block contains too many signature "+
				"operations - got %d, max %d", totalSigOpCost,
				v.params.MaxBlockSigOpsCost)
			return ruleError(ErrTooManySigOps, str)
		}
	}
	return nil
}

// CheckTransactionSanity performs the preliminary context-free checks on a
// transaction: inputs and outputs exist, the stripped size and the amounts
// are in range, inputs do not repeat, and the coinbase shape rules hold.
// It returns true when the transaction is sane; otherwise it records the
// violation in state and returns false.
func (v *BlockValidator) CheckTransactionSanity(tx *util.Tx, state *ValidationState) bool {
	err := v.checkTransactionSanity(tx)
	if err != nil {
		return state.recordRuleError(err)
	}
	return true
}

func (v *BlockValidator) checkTransactionSanity(tx *util.Tx) error {
	// A transaction must have at least one input.
	msgTx := tx.MsgTx()
	if len(msgTx.TxIn) == 0 {
		return ruleError(ErrNoTxInputs, "transaction has no inputs")
	}

	// A transaction must have at least one output.
	if len(msgTx.TxOut) == 0 {
		return ruleError(ErrNoTxOutputs, "transaction has no outputs")
	}

	// A transaction must not exceed the maximum allowed block size when
	// serialized without witness data.
	serializedTxSize := int64(msgTx.SerializeSizeStripped())
	if serializedTxSize > v.params.MaxBlockSerializedSize {
		str := fmt.Sprintf("serialized transaction is too big - got "+
			"%d, max %d", serializedTxSize,
			v.params.MaxBlockSerializedSize)
		return ruleError(ErrTxTooBig, str)
	}

	// Ensure the transaction amounts are in range. Each transaction
	// output must not be more than the max allowed per transaction. Also,
	// the total of all outputs must abide by the same restrictions. All
	// amounts in a transaction are in a unit value known as a mite. One
	// meridian is a quantity of mite as defined by the MitePerMeridian
	// constant.
	var totalMite uint64
	for _, txOut := range msgTx.TxOut {
		mite := txOut.Value
		if mite > util.MaxMite {
			str := fmt.Sprintf("transaction output value of %d is "+
				"higher than max allowed value of %d", mite,
				uint64(util.MaxMite))
			return ruleError(ErrBadTxOutValue, str)
		}

		newTotalMite := totalMite + mite
		if newTotalMite < totalMite {
			return ruleError(ErrBadTxOutTotal, "total value of all "+
				"transaction outputs overflows the accumulator")
		}
		totalMite = newTotalMite
		if totalMite > util.MaxMite {
			str := fmt.Sprintf("total value of all transaction "+
				"outputs is %d which is higher than max allowed "+
				"value of %d", totalMite, uint64(util.MaxMite))
			return ruleError(ErrBadTxOutTotal, str)
		}
	}

	// Check for duplicate transaction inputs.
	existingOutpoints := make(map[appmessage.Outpoint]struct{})
	for _, txIn := range msgTx.TxIn {
		if _, exists := existingOutpoints[txIn.PreviousOutpoint]; exists {
			return ruleError(ErrDuplicateTxInputs, "transaction "+
				"contains duplicate inputs")
		}
		existingOutpoints[txIn.PreviousOutpoint] = struct{}{}
	}

	if tx.IsCoinBase() {
		// Coinbase script length must be between min and max length.
		slen := len(msgTx.TxIn[0].SignatureScript)
		if slen < MinCoinbaseScriptLen || slen > MaxCoinbaseScriptLen {
			str := fmt.Sprintf("coinbase transaction script length "+
				"of %d is out of range (min: %d, max: %d)",
				slen, MinCoinbaseScriptLen, MaxCoinbaseScriptLen)
			return ruleError(ErrBadCoinbaseScriptLen, str)
		}
	} else {
		// Previous transaction outputs referenced by the inputs to
		// this transaction must not be null.
		for _, txIn := range msgTx.TxIn {
			if isNullOutpoint(&txIn.PreviousOutpoint) {
				return ruleError(ErrBadTxInput, "transaction "+
					"input refers to previous output that "+
					"is null")
			}
		}
	}

	return nil
}

// isNullOutpoint determines whether or not a previous transaction output
// point is set.
func isNullOutpoint(outpoint *appmessage.Outpoint) bool {
	if outpoint.Index == math.MaxUint32 && outpoint.TxID == (chainhash.TxID{}) {
		return true
	}
	return false
}

// ContextualCheckBlockHeader performs the validation rules that need the
// chain context of the header's predecessor: the timestamp must be after
// the median time of the recent chain and must not outrun the node's clock
// by more than the allowed drift. prevNode must not be nil; a genesis
// header has no context to check. It returns true when the header passes;
// otherwise it records the violation in state and returns false.
func (v *BlockValidator) ContextualCheckBlockHeader(header *appmessage.MsgBlockHeader,
	prevNode *blocknode.BlockNode, state *ValidationState) bool {

	// Ensure the timestamp for the block header is after the median time
	// of the last several blocks.
	medianTime := prevNode.PastMedianTime()
	if header.Timestamp <= medianTime {
		str := fmt.Sprintf("block timestamp of %d is not after median "+
			"time of the last blocks %d", header.Timestamp, medianTime)
		return state.Invalid(ErrTimeTooOld, str)
	}

	// Ensure the block time is not too far in the future. A timestamp
	// exactly at the bound is still acceptable.
	maxTimestamp := v.timeSource.AdjustedTime() +
		int64(v.params.MaxFutureBlockTime/time.Second)
	if header.Timestamp > maxTimestamp {
		str := fmt.Sprintf("block timestamp of %d is too far in the "+
			"future, max %d", header.Timestamp, maxTimestamp)
		return state.Invalid(ErrTimeTooNew, str)
	}

	return true
}

// ContextualCheckBlock performs the validation rules that need to know
// where in the chain a block attaches: every transaction must be final at
// the height and time the block claims, and the full block weight, witness
// data included, must stay under the budget. A nil prevNode means the block
// is the genesis block, which attaches at height zero with a zero lock-time
// cutoff. It returns true when the block passes; otherwise it records the
// violation in state and returns false.
func (v *BlockValidator) ContextualCheckBlock(block *util.Block,
	prevNode *blocknode.BlockNode, state *ValidationState) bool {

	blockHeight := uint64(0)
	lockTimeCutoff := int64(0)
	if prevNode != nil {
		blockHeight = prevNode.Height() + 1

		// The lock-time cutoff is the median time of the chain the
		// block extends, not the block's own timestamp.
		lockTimeCutoff = prevNode.PastMedianTime()
	}

	// Ensure all transactions in the block are finalized.
	for _, tx := range block.Transactions() {
		if !IsFinalizedTransaction(tx, blockHeight, lockTimeCutoff) {
			str := fmt.Sprintf("block contains unfinalized "+
				"transaction %s", tx.ID())
			return state.Invalid(ErrUnfinalizedTx, str)
		}
	}

	// A block must not exceed the maximum allowed weight with the witness
	// data factored in.
	blockWeight := GetBlockWeight(block)
	if blockWeight > v.params.MaxBlockWeight {
		str := fmt.Sprintf("block exceeds the maximum allowed weight - "+
			"got %d, max %d", blockWeight, v.params.MaxBlockWeight)
		return state.Invalid(ErrBlockWeightTooHigh, str)
	}

	return true
}

// IsFinalizedTransaction determines whether or not a transaction is
// finalized at the given height and time.
func IsFinalizedTransaction(tx *util.Tx, blockHeight uint64, blockTime int64) bool {
	msgTx := tx.MsgTx()

	// Lock time of zero means the transaction is finalized.
	lockTime := msgTx.LockTime
	if lockTime == 0 {
		return true
	}

	// The lock time field of a transaction is either a block height at
	// which the transaction is finalized or a timestamp depending on if
	// the value is before the txscript.LockTimeThreshold. When it is
	// under the threshold it is a block height.
	blockTimeOrHeight := int64(0)
	if lockTime < txscript.LockTimeThreshold {
		blockTimeOrHeight = int64(blockHeight)
	} else {
		blockTimeOrHeight = blockTime
	}
	if int64(lockTime) < blockTimeOrHeight {
		return true
	}

	// At this point, the transaction's lock time hasn't occurred yet, but
	// the transaction might still be finalized if the sequence number
	// for all transaction inputs is maxed out.
	for _, txIn := range msgTx.TxIn {
		if txIn.Sequence != appmessage.MaxTxInSequenceNum {
			return false
		}
	}
	return true
}

// CountSigOps returns the number of signature operations for all
// transaction input and output scripts in the provided transaction. This
// uses the quicker, but imprecise, signature operation counting mechanism
// from txscript.
func CountSigOps(tx *util.Tx) int {
	msgTx := tx.MsgTx()

	// Accumulate the number of signature operations in all transaction
	// inputs.
	totalSigOps := 0
	for _, txIn := range msgTx.TxIn {
		numSigOps := txscript.GetSigOpCount(txIn.SignatureScript)
		totalSigOps += numSigOps
	}

	// Accumulate the number of signature operations in all transaction
	// outputs.
	for _, txOut := range msgTx.TxOut {
		numSigOps := txscript.GetSigOpCount(txOut.ScriptPubKey)
		totalSigOps += numSigOps
	}

	return totalSigOps
}
