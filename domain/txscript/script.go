// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	// MaxOpsPerScript is the maximum number of non-push operations per
	// script.
	MaxOpsPerScript = 201

	// MaxPubKeysPerMultisig is the maximum number of public keys allowed
	// in a multi-signature transaction output script. A CHECKMULTISIG
	// operation with no preceding canonical key count is charged this
	// many signature operations.
	MaxPubKeysPerMultisig = 20

	// MaxScriptElementSize is the maximum number of bytes pushable to the
	// stack.
	MaxScriptElementSize = 520

	// MaxScriptSize is the maximum number of bytes allowed in a raw
	// script.
	MaxScriptSize = 10000

	// LockTimeThreshold is the number below which a transaction lock time
	// is interpreted to be a block height instead of a Unix timestamp.
	LockTimeThreshold = 5e8 // Tue Nov 5 00:53:20 1985 UTC
)

// parseScriptTemplate is the same as parseScript but allows the passing of
// the template list for testing purposes. When there are parse errors, it
// returns the list of parsed opcodes up to the point of failure along with
// the error so callers that only need a best-effort view of a script, such
// as signature operation counting, can keep what parsed.
func parseScriptTemplate(script []byte, opcodes *[256]opcode) ([]parsedOpcode, error) {
	retScript := make([]parsedOpcode, 0, len(script))
	for i := 0; i < len(script); {
		instr := script[i]
		op := &opcodes[instr]
		pop := parsedOpcode{opcode: op}

		// Parse data out of instruction.
		switch {
		// No additional data. Note that some of the opcodes, notably
		// OP_1NEGATE, OP_0, and OP_[1-16] represent the data
		// themselves.
		case op.length == 1:
			i++

		// Data pushes of specific lengths, e.g. OP_DATA_20.
		case op.length > 1:
			if len(script[i:]) < op.length {
				return retScript, errors.Errorf("opcode %s "+
					"requires %d bytes, but script only "+
					"has %d remaining", op.name, op.length,
					len(script[i:]))
			}

			// Slice out the data.
			pop.data = script[i+1 : i+op.length]
			i += op.length

		// Data pushes with parsed lengths, i.e. OP_PUSHDATA{1,2,4}.
		case op.length < 0:
			var l uint
			off := i + 1

			if len(script[off:]) < -op.length {
				return retScript, errors.Errorf("opcode %s "+
					"requires %d bytes, but script only "+
					"has %d remaining", op.name, -op.length,
					len(script[off:]))
			}

			// Next -length bytes are little endian length of data.
			switch op.length {
			case -1:
				l = uint(script[off])
			case -2:
				l = uint(binary.LittleEndian.Uint16(script[off:]))
			case -4:
				l = uint(binary.LittleEndian.Uint32(script[off:]))
			default:
				return retScript, errors.Errorf("invalid "+
					"opcode length %d", op.length)
			}

			// Move offset to beginning of the data.
			off += -op.length

			// Disallow entries that do not fit script or were sign
			// extended.
			if int(l) > len(script[off:]) || int(l) < 0 {
				return retScript, errors.Errorf("opcode %s "+
					"pushes %d bytes, but script only has "+
					"%d remaining", op.name, int(l),
					len(script[off:]))
			}

			pop.data = script[off : off+int(l)]
			i += 1 - op.length + int(l)
		}

		retScript = append(retScript, pop)
	}

	return retScript, nil
}

// parseScript preparses the script in bytes into a list of parsedOpcodes
// while applying a number of sanity checks.
func parseScript(script []byte) ([]parsedOpcode, error) {
	return parseScriptTemplate(script, &opcodeArray)
}

// asSmallInt returns the passed opcode, which must be true according to
// isSmallInt(), as an integer.
func asSmallInt(op *opcode) int {
	if op.value == OP_0 {
		return 0
	}

	return int(op.value - (OP_1 - 1))
}

// isSmallInt returns whether or not the opcode is considered a small
// integer, which is an OP_0, or OP_1 through OP_16.
func isSmallInt(op *opcode) bool {
	if op.value == OP_0 || (op.value >= OP_1 && op.value <= OP_16) {
		return true
	}
	return false
}

// getSigOpCount is the implementation function for counting the number of
// signature operations in the script provided by pops. If precise mode is
// requested then we attempt to count the number of operations for a
// multisig op. Otherwise we use the maximum.
func getSigOpCount(pops []parsedOpcode, precise bool) int {
	nSigs := 0
	for i, pop := range pops {
		switch pop.opcode.value {
		case OP_CHECKSIG:
			fallthrough
		case OP_CHECKSIGVERIFY:
			nSigs++
		case OP_CHECKMULTISIG:
			fallthrough
		case OP_CHECKMULTISIGVERIFY:
			// If we are being precise then look for familiar
			// patterns for multisig, for now all we recognize is
			// OP_1 - OP_16 to signify the number of pubkeys.
			// Otherwise, we use the max of 20.
			if precise && i > 0 &&
				pops[i-1].opcode.value >= OP_1 &&
				pops[i-1].opcode.value <= OP_16 {
				nSigs += asSmallInt(pops[i-1].opcode)
			} else {
				nSigs += MaxPubKeysPerMultisig
			}
		default:
			// Not a sigop.
		}
	}

	return nSigs
}

// GetSigOpCount provides a quick count of the number of signature
// operations in a script. A CHECKSIG operation counts for 1, and a
// CHECKMULTISIG for 20. The script is parsed up to the first parse
// failure, so malformed scripts still yield the count of whatever parsed.
func GetSigOpCount(script []byte) int {
	// Don't check error since parseScript returns the parsed-up-to-error
	// list of pops and the consensus rules dictate unparsable scripts
	// count the operations found before the failure.
	pops, _ := parseScript(script)

	return getSigOpCount(pops, false)
}

// GetPreciseSigOpCount returns the number of signature operations in
// scriptPubKey, using the precise counting of canonical multisig key
// counts.
func GetPreciseSigOpCount(scriptPubKey []byte) int {
	pops, _ := parseScript(scriptPubKey)

	return getSigOpCount(pops, true)
}

// IsPushOnlyScript returns whether or not the passed script only pushes
// data.
//
// False will be returned when the script does not parse.
func IsPushOnlyScript(script []byte) bool {
	pops, err := parseScript(script)
	if err != nil {
		return false
	}

	for _, pop := range pops {
		// All opcodes up to OP_16 are data push instructions.
		// NOTE: This does consider OP_RESERVED to be a data push
		// instruction, but execution of OP_RESERVED will fail anyway
		// and matches the behavior required by consensus.
		if pop.opcode.value > OP_16 {
			return false
		}
	}
	return true
}

// IsUnspendable returns whether the passed public key script is unspendable,
// or guaranteed to fail at execution. This allows outputs to be pruned
// instantly when entering the UTXO set.
func IsUnspendable(scriptPubKey []byte) bool {
	pops, err := parseScript(scriptPubKey)
	if err != nil {
		return true
	}

	return len(pops) > 0 && pops[0].opcode.value == OP_RETURN
}
