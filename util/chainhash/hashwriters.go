package chainhash

import (
	"hash"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// The field being hashed determines which keyed blake2b instance digests it.
// Domain separation makes it impossible to reinterpret, say, a transaction
// digest as a block digest.
const (
	blockDomain         = "MeridianBlockHash"
	transactionIDDomain = "MeridianTxID"
	transactionDomain   = "MeridianTxHash"
	merkleBranchDomain  = "MeridianMerkleBranch"
)

// HashWriter is used to incrementally hash data without concatenating all of
// the data to a single buffer. It exposes an io.Writer api and a Finalize
// function to get the resulting hash. The used hash function is keyed
// blake2b-256; instances can only be created via one of the domain separated
// constructors.
type HashWriter struct {
	hash.Hash
}

// InfallibleWrite is just like Write but doesn't return anything.
func (h HashWriter) InfallibleWrite(p []byte) {
	// This write can never return an error, this is part of the hash.Hash
	// interface contract.
	_, err := h.Write(p)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. hash.Hash interface promises to not return errors."))
	}
}

// Finalize returns the resulting hash.
func (h HashWriter) Finalize() Hash {
	var sum Hash
	copy(sum[:], h.Sum(sum[:0]))
	return sum
}

func newKeyedWriter(domain string) HashWriter {
	blake, err := blake2b.New256([]byte(domain))
	if err != nil {
		panic(errors.Wrapf(err, "blake2b.New256(%s) should never fail", domain))
	}
	return HashWriter{blake}
}

// NewBlockHashWriter returns a new HashWriter used for block hashes.
func NewBlockHashWriter() HashWriter {
	return newKeyedWriter(blockDomain)
}

// NewTxIDWriter returns a new HashWriter used for transaction IDs.
func NewTxIDWriter() HashWriter {
	return newKeyedWriter(transactionIDDomain)
}

// NewTxHashWriter returns a new HashWriter used for transaction hashes.
func NewTxHashWriter() HashWriter {
	return newKeyedWriter(transactionDomain)
}

// NewMerkleBranchWriter returns a new HashWriter used for merkle tree
// branches.
func NewMerkleBranchWriter() HashWriter {
	return newKeyedWriter(merkleBranchDomain)
}
