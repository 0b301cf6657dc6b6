// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160"
)

// HashBlake2b calculates the hash blake2b(b).
func HashBlake2b(buf []byte) []byte {
	hashedBuf := blake2b.Sum256(buf)
	return hashedBuf[:]
}

// Hash160 calculates the hash ripemd160(blake2b(b)).
func Hash160(buf []byte) []byte {
	hasher := ripemd160.New()
	hasher.Write(HashBlake2b(buf))
	return hasher.Sum(nil)
}
