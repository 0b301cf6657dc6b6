// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160"
)

var (
	// ErrUnknownAddressType describes an error where an address can not
	// be decoded as a specific address type due to the string encoding
	// beginning with an unidentified byte.
	ErrUnknownAddressType = errors.New("unknown address type")

	// ErrChecksumMismatch describes an error where decoding failed due
	// to a bad checksum.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// Address is an interface type for any type of destination a transaction
// output may spend to. This includes pay-to-pubkey-hash (P2PKH) and
// pay-to-script-hash (P2SH). Address is designed to be generic enough that
// other kinds of addresses may be added in the future without changing the
// decoding and encoding API.
type Address interface {
	// String returns the string encoding of the transaction output
	// destination.
	//
	// Please note that String differs subtly from EncodeAddress: String
	// will return the value as a string without any conversion, while
	// EncodeAddress may convert destination types (for example,
	// converting pubkeys to P2PKH addresses) before encoding as a
	// payment address string.
	String() string

	// EncodeAddress returns the string encoding of the payment address
	// associated with the Address value.
	EncodeAddress() string

	// ScriptAddress returns the raw bytes of the address to be used
	// when inserting the address into a txout's script.
	ScriptAddress() []byte

	// IsForNet returns whether or not the address is associated with
	// the network identified by the passed leading version byte.
	IsForNet(netID byte) bool
}

// DecodeAddress decodes the string encoding of an address and returns the
// Address if it is a valid encoding for one of the passed network ID bytes.
// pubKeyHashAddrID and scriptHashAddrID come from the active chain
// parameters.
func DecodeAddress(addr string, pubKeyHashAddrID byte, scriptHashAddrID byte) (Address, error) {
	decoded, netID, err := base58.CheckDecode(addr)
	if err != nil {
		if errors.Is(err, base58.ErrChecksum) {
			return nil, errors.WithStack(ErrChecksumMismatch)
		}
		return nil, errors.Errorf("decoded address is of unknown format: %s", err)
	}

	if len(decoded) != ripemd160.Size {
		return nil, errors.New("decoded address is of unknown size")
	}

	switch netID {
	case pubKeyHashAddrID:
		return newAddressPubKeyHash(decoded, netID)
	case scriptHashAddrID:
		return newAddressScriptHashFromHash(decoded, netID)
	default:
		return nil, errors.WithStack(ErrUnknownAddressType)
	}
}

// AddressPubKeyHash is an Address for a pay-to-pubkey-hash (P2PKH)
// transaction.
type AddressPubKeyHash struct {
	hash  [ripemd160.Size]byte
	netID byte
}

// NewAddressPubKeyHash returns a new AddressPubKeyHash. pkHash must
// be 20 bytes.
func NewAddressPubKeyHash(pkHash []byte, netID byte) (*AddressPubKeyHash, error) {
	return newAddressPubKeyHash(pkHash, netID)
}

func newAddressPubKeyHash(pkHash []byte, netID byte) (*AddressPubKeyHash, error) {
	if len(pkHash) != ripemd160.Size {
		return nil, errors.New("pkHash must be 20 bytes")
	}

	addr := &AddressPubKeyHash{netID: netID}
	copy(addr.hash[:], pkHash)
	return addr, nil
}

// EncodeAddress returns the string encoding of a pay-to-pubkey-hash
// address.
func (a *AddressPubKeyHash) EncodeAddress() string {
	return base58.CheckEncode(a.hash[:], a.netID)
}

// ScriptAddress returns the bytes to be included in a txout script to pay
// to a pubkey hash.
func (a *AddressPubKeyHash) ScriptAddress() []byte {
	return a.hash[:]
}

// IsForNet returns whether or not the pay-to-pubkey-hash address is
// associated with the passed network ID byte.
func (a *AddressPubKeyHash) IsForNet(netID byte) bool {
	return a.netID == netID
}

// String returns a human-readable string for the pay-to-pubkey-hash address.
// This is equivalent to calling EncodeAddress, but is provided so the type
// can be used as a fmt.Stringer.
func (a *AddressPubKeyHash) String() string {
	return a.EncodeAddress()
}

// Hash160 returns the underlying array of the pubkey hash. This can be
// useful when an array is more appropriate than a slice (for example, when
// used as map keys).
func (a *AddressPubKeyHash) Hash160() *[ripemd160.Size]byte {
	return &a.hash
}

// AddressScriptHash is an Address for a pay-to-script-hash (P2SH)
// transaction.
type AddressScriptHash struct {
	hash  [ripemd160.Size]byte
	netID byte
}

// NewAddressScriptHash returns a new AddressScriptHash for the given
// redemption script.
func NewAddressScriptHash(serializedScript []byte, netID byte) (*AddressScriptHash, error) {
	scriptHash := Hash160(serializedScript)
	return newAddressScriptHashFromHash(scriptHash, netID)
}

// NewAddressScriptHashFromHash returns a new AddressScriptHash. scriptHash
// must be 20 bytes.
func NewAddressScriptHashFromHash(scriptHash []byte, netID byte) (*AddressScriptHash, error) {
	return newAddressScriptHashFromHash(scriptHash, netID)
}

func newAddressScriptHashFromHash(scriptHash []byte, netID byte) (*AddressScriptHash, error) {
	if len(scriptHash) != ripemd160.Size {
		return nil, errors.New("scriptHash must be 20 bytes")
	}

	addr := &AddressScriptHash{netID: netID}
	copy(addr.hash[:], scriptHash)
	return addr, nil
}

// EncodeAddress returns the string encoding of a pay-to-script-hash
// address.
func (a *AddressScriptHash) EncodeAddress() string {
	return base58.CheckEncode(a.hash[:], a.netID)
}

// ScriptAddress returns the bytes to be included in a txout script to pay
// to a script hash.
func (a *AddressScriptHash) ScriptAddress() []byte {
	return a.hash[:]
}

// IsForNet returns whether or not the pay-to-script-hash address is
// associated with the passed network ID byte.
func (a *AddressScriptHash) IsForNet(netID byte) bool {
	return a.netID == netID
}

// String returns a human-readable string for the pay-to-script-hash
// address. This is equivalent to calling EncodeAddress, but is provided so
// the type can be used as a fmt.Stringer.
func (a *AddressScriptHash) String() string {
	return a.EncodeAddress()
}

// Hash160 returns the underlying array of the script hash.
func (a *AddressScriptHash) Hash160() *[ripemd160.Size]byte {
	return &a.hash
}
