// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"crypto/hmac"
	"crypto/sha512"

	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

const (
	// seedPhraseEntropyBits sizes generated recovery phrases at 24 words.
	seedPhraseEntropyBits = 256

	// maxSeedPhraseTries bounds how often generation retries when the
	// derived master secret falls outside the valid key range.
	maxSeedPhraseTries = 16
)

// masterKeySalt keys the derivation of the wallet master key from a
// recovery phrase seed.
var masterKeySalt = []byte("Meridian seed")

// SeedPhrase binds a recovery phrase to the key material derived from it.
type SeedPhrase struct {
	// Mnemonic is the recovery phrase itself.
	Mnemonic string

	// Entropy is the raw entropy the phrase encodes.
	Entropy []byte

	// Seed is the binary seed stretched from the phrase and passphrase.
	Seed []byte

	// MasterKey is the wallet master key derived from Seed.
	MasterKey *secp256k1.SchnorrKeyPair
}

// NewSeedPhrase generates a fresh recovery phrase and derives the wallet
// master key from it, protected by the given passphrase. Phrases whose
// derived secret is unusable as a key are regenerated.
func NewSeedPhrase(passphrase string) (*SeedPhrase, error) {
	for try := 0; try < maxSeedPhraseTries; try++ {
		entropy, err := bip39.NewEntropy(seedPhraseEntropyBits)
		if err != nil {
			return nil, errors.Wrap(err, "failed to gather entropy for a recovery phrase")
		}
		mnemonic, err := bip39.NewMnemonic(entropy)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode entropy as a recovery phrase")
		}
		seed := bip39.NewSeed(mnemonic, passphrase)

		masterKey, err := masterKeyFromSeed(seed)
		if err != nil {
			continue
		}
		return &SeedPhrase{
			Mnemonic:  mnemonic,
			Entropy:   entropy,
			Seed:      seed,
			MasterKey: masterKey,
		}, nil
	}
	return nil, errors.Errorf("failed to derive a usable master key after %d attempts",
		maxSeedPhraseTries)
}

// SeedPhraseInfo rebuilds the key material a recovery phrase encodes. It
// rejects phrases with unknown words or a broken checksum.
func SeedPhraseInfo(mnemonic string, passphrase string) (*SeedPhrase, error) {
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, errors.Wrap(err, "not a valid recovery phrase")
	}
	seed := bip39.NewSeed(mnemonic, passphrase)

	masterKey, err := masterKeyFromSeed(seed)
	if err != nil {
		return nil, err
	}
	return &SeedPhrase{
		Mnemonic:  mnemonic,
		Entropy:   entropy,
		Seed:      seed,
		MasterKey: masterKey,
	}, nil
}

// masterKeyFromSeed stretches a recovery phrase seed into the wallet master
// key.
func masterKeyFromSeed(seed []byte) (*secp256k1.SchnorrKeyPair, error) {
	mac := hmac.New(sha512.New, masterKeySalt)
	mac.Write(seed)
	derived := mac.Sum(nil)

	masterKey, err := secp256k1.DeserializeSchnorrPrivateKeyFromSlice(derived[:32])
	if err != nil {
		return nil, errors.Wrap(err, "seed does not derive a usable master key")
	}
	return masterKey, nil
}
