// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/kaspanet/go-secp256k1"
)

func publicKeyBytes(t *testing.T, keyPair *secp256k1.SchnorrKeyPair) []byte {
	publicKey, err := keyPair.SchnorrPublicKey()
	if err != nil {
		t.Fatalf("SchnorrPublicKey: %s", err)
	}
	serialized, err := publicKey.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %s", err)
	}
	return serialized[:]
}

func TestNewSeedPhrase(t *testing.T) {
	phrase, err := NewSeedPhrase("hunter2")
	if err != nil {
		t.Fatalf("NewSeedPhrase: %s", err)
	}
	if words := len(strings.Fields(phrase.Mnemonic)); words != 24 {
		t.Fatalf("NewSeedPhrase: generated %d words, want 24", words)
	}
	if len(phrase.Entropy) != 32 {
		t.Fatalf("NewSeedPhrase: generated %d bytes of entropy, want 32",
			len(phrase.Entropy))
	}
	if len(phrase.Seed) != 64 {
		t.Fatalf("NewSeedPhrase: generated a %d byte seed, want 64",
			len(phrase.Seed))
	}
	if phrase.MasterKey == nil {
		t.Fatal("NewSeedPhrase: no master key")
	}

	// The phrase plus passphrase must round-trip into the same key
	// material.
	info, err := SeedPhraseInfo(phrase.Mnemonic, "hunter2")
	if err != nil {
		t.Fatalf("SeedPhraseInfo: %s", err)
	}
	if !bytes.Equal(info.Entropy, phrase.Entropy) {
		t.Error("round-tripped entropy differs")
	}
	if !bytes.Equal(info.Seed, phrase.Seed) {
		t.Error("round-tripped seed differs")
	}
	if !bytes.Equal(publicKeyBytes(t, info.MasterKey), publicKeyBytes(t, phrase.MasterKey)) {
		t.Error("round-tripped master key differs")
	}

	// A different passphrase derives different key material from the same
	// words.
	other, err := SeedPhraseInfo(phrase.Mnemonic, "different")
	if err != nil {
		t.Fatalf("SeedPhraseInfo with another passphrase: %s", err)
	}
	if bytes.Equal(other.Seed, phrase.Seed) {
		t.Error("distinct passphrases derived the same seed")
	}
}

func TestSeedPhraseInfoVector(t *testing.T) {
	// The canonical all-zero entropy phrase with the "TREZOR" passphrase.
	mnemonic := strings.TrimSpace(strings.Repeat("abandon ", 23) + "art")
	const wantSeed = "bda85446c68413707090a52022edd26a1c9462295029f2e6" +
		"0cd7c4f2bbd3097170af7a4d73245cafa9c3cca8d561a7c3de6f5d4a10be8e" +
		"d2a5e608d68f92fcc8"

	phrase, err := SeedPhraseInfo(mnemonic, "TREZOR")
	if err != nil {
		t.Fatalf("SeedPhraseInfo: %s", err)
	}
	for i, b := range phrase.Entropy {
		if b != 0 {
			t.Fatalf("entropy byte %d is %#x, want 0", i, b)
		}
	}
	if seed := hex.EncodeToString(phrase.Seed); seed != wantSeed {
		t.Fatalf("derived seed %s, want %s", seed, wantSeed)
	}
	if phrase.MasterKey == nil {
		t.Fatal("no master key")
	}
}

func TestSeedPhraseInfoRejectsInvalid(t *testing.T) {
	if _, err := SeedPhraseInfo("not a real recovery phrase", ""); err == nil {
		t.Error("gibberish phrase accepted")
	}

	// Valid words, broken checksum.
	broken := strings.TrimSpace(strings.Repeat("abandon ", 24))
	if _, err := SeedPhraseInfo(broken, ""); err == nil {
		t.Error("phrase with a broken checksum accepted")
	}
}
