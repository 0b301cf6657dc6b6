// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"testing"

	"github.com/meridiannet/meridiand/util"
	"github.com/meridiannet/meridiand/util/chainhash"
)

// allParams returns every defined network so tests cover each of them
// without repeating the list.
func allParams() []*Params {
	return []*Params{&MainnetParams, &TestnetParams, &SimnetParams}
}

// TestGenesisBlockSanity ensures the constructed genesis blocks are
// internally consistent on every network.
func TestGenesisBlockSanity(t *testing.T) {
	for _, params := range allParams() {
		block := params.GenesisBlock
		if len(block.Transactions) != 1 {
			t.Errorf("%s: genesis block has %d transactions, want 1",
				params.Name, len(block.Transactions))
			continue
		}

		coinbase := block.Transactions[0]
		if !coinbase.IsCoinBase() {
			t.Errorf("%s: genesis transaction is not a coinbase",
				params.Name)
		}

		// A one-transaction merkle tree collapses to its leaf.
		wantRoot := chainhash.Hash(coinbase.TxID())
		if block.Header.HashMerkleRoot != wantRoot {
			t.Errorf("%s: genesis merkle root %s does not match "+
				"coinbase transaction ID %s", params.Name,
				block.Header.HashMerkleRoot, wantRoot)
		}
		if block.Header.HashWitnessMerkleRoot != (chainhash.Hash{}) {
			t.Errorf("%s: genesis witness merkle root is not the "+
				"zero hash", params.Name)
		}

		if !block.Header.IsGenesis() {
			t.Errorf("%s: genesis header has a parent", params.Name)
		}

		gotHash := block.Header.BlockHash()
		if *params.GenesisHash != gotHash {
			t.Errorf("%s: genesis hash %s does not match block "+
				"hash %s", params.Name, params.GenesisHash, gotHash)
		}
	}
}

// TestGenesisHashesDistinct ensures no two networks share a genesis block.
func TestGenesisHashesDistinct(t *testing.T) {
	seen := make(map[chainhash.Hash]string)
	for _, params := range allParams() {
		if other, ok := seen[*params.GenesisHash]; ok {
			t.Errorf("networks %s and %s share genesis hash %s",
				params.Name, other, params.GenesisHash)
		}
		seen[*params.GenesisHash] = params.Name
	}
}

// TestNetMagicsDistinct ensures no two networks share message magic bytes.
func TestNetMagicsDistinct(t *testing.T) {
	seen := make(map[uint32]string)
	for _, params := range allParams() {
		if other, ok := seen[uint32(params.Net)]; ok {
			t.Errorf("networks %s and %s share net magic %08x",
				params.Name, other, uint32(params.Net))
		}
		seen[uint32(params.Net)] = params.Name
	}
}

// TestDeploymentBits ensures deployment bit assignments stay within the
// version-bits range and never collide within a network.
func TestDeploymentBits(t *testing.T) {
	for _, params := range allParams() {
		seen := make(map[uint8]int)
		for id, deployment := range params.Deployments {
			if deployment.BitNumber > 28 {
				t.Errorf("%s: deployment %d uses bit %d, max is 28",
					params.Name, id, deployment.BitNumber)
			}
			if other, ok := seen[deployment.BitNumber]; ok {
				t.Errorf("%s: deployments %d and %d share bit %d",
					params.Name, id, other, deployment.BitNumber)
			}
			seen[deployment.BitNumber] = id
		}

		if params.RuleChangeActivationThreshold > params.MinerConfirmationWindow {
			t.Errorf("%s: activation threshold %d exceeds confirmation "+
				"window %d", params.Name,
				params.RuleChangeActivationThreshold,
				params.MinerConfirmationWindow)
		}
	}
}

// TestFinalizationParams spot-checks the finality voting schedules.
func TestFinalizationParams(t *testing.T) {
	if MainnetParams.Finalization.EpochLength != 50 {
		t.Errorf("mainnet epoch length is %d, want 50",
			MainnetParams.Finalization.EpochLength)
	}
	wantDeposit := util.Amount(10000 * util.MitePerMeridian)
	if MainnetParams.Finalization.MinDepositSize != wantDeposit {
		t.Errorf("mainnet min deposit is %d, want %d",
			MainnetParams.Finalization.MinDepositSize, wantDeposit)
	}
	if SimnetParams.Finalization.EpochLength != 5 {
		t.Errorf("simnet epoch length is %d, want 5",
			SimnetParams.Finalization.EpochLength)
	}
	if SimnetParams.Finalization.DynastyLogoutDelay >=
		MainnetParams.Finalization.DynastyLogoutDelay {

		t.Error("simnet logout delay should be shorter than mainnet")
	}
}
