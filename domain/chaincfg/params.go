// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math"
	"time"

	"github.com/meridiannet/meridiand/app/appmessage"
	"github.com/meridiannet/meridiand/util"
	"github.com/meridiannet/meridiand/util/chainhash"
)

// ConsensusDeployment defines details related to a specific consensus rule
// change that is voted in. This is part of BIP0009.
type ConsensusDeployment struct {
	// BitNumber defines the specific bit number within the block version
	// this particular soft-fork deployment refers to.
	BitNumber uint8

	// StartTime is the median block time after which voting on the
	// deployment starts, in Unix seconds.
	StartTime uint64

	// ExpireTime is the median block time after which the attempted
	// deployment expires, in Unix seconds.
	ExpireTime uint64
}

// Constants that define the deployment offset in the deployments field of
// the parameters for each deployment. This is useful to be able to get the
// details of a specific deployment by name.
const (
	// DeploymentTestDummy defines the rule change deployment ID for
	// testing purposes.
	DeploymentTestDummy = iota

	// DeploymentCSV defines the rule change deployment ID for the CSV
	// soft-fork package containing relative lock-time rules.
	DeploymentCSV

	// DeploymentSegwit defines the rule change deployment ID for the
	// segregated witness package.
	DeploymentSegwit

	// NOTE: DefinedDeployments must always come last since it is used to
	// determine how many defined deployments there currently are.

	// DefinedDeployments is the number of currently defined deployments.
	DefinedDeployments
)

// FinalizationParams groups the constants that drive the finality voting
// schedule. The voting logic itself lives outside this module; the values
// are carried here so every network defines a complete, explicit set.
type FinalizationParams struct {
	// EpochLength is the number of blocks in a finalization epoch.
	EpochLength uint32

	// MinDepositSize is the smallest stake deposit accepted from a
	// would-be validator.
	MinDepositSize util.Amount

	// DynastyLogoutDelay is the number of dynasties a validator must wait
	// after announcing logout before leaving the validator set.
	DynastyLogoutDelay uint32

	// WithdrawalEpochDelay is the number of epochs between logout and the
	// deposit becoming withdrawable.
	WithdrawalEpochDelay uint32

	// SlashFractionMultiplier scales the fraction of a misbehaving
	// validator's deposit that is burned.
	SlashFractionMultiplier uint32

	// BountyFractionDenominator determines the share of a slashed deposit
	// awarded to the reporter.
	BountyFractionDenominator uint32
}

// Params defines a meridian network by its parameters. These parameters
// may be used by meridian applications to differentiate networks as well as
// addresses and keys for one network from those intended for use on another
// network. There is no process-wide selected network; consumers hold the
// *Params value they were constructed with.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net appmessage.MeridianNet

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// GenesisBlock defines the first block of the chain.
	GenesisBlock *appmessage.MsgBlock

	// GenesisHash is the starting block hash.
	GenesisHash *chainhash.Hash

	// MaxBlockSerializedSize is the maximum size of a serialized block
	// stripped of its witness data.
	MaxBlockSerializedSize int64

	// MaxBlockWeight is the maximum allowed weight for a block.
	MaxBlockWeight int64

	// MaxBlockSigOpsCost is the maximum allowed weighted signature
	// operation cost per block.
	MaxBlockSigOpsCost int64

	// CoinbaseMaturity is the number of blocks required before newly
	// minted coins can be spent.
	CoinbaseMaturity uint64

	// SubsidyReductionInterval is the interval of blocks before the
	// subsidy is reduced.
	SubsidyReductionInterval uint64

	// TargetTimePerBlock is the desired amount of time between blocks.
	TargetTimePerBlock time.Duration

	// MaxFutureBlockTime is how far a block timestamp may be ahead of the
	// node's adjusted time before the block is rejected.
	MaxFutureBlockTime time.Duration

	// These fields are related to voting on consensus rule changes as
	// defined by BIP0009.
	//
	// RuleChangeActivationThreshold is the number of blocks in a
	// threshold state retarget window for which a positive vote for a
	// rule change must be cast in order to lock in a rule change. It
	// should typically be 95% for the main network and 75% for test
	// networks.
	//
	// MinerConfirmationWindow is the number of blocks in each threshold
	// state retarget window.
	//
	// Deployments define the specific consensus rule changes to be voted
	// on.
	RuleChangeActivationThreshold uint64
	MinerConfirmationWindow       uint64
	Deployments                   [DefinedDeployments]ConsensusDeployment

	// Finalization carries the finality voting schedule for the network.
	Finalization FinalizationParams

	// Mempool parameters
	RelayNonStdTxs bool

	// Human-readable part for Bech32 encoded segwit addresses.
	Bech32HRPSegwit string

	// Address encoding magics
	PubKeyHashAddrID byte // First byte of a P2PKH address
	ScriptHashAddrID byte // First byte of a P2SH address
	PrivateKeyID     byte // First byte of a WIF private key
}

// MainnetParams defines the network parameters for the main meridian
// network.
var MainnetParams = Params{
	Name:        "mainnet",
	Net:         appmessage.Mainnet,
	DefaultPort: "7860",

	// Chain parameters
	GenesisBlock:             &genesisBlock,
	GenesisHash:              &genesisHash,
	MaxBlockSerializedSize:   4000000,
	MaxBlockWeight:           4000000,
	MaxBlockSigOpsCost:       80000,
	CoinbaseMaturity:         100,
	SubsidyReductionInterval: 210000,
	TargetTimePerBlock:       time.Second * 16,
	MaxFutureBlockTime:       time.Hour * 2,

	// Consensus rule change deployments.
	RuleChangeActivationThreshold: 1916, // 95% of MinerConfirmationWindow
	MinerConfirmationWindow:       2016,
	Deployments: [DefinedDeployments]ConsensusDeployment{
		DeploymentTestDummy: {
			BitNumber:  28,
			StartTime:  1199145601, // January 1, 2008 UTC
			ExpireTime: 1230767999, // December 31, 2008 UTC
		},
		DeploymentCSV: {
			BitNumber:  0,
			StartTime:  1456790400, // March 1, 2016 UTC
			ExpireTime: 1493596800, // May 1, 2017 UTC
		},
		DeploymentSegwit: {
			BitNumber:  1,
			StartTime:  1462060800, // May 1, 2016 UTC
			ExpireTime: 1493596800, // May 1, 2017 UTC
		},
	},

	// Finality voting schedule
	Finalization: FinalizationParams{
		EpochLength:               50,
		MinDepositSize:            10000 * util.MitePerMeridian,
		DynastyLogoutDelay:        700,
		WithdrawalEpochDelay:      15000,
		SlashFractionMultiplier:   3,
		BountyFractionDenominator: 25,
	},

	// Mempool parameters
	RelayNonStdTxs: false,

	// Human-readable part for Bech32 encoded segwit addresses.
	Bech32HRPSegwit: "merd",

	// Address encoding magics
	PubKeyHashAddrID: 0x32, // starts with M
	ScriptHashAddrID: 0x37, // starts with P
	PrivateKeyID:     0x80, // starts with 5 (uncompressed) or K (compressed)
}

// TestnetParams defines the network parameters for the test meridian
// network.
var TestnetParams = Params{
	Name:        "testnet",
	Net:         appmessage.Testnet,
	DefaultPort: "17860",

	// Chain parameters
	GenesisBlock:             &testnetGenesisBlock,
	GenesisHash:              &testnetGenesisHash,
	MaxBlockSerializedSize:   4000000,
	MaxBlockWeight:           4000000,
	MaxBlockSigOpsCost:       80000,
	CoinbaseMaturity:         100,
	SubsidyReductionInterval: 210000,
	TargetTimePerBlock:       time.Second * 16,
	MaxFutureBlockTime:       time.Hour * 2,

	// Consensus rule change deployments.
	RuleChangeActivationThreshold: 1512, // 75% of MinerConfirmationWindow
	MinerConfirmationWindow:       2016,
	Deployments: [DefinedDeployments]ConsensusDeployment{
		DeploymentTestDummy: {
			BitNumber:  28,
			StartTime:  1199145601, // January 1, 2008 UTC
			ExpireTime: 1230767999, // December 31, 2008 UTC
		},
		DeploymentCSV: {
			BitNumber:  0,
			StartTime:  1456790400, // March 1, 2016 UTC
			ExpireTime: 1493596800, // May 1, 2017 UTC
		},
		DeploymentSegwit: {
			BitNumber:  1,
			StartTime:  1462060800, // May 1, 2016 UTC
			ExpireTime: 1493596800, // May 1, 2017 UTC
		},
	},

	// Finality voting schedule
	Finalization: FinalizationParams{
		EpochLength:               50,
		MinDepositSize:            10000 * util.MitePerMeridian,
		DynastyLogoutDelay:        700,
		WithdrawalEpochDelay:      15000,
		SlashFractionMultiplier:   3,
		BountyFractionDenominator: 25,
	},

	// Mempool parameters
	RelayNonStdTxs: true,

	// Human-readable part for Bech32 encoded segwit addresses.
	Bech32HRPSegwit: "tmerd",

	// Address encoding magics
	PubKeyHashAddrID: 0x6f, // starts with m or n
	ScriptHashAddrID: 0xc4, // starts with 2
	PrivateKeyID:     0xef, // starts with 9 (uncompressed) or c (compressed)
}

// SimnetParams defines the network parameters for the simulation test
// meridian network. This network is similar to the normal test network
// except it is intended for private use within a group of individuals doing
// simulation testing.
var SimnetParams = Params{
	Name:        "simnet",
	Net:         appmessage.Simnet,
	DefaultPort: "27860",

	// Chain parameters
	GenesisBlock:             &simnetGenesisBlock,
	GenesisHash:              &simnetGenesisHash,
	MaxBlockSerializedSize:   4000000,
	MaxBlockWeight:           4000000,
	MaxBlockSigOpsCost:       80000,
	CoinbaseMaturity:         100,
	SubsidyReductionInterval: 150,
	TargetTimePerBlock:       time.Second * 1,
	MaxFutureBlockTime:       time.Hour * 2,

	// Consensus rule change deployments. Every deployment is available
	// from the start of the chain.
	RuleChangeActivationThreshold: 75, // 75% of MinerConfirmationWindow
	MinerConfirmationWindow:       100,
	Deployments: [DefinedDeployments]ConsensusDeployment{
		DeploymentTestDummy: {
			BitNumber:  28,
			StartTime:  0,
			ExpireTime: math.MaxUint64,
		},
		DeploymentCSV: {
			BitNumber:  0,
			StartTime:  0,
			ExpireTime: math.MaxUint64,
		},
		DeploymentSegwit: {
			BitNumber:  1,
			StartTime:  0,
			ExpireTime: math.MaxUint64,
		},
	},

	// Finality voting schedule, shortened for simulation runs.
	Finalization: FinalizationParams{
		EpochLength:               5,
		MinDepositSize:            1500 * util.MitePerMeridian,
		DynastyLogoutDelay:        2,
		WithdrawalEpochDelay:      5,
		SlashFractionMultiplier:   3,
		BountyFractionDenominator: 25,
	},

	// Mempool parameters
	RelayNonStdTxs: true,

	// Human-readable part for Bech32 encoded segwit addresses.
	Bech32HRPSegwit: "smerd",

	// Address encoding magics
	PubKeyHashAddrID: 0x3f, // starts with S
	ScriptHashAddrID: 0x7b, // starts with s
	PrivateKeyID:     0x64, // starts with 4 (uncompressed) or F (compressed)
}
