// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"github.com/meridiannet/meridiand/app/appmessage"
	"github.com/meridiannet/meridiand/domain/txscript"
	"github.com/meridiannet/meridiand/util/chainhash"
)

// genesisCoinbaseTx is the coinbase transaction for the genesis blocks of
// every network. The signature script embeds the customary timestamp proof
// and the sole output is provably unspendable, so the genesis coins never
// enter circulation.
var genesisCoinbaseTx = appmessage.MsgTx{
	Version: 1,
	Type:    appmessage.TxTypeCoinbase,
	TxIn: []*appmessage.TxIn{
		{
			PreviousOutpoint: appmessage.Outpoint{
				TxID:  chainhash.TxID{},
				Index: 0xffffffff,
			},
			SignatureScript: []byte{
				0x04, 0xff, 0xff, 0x00, 0x1d, 0x01, 0x04, 0x49, /* |.......I| */
				0x54, 0x68, 0x65, 0x20, 0x54, 0x69, 0x6d, 0x65, /* |The Time| */
				0x73, 0x20, 0x33, 0x31, 0x2f, 0x4f, 0x63, 0x74, /* |s 31/Oct| */
				0x2f, 0x32, 0x30, 0x31, 0x39, 0x20, 0x43, 0x65, /* |/2019 Ce| */
				0x6e, 0x74, 0x72, 0x61, 0x6c, 0x20, 0x62, 0x61, /* |ntral ba| */
				0x6e, 0x6b, 0x73, 0x20, 0x77, 0x65, 0x69, 0x67, /* |nks weig| */
				0x68, 0x20, 0x64, 0x69, 0x67, 0x69, 0x74, 0x61, /* |h digita| */
				0x6c, 0x20, 0x63, 0x75, 0x72, 0x72, 0x65, 0x6e, /* |l curren| */
				0x63, 0x69, 0x65, 0x73, 0x20, 0x6f, 0x66, 0x20, /* |cies of | */
				0x74, 0x68, 0x65, 0x69, 0x72, 0x20, 0x6f, 0x77, /* |their ow| */
				0x6e, /* |n| */
			},
			Sequence: appmessage.MaxTxInSequenceNum,
		},
	},
	TxOut: []*appmessage.TxOut{
		{
			Value:        0,
			ScriptPubKey: txscript.ProvablyUnspendableScript(),
		},
	},
	LockTime: 0,
}

// genesisMerkleRoot is the merkle root of the genesis blocks. A
// one-transaction tree collapses to its single leaf, which is the coinbase
// transaction ID.
var genesisMerkleRoot = chainhash.Hash(genesisCoinbaseTx.TxID())

// genesisWitnessMerkleRoot is the witness merkle root of the genesis blocks.
// The coinbase leaf of a witness tree is the zero hash, so the
// one-transaction tree is the zero hash as well.
var genesisWitnessMerkleRoot = chainhash.Hash{}

// genesisBlock defines the genesis block of the block chain which serves as
// the starting point of the main network.
var genesisBlock = appmessage.MsgBlock{
	Header: appmessage.MsgBlockHeader{
		Version:               1,
		PrevBlock:             chainhash.Hash{},
		HashMerkleRoot:        genesisMerkleRoot,
		HashWitnessMerkleRoot: genesisWitnessMerkleRoot,
		Timestamp:             1572480000, // 2019-10-31 00:00:00 +0000 UTC
		Bits:                  0x1d00ffff,
	},
	Transactions: []*appmessage.MsgTx{&genesisCoinbaseTx},
}

// genesisHash is the hash of the first block in the block chain for the main
// network. It is derived from the constructed block rather than written out
// as a literal.
var genesisHash = genesisBlock.Header.BlockHash()

// testnetGenesisBlock defines the genesis block of the block chain which
// serves as the starting point of the test network.
var testnetGenesisBlock = appmessage.MsgBlock{
	Header: appmessage.MsgBlockHeader{
		Version:               1,
		PrevBlock:             chainhash.Hash{},
		HashMerkleRoot:        genesisMerkleRoot,
		HashWitnessMerkleRoot: genesisWitnessMerkleRoot,
		Timestamp:             1573084800, // 2019-11-07 00:00:00 +0000 UTC
		Bits:                  0x1d00ffff,
	},
	Transactions: []*appmessage.MsgTx{&genesisCoinbaseTx},
}

// testnetGenesisHash is the hash of the first block in the block chain for
// the test network.
var testnetGenesisHash = testnetGenesisBlock.Header.BlockHash()

// simnetGenesisBlock defines the genesis block of the block chain which
// serves as the starting point of the simulation test network.
var simnetGenesisBlock = appmessage.MsgBlock{
	Header: appmessage.MsgBlockHeader{
		Version:               1,
		PrevBlock:             chainhash.Hash{},
		HashMerkleRoot:        genesisMerkleRoot,
		HashWitnessMerkleRoot: genesisWitnessMerkleRoot,
		Timestamp:             1573171200, // 2019-11-08 00:00:00 +0000 UTC
		Bits:                  0x207fffff,
	},
	Transactions: []*appmessage.MsgTx{&genesisCoinbaseTx},
}

// simnetGenesisHash is the hash of the first block in the block chain for
// the simulation test network.
var simnetGenesisHash = simnetGenesisBlock.Header.BlockHash()
