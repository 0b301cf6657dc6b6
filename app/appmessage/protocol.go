// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"fmt"
)

// MeridianNet represents which meridian network a message belongs to.
type MeridianNet uint32

// Constants used to indicate the message meridian network. They can also be
// used to seek to the next message when a stream's state is unknown, but
// this package does not provide that functionality since it's generally a
// better idea to simply disconnect clients that are misbehaving over TCP.
const (
	// Mainnet represents the main meridian network.
	Mainnet MeridianNet = 0x41c8a6d9

	// Testnet represents the test network.
	Testnet MeridianNet = 0x9d31b5c4

	// Simnet represents the simulation test network.
	Simnet MeridianNet = 0x58c2e6f1
)

// mnStrings is a map of meridian networks back to their constant names for
// pretty printing.
var mnStrings = map[MeridianNet]string{
	Mainnet: "Mainnet",
	Testnet: "Testnet",
	Simnet:  "Simnet",
}

// String returns the MeridianNet in human-readable form.
func (n MeridianNet) String() string {
	if s, ok := mnStrings[n]; ok {
		return s
	}

	return fmt.Sprintf("Unknown MeridianNet (%d)", uint32(n))
}
