package config

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/meridiannet/meridiand/domain/chaincfg"
)

// NetworkFlags holds the network configuration, that is which network is
// selected.
type NetworkFlags struct {
	Testnet bool `long:"testnet" description:"Use the test network"`
	Simnet  bool `long:"simnet" description:"Use the simulation test network"`

	ActiveNetParams *chaincfg.Params
}

// ResolveNetwork parses the network command line arguments and sets
// ActiveNetParams accordingly. It returns an error if more than one network
// was selected, nil otherwise.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	// Default value is main-net.
	networkFlags.ActiveNetParams = &chaincfg.MainnetParams
	// Multiple networks can't be selected simultaneously.
	numNets := 0
	// Count number of network flags passed; assign active network params
	// while we're at it
	if networkFlags.Testnet {
		numNets++
		networkFlags.ActiveNetParams = &chaincfg.TestnetParams
	}
	if networkFlags.Simnet {
		numNets++
		networkFlags.ActiveNetParams = &chaincfg.SimnetParams
	}
	if numNets > 1 {
		message := "Multiple network parameters (testnet, simnet) cannot " +
			"be used together. Please choose only one network"
		err := errors.Errorf(message)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return err
	}

	return nil
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *chaincfg.Params {
	return networkFlags.ActiveNetParams
}
