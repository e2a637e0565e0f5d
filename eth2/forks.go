package eth2

import (
	"errors"
	"strings"
)

var (
	ErrUnsupportedNetwork = errors.New("no Capella fork known for the provided fork version")
)

// Maps each network's genesis fork version to its Capella fork version.
// Voluntary exits are signed under the Capella domain regardless of the
// fork the chain is currently on.
var capellaForkMapping = map[string]string{
	"0x00000000": "0x03000000", // mainnet
	"0x00001020": "0x03001020", // goerli
	"0x00000064": "0x03000064", // gnosis
	"0x90000069": "0x90000072", // sepolia
	"0x01017000": "0x04017000", // holesky
}

// Human-readable network names, used for logging only
var networkNames = map[string]string{
	"0x00000000": "mainnet",
	"0x00001020": "goerli",
	"0x00000064": "gnosis",
	"0x90000069": "sepolia",
	"0x01017000": "holesky",
}

// CapellaFork returns the Capella fork version for the given genesis fork
// version, or ErrUnsupportedNetwork if the network isn't recognized.
func CapellaFork(baseForkVersion string) (string, error) {
	fork, exists := capellaForkMapping[strings.ToLower(baseForkVersion)]
	if !exists {
		return "", ErrUnsupportedNetwork
	}
	return fork, nil
}

// NetworkName returns the name of the network with the given genesis fork
// version. The second return is false for unknown networks; callers should
// treat that as a logging inconvenience, never a failure.
func NetworkName(baseForkVersion string) (string, bool) {
	name, exists := networkNames[strings.ToLower(baseForkVersion)]
	return name, exists
}
