// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package derive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// ErrUnsupportedTarget is returned for target addresses no key can be matched against
var ErrUnsupportedTarget = errors.New("unsupported target address")

// AddressType selects the fingerprint derived from a public key
type AddressType int

const (
	AddressTypeAuto       AddressType = iota // inferred from the target address
	AddressTypeP2PKH                         // legacy 1...
	AddressTypeP2WPKH                        // native segwit bc1q...
	AddressTypeP2SHP2WPKH                    // nested segwit 3...
)

func (a AddressType) String() string {
	switch a {
	case AddressTypeP2PKH:
		return "p2pkh"
	case AddressTypeP2WPKH:
		return "p2wpkh"
	case AddressTypeP2SHP2WPKH:
		return "p2sh-p2wpkh"
	default:
		return "auto"
	}
}

// ParseAddressType parses a configured address type name
func ParseAddressType(name string) (AddressType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return AddressTypeAuto, nil
	case "p2pkh", "legacy":
		return AddressTypeP2PKH, nil
	case "p2wpkh", "segwit", "bech32":
		return AddressTypeP2WPKH, nil
	case "p2sh-p2wpkh", "p2sh", "nested":
		return AddressTypeP2SHP2WPKH, nil
	default:
		return AddressTypeAuto, fmt.Errorf("unknown address type '%s' (valid: auto, p2pkh, p2wpkh, p2sh-p2wpkh)", name)
	}
}

// ParseNetwork returns the chain parameters for a network name
func ParseNetwork(name string) (*chaincfg.Params, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mainnet", "main":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network '%s' (valid: mainnet, testnet, regtest, signet)", name)
	}
}

// Target is a decoded fingerprint
type Target struct {
	Address     string // canonical encoding
	AddressType AddressType
}

// ParseTarget decodes target for params and infers the address type a key
// must be encoded as to match it
func ParseTarget(target string, params *chaincfg.Params) (Target, error) {
	addr, err := btcutil.DecodeAddress(strings.TrimSpace(target), params)
	if err != nil {
		return Target{}, fmt.Errorf("%w '%s': %v", ErrUnsupportedTarget, target, err)
	}
	if !addr.IsForNet(params) {
		return Target{}, fmt.Errorf("%w '%s': not a %s address", ErrUnsupportedTarget, target, params.Name)
	}

	var at AddressType
	switch addr.(type) {
	case *btcutil.AddressPubKeyHash:
		at = AddressTypeP2PKH
	case *btcutil.AddressWitnessPubKeyHash:
		at = AddressTypeP2WPKH
	case *btcutil.AddressScriptHash:
		at = AddressTypeP2SHP2WPKH
	default:
		return Target{}, fmt.Errorf("%w '%s': %T is not derived from a single key", ErrUnsupportedTarget, target, addr)
	}
	return Target{Address: addr.EncodeAddress(), AddressType: at}, nil
}

// encodeAddress renders pub in the requested form. Segwit forms always commit
// to the compressed key.
func encodeAddress(pub *btcec.PublicKey, compressed bool, at AddressType, params *chaincfg.Params) (string, error) {
	switch at {
	case AddressTypeP2WPKH:
		addr, err := btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(pub.SerializeCompressed()), params)
		if err != nil {
			return "", err
		}
		return addr.EncodeAddress(), nil

	case AddressTypeP2SHP2WPKH:
		redeem, err := txscript.NewScriptBuilder().
			AddOp(txscript.OP_0).
			AddData(btcutil.Hash160(pub.SerializeCompressed())).
			Script()
		if err != nil {
			return "", err
		}
		addr, err := btcutil.NewAddressScriptHash(redeem, params)
		if err != nil {
			return "", err
		}
		return addr.EncodeAddress(), nil

	default:
		serialized := pub.SerializeUncompressed()
		if compressed {
			serialized = pub.SerializeCompressed()
		}
		addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(serialized), params)
		if err != nil {
			return "", err
		}
		return addr.EncodeAddress(), nil
	}
}
