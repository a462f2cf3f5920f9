// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package derive

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"keyrecover/internal/keyspace"
	"keyrecover/internal/security"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
)

// AddressDeriver turns a candidate private key into its public fingerprint.
// Implementations must be deterministic and safe for concurrent use.
type AddressDeriver interface {
	Derive(candidate string) (string, error)
}

// DeriverFunc adapts a function to AddressDeriver
type DeriverFunc func(candidate string) (string, error)

func (f DeriverFunc) Derive(candidate string) (string, error) {
	return f(candidate)
}

// Options configures a BitcoinDeriver
type Options struct {
	Params      *chaincfg.Params
	AddressType AddressType // must be resolved; auto falls back to p2pkh
	// Compressed applies to raw hex keys only. WIF and BIP38 keys carry
	// their own compression flag.
	Compressed bool
	Passphrase *security.Passphrase
}

// BitcoinDeriver derives Bitcoin addresses from hex, WIF and BIP38 keys
type BitcoinDeriver struct {
	params      *chaincfg.Params
	addressType AddressType
	compressed  bool
	passphrase  *security.Passphrase
}

// NewBitcoinDeriver creates a deriver. A nil Params selects mainnet.
func NewBitcoinDeriver(opts Options) *BitcoinDeriver {
	params := opts.Params
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	at := opts.AddressType
	if at == AddressTypeAuto {
		at = AddressTypeP2PKH
	}
	return &BitcoinDeriver{
		params:      params,
		addressType: at,
		compressed:  opts.Compressed,
		passphrase:  opts.Passphrase,
	}
}

// Derive returns the address of candidate. The encoding is detected from the
// candidate's shape: 64 characters are hex, 58 characters starting with 6P
// are BIP38, anything else is decoded as WIF.
func (d *BitcoinDeriver) Derive(candidate string) (string, error) {
	var (
		priv       *btcec.PrivateKey
		compressed bool
		err        error
	)

	switch {
	case len(candidate) == keyspace.HexKeyLength:
		priv, err = d.fromHex(candidate)
		compressed = d.compressed
	case keyspace.LooksEncrypted(candidate):
		priv, compressed, err = decryptBIP38(candidate, d.passphrase.Bytes(), d.params)
	default:
		priv, compressed, err = d.fromWIF(candidate)
	}
	if err != nil {
		return "", err
	}

	addr, err := encodeAddress(priv.PubKey(), compressed, d.addressType, d.params)
	if err != nil {
		return "", newError(KindInvalidKey, err, "address encoding")
	}
	return addr, nil
}

// fromHex accepts lowercase digits only, so case variants of one key are
// not counted as distinct candidates
func (d *BitcoinDeriver) fromHex(candidate string) (*btcec.PrivateKey, error) {
	for i := 0; i < len(candidate); i++ {
		if !keyspace.HexAlphabet.Contains(candidate[i]) {
			return nil, newError(KindInvalidFormat, nil, "non-canonical hex symbol '%c' at %d", candidate[i], i)
		}
	}
	raw, err := hex.DecodeString(candidate)
	if err != nil {
		return nil, newError(KindInvalidFormat, err, "hex")
	}
	return privateKeyFromBytes(raw)
}

func (d *BitcoinDeriver) fromWIF(candidate string) (*btcec.PrivateKey, bool, error) {
	wif, err := btcutil.DecodeWIF(candidate)
	if err != nil {
		return nil, false, newError(KindInvalidFormat, err, "wif")
	}
	if !wif.IsForNet(d.params) {
		return nil, false, newError(KindInvalidFormat, nil, "wif is not for %s", d.params.Name)
	}

	// DecodeWIF reduces the scalar mod N; reject keys that were out of range
	raw := base58.Decode(candidate)
	if len(raw) < 33 || !bytes.Equal(raw[1:33], wif.PrivKey.Serialize()) || wif.PrivKey.Key.IsZero() {
		return nil, false, newError(KindInvalidKey, nil, "wif scalar out of range")
	}
	return wif.PrivKey, wif.CompressPubKey, nil
}

// privateKeyFromBytes accepts exactly 32 bytes encoding a scalar in [1, N-1]
func privateKeyFromBytes(raw []byte) (*btcec.PrivateKey, error) {
	if len(raw) != 32 {
		return nil, newError(KindInvalidKey, nil, "expected 32 bytes, got %d", len(raw))
	}
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(raw); overflow || scalar.IsZero() {
		return nil, newError(KindInvalidKey, nil, "scalar out of range")
	}
	priv, _ := btcec.PrivKeyFromBytes(raw)
	return priv, nil
}

// String describes the deriver for logs
func (d *BitcoinDeriver) String() string {
	return fmt.Sprintf("bitcoin(%s, %s, compressed=%t, passphrase=%t)",
		d.params.Name, d.addressType, d.compressed, !d.passphrase.Empty())
}
