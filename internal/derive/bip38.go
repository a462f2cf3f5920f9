// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package derive

import (
	"bytes"
	"crypto/aes"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/text/unicode/norm"
)

// BIP38 payload layout (before the 4 byte checksum)
const (
	bip38PayloadLen      = 39
	bip38FlagCompressed  = 0x20
	bip38FlagNonECMult   = 0xc0
	bip38ScryptN         = 16384
	bip38ScryptR         = 8
	bip38ScryptP         = 8
	bip38DerivedKeyLen   = 64
	bip38AddressHashLen  = 4
	bip38EncryptedHalfSz = 16
)

var (
	bip38PrefixNonECMult = []byte{0x01, 0x42}
	bip38PrefixECMult    = []byte{0x01, 0x43}
)

// decryptBIP38 recovers the private key of a non-EC-multiplied BIP38 key and
// verifies it against the embedded address hash
func decryptBIP38(encoded string, passphrase []byte, params *chaincfg.Params) (*btcec.PrivateKey, bool, error) {
	raw := base58.Decode(encoded)
	if len(raw) != bip38PayloadLen+4 {
		return nil, false, newError(KindInvalidFormat, nil, "bip38 payload is %d bytes", len(raw))
	}
	payload, checksum := raw[:bip38PayloadLen], raw[bip38PayloadLen:]
	if !bytes.Equal(chainhash.DoubleHashB(payload)[:4], checksum) {
		return nil, false, newError(KindInvalidFormat, nil, "bip38 checksum mismatch")
	}

	switch {
	case bytes.Equal(payload[:2], bip38PrefixNonECMult):
	case bytes.Equal(payload[:2], bip38PrefixECMult):
		return nil, false, newError(KindInvalidFormat, nil, "ec-multiplied bip38 keys are not supported")
	default:
		return nil, false, newError(KindInvalidFormat, nil, "unknown bip38 prefix %x", payload[:2])
	}

	flag := payload[2]
	if flag&bip38FlagNonECMult != bip38FlagNonECMult {
		return nil, false, newError(KindInvalidFormat, nil, "unexpected bip38 flag byte %#x", flag)
	}
	compressed := flag&bip38FlagCompressed != 0

	if len(passphrase) == 0 {
		return nil, compressed, newError(KindDecryptionFailed, nil, "passphrase required")
	}

	addressHash := payload[3 : 3+bip38AddressHashLen]
	encrypted := payload[3+bip38AddressHashLen:]

	derived, err := scrypt.Key(norm.NFC.Bytes(passphrase), addressHash,
		bip38ScryptN, bip38ScryptR, bip38ScryptP, bip38DerivedKeyLen)
	if err != nil {
		return nil, compressed, newError(KindDecryptionFailed, err, "scrypt")
	}
	half1, half2 := derived[:32], derived[32:]

	block, err := aes.NewCipher(half2)
	if err != nil {
		return nil, compressed, newError(KindDecryptionFailed, err, "aes")
	}

	secret := make([]byte, 32)
	for i := 0; i < 2; i++ {
		off := i * bip38EncryptedHalfSz
		block.Decrypt(secret[off:off+bip38EncryptedHalfSz], encrypted[off:off+bip38EncryptedHalfSz])
	}
	for i := range secret {
		secret[i] ^= half1[i]
	}

	priv, err := privateKeyFromBytes(secret)
	if err != nil {
		return nil, compressed, newError(KindDecryptionFailed, err, "decrypted key is out of range")
	}

	// The address hash always commits to the legacy address of the key
	addr, err := encodeAddress(priv.PubKey(), compressed, AddressTypeP2PKH, params)
	if err != nil {
		return nil, compressed, newError(KindDecryptionFailed, err, "address")
	}
	if !bytes.Equal(chainhash.DoubleHashB([]byte(addr))[:bip38AddressHashLen], addressHash) {
		return nil, compressed, newError(KindDecryptionFailed, nil, "wrong passphrase")
	}
	return priv, compressed, nil
}
