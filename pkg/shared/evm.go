package shared

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// IsEVMAddress reports whether value is a 0x-prefixed 20-byte hex address.
func IsEVMAddress(value string) bool {
	trimmed := strings.TrimSpace(value)
	return strings.HasPrefix(trimmed, "0x") && common.IsHexAddress(trimmed)
}

// ChecksumEVMAddress returns the EIP-55 form of an address.
func ChecksumEVMAddress(value string) (string, error) {
	if !IsEVMAddress(value) {
		return "", fmt.Errorf("invalid EVM address %q", value)
	}
	return common.HexToAddress(strings.TrimSpace(value)).Hex(), nil
}

// EVMAddressFromPublicKey derives the EVM address of a secp256k1 public key
// given as compressed or uncompressed hex. DER prefixes are not accepted.
func EVMAddressFromPublicKey(publicKeyHex string) (string, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(publicKeyHex), "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid public key hex: %w", err)
	}

	publicKey, err := btcec.ParsePubKey(raw)
	if err != nil {
		return "", fmt.Errorf("invalid secp256k1 public key: %w", err)
	}

	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(publicKey.SerializeUncompressed()[1:])
	digest := hasher.Sum(nil)

	return common.BytesToAddress(digest[12:]).Hex(), nil
}
