package shared

import (
	"fmt"
	"strings"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// OperatorConfig is the account that pays for and signs wallet transactions.
type OperatorConfig struct {
	AccountID  string
	PrivateKey string
	Network    string
}

var (
	accountIDEnvKeys  = []string{"HEDERA_ACCOUNT_ID", "HEDERA_OPERATOR_ID", "OPERATOR_ID"}
	privateKeyEnvKeys = []string{"HEDERA_PRIVATE_KEY", "HEDERA_OPERATOR_KEY", "OPERATOR_KEY"}
)

// OperatorConfigFromEnv resolves the operator for the network named by
// HEDERA_NETWORK, falling back to testnet.
func OperatorConfigFromEnv() (OperatorConfig, error) {
	loadDotEnvIfPresent()
	return OperatorConfigForNetwork(firstNonEmptyEnv("HEDERA_NETWORK", "NETWORK"))
}

// OperatorConfigForNetwork resolves operator credentials for one network.
// Network-scoped variables such as TESTNET_HEDERA_ACCOUNT_ID win over the
// unscoped ones.
func OperatorConfigForNetwork(network string) (OperatorConfig, error) {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		return OperatorConfig{}, err
	}
	loadDotEnvIfPresent()

	scope := strings.ToUpper(normalized) + "_"
	accountID := firstNonEmptyEnv(scopedKeys(scope, accountIDEnvKeys)...)
	if accountID == "" {
		accountID = firstNonEmptyEnv(accountIDEnvKeys...)
	}
	privateKey := firstNonEmptyEnv(scopedKeys(scope, privateKeyEnvKeys)...)
	if privateKey == "" {
		privateKey = firstNonEmptyEnv(privateKeyEnvKeys...)
	}

	if accountID == "" {
		return OperatorConfig{}, fmt.Errorf("HEDERA_ACCOUNT_ID is required")
	}
	if privateKey == "" {
		return OperatorConfig{}, fmt.Errorf("HEDERA_PRIVATE_KEY is required")
	}
	if _, err := hedera.AccountIDFromString(accountID); err != nil {
		return OperatorConfig{}, fmt.Errorf("invalid operator account ID %q: %w", accountID, err)
	}

	return OperatorConfig{
		AccountID:  accountID,
		PrivateKey: privateKey,
		Network:    normalized,
	}, nil
}

func scopedKeys(scope string, keys []string) []string {
	scoped := make([]string, 0, len(keys))
	for _, key := range keys {
		scoped = append(scoped, scope+key)
	}
	return scoped
}

// ParsePrivateKey accepts ED25519, ECDSA or DER-encoded private keys.
func ParsePrivateKey(raw string) (hedera.PrivateKey, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return hedera.PrivateKey{}, fmt.Errorf("private key cannot be empty")
	}

	ed25519Key, edErr := hedera.PrivateKeyFromStringEd25519(candidate)
	if edErr == nil {
		return ed25519Key, nil
	}

	ecdsaKey, ecdsaErr := hedera.PrivateKeyFromStringECDSA(candidate)
	if ecdsaErr == nil {
		return ecdsaKey, nil
	}

	genericKey, genericErr := hedera.PrivateKeyFromString(candidate)
	if genericErr == nil {
		return genericKey, nil
	}

	return hedera.PrivateKey{}, fmt.Errorf(
		"failed to parse private key as ED25519 (%v), ECDSA (%v), or generic (%v)",
		edErr,
		ecdsaErr,
		genericErr,
	)
}

// ParsePublicKey accepts a public key, or derives one from a private key.
func ParsePublicKey(raw string) (hedera.PublicKey, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return hedera.PublicKey{}, fmt.Errorf("public key cannot be empty")
	}

	publicKey, pubErr := hedera.PublicKeyFromString(candidate)
	if pubErr == nil {
		return publicKey, nil
	}

	privateKey, prvErr := ParsePrivateKey(candidate)
	if prvErr != nil {
		return hedera.PublicKey{}, fmt.Errorf("failed to parse key as public (%v) or private (%v)", pubErr, prvErr)
	}
	return privateKey.PublicKey(), nil
}
