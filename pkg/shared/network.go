package shared

import (
	"fmt"
	"strings"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

// NormalizeNetwork lowercases network and defaults it to testnet.
func NormalizeNetwork(network string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(network))
	if normalized == "" {
		return NetworkTestnet, nil
	}

	switch normalized {
	case NetworkMainnet, NetworkTestnet:
		return normalized, nil
	default:
		return "", fmt.Errorf("unsupported network %q", network)
	}
}

// NewHederaClient returns a client for network with its default consensus
// and mirror nodes.
func NewHederaClient(network string) (*hedera.Client, error) {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		return nil, err
	}

	if normalized == NetworkMainnet {
		return hedera.ClientForMainnet(), nil
	}
	return hedera.ClientForTestnet(), nil
}

// NewOperatorClient returns a Hedera client that signs and pays with the
// given operator.
func NewOperatorClient(network string, accountID string, privateKey string) (*hedera.Client, hedera.AccountID, hedera.PrivateKey, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, hedera.AccountID{}, hedera.PrivateKey{}, fmt.Errorf("operator account ID is required")
	}
	if strings.TrimSpace(privateKey) == "" {
		return nil, hedera.AccountID{}, hedera.PrivateKey{}, fmt.Errorf("operator private key is required")
	}

	operatorID, err := hedera.AccountIDFromString(strings.TrimSpace(accountID))
	if err != nil {
		return nil, hedera.AccountID{}, hedera.PrivateKey{}, fmt.Errorf("invalid operator account ID: %w", err)
	}
	operatorKey, err := ParsePrivateKey(privateKey)
	if err != nil {
		return nil, hedera.AccountID{}, hedera.PrivateKey{}, err
	}

	client, err := NewHederaClient(network)
	if err != nil {
		return nil, hedera.AccountID{}, hedera.PrivateKey{}, err
	}
	client.SetOperator(operatorID, operatorKey)
	return client, operatorID, operatorKey, nil
}

// ParsePrivateKey tries ED25519, then ECDSA, then the generic DER parser.
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
