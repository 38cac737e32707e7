package shared

import (
	"fmt"
	"os"
	"strings"
)

type OperatorConfig struct {
	AccountID  string
	PrivateKey string
	Network    string
}

type EnvConfig struct {
	Operator        OperatorConfig
	RegistryTopicID string
	LogLevel        string
}

// OperatorConfigFromEnv reads operator credentials from the environment,
// loading the nearest .env file first.
func OperatorConfigFromEnv() (OperatorConfig, error) {
	loadDotEnvIfPresent()

	network := firstNonEmptyEnv("HEDERA_NETWORK", "NETWORK")
	if network == "" {
		network = NetworkTestnet
	}

	accountID := scopedEnv(network, "HEDERA_ACCOUNT_ID", "HEDERA_OPERATOR_ID", "ACCOUNT_ID", "OPERATOR_ID")
	privateKey := scopedEnv(network, "HEDERA_PRIVATE_KEY", "HEDERA_OPERATOR_KEY", "PRIVATE_KEY", "OPERATOR_KEY")

	if accountID == "" {
		return OperatorConfig{}, fmt.Errorf("HEDERA_ACCOUNT_ID is required")
	}
	if privateKey == "" {
		return OperatorConfig{}, fmt.Errorf("HEDERA_PRIVATE_KEY is required")
	}

	return OperatorConfig{
		AccountID:  accountID,
		PrivateKey: privateKey,
		Network:    network,
	}, nil
}

// EnvConfigFromEnv reads operator credentials, the claim registry topic
// and the log level. The registry topic is optional.
func EnvConfigFromEnv() (EnvConfig, error) {
	operator, err := OperatorConfigFromEnv()
	if err != nil {
		return EnvConfig{}, err
	}

	return EnvConfig{
		Operator:        operator,
		RegistryTopicID: RegistryTopicIDFromEnv(operator.Network),
		LogLevel:        firstNonEmptyEnv("ATTESTATION_LOG_LEVEL", "LOG_LEVEL"),
	}, nil
}

// RegistryTopicIDFromEnv returns the claim registry topic for network, or
// an empty string when none is configured.
func RegistryTopicIDFromEnv(network string) string {
	loadDotEnvIfPresent()
	return scopedEnv(network, "ATTESTATION_REGISTRY_TOPIC_ID", "REGISTRY_TOPIC_ID")
}

// scopedEnv prefers MAINNET_/TESTNET_ prefixed keys for the given network
// over the unscoped ones.
func scopedEnv(network string, keys ...string) string {
	prefix := ""
	switch strings.ToLower(strings.TrimSpace(network)) {
	case NetworkMainnet:
		prefix = "MAINNET_"
	case NetworkTestnet:
		prefix = "TESTNET_"
	}

	if prefix != "" {
		scopedKeys := make([]string, 0, len(keys))
		for _, key := range keys {
			scopedKeys = append(scopedKeys, prefix+key)
		}
		if value := firstNonEmptyEnv(scopedKeys...); value != "" {
			return value
		}
	}
	return firstNonEmptyEnv(keys...)
}

func firstNonEmptyEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}
