// Package shared holds the pieces every attestation SDK package needs:
// network normalization, Hedera client construction, private key parsing,
// environment and .env configuration, and logger construction.
//
// # Environment Variables
//
//	HEDERA_NETWORK                 mainnet or testnet (default testnet)
//	HEDERA_ACCOUNT_ID              operator account, e.g. 0.0.1234
//	HEDERA_PRIVATE_KEY             operator key (ED25519 or ECDSA)
//	ATTESTATION_REGISTRY_TOPIC_ID  claim registry topic
//	ATTESTATION_LOG_LEVEL          debug, info, warn or error
//
// Account, key and registry variables may be prefixed with TESTNET_ or
// MAINNET_ to override the unscoped value on that network.
package shared
