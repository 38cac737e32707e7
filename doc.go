// The Hashgraph Online Attestation SDK for Go reads and writes attestation
// claims: small, topic-keyed values that an issuer records about a holder
// account. Claims are stored on a Hedera Consensus Service topic and read
// back through the Hedera mirror node.
//
// # Packages
//
//   - attestation: claim codec, multi-claim aggregation and the Ledger client
//   - claimregistry: Hedera Consensus Service backed claim registry
//   - mirror: mirror node REST client for topic messages
//   - shared: network, operator and logging configuration
//
// # Documentation
//
// Full SDK documentation: https://hol.org/docs/libraries/standards-sdk/
//
// Hashgraph Online ecosystem: https://hol.org
//
// # Installation
//
//	go get github.com/hashgraph-online/attestation-sdk-go@latest
package attestation_sdk_go
