// Package attestation implements attestation claims: small, topic-keyed
// values that an issuer records about a holder on a ledger. It provides
// the claim codec (topic and value validation plus the hex wire encoding
// the ledger expects), the multi-claim aggregator that reshapes per-pair
// lookups into a topic -> issuer -> value table, and a Client that binds
// both to any Ledger implementation.
//
// The codec and aggregator are pure and synchronous. Everything that talks
// to a network (submitting transactions, reading stored values, watching
// for updates) sits behind the Ledger and Watcher interfaces; the
// claimregistry package provides a Hedera Consensus Service backed
// implementation.
//
// # Wire Encoding
//
// Topics are encoded as the 0x-prefixed lowercase hex of their ASCII
// bytes. Values are 1 to 64 hex digits (at most 32 bytes). Stored values
// come back zero-padded to the ledger's canonical width and are exposed as
// a StoredValue with the leading zero nibbles stripped.
//
// # SDK Documentation
//
// SDK documentation and guides: https://hol.org/docs/libraries/standards-sdk/
package attestation
