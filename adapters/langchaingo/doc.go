// Package langchaingo provides Hashgraph Online attestation tools for the
// tmc/langchaingo AI agent framework.
//
// # Available Tools
//
//   - ClaimsLookupTool: Reads attestation claims on a Hedera account and
//     returns them as a topic -> issuer -> hex value JSON object.
//
// # Usage
//
// Add the tool to your agent's toolkit configuration:
//
//	claimsTool, err := langchaingo.NewClaimsLookupTool(attestationClient)
//	agent := initialize.NewSingleActionAgent(llm, []tools.Tool{claimsTool})
//
// # Documentation
//
// SDK documentation: https://hol.org/docs/libraries/standards-sdk/
//
// Langchaingo: https://github.com/tmc/langchaingo
package langchaingo
