package langchaingo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashgraph-online/attestation-sdk-go/pkg/attestation"
	"github.com/tmc/langchaingo/callbacks"
	"github.com/tmc/langchaingo/tools"
)

// ClaimsLookupInput is the JSON object the tool expects as input.
type ClaimsLookupInput struct {
	Holder  string   `json:"holder"`
	Issuers []string `json:"issuers"`
	Topics  []string `json:"topics"`
}

// ClaimsLookupTool is a langchaingo compatible Tool that reads attestation
// claims on a holder account.
type ClaimsLookupTool struct {
	client    *attestation.Client
	Callbacks callbacks.Handler
}

var _ tools.Tool = &ClaimsLookupTool{}

// NewClaimsLookupTool creates a new langchaingo tool backed by client.
func NewClaimsLookupTool(client *attestation.Client) (*ClaimsLookupTool, error) {
	if client == nil {
		return nil, fmt.Errorf("attestation client is required")
	}
	return &ClaimsLookupTool{client: client}, nil
}

// Name returns the name of the tool.
func (t *ClaimsLookupTool) Name() string {
	return "Hashgraph_Online_Attestation_Claims"
}

// Description returns a description of the tool to help the language model
// decide when to use it.
func (t *ClaimsLookupTool) Description() string {
	return `Reads attestation claims recorded about a Hedera account.
Input is a JSON object: {"holder":"0.0.1234","issuers":["0.0.5678"],"topics":["kyc"]}.
Returns a JSON object mapping each topic to each issuer's hex value; "0x" means no claim.`
}

// Call parses input, reads every issuer/topic claim on the holder and
// returns the table as JSON. Lookup failures are reported to the model as
// text rather than returned as errors.
func (t *ClaimsLookupTool) Call(ctx context.Context, input string) (string, error) {
	if t.Callbacks != nil {
		t.Callbacks.HandleToolStart(ctx, input)
	}

	var request ClaimsLookupInput
	if err := json.Unmarshal([]byte(strings.TrimSpace(input)), &request); err != nil {
		return t.fail(ctx, fmt.Errorf("input must be a JSON object with holder, issuers and topics: %w", err)), nil
	}

	view, err := t.client.GetClaims(ctx, request.Holder, request.Issuers, request.Topics)
	if err != nil {
		return t.fail(ctx, err), nil
	}

	jsonData, err := json.MarshalIndent(view.AsHex(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode claims to JSON: %w", err)
	}

	output := string(jsonData)
	if t.Callbacks != nil {
		t.Callbacks.HandleToolEnd(ctx, output)
	}
	return output, nil
}

func (t *ClaimsLookupTool) fail(ctx context.Context, err error) string {
	if t.Callbacks != nil {
		t.Callbacks.HandleToolError(ctx, err)
	}
	return fmt.Sprintf("Failed to read claims: %v", err)
}
