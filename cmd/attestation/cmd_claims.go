package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashgraph-online/attestation-sdk-go/pkg/attestation"
	"github.com/hashgraph-online/attestation-sdk-go/pkg/claimregistry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	setHolder    string
	claimIssuers []string
	claimTopics  []string
	registryTTL  int64
)

var createRegistryCmd = &cobra.Command{
	Use:   "create-registry",
	Short: "Create a new claim registry topic",
	Args:  cobra.NoArgs,
	RunE:  runCreateRegistry,
}

var setCmd = &cobra.Command{
	Use:   "set [topic] [value]",
	Short: "Set a claim issued by the operator",
	Long: `Sets a claim on --holder, or a self claim on the operator account when
no holder is given. The value is a hex string of 1 to 64 digits.

Example:
  attestation set kyc 0x01 --holder 0.0.1234`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

var removeCmd = &cobra.Command{
	Use:   "remove [holder] [topic]",
	Short: "Remove a claim the operator issued",
	Args:  cobra.ExactArgs(2),
	RunE:  runRemove,
}

var getCmd = &cobra.Command{
	Use:   "get [holder]",
	Short: "Read claims on a holder as topic -> issuer -> value JSON",
	Long: `Reads every --issuer / --topic pair on holder.

Example:
  attestation get 0.0.1234 --issuer 0.0.5678 --topic kyc --topic aml`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var watchCmd = &cobra.Command{
	Use:   "watch [holder]",
	Short: "Print claims on a holder each time one changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func runCreateRegistry(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	registry, _, err := newClients()
	if err != nil {
		return err
	}
	result, err := registry.CreateRegistry(ctx, claimregistry.CreateRegistryOptions{
		TTL:                registryTTL,
		UseOperatorAsAdmin: true,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created claim registry topic %s (%s)\n", result.TopicID, result.TransactionID)
	return nil
}

func runSet(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	_, client, err := newClients()
	if err != nil {
		return err
	}

	var result attestation.TransactionResult
	if setHolder == "" {
		result, err = client.SetSelfClaim(ctx, args[0], args[1])
	} else {
		result, err = client.SetClaim(ctx, setHolder, args[0], args[1])
	}
	if err != nil {
		return err
	}
	return printResult(cmd, result)
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	_, client, err := newClients()
	if err != nil {
		return err
	}
	result, err := client.RemoveClaim(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	return printResult(cmd, result)
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	registry, client, err := newClients()
	if err != nil {
		return err
	}
	view, err := client.GetClaims(ctx, args[0], issuersOrOperator(registry), claimTopics)
	if err != nil {
		return err
	}
	return printJSON(cmd, view.AsHex())
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	registry, client, err := newClients()
	if err != nil {
		return err
	}

	failed := make(chan error, 1)
	subscription, err := client.WatchClaims(ctx, args[0], issuersOrOperator(registry), claimTopics, func(view attestation.ClaimsView, err error) {
		if err != nil {
			failed <- err
			return
		}
		if printErr := printJSON(cmd, view.AsHex()); printErr != nil {
			logger.Warn("failed to print claims", zap.Error(printErr))
		}
	})
	if err != nil {
		return err
	}
	defer subscription.Unsubscribe()

	select {
	case <-ctx.Done():
		logger.Info("watch stopped")
		return nil
	case err := <-failed:
		return err
	}
}

func issuersOrOperator(registry *claimregistry.Client) []string {
	if len(claimIssuers) > 0 {
		return claimIssuers
	}
	return []string{registry.OperatorAccountID()}
}

func printResult(cmd *cobra.Command, result attestation.TransactionResult) error {
	return printJSON(cmd, result)
}

func printJSON(cmd *cobra.Command, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
