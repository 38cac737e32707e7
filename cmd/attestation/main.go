package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hashgraph-online/attestation-sdk-go/pkg/attestation"
	"github.com/hashgraph-online/attestation-sdk-go/pkg/claimregistry"
	"github.com/hashgraph-online/attestation-sdk-go/pkg/shared"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose         bool
	registryTopicID string
	timeout         time.Duration
	compress        bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "attestation",
	Short: "Read and write attestation claims on a Hedera claim registry",
	Long: `attestation encodes claim topics and values, and reads, writes and
watches claims stored on a Hedera Consensus Service claim registry.

Operator credentials come from HEDERA_ACCOUNT_ID / HEDERA_PRIVATE_KEY (or a
.env file); the registry topic from ATTESTATION_REGISTRY_TOPIC_ID or --registry.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := os.Getenv("ATTESTATION_LOG_LEVEL")
		if verbose {
			level = "debug"
		}
		built, err := shared.NewLogger(level)
		if err != nil {
			return err
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&registryTopicID, "registry", "", "Claim registry topic ID (or set ATTESTATION_REGISTRY_TOPIC_ID)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	setCmd.Flags().StringVar(&setHolder, "holder", "", "Holder account (default: the operator, as a self claim)")
	setCmd.Flags().BoolVar(&compress, "compress", false, "Brotli-compress the registry message")
	getCmd.Flags().StringSliceVar(&claimIssuers, "issuer", nil, "Issuer account (repeatable, default: the operator)")
	getCmd.Flags().StringSliceVar(&claimTopics, "topic", nil, "Claim topic (repeatable)")
	getCmd.MarkFlagRequired("topic")
	watchCmd.Flags().StringSliceVar(&claimIssuers, "issuer", nil, "Issuer account (repeatable, default: the operator)")
	watchCmd.Flags().StringSliceVar(&claimTopics, "topic", nil, "Claim topic (repeatable)")
	watchCmd.MarkFlagRequired("topic")
	createRegistryCmd.Flags().Int64Var(&registryTTL, "ttl", claimregistry.DefaultTTL, "Registry TTL in seconds")

	rootCmd.AddCommand(encodeTopicCmd)
	rootCmd.AddCommand(encodeValueCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(createRegistryCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClients builds the registry ledger and the attestation client from
// the environment and global flags.
func newClients() (*claimregistry.Client, *attestation.Client, error) {
	config, err := shared.EnvConfigFromEnv()
	if err != nil {
		return nil, nil, err
	}
	topicID := registryTopicID
	if topicID == "" {
		topicID = config.RegistryTopicID
	}

	registry, err := claimregistry.NewClient(claimregistry.ClientConfig{
		OperatorAccountID:  config.Operator.AccountID,
		OperatorPrivateKey: config.Operator.PrivateKey,
		Network:            config.Operator.Network,
		RegistryTopicID:    topicID,
		CompressMessages:   compress,
		Logger:             logger,
	})
	if err != nil {
		return nil, nil, err
	}

	client, err := attestation.NewClient(attestation.ClientConfig{
		Ledger:            registry,
		Logger:            logger,
		LookupConcurrency: 4,
	})
	if err != nil {
		return nil, nil, err
	}
	return registry, client, nil
}
