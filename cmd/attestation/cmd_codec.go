package main

import (
	"fmt"

	"github.com/hashgraph-online/attestation-sdk-go/pkg/attestation"
	"github.com/spf13/cobra"
)

var encodeTopicCmd = &cobra.Command{
	Use:   "encode-topic [topic]",
	Short: "Print the wire encoding of a claim topic",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncodeTopic,
}

var encodeValueCmd = &cobra.Command{
	Use:   "encode-value [hex]",
	Short: "Validate a claim value and print its wire encoding",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncodeValue,
}

var decodeCmd = &cobra.Command{
	Use:   "decode [stored-hex]",
	Short: "Decode a stored claim value",
	Long: `Strips the leading zero nibbles of a stored value and prints it as hex
and as bytes. With --topic the value is decoded as topic text instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

var decodeAsTopic bool

func init() {
	decodeCmd.Flags().BoolVar(&decodeAsTopic, "topic", false, "Decode the value as topic text")
}

func runEncodeTopic(cmd *cobra.Command, args []string) error {
	encoded, err := attestation.EncodeTopic(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), encoded)
	return nil
}

func runEncodeValue(cmd *cobra.Command, args []string) error {
	encoded, err := attestation.EncodeValue(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), encoded)
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	if decodeAsTopic {
		topic, err := attestation.DecodeNumericTopic(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), topic)
		return nil
	}

	value, err := attestation.DecodeStoredHex(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "hex=%s bytes=%v\n", value.Hex(), value.Bytes())
	return nil
}
