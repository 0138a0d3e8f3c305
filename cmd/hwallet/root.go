package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	root := &cobra.Command{
		Use:   "hwallet",
		Short: "Hedera wallet operations from the terminal",
		Long: `hwallet creates topics, manages token associations, transfers crypto,
runs atomic swaps and stakes HBAR for the current account. Every operation
shows what it is about to do and waits for approval before it is submitted.

Operator keys are read from HEDERA_ACCOUNT_ID and HEDERA_PRIVATE_KEY (or a
.env file), optionally scoped per network such as TESTNET_HEDERA_ACCOUNT_ID.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "~/.hedera-wallet/config.yaml", "path to the wallet config file")
	flags.StringVar(&a.network, "network", "", "network to use (mainnet, testnet, previewnet)")
	flags.StringVar(&a.dataDir, "data-dir", "", "directory holding the wallet database")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVarP(&a.autoApprove, "yes", "y", false, "approve every prompt without asking")

	root.AddCommand(
		newAccountCmd(a),
		newTopicCmd(a),
		newTokensCmd(a),
		newTransferCmd(a),
		newSwapCmd(a),
		newStakeCmd(a),
		newUnstakeCmd(a),
	)
	return root
}

func printJSON(out io.Writer, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}
