package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hashgraph-online/wallet-facades-go/pkg/command"
	"github.com/hashgraph-online/wallet-facades-go/pkg/facade"
	"github.com/hashgraph-online/wallet-facades-go/pkg/state"
)

func newAccountCmd(a *app) *cobra.Command {
	account := &cobra.Command{
		Use:   "account",
		Short: "Select and inspect the current account",
	}

	use := &cobra.Command{
		Use:   "use <account-id|evm-address>",
		Short: "Make an account the current account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := a.facade.SelectAccount(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(a.out, selected)
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Refresh and print the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.facade.CurrentAccount(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(a.out, current)
		},
	}

	var limit int
	activity := &cobra.Command{
		Use:   "activity",
		Short: "List recent transactions of the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.store.CurrentAccount(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := a.store.ListActivity(cmd.Context(), current.Network, current.AccountID, limit)
			if err != nil {
				return err
			}
			return printJSON(a.out, entries)
		},
	}
	activity.Flags().IntVar(&limit, "limit", 20, "maximum number of entries")

	account.AddCommand(use, show, activity)
	return account
}

func newTopicCmd(a *app) *cobra.Command {
	topic := &cobra.Command{
		Use:   "topic",
		Short: "Create and publish to consensus topics",
	}

	var request facade.CreateTopicRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a consensus topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.facade.CreateTopic(cmd.Context(), request)
			if err != nil {
				return err
			}
			return printJSON(a.out, result)
		},
	}
	create.Flags().StringVar(&request.Memo, "memo", "", "topic memo (at most 100 bytes)")
	create.Flags().StringVar(&request.AdminKey, "admin-key", "", `admin public key, or "current"`)
	create.Flags().StringVar(&request.SubmitKey, "submit-key", "", `submit public key, or "current"`)
	create.Flags().StringVar(&request.AutoRenewAccountID, "auto-renew-account", "", "account paying for auto renewal")
	create.Flags().DurationVar(&request.AutoRenewPeriod, "auto-renew-period", 0, "auto renew period (default 90 days)")
	create.Flags().Float64Var(&request.MaxFeeHbar, "max-fee", 0, "maximum transaction fee in HBAR")

	var maxFee float64
	submit := &cobra.Command{
		Use:   "submit <topic-id> <message>",
		Short: "Submit a message to a topic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.facade.SubmitTopicMessage(cmd.Context(), facade.SubmitTopicMessageRequest{
				TopicID:    args[0],
				Message:    args[1],
				MaxFeeHbar: maxFee,
			})
			if err != nil {
				return err
			}
			return printJSON(a.out, result)
		},
	}
	submit.Flags().Float64Var(&maxFee, "max-fee", 0, "maximum transaction fee in HBAR")

	var limit int
	messages := &cobra.Command{
		Use:   "messages <topic-id>",
		Short: "Show recent messages of a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.facade.TopicMessages(cmd.Context(), facade.TopicMessagesRequest{
				TopicID: args[0],
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			return printJSON(a.out, result)
		},
	}
	messages.Flags().IntVar(&limit, "limit", facade.DefaultTopicMessageLimit, "number of messages, newest first")

	topic.AddCommand(create, submit, messages)
	return topic
}

func newTokensCmd(a *app) *cobra.Command {
	tokens := &cobra.Command{
		Use:   "tokens",
		Short: "Manage token associations",
	}

	var maxFee float64
	associate := &cobra.Command{
		Use:   "associate <token-id>...",
		Short: "Associate the current account with tokens",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.facade.AssociateTokens(cmd.Context(), facade.AssociateTokensRequest{TokenIDs: args, MaxFeeHbar: maxFee})
			if err != nil {
				return err
			}
			return printJSON(a.out, result)
		},
	}
	dissociate := &cobra.Command{
		Use:   "dissociate <token-id>...",
		Short: "Dissociate the current account from tokens with a zero balance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.facade.DissociateTokens(cmd.Context(), facade.DissociateTokensRequest{TokenIDs: args, MaxFeeHbar: maxFee})
			if err != nil {
				return err
			}
			return printJSON(a.out, result)
		},
	}
	for _, cmd := range []*cobra.Command{associate, dissociate} {
		cmd.Flags().Float64Var(&maxFee, "max-fee", 0, "maximum transaction fee in HBAR")
	}

	tokens.AddCommand(associate, dissociate)
	return tokens
}

type feeFlags struct {
	cut float64
	to  string
}

func (f *feeFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.cut, "fee-cut", 0, "service fee percentage (overrides the config)")
	cmd.Flags().StringVar(&f.to, "fee-to", "", "service fee collector account")
}

// serviceFee returns nil unless a fee flag was given, so the configured
// default applies.
func (f *feeFlags) serviceFee(cmd *cobra.Command) *facade.ServiceFee {
	if !cmd.Flags().Changed("fee-cut") && !cmd.Flags().Changed("fee-to") {
		return nil
	}
	return &facade.ServiceFee{PercentageCut: f.cut, ToAddress: f.to}
}

func newTransferCmd(a *app) *cobra.Command {
	var (
		memo   string
		maxFee float64
		fees   feeFlags
	)
	transfer := &cobra.Command{
		Use:   "transfer <recipient> <asset>...",
		Short: "Transfer HBAR, tokens and NFTs",
		Long: `Transfer assets from the current account to a recipient.

Assets are written as hbar:<amount>, token:<token-id>:<amount> or
nft:<token-id>:<serial>, for example:

  hwallet transfer 0.0.2002 hbar:1.5 token:0.0.700:12.25 nft:0.0.900:4`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			requests := make([]facade.TransferRequest, 0, len(args)-1)
			for _, raw := range args[1:] {
				asset, err := parseAsset(raw)
				if err != nil {
					return err
				}
				requests = append(requests, facade.TransferRequest{Asset: asset, To: args[0]})
			}
			result, err := a.facade.TransferCrypto(cmd.Context(), facade.TransferCryptoRequest{
				Transfers:  requests,
				Memo:       memo,
				MaxFeeHbar: maxFee,
				ServiceFee: fees.serviceFee(cmd),
			})
			if err != nil {
				return err
			}
			return printJSON(a.out, result)
		},
	}
	transfer.Flags().StringVar(&memo, "memo", "", "transaction memo")
	transfer.Flags().Float64Var(&maxFee, "max-fee", 0, "maximum transaction fee in HBAR")
	fees.register(transfer)
	return transfer
}

func newSwapCmd(a *app) *cobra.Command {
	swap := &cobra.Command{
		Use:   "swap",
		Short: "Run atomic swaps through scheduled transactions",
	}

	var (
		give    string
		receive string
		memo    string
		window  time.Duration
		maxFee  float64
		fees    feeFlags
	)
	initiate := &cobra.Command{
		Use:   "initiate <responder>",
		Short: "Schedule a swap for a responder to sign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gives, err := parseAsset(give)
			if err != nil {
				return fmt.Errorf("--give: %w", err)
			}
			receives, err := parseAsset(receive)
			if err != nil {
				return fmt.Errorf("--receive: %w", err)
			}
			result, err := a.facade.InitiateSwap(cmd.Context(), facade.InitiateSwapRequest{
				Swaps: []facade.SwapRequest{{
					Responder:      args[0],
					RequesterGives: gives,
					ResponderGives: receives,
				}},
				Memo:       memo,
				ServiceFee: fees.serviceFee(cmd),
				Window:     window,
				MaxFeeHbar: maxFee,
			})
			if err != nil {
				return err
			}
			return printJSON(a.out, result)
		},
	}
	initiate.Flags().StringVar(&give, "give", "", "asset you give, e.g. hbar:10")
	initiate.Flags().StringVar(&receive, "receive", "", "asset you receive, e.g. token:0.0.700:50")
	initiate.Flags().StringVar(&memo, "memo", "", "schedule memo")
	initiate.Flags().DurationVar(&window, "window", 0, "time the responder has to sign (default from config)")
	initiate.Flags().Float64Var(&maxFee, "max-fee", 0, "maximum transaction fee in HBAR")
	_ = initiate.MarkFlagRequired("give")
	_ = initiate.MarkFlagRequired("receive")
	fees.register(initiate)

	var completeMaxFee float64
	complete := &cobra.Command{
		Use:   "complete <schedule-id>",
		Short: "Sign a pending swap schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.facade.CompleteSwap(cmd.Context(), facade.CompleteSwapRequest{
				ScheduleID: args[0],
				MaxFeeHbar: completeMaxFee,
			})
			if err != nil {
				return err
			}
			return printJSON(a.out, result)
		},
	}
	complete.Flags().Float64Var(&completeMaxFee, "max-fee", 0, "maximum transaction fee in HBAR")

	var swapState string
	list := &cobra.Command{
		Use:   "list",
		Short: "List swaps recorded by this wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			swaps, err := a.store.ListSwaps(cmd.Context(), a.config.Network, state.SwapState(swapState))
			if err != nil {
				return err
			}
			return printJSON(a.out, swaps)
		},
	}
	list.Flags().StringVar(&swapState, "state", "", "filter by state (pending, completed, expired, failed)")

	swap.AddCommand(initiate, complete, list)
	return swap
}

func newStakeCmd(a *app) *cobra.Command {
	var (
		node          int64
		account       string
		declineReward bool
		maxFee        float64
	)
	stake := &cobra.Command{
		Use:   "stake",
		Short: "Stake HBAR to a node or an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			request := facade.StakeHbarRequest{AccountID: account, DeclineReward: declineReward, MaxFeeHbar: maxFee}
			if cmd.Flags().Changed("node") {
				request.NodeID = &node
			}
			result, err := a.facade.StakeHbar(cmd.Context(), request)
			if err != nil {
				return err
			}
			return printJSON(a.out, result)
		},
	}
	stake.Flags().Int64Var(&node, "node", 0, "consensus node ID to stake to")
	stake.Flags().StringVar(&account, "account", "", "account to stake to")
	stake.Flags().BoolVar(&declineReward, "decline-reward", false, "decline staking rewards")
	stake.Flags().Float64Var(&maxFee, "max-fee", 0, "maximum transaction fee in HBAR")
	stake.MarkFlagsMutuallyExclusive("node", "account")
	return stake
}

func newUnstakeCmd(a *app) *cobra.Command {
	var maxFee float64
	unstake := &cobra.Command{
		Use:   "unstake",
		Short: "Stop staking HBAR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.facade.UnstakeHbar(cmd.Context(), facade.UnstakeHbarRequest{MaxFeeHbar: maxFee})
			if err != nil {
				return err
			}
			return printJSON(a.out, result)
		},
	}
	unstake.Flags().Float64Var(&maxFee, "max-fee", 0, "maximum transaction fee in HBAR")
	return unstake
}

// parseAsset reads hbar:<amount>, token:<id>:<amount> or nft:<id>:<serial>.
func parseAsset(raw string) (facade.Asset, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	switch strings.ToLower(parts[0]) {
	case "hbar":
		if len(parts) != 2 {
			return facade.Asset{}, fmt.Errorf("expected hbar:<amount>, got %q", raw)
		}
		amount, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return facade.Asset{}, fmt.Errorf("invalid amount in %q", raw)
		}
		return facade.Asset{AssetType: command.AssetHBAR, Amount: amount}, nil
	case "token":
		if len(parts) != 3 {
			return facade.Asset{}, fmt.Errorf("expected token:<token-id>:<amount>, got %q", raw)
		}
		amount, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return facade.Asset{}, fmt.Errorf("invalid amount in %q", raw)
		}
		return facade.Asset{AssetType: command.AssetToken, AssetID: parts[1], Amount: amount}, nil
	case "nft":
		if len(parts) != 3 {
			return facade.Asset{}, fmt.Errorf("expected nft:<token-id>:<serial>, got %q", raw)
		}
		serial, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return facade.Asset{}, fmt.Errorf("invalid serial in %q", raw)
		}
		return facade.Asset{AssetType: command.AssetNFT, AssetID: parts[1], Serial: serial}, nil
	default:
		return facade.Asset{}, fmt.Errorf("unknown asset %q", raw)
	}
}
