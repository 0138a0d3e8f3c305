package facade

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashgraph-online/wallet-facades-go/pkg/command"
	"github.com/hashgraph-online/wallet-facades-go/pkg/dialog"
	"github.com/hashgraph-online/wallet-facades-go/pkg/mirror"
	"github.com/hashgraph-online/wallet-facades-go/pkg/shared"
	"github.com/hashgraph-online/wallet-facades-go/pkg/state"
)

// StakeHbar stakes the current account to a consensus node or another
// account.
func (f *Facade) StakeHbar(ctx context.Context, req StakeHbarRequest) (Result, error) {
	op, err := f.begin(ctx, "stake_hbar")
	if err != nil {
		return Result{}, err
	}
	stakedAccount := op.selfAlias(req.AccountID)
	if (req.NodeID == nil) == (stakedAccount == "") {
		return Result{}, invalid("target", "exactly one of node ID or account ID is required")
	}
	maxFee, err := f.maxFeeTinybar(req.MaxFeeHbar)
	if err != nil {
		return Result{}, err
	}

	targetPanel := dialog.NewPanel().Heading("Stake to")
	if req.NodeID != nil {
		if *req.NodeID < 0 {
			return Result{}, invalid("node_id", "must not be negative")
		}
		node, err := f.mirror.GetNode(ctx, *req.NodeID)
		if isNotFound(err) {
			return Result{}, invalid("node_id", "node %d does not exist", *req.NodeID)
		}
		if err != nil {
			return Result{}, fmt.Errorf("failed to look up node: %w", err)
		}
		targetPanel.
			Row("Node", strconv.FormatInt(node.NodeID, 10)).
			Row("Node account", node.NodeAccountID).
			Row("Description", node.Description).
			Row("Stake", shared.FormatHbar(node.Stake))
	} else {
		if _, err := command.ParseAccountID(stakedAccount); err != nil {
			return Result{}, invalid("account_id", "%v", err)
		}
		if sameAccount(stakedAccount, op.account.AccountID) {
			return Result{}, invalid("account_id", "an account cannot stake to itself")
		}
		target, err := f.mirror.GetAccount(ctx, stakedAccount)
		if isNotFound(err) {
			return Result{}, invalid("account_id", "account %s does not exist", stakedAccount)
		}
		if err != nil {
			return Result{}, fmt.Errorf("failed to look up staking account: %w", err)
		}
		if target.Deleted {
			return Result{}, invalid("account_id", "account %s is deleted", stakedAccount)
		}
		targetPanel.Row("Account", stakedAccount)
	}
	reward := "Yes"
	if req.DeclineReward {
		reward = "No"
	}
	targetPanel.Row("Receive rewards", reward).
		Text("Staked HBAR stays in your account and can be spent at any time.")

	var currentPanel *dialog.Panel
	if current, err := f.mirror.GetAccount(ctx, op.account.AccountID); err == nil && current.IsStaked() {
		currentPanel = dialog.NewPanel().
			Heading("Current staking").
			Row("Target", stakingTarget(current)).
			Warning("Changing the staking target forfeits rewards for the current period.")
	}

	if err := f.confirm(ctx, op, "Stake HBAR", accountPanel(op, maxFee), currentPanel, targetPanel); err != nil {
		return Result{}, err
	}

	receipt, err := f.commands.UpdateStaking(ctx, op.operator, command.StakingParams{
		AccountID:       op.account.AccountID,
		StakedNodeID:    req.NodeID,
		StakedAccountID: stakedAccount,
		DeclineReward:   req.DeclineReward,
		MaxFeeTinybar:   maxFee,
	})
	if err != nil {
		return Result{}, f.failed(op, err)
	}

	f.refreshAccount(ctx, op, func(account *state.Account) {
		account.StakedNodeID = req.NodeID
		account.StakedAccountID = stakedAccount
		account.DeclineReward = req.DeclineReward
	})
	return f.finish(ctx, op, receipt, "Staking updated to "+describeTarget(req.NodeID, stakedAccount)), nil
}

// UnstakeHbar clears the current account's staking target.
func (f *Facade) UnstakeHbar(ctx context.Context, req UnstakeHbarRequest) (Result, error) {
	op, err := f.begin(ctx, "unstake_hbar")
	if err != nil {
		return Result{}, err
	}
	maxFee, err := f.maxFeeTinybar(req.MaxFeeHbar)
	if err != nil {
		return Result{}, err
	}

	current, err := f.mirror.GetAccount(ctx, op.account.AccountID)
	if isNotFound(err) {
		return Result{}, ErrNotStaked
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to look up staking info: %w", err)
	}
	if !current.IsStaked() {
		return Result{}, ErrNotStaked
	}

	currentPanel := dialog.NewPanel().
		Heading("Stop staking").
		Row("Current target", stakingTarget(current))
	if current.PendingReward > 0 {
		currentPanel.Row("Pending reward", shared.FormatHbar(current.PendingReward)).
			Text("Pending rewards are paid out with this transaction.")
	}

	if err := f.confirm(ctx, op, "Unstake HBAR", accountPanel(op, maxFee), currentPanel); err != nil {
		return Result{}, err
	}

	receipt, err := f.commands.UpdateStaking(ctx, op.operator, command.StakingParams{
		AccountID:     op.account.AccountID,
		Unstake:       true,
		StakedToNode:  current.StakedNodeID != nil,
		MaxFeeTinybar: maxFee,
	})
	if err != nil {
		return Result{}, f.failed(op, err)
	}

	f.refreshAccount(ctx, op, func(account *state.Account) {
		account.StakedNodeID = nil
		account.StakedAccountID = ""
		account.DeclineReward = false
	})
	return f.finish(ctx, op, receipt, "Staking cleared"), nil
}

func stakingTarget(info mirror.AccountInfo) string {
	var stakedAccount string
	if info.StakedAccountID != nil {
		stakedAccount = *info.StakedAccountID
	}
	return describeTarget(info.StakedNodeID, stakedAccount)
}

func describeTarget(nodeID *int64, accountID string) string {
	if nodeID != nil {
		return "node " + strconv.FormatInt(*nodeID, 10)
	}
	return "account " + accountID
}
