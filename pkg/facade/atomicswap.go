package facade

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/hashgraph-online/wallet-facades-go/pkg/command"
	"github.com/hashgraph-online/wallet-facades-go/pkg/dialog"
	"github.com/hashgraph-online/wallet-facades-go/pkg/state"
)

// MaxSwapWindow is the longest schedule lifetime the network accepts.
const MaxSwapWindow = 62 * 24 * time.Hour

// InitiateSwap schedules every swap in one transfer that each responder must
// sign before the swap window closes.
func (f *Facade) InitiateSwap(ctx context.Context, req InitiateSwapRequest) (InitiateSwapResult, error) {
	op, err := f.begin(ctx, "initiate_swap")
	if err != nil {
		return InitiateSwapResult{}, err
	}
	if len(req.Swaps) == 0 {
		return InitiateSwapResult{}, invalid("swaps", "at least one swap is required")
	}
	window := req.Window
	if window <= 0 {
		window = f.swapWindow
	}
	if window > MaxSwapWindow {
		return InitiateSwapResult{}, invalid("window", "must not exceed %s", MaxSwapWindow)
	}
	maxFee, err := f.maxFeeTinybar(req.MaxFeeHbar)
	if err != nil {
		return InitiateSwapResult{}, err
	}
	fee := f.effectiveServiceFee(req.ServiceFee)

	requester := op.account.AccountID
	tokens := newTokenCache(f.mirror)
	legs := make([]state.SwapLeg, 0, len(req.Swaps)*2)
	responders := make([]string, 0, len(req.Swaps))
	seenResponders := map[string]bool{}
	swapPanels := make([]*dialog.Panel, 0, len(req.Swaps))

	for index, swap := range req.Swaps {
		field := fmt.Sprintf("swaps[%d]", index)
		responder := op.selfAlias(swap.Responder)
		gives, err := resolveLeg(ctx, tokens, field+".requester_gives", requester, responder, swap.RequesterGives)
		if err != nil {
			return InitiateSwapResult{}, err
		}
		receives, err := resolveLeg(ctx, tokens, field+".responder_gives", responder, requester, swap.ResponderGives)
		if err != nil {
			return InitiateSwapResult{}, err
		}
		legs = append(legs, gives, receives)

		if !seenResponders[responder] {
			seenResponders[responder] = true
			responders = append(responders, responder)
		}
		swapPanels = append(swapPanels, dialog.NewPanel().
			Heading(fmt.Sprintf("Swap %d with %s", index+1, responder)).
			Row("You give", describeLeg(gives, tokens)).
			Row("You receive", describeLeg(receives, tokens)))
	}

	transfers, charges, err := ApportionServiceFee(legs, fee)
	if err != nil {
		return InitiateSwapResult{}, err
	}

	expiresAt := f.now().Add(window)
	schedulePanel := dialog.NewPanel().
		Heading("Schedule").
		Row("Memo", req.Memo).
		Row("Expires", expiresAt.UTC().Format(time.RFC3339)).
		Text("Each responder must sign the schedule before it expires or the swap is cancelled.")

	panels := []*dialog.Panel{accountPanel(op, maxFee)}
	panels = append(panels, swapPanels...)
	panels = append(panels,
		schedulePanel,
		f.recipientPanel(ctx, op, responderLegs(legs, requester)),
		feesPanel(fee, charges),
	)
	if err := f.confirm(ctx, op, "Initiate atomic swap", panels...); err != nil {
		return InitiateSwapResult{}, err
	}

	receipt, err := f.commands.CreateScheduledSwap(ctx, op.operator, command.ScheduledSwapParams{
		Transfers:     transfers,
		Memo:          req.Memo,
		PayerID:       requester,
		ExpiresAt:     expiresAt,
		MaxFeeTinybar: maxFee,
	})
	if err != nil {
		return InitiateSwapResult{}, f.failed(op, err)
	}

	record := &state.Swap{
		ID:                     uuid.NewString(),
		Network:                op.account.Network,
		ScheduleID:             receipt.ScheduleID,
		ScheduledTransactionID: receipt.ScheduledTransactionID,
		TransactionID:          receipt.TransactionID,
		Requester:              requester,
		Responders:             responders,
		Memo:                   req.Memo,
		State:                  state.SwapStatePending,
		Detail:                 state.SwapDetail{Legs: legs, Fees: charges},
		ExpiresAt:              expiresAt,
		CreatedAt:              f.now(),
	}
	if err := f.store.SaveSwap(ctx, record); err != nil {
		return InitiateSwapResult{}, fmt.Errorf("swap scheduled as %s but not saved: %w", receipt.ScheduleID, err)
	}

	result := f.finish(ctx, op, receipt, fmt.Sprintf("Scheduled swap %s", receipt.ScheduleID))
	return InitiateSwapResult{
		Result:     result,
		SwapID:     record.ID,
		ScheduleID: receipt.ScheduleID,
		ExpiresAt:  expiresAt,
		Fees:       charges,
	}, nil
}

func responderLegs(legs []state.SwapLeg, requester string) []state.SwapLeg {
	filtered := make([]state.SwapLeg, 0, len(legs)/2)
	for _, leg := range legs {
		if !sameAccount(leg.To, requester) {
			filtered = append(filtered, leg)
		}
	}
	return filtered
}

// CompleteSwap signs a pending swap schedule with the current account.
func (f *Facade) CompleteSwap(ctx context.Context, req CompleteSwapRequest) (CompleteSwapResult, error) {
	op, err := f.begin(ctx, "complete_swap")
	if err != nil {
		return CompleteSwapResult{}, err
	}
	scheduleID := strings.TrimSpace(req.ScheduleID)
	if _, err := hedera.ScheduleIDFromString(scheduleID); err != nil {
		return CompleteSwapResult{}, invalid("schedule_id", "invalid schedule ID %q", req.ScheduleID)
	}
	maxFee, err := f.maxFeeTinybar(req.MaxFeeHbar)
	if err != nil {
		return CompleteSwapResult{}, err
	}

	local, err := f.store.GetSwapBySchedule(ctx, op.account.Network, scheduleID)
	if err != nil && !errors.Is(err, state.ErrNotFound) {
		return CompleteSwapResult{}, fmt.Errorf("failed to load swap record: %w", err)
	}

	info, err := f.mirror.GetSchedule(ctx, scheduleID)
	if isNotFound(err) {
		return CompleteSwapResult{}, fmt.Errorf("%w: schedule %s not found", ErrSwapUnavailable, scheduleID)
	}
	if err != nil {
		return CompleteSwapResult{}, fmt.Errorf("failed to look up schedule: %w", err)
	}
	switch {
	case info.Deleted:
		f.settleSwap(ctx, op, local, state.SwapStateFailed)
		return CompleteSwapResult{}, fmt.Errorf("%w: schedule %s was deleted", ErrSwapUnavailable, scheduleID)
	case info.Executed():
		f.settleSwap(ctx, op, local, f.executedSwapState(ctx, op, local))
		return CompleteSwapResult{}, fmt.Errorf("%w: schedule %s already executed", ErrSwapUnavailable, scheduleID)
	}
	var expiresAt time.Time
	if info.ExpirationTime != nil && *info.ExpirationTime != "" {
		expiresAt, err = parseConsensusTimestamp(*info.ExpirationTime)
		if err != nil {
			return CompleteSwapResult{}, fmt.Errorf("failed to parse schedule expiration: %w", err)
		}
		if !expiresAt.After(f.now()) {
			f.settleSwap(ctx, op, local, state.SwapStateExpired)
			return CompleteSwapResult{}, fmt.Errorf("%w: schedule %s expired", ErrSwapUnavailable, scheduleID)
		}
	}

	schedulePanel := dialog.NewPanel().
		Heading("Schedule").
		Copyable(scheduleID).
		Row("Created by", info.CreatorAccountID).
		Row("Payer", info.PayerAccountID).
		Row("Memo", info.Memo).
		Row("Signatures", strconv.Itoa(len(info.Signatures)))
	if !expiresAt.IsZero() {
		schedulePanel.Row("Expires", expiresAt.UTC().Format(time.RFC3339))
	}

	panels := []*dialog.Panel{accountPanel(op, maxFee), schedulePanel}
	if local != nil {
		tokens := newTokenCache(f.mirror)
		panels = append(panels,
			legsPanel("Swap", local.Detail.Legs, tokens),
			feeChargesPanel(local.Detail.Fees),
		)
	} else {
		schedulePanel.Warning("This swap was not created by this wallet. Check the schedule on a network explorer before signing.")
	}

	if err := f.confirm(ctx, op, "Complete atomic swap", panels...); err != nil {
		return CompleteSwapResult{}, err
	}

	receipt, err := f.commands.SignSchedule(ctx, op.operator, scheduleID)
	if err != nil {
		return CompleteSwapResult{}, f.failed(op, err)
	}

	swapID := ""
	if local != nil {
		swapID = local.ID
		if err := f.store.UpdateSwapState(ctx, local.ID, state.SwapStateCompleted); err != nil {
			return CompleteSwapResult{}, fmt.Errorf("swap %s signed but not saved: %w", scheduleID, err)
		}
	}

	f.refreshAccount(ctx, op, nil)
	result := f.finish(ctx, op, receipt, fmt.Sprintf("Signed swap %s", scheduleID))
	return CompleteSwapResult{Result: result, SwapID: swapID}, nil
}

// settleSwap moves a pending local swap to a terminal state. The caller is
// already failing the request, so storage errors are only logged.
func (f *Facade) settleSwap(ctx context.Context, op *operation, local *state.Swap, swapState state.SwapState) {
	if local == nil || local.State != state.SwapStatePending {
		return
	}
	if err := f.store.UpdateSwapState(ctx, local.ID, swapState); err != nil {
		op.logger.Error("failed to settle swap", "swap_id", local.ID, "state", swapState, "err", err)
		return
	}
	op.logger.Info("swap settled", "swap_id", local.ID, "state", swapState)
}

// executedSwapState reads the result of an executed schedule's inner
// transaction. Without a recorded result the swap counts as completed.
func (f *Facade) executedSwapState(ctx context.Context, op *operation, local *state.Swap) state.SwapState {
	if local == nil || local.ScheduledTransactionID == "" {
		return state.SwapStateCompleted
	}
	transaction, err := f.mirror.GetTransaction(ctx, local.ScheduledTransactionID)
	if err != nil || transaction == nil {
		op.logger.Debug("scheduled transaction lookup failed", "transaction_id", local.ScheduledTransactionID, "err", err)
		return state.SwapStateCompleted
	}
	if transaction.Result != "" && transaction.Result != "SUCCESS" {
		return state.SwapStateFailed
	}
	return state.SwapStateCompleted
}

func feeChargesPanel(charges []state.FeeCharge) *dialog.Panel {
	if len(charges) == 0 {
		return nil
	}
	panel := dialog.NewPanel().Heading("Service fee").Row("Collector", charges[0].Collector)
	for _, charge := range charges {
		panel.Row("Paid by "+charge.Payer, describeAmount(charge.AssetType, charge.AssetID, charge.Units, charge.Decimals))
	}
	return panel
}

// parseConsensusTimestamp parses the mirror node's seconds.nanoseconds form.
func parseConsensusTimestamp(value string) (time.Time, error) {
	secondsPart, nanosPart, _ := strings.Cut(strings.TrimSpace(value), ".")
	seconds, err := strconv.ParseInt(secondsPart, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	var nanos int64
	if nanosPart != "" {
		if len(nanosPart) > 9 {
			nanosPart = nanosPart[:9]
		}
		nanosPart += strings.Repeat("0", 9-len(nanosPart))
		nanos, err = strconv.ParseInt(nanosPart, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
		}
	}
	return time.Unix(seconds, nanos), nil
}
