package facade

import (
	"context"
	"fmt"

	"github.com/hashgraph-online/wallet-facades-go/pkg/command"
	"github.com/hashgraph-online/wallet-facades-go/pkg/shared"
	"github.com/hashgraph-online/wallet-facades-go/pkg/state"
)

// TransferCrypto sends HBAR, fungible tokens and NFTs from the current
// account in one transaction, routing the service fee to its collector.
func (f *Facade) TransferCrypto(ctx context.Context, req TransferCryptoRequest) (TransferCryptoResult, error) {
	op, err := f.begin(ctx, "transfer_crypto")
	if err != nil {
		return TransferCryptoResult{}, err
	}
	if len(req.Transfers) == 0 {
		return TransferCryptoResult{}, invalid("transfers", "at least one transfer is required")
	}
	maxFee, err := f.maxFeeTinybar(req.MaxFeeHbar)
	if err != nil {
		return TransferCryptoResult{}, err
	}
	fee := f.effectiveServiceFee(req.ServiceFee)

	tokens := newTokenCache(f.mirror)
	legs := make([]state.SwapLeg, 0, len(req.Transfers))
	for index, transfer := range req.Transfers {
		leg, err := resolveLeg(ctx, tokens, fmt.Sprintf("transfers[%d]", index), op.account.AccountID, op.selfAlias(transfer.To), transfer.Asset)
		if err != nil {
			return TransferCryptoResult{}, err
		}
		legs = append(legs, leg)
	}

	transfers, charges, err := ApportionServiceFee(legs, fee)
	if err != nil {
		return TransferCryptoResult{}, err
	}

	summary := legsPanel("Transfers", legs, tokens)
	if req.Memo != "" {
		summary.Divider().Row("Memo", req.Memo)
	}
	if total := hbarOutflow(transfers, op.account.AccountID); op.account.HbarBalance > 0 && total+maxFee > op.account.HbarBalance {
		summary.Warning(fmt.Sprintf("Your last known balance of %s may not cover %s plus fees.",
			shared.FormatHbar(op.account.HbarBalance), shared.FormatHbar(total)))
	}

	err = f.confirm(ctx, op, "Transfer crypto",
		accountPanel(op, maxFee),
		summary,
		f.recipientPanel(ctx, op, legs),
		feesPanel(fee, charges),
	)
	if err != nil {
		return TransferCryptoResult{}, err
	}

	receipt, err := f.commands.Transfer(ctx, op.operator, command.TransferParams{
		Transfers:     transfers,
		Memo:          req.Memo,
		MaxFeeTinybar: maxFee,
	})
	if err != nil {
		return TransferCryptoResult{}, f.failed(op, err)
	}

	f.refreshAccount(ctx, op, nil)
	result := f.finish(ctx, op, receipt, fmt.Sprintf("Sent %d transfer(s)", len(legs)))
	return TransferCryptoResult{Result: result, Fees: charges}, nil
}

func hbarOutflow(transfers []command.Transfer, accountID string) int64 {
	var total int64
	for _, transfer := range transfers {
		if transfer.AssetType == command.AssetHBAR && sameAccount(transfer.From, accountID) {
			total += transfer.Units
		}
	}
	return total
}
