package facade

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashgraph-online/wallet-facades-go/pkg/command"
	"github.com/hashgraph-online/wallet-facades-go/pkg/dialog"
	"github.com/hashgraph-online/wallet-facades-go/pkg/mirror"
	"github.com/hashgraph-online/wallet-facades-go/pkg/shared"
	"github.com/hashgraph-online/wallet-facades-go/pkg/state"
)

// tokenCache memoises mirror token lookups for the duration of a request.
type tokenCache struct {
	mirror Mirror
	tokens map[string]mirror.TokenInfo
}

func newTokenCache(source Mirror) *tokenCache {
	return &tokenCache{mirror: source, tokens: map[string]mirror.TokenInfo{}}
}

func (c *tokenCache) get(ctx context.Context, field string, tokenID string) (mirror.TokenInfo, error) {
	if info, ok := c.tokens[tokenID]; ok {
		return info, nil
	}
	info, err := c.mirror.GetToken(ctx, tokenID)
	if isNotFound(err) {
		return mirror.TokenInfo{}, invalid(field, "token %s does not exist", tokenID)
	}
	if err != nil {
		return mirror.TokenInfo{}, fmt.Errorf("failed to look up token %s: %w", tokenID, err)
	}
	if info.Deleted {
		return mirror.TokenInfo{}, invalid(field, "token %s is deleted", tokenID)
	}
	c.tokens[tokenID] = info
	return info, nil
}

// resolveLeg validates an asset and converts its amount to smallest units.
func resolveLeg(ctx context.Context, tokens *tokenCache, field string, from string, to string, asset Asset) (state.SwapLeg, error) {
	if strings.TrimSpace(to) == "" {
		return state.SwapLeg{}, invalid(field+".to", "recipient is required")
	}
	if _, err := command.ParseAccountID(to); err != nil {
		return state.SwapLeg{}, invalid(field+".to", "%v", err)
	}
	if sameAccount(from, to) {
		return state.SwapLeg{}, invalid(field+".to", "cannot send to the same account")
	}

	leg := state.SwapLeg{From: from, To: to, AssetType: string(asset.AssetType)}
	switch asset.AssetType {
	case command.AssetHBAR:
		units, err := positiveUnits(field, asset.Amount, shared.HbarDecimals)
		if err != nil {
			return state.SwapLeg{}, err
		}
		leg.Units = units
		leg.Decimals = shared.HbarDecimals
	case command.AssetToken:
		tokenID := strings.TrimSpace(asset.AssetID)
		if tokenID == "" {
			return state.SwapLeg{}, invalid(field+".asset_id", "token ID is required")
		}
		info, err := tokens.get(ctx, field+".asset_id", tokenID)
		if err != nil {
			return state.SwapLeg{}, err
		}
		if info.IsNonFungible() {
			return state.SwapLeg{}, invalid(field+".asset_type", "token %s is an NFT collection", tokenID)
		}
		units, err := positiveUnits(field, asset.Amount, info.DecimalPlaces())
		if err != nil {
			return state.SwapLeg{}, err
		}
		leg.AssetID = tokenID
		leg.Units = units
		leg.Decimals = info.DecimalPlaces()
	case command.AssetNFT:
		tokenID := strings.TrimSpace(asset.AssetID)
		if tokenID == "" {
			return state.SwapLeg{}, invalid(field+".asset_id", "token ID is required")
		}
		if asset.Serial <= 0 {
			return state.SwapLeg{}, invalid(field+".serial", "NFT serial is required")
		}
		info, err := tokens.get(ctx, field+".asset_id", tokenID)
		if err != nil {
			return state.SwapLeg{}, err
		}
		if !info.IsNonFungible() {
			return state.SwapLeg{}, invalid(field+".asset_type", "token %s is not an NFT collection", tokenID)
		}
		leg.AssetID = tokenID
		leg.Serial = asset.Serial
	default:
		return state.SwapLeg{}, invalid(field+".asset_type", "unsupported asset type %q", asset.AssetType)
	}
	return leg, nil
}

func positiveUnits(field string, amount float64, decimals uint32) (int64, error) {
	if amount <= 0 {
		return 0, invalid(field+".amount", "must be greater than zero")
	}
	units, err := shared.ToSmallestUnits(amount, decimals)
	if err != nil {
		return 0, invalid(field+".amount", "%v", err)
	}
	if units == 0 {
		return 0, invalid(field+".amount", "rounds to zero")
	}
	return units, nil
}

func describeLeg(leg state.SwapLeg, tokens *tokenCache) string {
	if command.AssetType(leg.AssetType) == command.AssetNFT {
		return fmt.Sprintf("NFT %s #%d", leg.AssetID, leg.Serial)
	}
	amount := describeAmount(leg.AssetType, leg.AssetID, leg.Units, leg.Decimals)
	if info, ok := tokens.tokens[leg.AssetID]; ok && info.Symbol != "" {
		amount = shared.FormatUnits(leg.Units, leg.Decimals) + " " + info.Symbol + " (" + leg.AssetID + ")"
	}
	return amount
}

func legsPanel(heading string, legs []state.SwapLeg, tokens *tokenCache) *dialog.Panel {
	panel := dialog.NewPanel().Heading(heading)
	for index, leg := range legs {
		if index > 0 {
			panel.Divider()
		}
		panel.Row("From", leg.From).
			Row("To", leg.To).
			Row("Amount", describeLeg(leg, tokens))
	}
	return panel
}

func feesPanel(fee ServiceFee, charges []state.FeeCharge) *dialog.Panel {
	if len(charges) == 0 {
		return nil
	}
	panel := dialog.NewPanel().
		Heading("Service fee").
		Row("Percentage", fmt.Sprintf("%.2f%%", float64(basisPoints(fee.PercentageCut))/100)).
		Row("Collector", fee.ToAddress)
	for _, charge := range charges {
		panel.Row("Paid by "+charge.Payer, describeAmount(charge.AssetType, charge.AssetID, charge.Units, charge.Decimals))
	}
	return panel.Text("The fee is deducted from the amount each recipient receives.")
}

// recipientPanel looks up every recipient on the mirror node. A recipient
// the mirror node does not know is a warning, not an error.
func (f *Facade) recipientPanel(ctx context.Context, op *operation, legs []state.SwapLeg) *dialog.Panel {
	panel := dialog.NewPanel().Heading("Recipients")
	seen := map[string]bool{}
	for _, leg := range legs {
		if seen[leg.To] {
			continue
		}
		seen[leg.To] = true

		info, err := f.mirror.GetAccount(ctx, leg.To)
		switch {
		case isNotFound(err):
			panel.Warning(fmt.Sprintf("%s was not found on %s. Funds may be lost if the address is wrong.", leg.To, f.network))
		case err != nil:
			op.logger.Debug("recipient lookup failed", "recipient", leg.To, "err", err)
			panel.Warning(fmt.Sprintf("%s could not be verified", leg.To))
		case info.Deleted:
			panel.Warning(fmt.Sprintf("%s is deleted", leg.To))
		default:
			panel.Row(leg.To, info.Account)
			if info.Memo != "" {
				panel.Row("Memo", info.Memo)
			}
		}
	}
	return panel
}

func (f *Facade) effectiveServiceFee(requested *ServiceFee) ServiceFee {
	if requested != nil {
		return *requested
	}
	return f.serviceFee
}

// nonEmptyPanels drops nil panels.
func nonEmptyPanels(panels ...*dialog.Panel) []*dialog.Panel {
	kept := make([]*dialog.Panel, 0, len(panels))
	for _, panel := range panels {
		if panel != nil && panel.Len() > 0 {
			kept = append(kept, panel)
		}
	}
	return kept
}
