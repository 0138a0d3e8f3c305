package facade

import (
	"context"
	"fmt"
	"strings"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/hashgraph-online/wallet-facades-go/pkg/dialog"
	"github.com/hashgraph-online/wallet-facades-go/pkg/mirror"
	"github.com/hashgraph-online/wallet-facades-go/pkg/state"
)

func normalizeTokenIDs(tokenIDs []string) ([]string, error) {
	if len(tokenIDs) == 0 {
		return nil, invalid("token_ids", "at least one token ID is required")
	}
	seen := make(map[string]bool, len(tokenIDs))
	normalized := make([]string, 0, len(tokenIDs))
	for _, raw := range tokenIDs {
		tokenID := strings.TrimSpace(raw)
		if _, err := hedera.TokenIDFromString(tokenID); err != nil {
			return nil, invalid("token_ids", "invalid token ID %q", raw)
		}
		if seen[tokenID] {
			return nil, invalid("token_ids", "duplicate token ID %s", tokenID)
		}
		seen[tokenID] = true
		normalized = append(normalized, tokenID)
	}
	return normalized, nil
}

// relationship returns the account's relationship with a token, or nil when
// the account is not associated.
func (f *Facade) relationship(ctx context.Context, accountID string, tokenID string) (*mirror.TokenRelationship, error) {
	relationships, err := f.mirror.GetAccountTokens(ctx, accountID, tokenID)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up token relationship for %s: %w", tokenID, err)
	}
	for _, relationship := range relationships {
		if relationship.TokenID == tokenID {
			found := relationship
			return &found, nil
		}
	}
	return nil, nil
}

func tokenPanel(info mirror.TokenInfo) *dialog.Panel {
	tokenType := "Fungible"
	if info.IsNonFungible() {
		tokenType = "NFT collection"
	}
	panel := dialog.NewPanel().
		Heading(info.TokenID).
		Row("Name", info.Name).
		Row("Symbol", info.Symbol).
		Row("Type", tokenType).
		Row("Treasury", info.TreasuryAccountID)
	if !info.IsNonFungible() {
		panel.Row("Decimals", fmt.Sprintf("%d", info.DecimalPlaces()))
	}
	return panel
}

// AssociateTokens associates the current account with tokens. Tokens that
// are already associated are skipped.
func (f *Facade) AssociateTokens(ctx context.Context, req AssociateTokensRequest) (AssociateTokensResult, error) {
	op, err := f.begin(ctx, "associate_tokens")
	if err != nil {
		return AssociateTokensResult{}, err
	}
	tokenIDs, err := normalizeTokenIDs(req.TokenIDs)
	if err != nil {
		return AssociateTokensResult{}, err
	}
	maxFee, err := f.maxFeeTinybar(req.MaxFeeHbar)
	if err != nil {
		return AssociateTokensResult{}, err
	}

	tokens := newTokenCache(f.mirror)
	panels := []*dialog.Panel{accountPanel(op, maxFee)}
	toAssociate := make([]string, 0, len(tokenIDs))
	skipped := make([]string, 0)
	for _, tokenID := range tokenIDs {
		info, err := tokens.get(ctx, "token_ids", tokenID)
		if err != nil {
			return AssociateTokensResult{}, err
		}
		existing, err := f.relationship(ctx, op.account.AccountID, tokenID)
		if err != nil {
			return AssociateTokensResult{}, err
		}
		if existing != nil {
			skipped = append(skipped, tokenID)
			continue
		}
		toAssociate = append(toAssociate, tokenID)
		panels = append(panels, tokenPanel(info))
		op.logger.Debug("token panel added", "token", tokenID)
	}
	if len(toAssociate) == 0 {
		return AssociateTokensResult{}, ErrAlreadyAssociated
	}
	if len(skipped) > 0 {
		panels = append(panels, dialog.NewPanel().
			Text("Already associated and skipped: "+strings.Join(skipped, ", ")))
	}

	if err := f.confirm(ctx, op, "Associate tokens", panels...); err != nil {
		return AssociateTokensResult{}, err
	}

	receipt, err := f.commands.AssociateTokens(ctx, op.operator, toAssociate)
	if err != nil {
		return AssociateTokensResult{}, f.failed(op, err)
	}

	associations := make([]state.Association, 0, len(toAssociate))
	for _, tokenID := range toAssociate {
		info := tokens.tokens[tokenID]
		associations = append(associations, state.Association{
			Network:      op.account.Network,
			AccountID:    op.account.AccountID,
			TokenID:      tokenID,
			Symbol:       info.Symbol,
			Decimals:     info.DecimalPlaces(),
			AssociatedAt: f.now(),
		})
	}
	if err := f.store.SaveAssociations(ctx, associations); err != nil {
		return AssociateTokensResult{}, fmt.Errorf("tokens associated but not saved: %w", err)
	}

	result := f.finish(ctx, op, receipt, fmt.Sprintf("Associated %d token(s)", len(toAssociate)))
	return AssociateTokensResult{Result: result, Associated: toAssociate, Skipped: skipped}, nil
}

// DissociateTokens removes token associations. Every token must be
// associated and hold a zero balance.
func (f *Facade) DissociateTokens(ctx context.Context, req DissociateTokensRequest) (DissociateTokensResult, error) {
	op, err := f.begin(ctx, "dissociate_tokens")
	if err != nil {
		return DissociateTokensResult{}, err
	}
	tokenIDs, err := normalizeTokenIDs(req.TokenIDs)
	if err != nil {
		return DissociateTokensResult{}, err
	}
	maxFee, err := f.maxFeeTinybar(req.MaxFeeHbar)
	if err != nil {
		return DissociateTokensResult{}, err
	}

	tokens := newTokenCache(f.mirror)
	panels := []*dialog.Panel{accountPanel(op, maxFee)}
	for _, tokenID := range tokenIDs {
		existing, err := f.relationship(ctx, op.account.AccountID, tokenID)
		if err != nil {
			return DissociateTokensResult{}, err
		}
		if existing == nil {
			return DissociateTokensResult{}, invalid("token_ids", "token %s is not associated", tokenID)
		}
		if existing.Balance != 0 {
			return DissociateTokensResult{}, invalid("token_ids", "token %s still has a balance of %d", tokenID, existing.Balance)
		}
		// Deleted tokens can still be dissociated.
		info, err := tokens.get(ctx, "token_ids", tokenID)
		if err != nil {
			if !IsValidationError(err) {
				return DissociateTokensResult{}, err
			}
			info = mirror.TokenInfo{TokenID: tokenID}
		}
		panels = append(panels, tokenPanel(info))
	}

	if err := f.confirm(ctx, op, "Dissociate tokens", panels...); err != nil {
		return DissociateTokensResult{}, err
	}

	receipt, err := f.commands.DissociateTokens(ctx, op.operator, tokenIDs)
	if err != nil {
		return DissociateTokensResult{}, f.failed(op, err)
	}
	if err := f.store.RemoveAssociations(ctx, op.account.Network, op.account.AccountID, tokenIDs); err != nil {
		return DissociateTokensResult{}, fmt.Errorf("tokens dissociated but not saved: %w", err)
	}

	result := f.finish(ctx, op, receipt, fmt.Sprintf("Dissociated %d token(s)", len(tokenIDs)))
	return DissociateTokensResult{Result: result, Dissociated: tokenIDs}, nil
}
