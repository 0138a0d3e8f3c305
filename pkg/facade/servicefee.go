package facade

import (
	"math"
	"math/big"
	"strings"

	"github.com/hashgraph-online/wallet-facades-go/pkg/command"
	"github.com/hashgraph-online/wallet-facades-go/pkg/shared"
	"github.com/hashgraph-online/wallet-facades-go/pkg/state"
)

const basisPointScale = 10000

func validateServiceFee(fee ServiceFee) error {
	cut := fee.PercentageCut
	if math.IsNaN(cut) || cut < 0 || cut > 100 {
		return invalid("service_fee.percentage_cut", "must be between 0 and 100, got %v", cut)
	}
	if basisPoints(cut) > 0 {
		if strings.TrimSpace(fee.ToAddress) == "" {
			return invalid("service_fee.to_address", "is required when a percentage cut is set")
		}
		if _, err := command.ParseAccountID(fee.ToAddress); err != nil {
			return invalid("service_fee.to_address", "%v", err)
		}
	}
	return nil
}

// basisPoints honours at most two decimal places of the percentage.
func basisPoints(cut float64) int64 {
	return int64(math.Round(cut * 100))
}

// feeUnits is floor(units * bps / 10000), computed without overflow.
func feeUnits(units int64, bps int64) int64 {
	product := new(big.Int).Mul(big.NewInt(units), big.NewInt(bps))
	return product.Quo(product, big.NewInt(basisPointScale)).Int64()
}

// ApportionServiceFee converts legs into transfers that route the service fee
// to the collector. For every HBAR or fungible token leg the receiver gets
// the amount minus the fee and the collector gets the fee, both paid by the
// leg's sender. NFT legs and legs touching the collector carry no fee. The
// returned charges are aggregated per payer and asset.
func ApportionServiceFee(legs []state.SwapLeg, fee ServiceFee) ([]command.Transfer, []state.FeeCharge, error) {
	if err := validateServiceFee(fee); err != nil {
		return nil, nil, err
	}
	bps := basisPoints(fee.PercentageCut)
	collector := strings.TrimSpace(fee.ToAddress)

	transfers := make([]command.Transfer, 0, len(legs)*2)
	charges := make([]state.FeeCharge, 0)
	chargeIndex := map[string]int{}

	for index, leg := range legs {
		assetType := command.AssetType(leg.AssetType)
		if assetType == command.AssetNFT {
			transfers = append(transfers, command.Transfer{
				AssetType: assetType,
				AssetID:   leg.AssetID,
				From:      leg.From,
				To:        leg.To,
				Serial:    leg.Serial,
			})
			continue
		}
		if leg.Units <= 0 {
			return nil, nil, invalid("legs", "leg %d amount must be positive", index)
		}

		charged := int64(0)
		if bps > 0 && !sameAccount(collector, leg.From) && !sameAccount(collector, leg.To) {
			charged = feeUnits(leg.Units, bps)
		}

		if net := leg.Units - charged; net > 0 {
			transfers = append(transfers, command.Transfer{
				AssetType: assetType,
				AssetID:   leg.AssetID,
				From:      leg.From,
				To:        leg.To,
				Units:     net,
				Decimals:  leg.Decimals,
			})
		}
		if charged == 0 {
			continue
		}
		transfers = append(transfers, command.Transfer{
			AssetType: assetType,
			AssetID:   leg.AssetID,
			From:      leg.From,
			To:        collector,
			Units:     charged,
			Decimals:  leg.Decimals,
		})

		key := leg.From + "|" + leg.AssetType + "|" + leg.AssetID
		if position, ok := chargeIndex[key]; ok {
			charges[position].Units += charged
			continue
		}
		chargeIndex[key] = len(charges)
		charges = append(charges, state.FeeCharge{
			Payer:     leg.From,
			Collector: collector,
			AssetType: leg.AssetType,
			AssetID:   leg.AssetID,
			Units:     charged,
			Decimals:  leg.Decimals,
		})
	}
	return transfers, charges, nil
}

func sameAccount(left string, right string) bool {
	return strings.EqualFold(strings.TrimSpace(left), strings.TrimSpace(right))
}

func describeAmount(assetType string, assetID string, units int64, decimals uint32) string {
	switch command.AssetType(assetType) {
	case command.AssetHBAR:
		return shared.FormatHbar(units)
	default:
		return shared.FormatUnits(units, decimals) + " " + assetID
	}
}
