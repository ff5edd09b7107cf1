package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"hotel-billing-backend/models"
)

// TaxLine is one computed tax or service-charge amount, kept for the folio
// breakdown and for disclosure of inclusive taxes.
type TaxLine struct {
	TaxConfigID uint            `json:"taxConfigId"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	Rate        decimal.Decimal `json:"rate"`
	ChargeType  string          `json:"chargeType"`
	IsCompound  bool            `json:"isCompound"`
	IsInclusive bool            `json:"isInclusive"`
	Amount      decimal.Decimal `json:"amount"`
}

// TaxResult carries the amounts to add on top of a charge. Inclusive taxes
// appear in the breakdown only; they are already part of the base price.
type TaxResult struct {
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	ServiceCharge decimal.Decimal `json:"serviceCharge"`
	Breakdown     []TaxLine       `json:"breakdown"`
}

var decimalHundred = decimal.NewFromInt(100)

// ComputeTaxes applies a property's tax configuration to a single charge.
//
// Rules are filtered to active ones covering the charge category, then
// applied in calculation_order (stable, so ties keep insertion order).
// Compound rules are computed on the base plus every non-inclusive amount
// applied before them; simple rules always on the original base. Inclusive
// rules are extracted from the base (base - base/(1+rate)) and reported
// without being added. Rounding to the currency's minor-unit precision
// happens once at the end, never mid-accumulation.
func ComputeTaxes(base decimal.Decimal, itemType string, configs []models.TaxConfig, precision int32) TaxResult {
	applicable := make([]models.TaxConfig, 0, len(configs))
	for _, cfg := range configs {
		if !cfg.IsActive || cfg.Rate.IsZero() {
			continue
		}
		if !cfg.AppliesToCategory(itemType) {
			continue
		}
		applicable = append(applicable, cfg)
	}
	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].CalculationOrder < applicable[j].CalculationOrder
	})

	result := TaxResult{
		TaxAmount:     decimal.Zero,
		ServiceCharge: decimal.Zero,
	}

	accumulated := base
	taxTotal := decimal.Zero
	serviceTotal := decimal.Zero

	for _, cfg := range applicable {
		rate := cfg.Rate.Div(decimalHundred)

		var amount decimal.Decimal
		if cfg.IsInclusive {
			// Already contained in the quoted price: extract for
			// disclosure, never add.
			amount = base.Sub(base.Div(decimal.NewFromInt(1).Add(rate)))
		} else {
			if cfg.IsCompound {
				amount = accumulated.Mul(rate)
			} else {
				amount = base.Mul(rate)
			}
			accumulated = accumulated.Add(amount)
			if cfg.ChargeType == models.TaxChargeTypeServiceCharge {
				serviceTotal = serviceTotal.Add(amount)
			} else {
				taxTotal = taxTotal.Add(amount)
			}
		}

		result.Breakdown = append(result.Breakdown, TaxLine{
			TaxConfigID: cfg.ID,
			Name:        cfg.Name,
			Code:        cfg.Code,
			Rate:        cfg.Rate,
			ChargeType:  cfg.ChargeType,
			IsCompound:  cfg.IsCompound,
			IsInclusive: cfg.IsInclusive,
			Amount:      amount.Round(precision),
		})
	}

	result.TaxAmount = taxTotal.Round(precision)
	result.ServiceCharge = serviceTotal.Round(precision)
	return result
}
