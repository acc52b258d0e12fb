// internal/ticpe/advisory.go
package ticpe

import (
	"fmt"
	"strings"
)

// Advisory texts shown to the client. They are product copy, kept in French
// like the questionnaire itself.
const (
	adviceNotEligible    = "❌ Non éligible - Aucun véhicule professionnel"
	adviceFuelCards      = "💳 Misez sur les cartes carburant professionnelles"
	adviceNamedInvoices  = "📄 Améliorez la conservation des factures nominatives"
	adviceDeclarations   = "📋 Mettez en place des déclarations TICPE régulières"
	riskLowMaturity      = "⚠️ Maturité administrative insuffisante"
	riskLimitedUsage     = "⚠️ Usage professionnel limité"
	riskWeakSector       = "⚠️ Secteur à faible performance de récupération"
	fuelCardsBestLevel   = "Oui, toutes les stations"
	namedInvoicesBest    = "Oui, systématiquement"
	declarationsBest     = "Oui, régulièrement"
)

// generateAdvisory produces the ordered recommendation list and the risk
// factors. Order is fixed: the headline first, then one entry per maturity
// signal below its best level, in the order the maturity scorer evaluates
// them.
func generateAdvisory(t *Tables, p Profile, recovery float64, maturity int) (recommendations, riskFactors []string) {
	recommendations = []string{}
	riskFactors = []string{}

	if !p.HasProfessionalVehicles {
		recommendations = append(recommendations, adviceNotEligible)
		return recommendations, riskFactors
	}

	if recovery > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("🎯 ÉLIGIBILITÉ CONFIRMÉE ! Gain potentiel de %s€", formatEUR(recovery)))
	}

	if p.FuelCards != fuelCardsBestLevel {
		recommendations = append(recommendations, adviceFuelCards)
	}
	if p.NamedInvoices != namedInvoicesBest {
		recommendations = append(recommendations, adviceNamedInvoices)
	}
	if p.TICPEDeclarations != declarationsBest {
		recommendations = append(recommendations, adviceDeclarations)
	}

	if maturity < t.LowMaturityThreshold {
		riskFactors = append(riskFactors, riskLowMaturity)
	}
	if p.UsageDeclared && p.UsagePercent < t.LowUsageThreshold {
		riskFactors = append(riskFactors, riskLimitedUsage)
	}
	for _, sector := range t.RiskSectors {
		if p.Sector == sector {
			riskFactors = append(riskFactors, riskWeakSector)
			break
		}
	}

	return recommendations, riskFactors
}

// formatEUR renders an amount the French way: space-grouped thousands, no
// decimals ("9 000").
func formatEUR(amount float64) string {
	n := int64(amount + 0.5)
	digits := fmt.Sprintf("%d", n)

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
