package ledger

import "math"

const (
	taxRate    = 0.01 // 1% of the rough amount
	levyPerBag = 5.0
)

type DebitInput struct {
	Bags        int
	Kg          float64
	CutWeight   float64
	AmountPerKg float64
}

// DebitBreakdown holds the values derived from a debit's raw inputs. Only
// NetAmount is rounded (2 decimals); RoughAmount and Tax keep full float
// precision.
type DebitBreakdown struct {
	NetWeight   float64
	RoughAmount float64
	Tax         float64
	Levy        float64
	NetAmount   float64
}

// CalculateDebit derives the charge for a weight-priced debit:
//
//	net_weight   = kg - bags*cut_weight
//	rough_amount = net_weight * amount_per_kg
//	tax          = rough_amount * 0.01
//	levy         = bags * 5
//	net_amount   = round(rough_amount + tax + levy, 2)
//
// net_weight may come out negative when cut_weight*bags exceeds kg; that is
// not rejected here, plausibility is the caller's problem.
func CalculateDebit(in DebitInput) DebitBreakdown {
	netWeight := in.Kg - float64(in.Bags)*in.CutWeight
	roughAmount := netWeight * in.AmountPerKg
	tax := roughAmount * taxRate
	levy := levyPerBag * float64(in.Bags)
	netAmount := round2(roughAmount + tax + levy)

	return DebitBreakdown{
		NetWeight:   netWeight,
		RoughAmount: roughAmount,
		Tax:         tax,
		Levy:        levy,
		NetAmount:   netAmount,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
