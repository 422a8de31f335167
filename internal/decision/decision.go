// Package decision turns a quote plus a probability estimate into trading
// metrics: spread cost, alpha, expected value, Kelly stake fraction, and a
// discrete recommendation.
package decision

import (
	"github.com/gatallahx/before-you-bet/internal/model"
)

// ComputeMetrics derives the full metrics bundle from a quote and the
// caller's true-probability estimate. It is a pure function: a given
// (quote, probability) pair always yields the same bundle.
//
// trueProb must lie in [0,1]; out-of-range values indicate a caller bug
// and fail with InvalidInputError instead of being clamped.
func ComputeMetrics(q model.Quote, trueProb float64) (model.DecisionMetrics, error) {
	if trueProb < 0 || trueProb > 1 {
		return model.DecisionMetrics{}, &model.InvalidInputError{
			Field:  "true_probability",
			Reason: "must be in [0.0, 1.0]",
		}
	}

	implied := q.ImpliedProbability()
	alpha := (trueProb - implied) * 100

	// A rational actor transacts on the side where the edge is positive,
	// at the price actually available on that side: YES at the ask, or
	// NO at 100 - bid.
	var side model.Side
	var winProb float64
	var cost int
	if trueProb >= implied {
		side = model.SideYes
		winProb = trueProb
		cost = q.YesAsk
	} else {
		side = model.SideNo
		winProb = 1 - trueProb
		cost = 100 - q.YesBid
	}

	ev := winProb*float64(100-cost) - (1-winProb)*float64(cost)
	kelly := kellyFraction(winProb, cost)

	rec := model.RecommendPass
	if ev > 0 && kelly > 0 {
		if side == model.SideYes {
			rec = model.RecommendBuyYes
		} else {
			rec = model.RecommendBuyNo
		}
	}

	return model.DecisionMetrics{
		SpreadCost:      q.Spread(),
		TrueProbability: trueProb,
		Alpha:           alpha,
		ExpectedValue:   ev,
		KellyFraction:   kelly,
		Side:            side,
		Recommendation:  rec,
	}, nil
}

// kellyFraction computes f* = (p*(b+1) - 1) / b with net odds
// b = (100-cost)/cost on the chosen side, clamped to [0,1]. A negative
// raw fraction reports as 0: no edge is never a short recommendation.
// Degenerate costs (outside (0,100)) have no finite odds and yield 0.
func kellyFraction(winProb float64, cost int) float64 {
	if cost <= 0 || cost >= 100 {
		return 0
	}

	b := float64(100-cost) / float64(cost)
	f := (winProb*(b+1) - 1) / b

	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
