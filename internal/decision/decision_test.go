package decision

import (
	"errors"
	"math"
	"testing"

	"github.com/gatallahx/before-you-bet/internal/model"
)

func quote(bid, ask int) model.Quote {
	return model.Quote{
		Ticker:  "KXTEST-26JAN01",
		Title:   "Test market",
		Variant: model.QuoteDetailed,
		YesBid:  bid,
		YesAsk:  ask,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeMetrics_FavoredYes(t *testing.T) {
	// bid 40 / ask 45, p = 0.60: implied 0.425, alpha 17.5,
	// EV buying YES at 45 = 0.6*55 - 0.4*45 = 15,
	// Kelly at b = 55/45: (0.6*(b+1)-1)/b = 0.27272727...
	m, err := ComputeMetrics(quote(40, 45), 0.60)
	if err != nil {
		t.Fatalf("ComputeMetrics failed: %v", err)
	}

	if m.SpreadCost != 5 {
		t.Errorf("SpreadCost = %d, want 5", m.SpreadCost)
	}
	if !almostEqual(m.Alpha, 17.5) {
		t.Errorf("Alpha = %v, want 17.5", m.Alpha)
	}
	if m.Side != model.SideYes {
		t.Errorf("Side = %q, want yes", m.Side)
	}
	if !almostEqual(m.ExpectedValue, 15) {
		t.Errorf("ExpectedValue = %v, want 15", m.ExpectedValue)
	}

	b := 55.0 / 45.0
	wantKelly := (0.60*(b+1) - 1) / b
	if !almostEqual(m.KellyFraction, wantKelly) {
		t.Errorf("KellyFraction = %v, want %v", m.KellyFraction, wantKelly)
	}
	if m.Recommendation != model.RecommendBuyYes {
		t.Errorf("Recommendation = %q, want buy_yes", m.Recommendation)
	}
}

func TestComputeMetrics_FavoredNo(t *testing.T) {
	// p = 0.20 against implied 0.425: the favored side is NO at
	// 100 - bid = 60 cents, win probability 0.80.
	m, err := ComputeMetrics(quote(40, 45), 0.20)
	if err != nil {
		t.Fatalf("ComputeMetrics failed: %v", err)
	}

	if m.Side != model.SideNo {
		t.Errorf("Side = %q, want no", m.Side)
	}
	if !almostEqual(m.Alpha, -22.5) {
		t.Errorf("Alpha = %v, want -22.5", m.Alpha)
	}

	wantEV := 0.8*40 - 0.2*60
	if !almostEqual(m.ExpectedValue, wantEV) {
		t.Errorf("ExpectedValue = %v, want %v", m.ExpectedValue, wantEV)
	}

	b := 40.0 / 60.0
	wantKelly := (0.8*(b+1) - 1) / b
	if !almostEqual(m.KellyFraction, wantKelly) {
		t.Errorf("KellyFraction = %v, want %v", m.KellyFraction, wantKelly)
	}
	if m.Recommendation != model.RecommendBuyNo {
		t.Errorf("Recommendation = %q, want buy_no", m.Recommendation)
	}
}

func TestComputeMetrics_ImpliedProbabilityYieldsZeroAlpha(t *testing.T) {
	quotes := []model.Quote{quote(40, 45), quote(10, 12), quote(0, 100), quote(97, 99)}

	for _, q := range quotes {
		m, err := ComputeMetrics(q, q.ImpliedProbability())
		if err != nil {
			t.Fatalf("ComputeMetrics(%d/%d) failed: %v", q.YesBid, q.YesAsk, err)
		}
		if !almostEqual(m.Alpha, 0) {
			t.Errorf("Alpha for %d/%d at implied = %v, want 0", q.YesBid, q.YesAsk, m.Alpha)
		}
	}
}

func TestComputeMetrics_NegativeEdgeClampsKelly(t *testing.T) {
	// p slightly above implied favors YES, but below the ask-implied
	// break-even: raw Kelly is negative and must report as 0.
	m, err := ComputeMetrics(quote(40, 45), 0.43)
	if err != nil {
		t.Fatalf("ComputeMetrics failed: %v", err)
	}

	if m.Side != model.SideYes {
		t.Fatalf("Side = %q, want yes", m.Side)
	}
	if m.ExpectedValue >= 0 {
		t.Fatalf("ExpectedValue = %v, want negative for this scenario", m.ExpectedValue)
	}
	if m.KellyFraction != 0 {
		t.Errorf("KellyFraction = %v, want 0", m.KellyFraction)
	}
	if m.Recommendation != model.RecommendPass {
		t.Errorf("Recommendation = %q, want pass", m.Recommendation)
	}
}

func TestComputeMetrics_KellyAlwaysInRange(t *testing.T) {
	probs := []float64{0, 0.1, 0.25, 0.425, 0.5, 0.75, 0.9, 1}
	quotes := []model.Quote{quote(40, 45), quote(1, 2), quote(98, 99), quote(0, 0), quote(100, 100), quote(50, 50)}

	for _, q := range quotes {
		for _, p := range probs {
			m, err := ComputeMetrics(q, p)
			if err != nil {
				t.Fatalf("ComputeMetrics(%d/%d, %v) failed: %v", q.YesBid, q.YesAsk, p, err)
			}
			if m.KellyFraction < 0 || m.KellyFraction > 1 {
				t.Errorf("KellyFraction(%d/%d, %v) = %v, outside [0,1]", q.YesBid, q.YesAsk, p, m.KellyFraction)
			}
		}
	}
}

func TestComputeMetrics_ProbabilityBounds(t *testing.T) {
	tests := []struct {
		prob    float64
		wantErr bool
	}{
		{0.0, false},
		{1.0, false},
		{-0.0001, true},
		{1.0001, true},
		{0.5, false},
	}

	for _, tt := range tests {
		_, err := ComputeMetrics(quote(40, 45), tt.prob)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ComputeMetrics(prob=%v) succeeded, want error", tt.prob)
				continue
			}
			var invErr *model.InvalidInputError
			if !errors.As(err, &invErr) {
				t.Errorf("ComputeMetrics(prob=%v) error is %T, want *model.InvalidInputError", tt.prob, err)
			}
		} else if err != nil {
			t.Errorf("ComputeMetrics(prob=%v) failed: %v", tt.prob, err)
		}
	}
}

func TestComputeMetrics_Deterministic(t *testing.T) {
	q := quote(33, 37)
	a, err := ComputeMetrics(q, 0.44)
	if err != nil {
		t.Fatalf("ComputeMetrics failed: %v", err)
	}
	b, err := ComputeMetrics(q, 0.44)
	if err != nil {
		t.Fatalf("ComputeMetrics failed: %v", err)
	}
	if a != b {
		t.Errorf("same inputs produced different bundles: %+v vs %+v", a, b)
	}
}
