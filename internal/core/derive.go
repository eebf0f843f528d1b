package core

import (
	"math"
)

// PercentilePoint pairs a standard-normal deviate with the measurement
// value a source table publishes at that percentile.
type PercentilePoint struct {
	Z     float64
	Value float64
}

// PercentileZScores maps the percentile columns published by WHO and
// INTERGROWTH sources to their exact standard-normal deviates.
var PercentileZScores = map[float64]float64{
	3:  -1.8807936081512509,
	5:  -1.6448536269514722,
	10: -1.2815515655446004,
	25: -0.6744897501960817,
	50: 0,
	75: 0.6744897501960817,
	90: 1.2815515655446004,
	95: 1.6448536269514722,
	97: 1.8807936081512509,
}

// DeriveTolerance is the relative RMS residual below which a percentile fit
// is accepted. Published percentile columns are rounded to a few decimals,
// so a genuine LMS-shaped row fits orders of magnitude tighter than this.
const DeriveTolerance = 1e-3

const (
	deriveMaxIterations = 200
	deriveInitialS      = 0.1
)

// DeriveLMS fits (L, M, S) to one row published only as percentile values.
// M is pinned to the 50th-percentile value; L (starting at 0) and S
// (starting at 0.1) are fitted by Levenberg-Marquardt nonlinear least
// squares against the remaining points. Non-convergence is a hard error.
func DeriveLMS(points []PercentilePoint) (ResolvedLMS, error) {
	var m float64
	var rest []PercentilePoint
	for _, p := range points {
		if p.Z == 0 {
			m = p.Value
			continue
		}
		rest = append(rest, p)
	}
	if m <= 0 {
		return ResolvedLMS{}, DerivationError{Detail: "50th percentile (z=0) value required to pin M"}
	}
	if len(rest) < 2 {
		return ResolvedLMS{}, DerivationError{Detail: "at least two non-median percentile points required"}
	}

	l, s := 0.0, deriveInitialS
	damping := 1e-3
	cost := deriveCost(rest, l, m, s)

	for iter := 0; iter < deriveMaxIterations; iter++ {
		// 2x2 normal equations J'J + damping*diag(J'J), numeric Jacobian.
		var jtj [2][2]float64
		var jtr [2]float64
		const h = 1e-6
		for _, p := range rest {
			r0 := lmsForward(p.Z, l, m, s) - p.Value
			dl := (lmsForward(p.Z, l+h, m, s) - lmsForward(p.Z, l-h, m, s)) / (2 * h)
			ds := (lmsForward(p.Z, l, m, s+h) - lmsForward(p.Z, l, m, s-h)) / (2 * h)
			jtj[0][0] += dl * dl
			jtj[0][1] += dl * ds
			jtj[1][1] += ds * ds
			jtr[0] += dl * r0
			jtr[1] += ds * r0
		}
		jtj[1][0] = jtj[0][1]

		stepped := false
		for attempt := 0; attempt < 12; attempt++ {
			a00 := jtj[0][0] * (1 + damping)
			a11 := jtj[1][1] * (1 + damping)
			det := a00*a11 - jtj[0][1]*jtj[1][0]
			if det == 0 || math.IsNaN(det) {
				damping *= 10
				continue
			}
			stepL := -(a11*jtr[0] - jtj[0][1]*jtr[1]) / det
			stepS := -(a00*jtr[1] - jtj[1][0]*jtr[0]) / det
			trialL, trialS := l+stepL, s+stepS
			if trialS <= 0 {
				damping *= 10
				continue
			}
			trialCost := deriveCost(rest, trialL, m, trialS)
			if math.IsNaN(trialCost) || trialCost >= cost {
				damping *= 10
				continue
			}
			l, s, cost = trialL, trialS, trialCost
			damping = math.Max(damping/10, 1e-12)
			stepped = true
			break
		}

		rms := math.Sqrt(cost/float64(len(rest))) / m
		if rms <= DeriveTolerance {
			return ResolvedLMS{L: l, M: m, S: s}, nil
		}
		if !stepped {
			return ResolvedLMS{}, DerivationError{Residual: rms, Detail: "optimizer stalled before reaching tolerance"}
		}
	}

	rms := math.Sqrt(cost/float64(len(rest))) / m
	return ResolvedLMS{}, DerivationError{Residual: rms, Detail: "iteration limit reached"}
}

// lmsForward evaluates the inverse LMS formula without the domain checks of
// ValueForZScore; out-of-domain trial parameters yield NaN, which the
// optimizer treats as a rejected step.
func lmsForward(z, l, m, s float64) float64 {
	if math.Abs(l) < 1e-12 {
		return m * math.Exp(s*z)
	}
	base := 1 + l*s*z
	if base <= 0 {
		return math.NaN()
	}
	return m * math.Pow(base, 1/l)
}

func deriveCost(points []PercentilePoint, l, m, s float64) float64 {
	var cost float64
	for _, p := range points {
		r := lmsForward(p.Z, l, m, s) - p.Value
		cost += r * r
	}
	return cost
}
