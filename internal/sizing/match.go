package sizing

import (
	"sort"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
	dErrors "sevsizer/pkg/domain-errors"
)

// Band position thresholds for fit classification. Positions at the
// thresholds count as standard.
const (
	snugBelow  = 0.33
	looseAbove = 0.67
)

// MatchFinger resolves one measured width against a chart's active rules.
// This is the single matching implementation; recommendations and admin
// previews both go through it.
//
// Resolution order:
//  1. rules are filtered to those covering the finger (specific or ALL)
//  2. filtered rules are ordered: priority descending, finger-specific
//     before ALL, then rule ID ascending
//  3. the first rule whose band contains the width wins, fit derived from
//     the position inside the band
//  4. otherwise the rule nearest the width wins if it is within the
//     configured tolerance, fit derived from the between-sizes policy
//  5. otherwise the nearest rule still wins, fit standard
//
// Ties on distance resolve to the earlier rule in the filtered order, so
// equal inputs always produce equal outputs.
//
// Errors: CodeNoRules when no rule covers the finger.
func MatchFinger(widthMm float64, finger domain.FingerName, rules []models.SizeRule, cfg models.RuleConfig) (Match, error) {
	applicable := applicableRules(rules, finger)
	if len(applicable) == 0 {
		return Match{}, dErrors.Newf(dErrors.CodeNoRules, "no rules cover finger %s", finger)
	}
	orderRules(applicable)

	for i := range applicable {
		r := &applicable[i]
		if r.Contains(widthMm) {
			return Match{
				Size:   r.MappedSize,
				Fit:    fitFromPosition(r.Position(widthMm)),
				RuleID: r.ID,
				Branch: BranchExact,
			}, nil
		}
	}

	// Strict less-than keeps the earliest rule on distance ties.
	closest := &applicable[0]
	closestDist := closest.Distance(widthMm)
	for i := 1; i < len(applicable); i++ {
		if d := applicable[i].Distance(widthMm); d < closestDist {
			closest = &applicable[i]
			closestDist = d
		}
	}

	if closestDist <= cfg.ToleranceMm {
		fit := domain.FitLoose
		if cfg.BetweenSizesPolicy == models.PolicySizeDown {
			fit = domain.FitSnug
		}
		return Match{
			Size:   closest.MappedSize,
			Fit:    fit,
			RuleID: closest.ID,
			Branch: BranchTolerance,
		}, nil
	}

	return Match{
		Size:   closest.MappedSize,
		Fit:    domain.FitStandard,
		RuleID: closest.ID,
		Branch: BranchClosest,
	}, nil
}

func applicableRules(rules []models.SizeRule, finger domain.FingerName) []models.SizeRule {
	out := make([]models.SizeRule, 0, len(rules))
	for _, r := range rules {
		if r.Finger.Matches(finger) {
			out = append(out, r)
		}
	}
	return out
}

// orderRules sorts in place: priority descending, finger-specific before
// ALL, rule ID ascending. The order is total, so equal rule sets always
// scan identically.
func orderRules(rules []models.SizeRule) {
	sort.Slice(rules, func(i, j int) bool {
		a, b := &rules[i], &rules[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Finger.IsSpecific() != b.Finger.IsSpecific() {
			return a.Finger.IsSpecific()
		}
		return a.ID < b.ID
	})
}

func fitFromPosition(pos float64) domain.Fit {
	switch {
	case pos < snugBelow:
		return domain.FitSnug
	case pos > looseAbove:
		return domain.FitLoose
	default:
		return domain.FitStandard
	}
}
