package rules

import "sort"

// ConflictResolver picks a single winning rule out of a set that matches the
// same pattern. Precedence is Scope first (Project > Global > Session),
// then Confidence, then the success/usage ratio.
type ConflictResolver struct{}

// NewConflictResolver returns a stateless resolver.
func NewConflictResolver() *ConflictResolver {
	return &ConflictResolver{}
}

// rankLess reports whether a outranks b under the precedence order.
func rankLess(a, b Rule) bool {
	if a.Scope.precedence() != b.Scope.precedence() {
		return a.Scope.precedence() > b.Scope.precedence()
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.successRatio() > b.successRatio()
}

// DetectConflict reports whether more than one rule in candidates matches
// the same pattern and, if so, which one wins.
func (c *ConflictResolver) DetectConflict(candidates []Rule) (Conflict, bool) {
	byPattern := map[string][]Rule{}
	for _, r := range candidates {
		byPattern[r.Pattern] = append(byPattern[r.Pattern], r)
	}
	for pattern, rules := range byPattern {
		if len(rules) < 2 {
			continue
		}
		winner, losers := c.GetHighestPriorityRule(rules)
		return Conflict{Pattern: pattern, Winner: winner, Losers: losers, Reason: "scope/confidence precedence"}, true
	}
	return Conflict{}, false
}

// FindConflicts returns every pattern in candidates matched by more than
// one rule.
func (c *ConflictResolver) FindConflicts(candidates []Rule) []Conflict {
	byPattern := map[string][]Rule{}
	for _, r := range candidates {
		byPattern[r.Pattern] = append(byPattern[r.Pattern], r)
	}
	var conflicts []Conflict
	for pattern, rules := range byPattern {
		if len(rules) < 2 {
			continue
		}
		winner, losers := c.GetHighestPriorityRule(rules)
		conflicts = append(conflicts, Conflict{Pattern: pattern, Winner: winner, Losers: losers, Reason: "scope/confidence precedence"})
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Pattern < conflicts[j].Pattern })
	return conflicts
}

// GetHighestPriorityRule splits rules into the single winner and the rest,
// ordered by precedence.
func (c *ConflictResolver) GetHighestPriorityRule(candidates []Rule) (Rule, []Rule) {
	ordered := make([]Rule, len(candidates))
	copy(ordered, candidates)
	sort.Slice(ordered, func(i, j int) bool { return rankLess(ordered[i], ordered[j]) })
	return ordered[0], ordered[1:]
}

// ResolveConflicts collapses candidates down to one winning rule per
// pattern, preserving rules whose pattern has no collision.
func (c *ConflictResolver) ResolveConflicts(candidates []Rule) []Rule {
	byPattern := map[string][]Rule{}
	var order []string
	for _, r := range candidates {
		if _, ok := byPattern[r.Pattern]; !ok {
			order = append(order, r.Pattern)
		}
		byPattern[r.Pattern] = append(byPattern[r.Pattern], r)
	}
	resolved := make([]Rule, 0, len(order))
	for _, pattern := range order {
		winner, _ := c.GetHighestPriorityRule(byPattern[pattern])
		resolved = append(resolved, winner)
	}
	return resolved
}

// CheckCrossScopeConflicts reports rules that share a pattern across two
// different scopes, which is allowed (the higher scope simply wins) but
// worth surfacing for review.
func (c *ConflictResolver) CheckCrossScopeConflicts(candidates []Rule) []Conflict {
	byPattern := map[string][]Rule{}
	for _, r := range candidates {
		byPattern[r.Pattern] = append(byPattern[r.Pattern], r)
	}
	var conflicts []Conflict
	for pattern, rules := range byPattern {
		scopes := map[RuleScope]bool{}
		for _, r := range rules {
			scopes[r.Scope] = true
		}
		if len(scopes) < 2 {
			continue
		}
		winner, losers := c.GetHighestPriorityRule(rules)
		conflicts = append(conflicts, Conflict{Pattern: pattern, Winner: winner, Losers: losers, Reason: "cross-scope collision"})
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Pattern < conflicts[j].Pattern })
	return conflicts
}
