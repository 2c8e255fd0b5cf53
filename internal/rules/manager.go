package rules

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Config configures a Manager.
type Config struct {
	// Scope is the default scope new rules are stored under when the
	// caller doesn't specify one explicitly.
	Scope RuleScope
	// PromotionConfidenceThreshold is the minimum Confidence a Project
	// rule must have before RequestPromotion accepts it.
	PromotionConfidenceThreshold float64
}

// DefaultPromotionConfidenceThreshold matches the threshold below which a
// promotion request is rejected outright rather than queued for review.
const DefaultPromotionConfidenceThreshold = 0.6

// Manager is the learning engine: it appends decisions to a log, extracts
// candidate patterns from that log, and maintains a scoped rule store with
// conflict resolution and a promotion workflow for moving a rule from
// Project to Global scope.
type Manager struct {
	mu sync.RWMutex

	scope      RuleScope
	promoteMin float64

	decisions []Decision
	patterns  map[string]LearnedPattern
	rules     map[string]Rule

	resolver *ConflictResolver

	pending []Promotion
	history []Promotion

	nextID int
}

// NewManager creates a Manager scoped to scope, using default configuration.
func NewManager(scope RuleScope) *Manager {
	return NewManagerWithConfig(Config{Scope: scope, PromotionConfidenceThreshold: DefaultPromotionConfidenceThreshold})
}

// NewManagerWithConfig creates a Manager with explicit configuration.
func NewManagerWithConfig(cfg Config) *Manager {
	threshold := cfg.PromotionConfidenceThreshold
	if threshold <= 0 {
		threshold = DefaultPromotionConfidenceThreshold
	}
	return &Manager{
		scope:      cfg.Scope,
		promoteMin: threshold,
		patterns:   make(map[string]LearnedPattern),
		rules:      make(map[string]Rule),
		resolver:   NewConflictResolver(),
	}
}

// Scope reports the manager's default scope.
func (m *Manager) Scope() RuleScope {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scope
}

func (m *Manager) nextIDLocked(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

// -- Decision log ------------------------------------------------------

// CaptureDecision appends a new Decision to the log and returns its ID.
func (m *Manager) CaptureDecision(decisionType string, ctx DecisionContext, input, outcome string, accepted bool) Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := Decision{
		ID:           m.nextIDLocked("decision"),
		DecisionType: decisionType,
		Context:      ctx,
		Input:        input,
		Outcome:      outcome,
		Accepted:     accepted,
		Timestamp:    time.Now(),
	}
	m.decisions = append(m.decisions, d)
	return d
}

// GetDecisions returns every decision captured so far, oldest first.
func (m *Manager) GetDecisions() []Decision {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Decision, len(m.decisions))
	copy(out, m.decisions)
	return out
}

// GetDecision looks up a single decision by ID.
func (m *Manager) GetDecision(id string) (Decision, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.decisions {
		if d.ID == id {
			return d, true
		}
	}
	return Decision{}, false
}

// DecisionCount reports how many decisions have been logged.
func (m *Manager) DecisionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.decisions)
}

// ClearDecisions discards the entire decision log.
func (m *Manager) ClearDecisions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = nil
}

// DecisionStatistics summarizes the decision log by type and acceptance.
type DecisionStatistics struct {
	Total         int
	Accepted      int
	DecisionTypes map[string]int
}

// GetDecisionStatistics tallies the decision log by DecisionType and
// overall acceptance rate.
func (m *Manager) GetDecisionStatistics() DecisionStatistics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := DecisionStatistics{DecisionTypes: make(map[string]int)}
	for _, d := range m.decisions {
		stats.Total++
		if d.Accepted {
			stats.Accepted++
		}
		stats.DecisionTypes[d.DecisionType]++
	}
	return stats
}

// -- Pattern extraction -------------------------------------------------

// patternKey groups decisions that should be considered the same candidate
// pattern: same generation type and language.
func patternKey(ctx DecisionContext) string {
	return ctx.GenerationType + ":" + ctx.Language
}

// ExtractPatterns groups the decision log by generation type and language
// and turns any group with more than one occurrence into a LearnedPattern,
// with confidence equal to the group's acceptance ratio.
func (m *Manager) ExtractPatterns() []LearnedPattern {
	m.mu.RLock()
	decisions := make([]Decision, len(m.decisions))
	copy(decisions, m.decisions)
	m.mu.RUnlock()

	type bucket struct {
		key      string
		total    int
		accepted int
	}
	buckets := map[string]*bucket{}
	var order []string
	for _, d := range decisions {
		key := patternKey(d.Context)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{key: key}
			buckets[key] = b
			order = append(order, key)
		}
		b.total++
		if d.Accepted {
			b.accepted++
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var patterns []LearnedPattern
	for _, key := range order {
		b := buckets[key]
		if b.total < 2 {
			continue
		}
		p := LearnedPattern{
			ID:          m.nextIDLocked("pattern"),
			Pattern:     b.key,
			Occurrences: b.total,
			Confidence:  float64(b.accepted) / float64(b.total),
			CreatedAt:   time.Now(),
		}
		patterns = append(patterns, p)
	}
	return patterns
}

// ValidatePattern re-scores pattern against the current decision log,
// returning the acceptance ratio among decisions matching its key.
func (m *Manager) ValidatePattern(pattern LearnedPattern) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total, accepted int
	for _, d := range m.decisions {
		if patternKey(d.Context) != pattern.Pattern {
			continue
		}
		total++
		if d.Accepted {
			accepted++
		}
	}
	if total == 0 {
		return pattern.Confidence
	}
	return float64(accepted) / float64(total)
}

// UpdatePatternConfidence overwrites a stored pattern's confidence with a
// freshly computed validation score.
func (m *Manager) UpdatePatternConfidence(patternID string, confidence float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.patterns[patternID]
	if !ok {
		return fmt.Errorf("pattern %q not found", patternID)
	}
	p.Confidence = confidence
	m.patterns[patternID] = p
	return nil
}

// StorePattern adds or replaces a pattern in the pattern store.
func (m *Manager) StorePattern(p LearnedPattern) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = m.nextIDLocked("pattern")
	}
	m.patterns[p.ID] = p
	return p.ID
}

// CaptureAndStorePatterns extracts patterns from the decision log and
// persists each one, returning their assigned IDs.
func (m *Manager) CaptureAndStorePatterns() []string {
	extracted := m.ExtractPatterns()
	ids := make([]string, 0, len(extracted))
	for _, p := range extracted {
		ids = append(ids, m.StorePattern(p))
	}
	return ids
}

// GetPattern looks up a stored pattern by ID.
func (m *Manager) GetPattern(id string) (LearnedPattern, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.patterns[id]
	return p, ok
}

// GetPatterns returns every stored pattern.
func (m *Manager) GetPatterns() []LearnedPattern {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]LearnedPattern, 0, len(m.patterns))
	for _, p := range m.patterns {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetPatternsByConfidence filters stored patterns by a minimum confidence.
func (m *Manager) GetPatternsByConfidence(min float64) []LearnedPattern {
	var out []LearnedPattern
	for _, p := range m.GetPatterns() {
		if p.Confidence >= min {
			out = append(out, p)
		}
	}
	return out
}

// PatternCount reports how many patterns are stored.
func (m *Manager) PatternCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.patterns)
}

// ClearPatterns empties the pattern store.
func (m *Manager) ClearPatterns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = make(map[string]LearnedPattern)
}

// -- Rule store ----------------------------------------------------------

// StoreRule adds or replaces a rule, assigning it an ID and scope default
// if unset, and stamping CreatedAt/UpdatedAt.
func (m *Manager) StoreRule(r Rule) (string, error) {
	if r.Pattern == "" {
		return "", fmt.Errorf("rule pattern must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if r.ID == "" {
		r.ID = m.nextIDLocked("rule")
		r.CreatedAt = now
	} else if existing, ok := m.rules[r.ID]; ok {
		r.CreatedAt = existing.CreatedAt
	} else {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	m.rules[r.ID] = r
	return r.ID, nil
}

// GetRule looks up a rule by ID.
func (m *Manager) GetRule(id string) (Rule, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rules[id]
	return r, ok
}

// GetRules returns every stored rule.
func (m *Manager) GetRules() []Rule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Rule, 0, len(m.rules))
	for _, r := range m.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetRulesByScope filters stored rules to a single scope.
func (m *Manager) GetRulesByScope(scope RuleScope) []Rule {
	var out []Rule
	for _, r := range m.GetRules() {
		if r.Scope == scope {
			out = append(out, r)
		}
	}
	return out
}

// GetRulesByPattern filters stored rules to those matching pattern exactly.
func (m *Manager) GetRulesByPattern(pattern string) []Rule {
	var out []Rule
	for _, r := range m.GetRules() {
		if r.Pattern == pattern {
			out = append(out, r)
		}
	}
	return out
}

// DeleteRule removes a rule from the store.
func (m *Manager) DeleteRule(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rules[id]; !ok {
		return fmt.Errorf("rule %q not found", id)
	}
	delete(m.rules, id)
	return nil
}

// RuleCount reports how many rules are stored.
func (m *Manager) RuleCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rules)
}

// ClearRules empties the rule store.
func (m *Manager) ClearRules() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = make(map[string]Rule)
}

// -- Conflict resolution --------------------------------------------------

// CheckRuleConflicts reports conflicts among the currently stored rules.
func (m *Manager) CheckRuleConflicts() []Conflict {
	return m.resolver.FindConflicts(m.GetRules())
}

// GetRuleByPatternWithPrecedence returns the single rule that would win for
// pattern, applying scope/confidence/success-ratio precedence.
func (m *Manager) GetRuleByPatternWithPrecedence(pattern string) (Rule, bool) {
	candidates := m.GetRulesByPattern(pattern)
	if len(candidates) == 0 {
		return Rule{}, false
	}
	winner, _ := m.resolver.GetHighestPriorityRule(candidates)
	return winner, true
}

// ResolveAllConflicts collapses the rule store down to one winning rule per
// pattern, returning the resolved set without mutating storage.
func (m *Manager) ResolveAllConflicts() []Rule {
	return m.resolver.ResolveConflicts(m.GetRules())
}

// CheckCrossScopeConflicts surfaces patterns matched by rules in more than
// one scope.
func (m *Manager) CheckCrossScopeConflicts() []Conflict {
	return m.resolver.CheckCrossScopeConflicts(m.GetRules())
}

// -- Rule application ------------------------------------------------------

// ApplyRulesWithPrecedence resolves every distinct pattern among rules to
// its winning rule and returns the resolved set, the form a generation
// pipeline should consult to decide what action to take.
func (m *Manager) ApplyRulesWithPrecedence(candidates []Rule) []Rule {
	return m.resolver.ResolveConflicts(candidates)
}

// GetRulesForScope returns the rules visible to the manager's own scope:
// its own scope plus every broader one (Session sees Project and Global;
// Project sees Global; Global sees only itself).
func (m *Manager) GetRulesForScope() []Rule {
	var out []Rule
	for _, r := range m.GetRules() {
		if r.Scope >= m.Scope() {
			out = append(out, r)
		}
	}
	return out
}

// -- Promotion workflow ----------------------------------------------------

// RequestPromotion queues a Project rule for promotion to Global scope.
// Rules below the manager's confidence threshold are rejected immediately
// rather than queued.
func (m *Manager) RequestPromotion(rule Rule, reason string) (Promotion, error) {
	if rule.Scope != ScopeProject {
		return Promotion{}, fmt.Errorf("only project-scoped rules can be promoted, got %s", rule.Scope)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if rule.Confidence < m.promoteMin {
		rejected := Promotion{Rule: rule, Status: PromotionRejected, Reason: "confidence below promotion threshold", RequestedAt: time.Now(), ResolvedAt: time.Now()}
		m.history = append(m.history, rejected)
		return rejected, nil
	}

	p := Promotion{Rule: rule, Status: PromotionPending, Reason: reason, RequestedAt: time.Now()}
	m.pending = append(m.pending, p)
	return p, nil
}

// GetPendingPromotion looks up a single pending promotion by rule ID.
func (m *Manager) GetPendingPromotion(ruleID string) (Promotion, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.pending {
		if p.Rule.ID == ruleID {
			return p, true
		}
	}
	return Promotion{}, false
}

// GetPendingPromotions lists every promotion awaiting review.
func (m *Manager) GetPendingPromotions() []Promotion {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Promotion, len(m.pending))
	copy(out, m.pending)
	return out
}

// PendingPromotionCount reports how many promotions await review.
func (m *Manager) PendingPromotionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pending)
}

// ApprovePromotion approves a pending promotion, moves the rule to Global
// scope, and stores it. The approved rule is returned so the caller can
// persist it through whatever store backs the Global scope.
func (m *Manager) ApprovePromotion(ruleID, reason string) (Rule, error) {
	m.mu.Lock()
	idx := -1
	for i, p := range m.pending {
		if p.Rule.ID == ruleID {
			idx = i
			break
		}
	}
	if idx == -1 {
		m.mu.Unlock()
		return Rule{}, fmt.Errorf("no pending promotion for rule %q", ruleID)
	}

	promotion := m.pending[idx]
	m.pending = append(m.pending[:idx], m.pending[idx+1:]...)

	promotion.Rule.Scope = ScopeGlobal
	promotion.Rule.Source = SourcePromoted
	promotion.Status = PromotionApproved
	promotion.ResolvedAt = time.Now()
	if reason != "" {
		promotion.Reason = reason
	}
	m.history = append(m.history, promotion)
	m.mu.Unlock()

	if _, err := m.StoreRule(promotion.Rule); err != nil {
		return Rule{}, err
	}
	return promotion.Rule, nil
}

// RejectPromotion rejects a pending promotion without storing the rule.
func (m *Manager) RejectPromotion(ruleID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, p := range m.pending {
		if p.Rule.ID == ruleID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("no pending promotion for rule %q", ruleID)
	}

	promotion := m.pending[idx]
	m.pending = append(m.pending[:idx], m.pending[idx+1:]...)
	promotion.Status = PromotionRejected
	promotion.ResolvedAt = time.Now()
	if reason != "" {
		promotion.Reason = reason
	}
	m.history = append(m.history, promotion)
	return nil
}

// GetPromotionHistory returns every resolved promotion, approved or
// rejected, oldest first.
func (m *Manager) GetPromotionHistory() []Promotion {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Promotion, len(m.history))
	copy(out, m.history)
	return out
}

// GetApprovedPromotions filters the promotion history to approvals.
func (m *Manager) GetApprovedPromotions() []Promotion {
	var out []Promotion
	for _, p := range m.GetPromotionHistory() {
		if p.Status == PromotionApproved {
			out = append(out, p)
		}
	}
	return out
}

// GetRejectedPromotions filters the promotion history to rejections.
func (m *Manager) GetRejectedPromotions() []Promotion {
	var out []Promotion
	for _, p := range m.GetPromotionHistory() {
		if p.Status == PromotionRejected {
			out = append(out, p)
		}
	}
	return out
}

// ClearPendingPromotions discards every promotion awaiting review.
func (m *Manager) ClearPendingPromotions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
}

// ClearPromotionHistory discards the resolved-promotion history.
func (m *Manager) ClearPromotionHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
}
