// Package threshold maps wall-clock hour-of-day to the minimum same-day
// post count a security needs to qualify as trending. Discussion volume
// accumulates over the session, so later cycles demand more posts.
package threshold

import "github.com/hyunwoolee/trendboard/internal/config"

// Rule applies to hours in [From, To).
type Rule struct {
	From     int
	To       int
	MinPosts int
}

// Policy is a total step function over hours 0..23.
type Policy struct {
	rules    []Rule
	fallback int
}

// NewPolicy builds a policy from config rules. Hours not covered by any
// rule fall back to the conservative default.
func NewPolicy(cfg config.Threshold) *Policy {
	rules := make([]Rule, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		rules = append(rules, Rule{From: r.From, To: r.To, MinPosts: r.MinPosts})
	}
	fallback := cfg.Default
	if fallback <= 0 {
		fallback = 10
	}
	return &Policy{rules: rules, fallback: fallback}
}

// ThresholdFor returns the minimum post count for the given hour of day.
// Defined for every hour; out-of-range hours get the fallback.
func (p *Policy) ThresholdFor(hour int) int {
	for _, r := range p.rules {
		if hour >= r.From && hour < r.To {
			return r.MinPosts
		}
	}
	return p.fallback
}
