// Package verdict maps a free-text analysis report to a coarse verdict
// using an ordered keyword rule table.
package verdict

import (
	"strings"

	"github.com/ppiankov/verifact/internal/model"
)

// Rule is one row of the classification table
type Rule struct {
	// Name identifies the rule in logs and batch summaries
	Name string

	// Verdict is produced when the rule fires
	Verdict model.Verdict

	// match returns the keyword that fired, given the lower-cased and the original report
	match func(lower, original string) (string, bool)
}

// Match describes which rule classified a report
type Match struct {
	Index   int // Position in the rule table, -1 when no rule fired
	Rule    string
	Verdict model.Verdict
	Keyword string
}

// Classifier applies the rule table in order; the first matching rule wins
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a classifier.
// The inconclusive rule matches "inconclusive" against the report as written
// unless CaseInsensitiveInconclusive is set.
func NewClassifier(cfg model.ClassifierConfig) *Classifier {
	return &Classifier{rules: buildRules(cfg.CaseInsensitiveInconclusive)}
}

func buildRules(caseInsensitiveInconclusive bool) []Rule {
	return []Rule{
		{
			Name:    "affirmed",
			Verdict: model.VerdictTrue,
			match: func(lower, _ string) (string, bool) {
				return "true", strings.Contains(lower, "true") && !strings.Contains(lower, "false")
			},
		},
		{
			Name:    "refuted",
			Verdict: model.VerdictFalse,
			match: func(lower, _ string) (string, bool) {
				return "false", strings.Contains(lower, "false")
			},
		},
		{
			Name:    "partially_accurate",
			Verdict: model.VerdictPartiallyAccurate,
			match: func(lower, _ string) (string, bool) {
				return containsAny(lower, "misleading", "partially")
			},
		},
		{
			Name:    "inconclusive",
			Verdict: model.VerdictInconclusive,
			match: func(lower, original string) (string, bool) {
				text := original
				if caseInsensitiveInconclusive {
					text = lower
				}
				return "inconclusive", strings.Contains(text, "inconclusive")
			},
		},
	}
}

// Classify returns the verdict for a report
func (c *Classifier) Classify(report string) model.Verdict {
	return c.Explain(report).Verdict
}

// Explain returns the verdict together with the rule and keyword that produced it
func (c *Classifier) Explain(report string) Match {
	lower := strings.ToLower(report)

	for i, rule := range c.rules {
		if keyword, ok := rule.match(lower, report); ok {
			return Match{
				Index:   i,
				Rule:    rule.Name,
				Verdict: rule.Verdict,
				Keyword: keyword,
			}
		}
	}

	return Match{
		Index:   -1,
		Rule:    "none",
		Verdict: model.VerdictDetailedOnly,
	}
}

// Rules returns a copy of the rule table in evaluation order
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// containsAny reports the first keyword found in text
func containsAny(text string, keywords ...string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}
