package types

import "fmt"

// Status classifies a compared pair of exchanges.
type Status string

const (
	// StatusMatch means no differences were found.
	StatusMatch Status = "match"
	// StatusWhitelisted means every difference is exempted by the whitelist.
	StatusWhitelisted Status = "whitelisted"
	// StatusPartial means the paths agree but at least one non-exempt field differs.
	StatusPartial Status = "partial"
	// StatusDifferent is reserved for a path mismatch.
	StatusDifferent Status = "different"
)

// ComparisonResult is the outcome of comparing two exchanges.
type ComparisonResult struct {
	Status  Status `json:"status"`
	Details string `json:"details"`
}

// AlignedPair is one unit of an alignment: either a matched pair of positions
// with its comparison, or a position present on one side only.
// Positions are 0-based offsets into the aligned sequences.
type AlignedPair struct {
	Index1     *int              `json:"index1"`
	Index2     *int              `json:"index2"`
	Comparison *ComparisonResult `json:"comparison,omitempty"`
}

// Matched reports whether both sides of the pair are set.
func (p AlignedPair) Matched() bool {
	return p.Index1 != nil && p.Index2 != nil
}

// Strategy selects an alignment algorithm.
type Strategy string

const (
	StrategyGreedy    Strategy = "greedy"
	StrategyLookahead Strategy = "lookahead"
	StrategyLCS       Strategy = "lcs"
)

// ParseStrategy converts a user-supplied name to a Strategy.
// An empty name yields the fallback.
func ParseStrategy(name string, fallback Strategy) (Strategy, error) {
	switch Strategy(name) {
	case "":
		return fallback, nil
	case StrategyGreedy, StrategyLookahead, StrategyLCS:
		return Strategy(name), nil
	default:
		return "", fmt.Errorf("unknown alignment strategy %q (want greedy, lookahead or lcs)", name)
	}
}

// AlignmentSummary counts the outcomes of an alignment.
type AlignmentSummary struct {
	Total       int `json:"total"`
	Match       int `json:"match"`
	Whitelisted int `json:"whitelisted"`
	Partial     int `json:"partial"`
	Different   int `json:"different"`
	OnlyFirst   int `json:"only_first"`
	OnlySecond  int `json:"only_second"`
}

// SummarizeAlignment counts statuses and one-sided entries in an alignment.
func SummarizeAlignment(pairs []AlignedPair) AlignmentSummary {
	s := AlignmentSummary{Total: len(pairs)}
	for _, p := range pairs {
		switch {
		case p.Index1 == nil:
			s.OnlySecond++
		case p.Index2 == nil:
			s.OnlyFirst++
		case p.Comparison != nil:
			switch p.Comparison.Status {
			case StatusMatch:
				s.Match++
			case StatusWhitelisted:
				s.Whitelisted++
			case StatusPartial:
				s.Partial++
			case StatusDifferent:
				s.Different++
			}
		}
	}
	return s
}

// Section is one aspect of a detailed comparison, rendered as text for each side.
type Section struct {
	Content1    string   `json:"content1"`
	Content2    string   `json:"content2"`
	Whitelisted []string `json:"whitelisted"` // lower-cased names exempted for the first side's URL
}

// DetailedComparison is the full per-aspect report for one pair of exchanges.
// Payloads and ResponseBody are nil when neither side carries that body.
type DetailedComparison struct {
	General      Section  `json:"general"`
	RawRequest   Section  `json:"raw_request"`
	Headers      Section  `json:"headers"`
	Payloads     *Section `json:"payloads,omitempty"`
	Params       Section  `json:"params"`
	Response     Section  `json:"response"`
	ResponseBody *Section `json:"response_body,omitempty"`
}
