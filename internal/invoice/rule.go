package invoice

import (
	"errors"
	"fmt"
	"regexp"
)

// match is one regexp hit: its submatches and byte offsets in the scanned text.
type match struct {
	groups     []string
	start, end int
}

func (m match) group(i int) string {
	if i < len(m.groups) {
		return m.groups[i]
	}
	return ""
}

// Rule is one entry of a field's ordered pattern table. Extract turns a hit
// into a candidate value; an error means the hit is unusable and the next
// candidate is tried.
type Rule[T any] struct {
	Name        string
	Description string
	Pattern     *regexp.Regexp
	// EachMatch walks every hit of Pattern instead of only the leftmost one.
	EachMatch bool
	Extract   func(s *scan, m match) (T, error)
}

// rejectf builds the reason carried by a rejected candidate.
func rejectf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

var errNoValue = errors.New("empty capture")

// activeRules drops the rules switched off by name.
func activeRules[T any](rules []Rule[T], disabled map[string]struct{}) []Rule[T] {
	if len(disabled) == 0 {
		return rules
	}
	out := make([]Rule[T], 0, len(rules))
	for _, r := range rules {
		if _, off := disabled[r.Name]; !off {
			out = append(out, r)
		}
	}
	return out
}

// evaluate runs rules top to bottom and returns the first candidate that
// survives Extract and accept. Every hit is recorded on the scan trace.
func evaluate[T any](s *scan, field string, rules []Rule[T], accept func(*scan, T) error) (T, string, bool) {
	var zero T
	for _, r := range rules {
		for _, m := range s.find(r.Pattern, r.EachMatch) {
			v, err := r.Extract(s, m)
			if err != nil {
				s.record(field, r.Name, m.group(0), OutcomeUnparsable, err.Error())
				continue
			}
			if accept != nil {
				if err := accept(s, v); err != nil {
					s.record(field, r.Name, fmt.Sprint(v), OutcomeRejected, err.Error())
					continue
				}
			}
			s.record(field, r.Name, fmt.Sprint(v), OutcomeAccepted, "")
			return v, r.Name, true
		}
	}
	s.record(field, "", "", OutcomeMiss, "")
	return zero, "", false
}

// find returns the leftmost hit, or all hits when each is set.
func (s *scan) find(re *regexp.Regexp, each bool) []match {
	if !each {
		loc := re.FindStringSubmatchIndex(s.text)
		if loc == nil {
			return nil
		}
		return []match{toMatch(s.text, loc)}
	}
	all := re.FindAllStringSubmatchIndex(s.text, -1)
	out := make([]match, 0, len(all))
	for _, loc := range all {
		out = append(out, toMatch(s.text, loc))
	}
	return out
}

func toMatch(text string, loc []int) match {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if a, b := loc[2*i], loc[2*i+1]; a >= 0 {
			groups[i] = text[a:b]
		}
	}
	return match{groups: groups, start: loc[0], end: loc[1]}
}

// capture returns group i of a hit or errNoValue when it did not participate.
func capture(m match, i int) (string, error) {
	if v := m.group(i); v != "" {
		return v, nil
	}
	return "", errNoValue
}
