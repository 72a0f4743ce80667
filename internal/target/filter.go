package target

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// MaxMinutes is the declared duration above which a target counts as slow.
const MaxMinutes = 5

var timePattern = regexp.MustCompile(`^time=([0-9]*)m`)

// ReasonKind classifies why a target was filtered out.
type ReasonKind int

const (
	// NotSkipped means the target should run.
	NotSkipped ReasonKind = iota
	// ReasonNotRequested means a --targets filter excluded it.
	ReasonNotRequested
	// ReasonNoAliases means the target has no aliases file.
	ReasonNoAliases
	// ReasonDisabled means aliases mark it disabled or unsupported.
	ReasonDisabled
	// ReasonTooSlow means its declared time exceeds MaxMinutes.
	ReasonTooSlow
)

// Reason explains a skip decision.
type Reason struct {
	Kind    ReasonKind
	Minutes int
}

// Announce reports whether the skip deserves a diagnostic line.
func (r Reason) Announce() bool {
	return r.Kind == ReasonDisabled || r.Kind == ReasonTooSlow
}

func (r Reason) String() string {
	switch r.Kind {
	case ReasonNotRequested:
		return "not requested"
	case ReasonNoAliases:
		return "no aliases file"
	case ReasonDisabled:
		return "disabled or unsupported"
	case ReasonTooSlow:
		return fmt.Sprintf("too long, estimated time = %dmin", r.Minutes)
	default:
		return ""
	}
}

// ShouldSkip decides whether t is ineligible for this run.
func ShouldSkip(t Target, requested []string, allowSlow bool) (bool, Reason) {
	if len(requested) > 0 && !slices.Contains(requested, t.Name) {
		return true, Reason{Kind: ReasonNotRequested}
	}

	if !t.HasAliases {
		return true, Reason{Kind: ReasonNoAliases}
	}

	for _, line := range t.Aliases {
		if strings.HasPrefix(line, "disabled") || strings.HasPrefix(line, "unsupported") {
			return true, Reason{Kind: ReasonDisabled}
		}
	}

	if allowSlow {
		return false, Reason{}
	}

	// "time=m" matches the pattern but carries no number; it is ignored.
	for _, line := range t.Aliases {
		m := timePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		minutes, err := strconv.Atoi(m[1])
		if errors.Is(err, strconv.ErrRange) {
			// too large for an int, so certainly above the limit
			minutes = math.MaxInt
		} else if err != nil {
			continue
		}
		if minutes > MaxMinutes {
			return true, Reason{Kind: ReasonTooSlow, Minutes: minutes}
		}
	}

	return false, Reason{}
}
