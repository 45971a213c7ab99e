package session

import (
	"fmt"
	"strings"
)

// Kind identifies one of the three panels
type Kind string

const (
	KindAnalysis      Kind = "analysis"
	KindVisualization Kind = "visualization"
	KindError         Kind = "error"
)

// Kinds lists the panels in tab order
var Kinds = []Kind{KindAnalysis, KindVisualization, KindError}

// ParseKind converts a panel name into a Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindAnalysis, "":
		return KindAnalysis, nil
	case KindVisualization, "visualize", "visual":
		return KindVisualization, nil
	case KindError, "errors":
		return KindError, nil
	default:
		return "", fmt.Errorf("unknown panel %q (want analysis, visualization or error)", s)
	}
}

// Next returns the panel after k in tab order
func (k Kind) Next() Kind {
	return Kinds[(k.index()+1)%len(Kinds)]
}

// Prev returns the panel before k in tab order
func (k Kind) Prev() Kind {
	return Kinds[(k.index()+len(Kinds)-1)%len(Kinds)]
}

func (k Kind) index() int {
	for i, kind := range Kinds {
		if kind == k {
			return i
		}
	}
	return 0
}

// Origin records what issued a command
type Origin string

const (
	OriginAnalyzeButton Origin = "analyze"
	OriginErrorButton   Origin = "error_button"
	OriginWatcher       Origin = "watcher"
)

// Command asks exactly one panel to run its request. It replaces a shared
// trigger flag: only the panel named by Target consumes it, and it is
// completed exactly once.
type Command struct {
	ID     uint64
	Target Kind
	Origin Origin
}

// ViewState is what a panel should currently display
type ViewState int

const (
	ViewEmpty ViewState = iota
	ViewLoading
	ViewFailure
	ViewResult
)

func (v ViewState) String() string {
	switch v {
	case ViewEmpty:
		return "empty"
	case ViewLoading:
		return "loading"
	case ViewFailure:
		return "failure"
	case ViewResult:
		return "result"
	default:
		return "unknown"
	}
}
