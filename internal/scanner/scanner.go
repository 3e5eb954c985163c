// Package scanner identifies the most plausible main window among the
// currently visible top-level windows. Window creation is asynchronous and
// racy — splash screens, launcher stubs and tool palettes all show up as
// top-level windows — so the scanner reduces several weak signals into a
// single ordered score instead of trusting any one of them.
package scanner

import (
	"github.com/rs/zerolog"

	"github.com/toxicorca/launchpin/internal/config"
	"github.com/toxicorca/launchpin/internal/platform"
)

// Score weights. Process-tree membership dominates, executable-name match is
// a strong second, and "appeared since launch" is a weak last-resort signal
// that also catches shell-indirected launches where PID matching fails.
const (
	scoreOwnedPid = 1000
	scoreExeName  = 500
	scoreNovel    = 200
)

// Criteria are the selection inputs for one scan. A zero field disables the
// corresponding signal, which is how the relaxed (novelty-only) fallback
// attempt is expressed.
type Criteria struct {
	// OwnedPids is the launched process tree's PID set.
	OwnedPids map[int]struct{}

	// ExeBaseName is the expected executable base name, lower-cased.
	ExeBaseName string

	// PreExisting is the snapshot of window IDs taken immediately before
	// launch; windows absent from it are novel.
	PreExisting map[platform.WindowID]struct{}
}

// Scanner scores visible top-level windows against selection criteria.
// It holds no state between scans: every Scan is a fresh enumeration.
type Scanner struct {
	sys    platform.WindowSystem
	nameOf func(pid int) (string, error)
	minW   int
	minH   int
	log    zerolog.Logger
}

// New creates a scanner. nameOf resolves a PID to its lower-cased executable
// base name; it is injected so tests can run without a live process table.
func New(sys platform.WindowSystem, nameOf func(pid int) (string, error), tuning config.Tuning, log zerolog.Logger) *Scanner {
	return &Scanner{
		sys:    sys,
		nameOf: nameOf,
		minW:   tuning.MinCandidateWidth,
		minH:   tuning.MinCandidateHeight,
		log:    log,
	}
}

// Scan enumerates visible top-level windows and returns the highest-scoring
// candidate, ties broken by larger window area. Returns false when no window
// scores above zero or the enumeration itself fails (a soft condition — the
// caller simply polls again).
func (s *Scanner) Scan(c Criteria) (platform.WindowID, bool) {
	windows, err := s.sys.ListWindows()
	if err != nil {
		return 0, false
	}

	var (
		best      platform.WindowID
		bestScore int
		bestArea  int
		found     bool
	)

	for _, w := range windows {
		if w.Kind != platform.KindNormal {
			continue
		}
		if w.Bounds.Width < s.minW || w.Bounds.Height < s.minH {
			continue
		}

		name := ""
		if c.ExeBaseName != "" && s.nameOf != nil {
			// Resolution fails for processes that already exited; the
			// name signal just stays off for this window.
			name, _ = s.nameOf(w.PID)
		}

		score := Score(w, name, c)
		if score <= 0 {
			continue
		}

		area := w.Bounds.Width * w.Bounds.Height
		if !found || score > bestScore || (score == bestScore && area > bestArea) {
			best = w.ID
			bestScore = score
			bestArea = area
			found = true
		}
	}

	if found {
		s.log.Debug().
			Uint32("window", uint32(best)).
			Int("score", bestScore).
			Msg("candidate selected")
	}
	return best, found
}

// Score reduces the process-relationship tuple to a single ordered value.
// Monotonic by construction: matching an additional signal can only add.
func Score(w platform.Window, exeName string, c Criteria) int {
	score := 0
	if len(c.OwnedPids) > 0 {
		if _, ok := c.OwnedPids[w.PID]; ok {
			score += scoreOwnedPid
		}
	}
	if c.ExeBaseName != "" && exeName == c.ExeBaseName {
		score += scoreExeName
	}
	if c.PreExisting != nil {
		if _, existed := c.PreExisting[w.ID]; !existed {
			score += scoreNovel
		}
	}
	return score
}

// Snapshot records the IDs of all currently visible top-level windows. Taken
// immediately before launch, it is the baseline for the novelty signal. An
// enumeration failure yields an empty snapshot, which degrades novelty to
// "everything is new" rather than failing the launch.
func Snapshot(sys platform.WindowSystem) map[platform.WindowID]struct{} {
	snapshot := make(map[platform.WindowID]struct{})
	windows, err := sys.ListWindows()
	if err != nil {
		return snapshot
	}
	for _, w := range windows {
		snapshot[w.ID] = struct{}{}
	}
	return snapshot
}
