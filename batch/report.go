package batch

import (
	"fmt"
	"strings"
	"time"
)

// Outcome is the terminal state of one note in a run.
type Outcome string

const (
	OutcomeStored  Outcome = "stored"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// MirrorOutcome records the best-effort mirror result, separate from the note
// outcome: a mirror failure never degrades a stored note.
type MirrorOutcome string

const (
	MirrorOff     MirrorOutcome = "off"
	Mirrored      MirrorOutcome = "mirrored"
	MirrorFailed  MirrorOutcome = "mirror_failed"
	MirrorSkipped MirrorOutcome = "-"
)

// Result is the outcome for a single note.
type Result struct {
	NoteID       int64
	Deck         string
	Front        string
	Outcome      Outcome
	Mirror       MirrorOutcome
	Reason       string // human-readable cause when Outcome is failed
	MirrorReason string // cause when Mirror is mirror_failed
	Model        string
	Timestamp    time.Time
}

// Report aggregates per-note results for one run. Produced once per
// invocation, shown to the operator, then discarded.
type Report struct {
	Results      []Result
	Total        int // size of the selection, including notes not reached after a cancel
	Stored       int
	Skipped      int
	Failed       int
	MirrorFailed int
	Cancelled    bool
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	switch res.Outcome {
	case OutcomeStored:
		r.Stored++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
	if res.Mirror == MirrorFailed {
		r.MirrorFailed++
	}
}

// Processed returns how many notes were actually handled.
func (r *Report) Processed() int { return len(r.Results) }

// Summary renders the one-line end-of-batch summary.
func (r *Report) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d/%d processed: %d stored, %d skipped, %d failed",
		r.Processed(), r.Total, r.Stored, r.Skipped, r.Failed)
	if r.MirrorFailed > 0 {
		fmt.Fprintf(&sb, ", %d mirror warning(s)", r.MirrorFailed)
	}
	if r.Cancelled {
		sb.WriteString(" (cancelled)")
	}
	return sb.String()
}
