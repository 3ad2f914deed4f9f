// Package batch sequences AI generation over a selection of notes: one note
// at a time, paced between provider calls, tolerant of per-note failures.
package batch

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"ai_card_generator/anki"
	"ai_card_generator/generator"
	"ai_card_generator/mirror"
	"ai_card_generator/prompts"
)

// WaitFunc paces consecutive provider calls. Implementations must return early
// when ctx is cancelled.
type WaitFunc func(ctx context.Context, d time.Duration) error

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ProgressFunc observes each completed note: done of total, with its result.
type ProgressFunc func(done, total int, res Result)

// Options control a single run.
type Options struct {
	// EmptyOnly skips notes whose content field is already non-empty.
	EmptyOnly bool
	// Delay is the pacing interval applied after every generation attempt.
	Delay time.Duration
	// Attempts is the number of provider attempts per note; 1 means no retry.
	// Only transient provider failures are retried.
	Attempts uint
	// RetryDelay is the backoff base between retry attempts.
	RetryDelay time.Duration
	// DefaultPrompt applies when no deck prompt matches.
	DefaultPrompt string
}

// Orchestrator runs batches. Configuration and the prompt map are read-only
// for the duration of a run.
type Orchestrator struct {
	Store    anki.NoteStore
	Gen      generator.Client
	Mirror   mirror.Mirror
	Prompts  map[string]string
	Wait     WaitFunc     // nil means real sleep
	Progress ProgressFunc // nil means no progress reporting
	Logger   *log.Logger  // nil means log.Default()
	Verbose  bool
	NewID    func() string // nil means a random UUID
}

func (o *Orchestrator) wait(ctx context.Context, d time.Duration) {
	w := o.Wait
	if w == nil {
		w = sleep
	}
	_ = w(ctx, d)
}

func (o *Orchestrator) infof(format string, args ...any) {
	if !o.Verbose {
		return
	}
	logger := o.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("[INFO] "+format, args...)
}

// Run processes notes strictly in order. Cancellation is cooperative: it is
// checked before each note, never interrupting an in-flight call, and
// already-completed results are preserved in the report.
func (o *Orchestrator) Run(ctx context.Context, notes []anki.Note, opts Options) Report {
	report := Report{Total: len(notes)}

	for _, note := range notes {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}

		res := o.processNote(ctx, note, opts)
		report.add(res)
		if o.Progress != nil {
			o.Progress(report.Processed(), report.Total, res)
		}

		// Pacing applies after every generation attempt, success or failure,
		// but not after a skip (no provider call was made).
		if res.Outcome != OutcomeSkipped {
			o.wait(ctx, opts.Delay)
		}
	}
	return report
}

func (o *Orchestrator) processNote(ctx context.Context, note anki.Note, opts Options) Result {
	res := Result{
		NoteID:    note.ID,
		Deck:      note.Deck,
		Front:     note.Front,
		Mirror:    MirrorSkipped,
		Model:     o.Gen.Model(),
		Timestamp: time.Now(),
	}

	if opts.EmptyOnly && strings.TrimSpace(note.Content) != "" {
		res.Outcome = OutcomeSkipped
		o.infof("skip note %d: content already present", note.ID)
		return res
	}

	prompt := prompts.Resolve(note.Deck, o.Prompts, opts.DefaultPrompt)

	html, err := o.generate(ctx, prompt, note.Front, opts)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Reason = err.Error()
		return res
	}

	// The identifier is set exactly once: a note that already carries one
	// keeps it forever.
	updated := note
	updated.Content = html
	if updated.StableID == "" {
		updated.StableID = o.stableID(note)
	}

	if err := o.Store.SaveNote(ctx, updated); err != nil {
		res.Outcome = OutcomeFailed
		res.Reason = "saving note: " + err.Error()
		return res
	}
	res.Outcome = OutcomeStored

	if o.Mirror.Enabled() {
		rec := mirror.Record{
			NoteID:     updated.StableID,
			DeckName:   note.Deck,
			Front:      note.Front,
			AIContent:  html,
			ModelUsed:  o.Gen.Model(),
			PromptUsed: prompt,
		}
		if err := o.Mirror.Upsert(ctx, rec); err != nil {
			res.Mirror = MirrorFailed
			res.MirrorReason = err.Error()
			o.infof("mirror warning for note %d: %v", note.ID, err)
		} else {
			res.Mirror = Mirrored
		}
	} else {
		res.Mirror = MirrorOff
	}
	return res
}

func (o *Orchestrator) generate(ctx context.Context, prompt, front string, opts Options) (string, error) {
	attempts := opts.Attempts
	if attempts == 0 {
		attempts = 1
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	var out string
	err := retry.Do(
		func() error {
			raw, err := o.Gen.Generate(ctx, prompt, front)
			if err != nil {
				return err
			}
			cleaned, err := generator.CleanContent(raw)
			if err != nil {
				return err
			}
			out = cleaned
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(retryDelay),
		retry.RetryIf(generator.Retryable),
		retry.LastErrorOnly(true),
	)
	return out, err
}

// stableID picks the mirror key for a note that does not have one yet:
// the host note id when available, a random UUID otherwise.
func (o *Orchestrator) stableID(note anki.Note) string {
	if note.ID != 0 {
		return strconv.FormatInt(note.ID, 10)
	}
	if o.NewID != nil {
		return o.NewID()
	}
	return uuid.NewString()
}
