package generate

import (
	"context"
	"log/slog"
	"time"

	"github.com/bananaforge/imagegen-mcp/internal/gemini"
)

// AttemptOutcome is one successful generation, annotated with which model
// served it so callers can report fallback use.
type AttemptOutcome struct {
	Data         []byte
	MimeType     string
	ModelUsed    string
	UsedFallback bool
	PrimaryModel string
}

// Orchestrator walks the model candidate list for a single generation,
// moving to the next candidate on retryable failures and aborting on fatal
// ones.
type Orchestrator struct {
	caller  gemini.Caller
	timeout time.Duration
	log     *slog.Logger
}

// NewOrchestrator wires an orchestrator around a Gemini caller. timeout
// bounds each individual model attempt, not the whole chain.
func NewOrchestrator(caller gemini.Caller, timeout time.Duration, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{caller: caller, timeout: timeout, log: log}
}

// BuildCandidates assembles the ordered model list: primary first, then the
// configured fallbacks with the primary and duplicates removed. The result
// is never empty.
func BuildCandidates(primary string, fallbacks []string) []string {
	out := []string{primary}
	seen := map[string]bool{primary: true}
	for _, m := range fallbacks {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// Attempt runs one generation against the candidate list. A retryable
// failure advances to the next candidate; a fatal one returns immediately.
// When every candidate fails retryably the result is KindAllModelsExhausted
// carrying the last failure.
func (o *Orchestrator) Attempt(ctx context.Context, candidates []string, req *gemini.Request) (*AttemptOutcome, *Error) {
	primary := candidates[0]
	var lastErr error
	for i, model := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, wrapErr(Classify(err), err)
		}
		callCtx, cancel := context.WithTimeout(ctx, o.timeout)
		resp, err := o.caller.Generate(callCtx, model, req)
		cancel()
		if err == nil {
			outcome := &AttemptOutcome{
				Data:         resp.Data,
				MimeType:     resp.MimeType,
				ModelUsed:    model,
				UsedFallback: i > 0,
				PrimaryModel: primary,
			}
			if outcome.UsedFallback {
				o.log.Info("fallback model served request",
					"model", model, "primary", primary)
			}
			return outcome, nil
		}
		kind := Classify(err)
		if !kind.Retryable() {
			o.log.Error("generation failed", "model", model, "kind", kind.String(), "error", err)
			return nil, wrapErr(kind, err)
		}
		o.log.Warn("model attempt failed, trying next candidate",
			"model", model, "kind", kind.String(), "error", err)
		lastErr = err
	}
	return nil, &Error{
		Kind:    KindAllModelsExhausted,
		Message: "all models failed: " + lastErr.Error(),
		Err:     lastErr,
	}
}
