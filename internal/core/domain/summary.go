package domain

// SummaryOutcome is the typed result of one summarisation chain run.
// Provider failures are data here, not panics: a fully failed run has
// Err set and Summary empty.
type SummaryOutcome struct {
	// DocumentID is the document the chain ran for.
	DocumentID string

	// Summary is the generated summary, empty when the run failed.
	Summary string

	// Provider names the provider that produced the summary.
	Provider string

	// Attempts records one entry per provider tried, in chain order.
	Attempts []SummaryAttempt

	// Err is non-nil only when every provider failed.
	Err error
}

// SummaryAttempt records a single provider try within a chain run.
type SummaryAttempt struct {
	// Provider names the provider tried.
	Provider string

	// Err is nil for the winning attempt.
	Err error
}

// Succeeded reports whether any provider produced a summary.
func (o *SummaryOutcome) Succeeded() bool {
	return o.Err == nil && o.Summary != ""
}
