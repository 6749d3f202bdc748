// Package progress threads percent-complete callbacks through the
// compression pipeline, in place of the process-wide mutable counter
// the original C implementation updated from its progress-bar thread.
package progress

// Reporter receives a percent-complete value in [0, 100]. A nil
// Reporter is always valid: every call site in this module checks for
// nil before invoking it, so callers that don't care about progress
// can simply omit one.
type Reporter func(percent int)

// report invokes r if it is non-nil.
func (r Reporter) report(percent int) {
	if r != nil {
		r(percent)
	}
}

// Report invokes r if it is non-nil. Exported so other packages can
// call it without repeating the nil check at every call site.
func Report(r Reporter, percent int) {
	r.report(percent)
}
