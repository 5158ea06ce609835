package domain

// Outcome classifies an access-gate decision. The gate only classifies;
// mapping outcomes to redirects and status codes is the transport layer's
// job.
type Outcome string

const (
	OutcomeAllowed           Outcome = "allowed"
	OutcomeUnauthenticated   Outcome = "unauthenticated"
	OutcomeStepUpRequired    Outcome = "step_up_required"
	OutcomeForbidden         Outcome = "forbidden"
	OutcomeNotFound          Outcome = "not_found"
	OutcomeSuspended         Outcome = "suspended"
	OutcomeCanonicalRedirect Outcome = "canonical_redirect"
)

// Decision is the result of evaluating the ordered gate checks for one
// request.
type Decision struct {
	Outcome Outcome

	// RedirectTo carries the target for redirect-class outcomes:
	// the login entry point, the step-up verification entry point (with the
	// original destination preserved), or the canonical slug address.
	RedirectTo string

	// Community and Membership are populated on Allowed decisions from the
	// community-scope gate so handlers don't re-fetch them.
	Community  *Community
	Membership *Membership
}

// Allowed is a convenience check.
func (d Decision) Allowed() bool { return d.Outcome == OutcomeAllowed }
