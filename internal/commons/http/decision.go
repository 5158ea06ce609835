package http

import (
	"net/http"

	"github.com/commonsapp/commons/internal/commons/domain"
	"github.com/commonsapp/commons/pkg/commonsdk"
	"github.com/commonsapp/commons/pkg/httpx"
	"github.com/commonsapp/commons/pkg/jwtx"
)

// gateOutcomeHeader lets clients tell redirect-class outcomes apart without
// parsing the Location target.
const gateOutcomeHeader = "X-Gate-Outcome"

// claimsFromRequest returns the verified session claims, or nil for an
// anonymous request. The gate treats nil as unauthenticated.
func claimsFromRequest(r *http.Request) *jwtx.Claims {
	claims, ok := httpx.ClaimsFromCtx(r.Context())
	if !ok {
		return nil
	}
	return &claims
}

// writeDecision maps a non-allowed gate decision onto the wire. Redirect
// outcomes become 3xx responses with a Location target; denial outcomes
// become the uniform JSON error shape. Allowed decisions are the handler's
// business, never this function's.
func writeDecision(w http.ResponseWriter, r *http.Request, d domain.Decision) {
	switch d.Outcome {
	case domain.OutcomeUnauthenticated, domain.OutcomeStepUpRequired, domain.OutcomeSuspended:
		w.Header().Set(gateOutcomeHeader, string(d.Outcome))
		httpx.NoCache(w)
		http.Redirect(w, r, d.RedirectTo, http.StatusSeeOther)
	case domain.OutcomeCanonicalRedirect:
		w.Header().Set(gateOutcomeHeader, string(d.Outcome))
		httpx.NoCache(w)
		http.Redirect(w, r, d.RedirectTo, http.StatusMovedPermanently)
	case domain.OutcomeForbidden:
		commonsdk.ErrForbidden.WriteError(w)
	case domain.OutcomeNotFound:
		commonsdk.ErrNotFound.WriteError(w)
	default:
		commonsdk.ErrServerError.WriteError(w)
	}
}
