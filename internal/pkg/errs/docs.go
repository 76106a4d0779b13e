// Package errs defines the typed error taxonomy shared across the domain,
// use cases and adapters.
//
// Each error type pairs a struct carrying context (parameter name, offending
// value, optional cause) with a sentinel it unwraps to, so callers branch on
// errors.Is while messages stay descriptive:
//
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    return echo.NewHTTPError(http.StatusNotFound, ...)
//	}
//
// The HTTP adapter maps these sentinels to status codes: ErrObjectNotFound
// to 404, the three value errors to 400, ErrVersionIsInvalid is retried by
// the transition handler and never reaches a client directly.
//
// Messages are collapsed to a single line so multi-line causes cannot break
// structured log output.
package errs
