package health

import (
	"encoding/json"
	"net/http"
)

// LivenessHandler reports that the process serves requests. It runs no
// checks.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeReport(w, http.StatusOK, &Response{Status: StatusHealthy})
	}
}

// ReadinessHandler runs checks on every request. The report is JSON; the
// status is 503 when any check fails so load balancers can act on the code
// alone.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)
	return func(w http.ResponseWriter, r *http.Request) {
		resp := runChecks(r.Context(), checks, cfg)
		code := http.StatusOK
		if resp.Err() != nil {
			code = http.StatusServiceUnavailable
		}
		writeReport(w, code, resp)
	}
}

func writeReport(w http.ResponseWriter, code int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
