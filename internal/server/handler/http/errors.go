package http

import (
	"encoding/json"
	"net/http"

	"github.com/atinyakov/LinkHub/internal/issue"
	"go.uber.org/zap"
)

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates err into a response. Typed issues carry their own
// status and body; anything else is logged and answered with 500.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	if is, ok := issue.As(err); ok {
		writeJSON(w, is.Kind.Status(), is)
		return
	}
	log.Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, issue.New(0, "Internal error"))
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return issue.Validation("body: " + err.Error())
	}
	return nil
}
