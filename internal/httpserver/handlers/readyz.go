package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/qualityhub/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready      bool `json:"ready"`
	Instances  int  `json:"instances"`
	HasDefault bool `json:"has_default"`
}

// Readyz reports ready once at least one instance is configured.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg := d.Findings.Registry()
		resp := readyzResponse{
			Ready:      reg.Len() > 0,
			Instances:  reg.Len(),
			HasDefault: reg.HasDefault(),
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
