package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/qualityhub/internal/httpserver/deps"
)

type instanceResponse struct {
	Name            string `json:"name"`
	BaseURL         string `json:"baseUrl"`
	ExternalBaseURL string `json:"externalBaseUrl,omitempty"`
	Default         bool   `json:"default"`
}

// Instances lists the configured instances. Credentials are never exposed.
func Instances(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := d.Findings.Registry().Instances()

		resp := make([]instanceResponse, 0, len(list))
		for _, inst := range list {
			resp = append(resp, instanceResponse{
				Name:            inst.Name,
				BaseURL:         inst.BaseURL,
				ExternalBaseURL: inst.ExternalBaseURL,
				Default:         inst.IsDefault(),
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
