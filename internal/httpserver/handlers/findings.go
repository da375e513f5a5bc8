package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/qualityhub/internal/domain"
	"github.com/MrSnakeDoc/qualityhub/internal/findings"
	"github.com/MrSnakeDoc/qualityhub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/qualityhub/internal/logger"
)

// Findings serves the findings summary of a component.
//
//	GET /api/findings/{componentKey}?instance=NAME
//
// A component without data is a 404, not a server error.
func Findings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		componentKey, err := componentKeyParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid component key")
			return
		}
		instanceName := strings.TrimSpace(r.URL.Query().Get("instance"))

		metrics, err := d.Findings.GetFindings(r.Context(), componentKey, instanceName)
		switch {
		case errors.Is(err, findings.ErrEmptyComponentKey):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case errors.Is(err, domain.ErrInstanceNotFound):
			d.Logger.Info("findings requested for unknown instance",
				logger.String("instance", instanceName))
			writeError(w, http.StatusNotFound, err.Error())
			return
		case err != nil:
			d.Logger.Error("findings request failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if metrics == nil {
			writeError(w, http.StatusNotFound, "no data")
			return
		}

		writeJSON(w, http.StatusOK, metrics)
	}
}

// componentKeyParam returns the decoded component key. chi matches on the
// raw path when the request carries escapes, so "gh%2Facme" arrives still
// escaped and is decoded here.
func componentKeyParam(r *http.Request) (string, error) {
	key := chi.URLParam(r, "componentKey")
	if r.URL.RawPath == "" {
		return key, nil
	}
	return url.PathUnescape(key)
}
