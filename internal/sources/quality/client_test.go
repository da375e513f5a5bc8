package quality

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/qualityhub/internal/domain"
	"github.com/MrSnakeDoc/qualityhub/internal/logger"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(logger.NewNop(), time.Second)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestSecurityDashboardRequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v3/organizations/acme/security/dashboard", r.URL.Path)
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{}`, string(body))

		writeJSON(w, http.StatusOK, `{"data":{"totalOpen":5,"totalClosed":9,"onTrack":4,"closedOnTime":8}}`)
	}))
	defer srv.Close()

	inst := domain.Instance{Name: "default", BaseURL: srv.URL + "/", Credential: "s3cret"}
	got, err := newTestClient(t).SecurityDashboard(context.Background(), inst, "acme")
	require.NoError(t, err)
	assert.Equal(t, domain.SecuritySummary{TotalOpen: 5, TotalClosed: 9, OnTrack: 4, ClosedOnTime: 8}, got)
}

func TestSecurityDashboardNonOK(t *testing.T) {
	for _, status := range []int{http.StatusCreated, http.StatusNotFound, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, `{"data":{"totalOpen":1}}`)
		}))

		inst := domain.Instance{Name: "default", BaseURL: srv.URL, Credential: "tok"}
		_, err := newTestClient(t).SecurityDashboard(context.Background(), inst, "acme")
		require.ErrorIs(t, err, ErrUnexpectedStatus, "status %d", status)
		srv.Close()
	}
}

func TestSearchRepositories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/analysis/organizations/acme/repositories", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"data":[{"grade":92,"issuesPercentage":0},{}]}`)
	}))
	defer srv.Close()

	inst := domain.Instance{Name: "default", BaseURL: srv.URL, Credential: "tok"}
	got, err := newTestClient(t).SearchRepositories(context.Background(), inst, "acme")
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NotNil(t, got[0].Grade)
	assert.Equal(t, 92.0, *got[0].Grade)
	require.NotNil(t, got[0].IssuesPercentage)
	assert.Equal(t, 0.0, *got[0].IssuesPercentage)
	assert.Nil(t, got[0].CoveragePercentageWithDecimals)
	assert.Equal(t, domain.RepositoryAnalysis{}, got[1])
}

func TestSearchRepositoriesEmptyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":[]}`)
	}))
	defer srv.Close()

	inst := domain.Instance{Name: "default", BaseURL: srv.URL, Credential: "tok"}
	got, err := newTestClient(t).SearchRepositories(context.Background(), inst, "acme")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchRepositoriesMissingData(t *testing.T) {
	for _, body := range []string{`{}`, `{"data":null}`, `{"items":[]}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, body)
		}))

		inst := domain.Instance{Name: "default", BaseURL: srv.URL, Credential: "tok"}
		_, err := newTestClient(t).SearchRepositories(context.Background(), inst, "acme")
		require.ErrorIs(t, err, ErrMissingData, "body %s", body)
		srv.Close()
	}
}

func TestSearchRepositoriesDecodesAnyContentType(t *testing.T) {
	contentTypes := []string{"", "text/plain", "application/json; charset=utf-8", "application/vnd.api+json"}

	for _, ct := range contentTypes {
		t.Run("content type "+ct, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ct == "" {
					w.Header()["Content-Type"] = nil
				} else {
					w.Header().Set("Content-Type", ct)
				}
				_, _ = io.WriteString(w, `{"data":[{"grade":81}]}`)
			}))
			defer srv.Close()

			inst := domain.Instance{Name: "default", BaseURL: srv.URL, Credential: "tok"}
			got, err := newTestClient(t).SearchRepositories(context.Background(), inst, "acme")
			require.NoError(t, err)
			require.Len(t, got, 1)
			require.NotNil(t, got[0].Grade)
			assert.Equal(t, 81.0, *got[0].Grade)
		})
	}
}

func TestSearchRepositoriesInvalidBodyIsNotMissingData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>maintenance</html>")
	}))
	defer srv.Close()

	inst := domain.Instance{Name: "default", BaseURL: srv.URL, Credential: "tok"}
	_, err := newTestClient(t).SearchRepositories(context.Background(), inst, "acme")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingData)
}

func TestPostHonoursContextCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	inst := domain.Instance{Name: "slow", BaseURL: srv.URL, Credential: "tok"}
	_, err := newTestClient(t).SecurityDashboard(ctx, inst, "acme")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnexpectedStatus)
}

func TestComponentKeyIsEscaped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/organizations/gh%2Facme/security/dashboard", r.URL.EscapedPath())
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	inst := domain.Instance{Name: "default", BaseURL: srv.URL, Credential: "tok"}
	_, err := newTestClient(t).SecurityDashboard(context.Background(), inst, "gh/acme")
	require.ErrorIs(t, err, ErrMissingData)
}
