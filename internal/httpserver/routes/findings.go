package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/qualityhub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/qualityhub/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/qualityhub/internal/httpserver/mw"
)

func init() { Register(registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api", func(api chi.Router) {
		api.Use(
			mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
			mw.EnforceHost(d.AllowedHosts, d.Logger),
		)

		api.Get("/instances", handlers.Instances(d))

		api.With(mw.Quota(mw.QuotaConfig{
			Burst:      d.RateLimitBurst,
			PerMinute:  d.RateLimitPerMin,
			MaxClients: 10000,
			TrustProxy: d.TrustProxy,
		})).Get("/findings/{componentKey}", handlers.Findings(d))
	})
}
