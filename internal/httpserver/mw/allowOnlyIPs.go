package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/qualityhub/internal/logger"
	"github.com/MrSnakeDoc/qualityhub/internal/utils"
)

// AllowOnlyCIDRS answers 403 to clients outside allowed (IPs or CIDRs).
// An empty list does not filter. Invalid entries are logged and skipped;
// a list holding only invalid entries rejects everyone.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	list, rejected := utils.ParseAllowList(allowed)
	for _, entry := range rejected {
		log.Warn("ignoring invalid allowed cidr entry", logger.String("entry", entry))
	}
	if list.Empty() && len(rejected) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !list.Contains(ip) {
				log.Debug("client ip rejected",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path))
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
