package deps

import (
	"time"

	"github.com/MrSnakeDoc/qualityhub/internal/findings"
	"github.com/MrSnakeDoc/qualityhub/internal/logger"
)

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	Findings        *findings.Service // instance resolution + findings aggregation
	AllowedHosts    []string          // Host headers allowed to access the API
	AllowedCIDRS    []string          // IPs allowed to access the API and readyz
	TrustProxy      bool              // true if running behind a trusted reverse proxy
	RateLimitBurst  int               // findings requests allowed in a burst per client IP
	RateLimitPerMin int               // findings requests refilled per client IP per minute
}
