package findings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MrSnakeDoc/qualityhub/internal/domain"
	"github.com/MrSnakeDoc/qualityhub/internal/logger"
)

// ErrEmptyComponentKey is returned when no component identifier is given.
var ErrEmptyComponentKey = errors.New("component key is required")

// Fetcher is the outbound API used by the service.
// quality.Client implements it.
type Fetcher interface {
	SecurityDashboard(ctx context.Context, inst domain.Instance, componentKey string) (domain.SecuritySummary, error)
	SearchRepositories(ctx context.Context, inst domain.Instance, componentKey string) ([]domain.RepositoryAnalysis, error)
}

// Service resolves instances and aggregates their findings.
type Service struct {
	registry    *domain.Registry
	fetcher     Fetcher
	logger      logger.Logger
	callTimeout time.Duration
}

// NewService creates a findings service. callTimeout bounds each upstream
// call; zero leaves the caller's context as the only bound.
func NewService(registry *domain.Registry, fetcher Fetcher, log logger.Logger, callTimeout time.Duration) *Service {
	return &Service{
		registry:    registry,
		fetcher:     fetcher,
		logger:      log,
		callTimeout: callTimeout,
	}
}

// Registry returns the instance registry the service resolves against.
func (s *Service) Registry() *domain.Registry {
	return s.registry
}

// ResolveInstance returns the instance for name ("" selects the default).
func (s *Service) ResolveInstance(name string) (domain.Instance, error) {
	return s.registry.Resolve(name)
}

// GetFindings returns the findings summary of componentKey on the named
// instance.
//
// Errors are configuration errors only. Any upstream failure yields
// (nil, nil): there is no data to report for this component.
func (s *Service) GetFindings(ctx context.Context, componentKey, instanceName string) (*domain.ComponentMetrics, error) {
	componentKey = strings.TrimSpace(componentKey)
	if componentKey == "" {
		return nil, ErrEmptyComponentKey
	}

	inst, err := s.registry.Resolve(instanceName)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(
		logger.String("instance", inst.Name),
		logger.String("component", componentKey))

	// The dashboard call gates the search call.
	callCtx, cancel := s.callContext(ctx)
	security, err := s.fetcher.SecurityDashboard(callCtx, inst, componentKey)
	cancel()
	if err != nil {
		log.Warn("security dashboard unavailable, no findings", logger.Error(err))
		return nil, nil
	}

	callCtx, cancel = s.callContext(ctx)
	analyses, err := s.fetcher.SearchRepositories(callCtx, inst, componentKey)
	cancel()
	if err != nil {
		log.Warn("repository analyses unavailable, no findings", logger.Error(err))
		return nil, nil
	}

	metrics := domain.Aggregate(security, analyses)

	log.Debug("findings aggregated",
		logger.Int("repositories", len(analyses)),
		logger.String("grade_letter", metrics.GradeLetter))

	return &metrics, nil
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.callTimeout)
}
