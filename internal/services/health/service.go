package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

const checkTimeout = 2 * time.Second

// Checker probes one dependency.
type Checker func(ctx context.Context) error

// Service encapsulates health-related checks.
type Service struct {
	mu     sync.RWMutex
	checks map[string]Checker
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{checks: make(map[string]Checker)}
}

// Register adds a named dependency check. Registering a name twice replaces it.
func (s *Service) Register(name string, check Checker) {
	if check == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// Report is the payload served on the health route.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Status runs every check and reports ok only if all of them pass.
func (s *Service) Status(ctx context.Context) Report {
	s.mu.RLock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	checks := make(map[string]Checker, len(s.checks))
	for k, v := range s.checks {
		checks[k] = v
	}
	s.mu.RUnlock()
	sort.Strings(names)

	report := Report{OK: true}
	if len(names) == 0 {
		return report
	}
	report.Checks = make(map[string]string, len(names))
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := checks[name](checkCtx)
		cancel()
		if err != nil {
			report.OK = false
			report.Checks[name] = err.Error()
			continue
		}
		report.Checks[name] = "ok"
	}
	return report
}
