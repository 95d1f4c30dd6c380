package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultCheckTimeout = 2 * time.Second

// Status — состояние компонента.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Check — результат одной проверки.
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Report — ответ /healthz.
type Report struct {
	Status        Status           `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
	Checks        map[string]Check `json:"checks,omitempty"`
	Version       string           `json:"version,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
}

// Checker проверяет зависимость сервиса: хранилище, брокер.
type Checker interface {
	Check(ctx context.Context) Check
}

// Registry хранит проверки и отдает их результат по HTTP.
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	critical map[string]bool

	version   string
	timeout   time.Duration
	startedAt time.Time
}

// NewRegistry создает пустой реестр проверок.
func NewRegistry(version string) *Registry {
	return &Registry{
		checkers:  make(map[string]Checker),
		critical:  make(map[string]bool),
		version:   version,
		timeout:   defaultCheckTimeout,
		startedAt: time.Now(),
	}
}

// Register добавляет проверку. Сбой критичной проверки делает сервис unhealthy,
// некритичной (например, брокера событий) дает только degraded.
func (r *Registry) Register(name string, checker Checker, critical bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
	r.critical[name] = critical
}

// Evaluate выполняет все проверки параллельно с общим таймаутом.
func (r *Registry) Evaluate(ctx context.Context) Report {
	r.mu.RLock()
	names := make([]string, 0, len(r.checkers))
	checkers := make([]Checker, 0, len(r.checkers))
	critical := make([]bool, 0, len(r.checkers))
	for name, checker := range r.checkers {
		names = append(names, name)
		checkers = append(checkers, checker)
		critical = append(critical, r.critical[name])
	}
	r.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	results := make([]Check, len(checkers))
	var g errgroup.Group
	for i, checker := range checkers {
		g.Go(func() error {
			results[i] = checker.Check(ctx)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{
		Status:        StatusHealthy,
		Timestamp:     time.Now().UTC(),
		Checks:        make(map[string]Check, len(results)),
		Version:       r.version,
		UptimeSeconds: int64(time.Since(r.startedAt).Seconds()),
	}
	for i, check := range results {
		report.Checks[names[i]] = check
		if check.Status == StatusHealthy {
			continue
		}
		if critical[i] {
			report.Status = StatusUnhealthy
		} else if report.Status == StatusHealthy {
			report.Status = StatusDegraded
		}
	}
	return report
}

// ServeHTTP отдает полный отчет; 503 только для unhealthy.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	report := r.Evaluate(req.Context())

	code := http.StatusOK
	if report.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(report)
}

// ReadinessHandler отвечает "ready", пока ни одна критичная проверка не падает.
func (r *Registry) ReadinessHandler(w http.ResponseWriter, req *http.Request) {
	if r.Evaluate(req.Context()).Status == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LivenessHandler всегда отвечает 200.
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// FuncChecker оборачивает функцию проверки.
type FuncChecker struct {
	name string
	fn   func(ctx context.Context) error
}

// NewFuncChecker создает проверку из функции, например store.Ping.
func NewFuncChecker(name string, fn func(ctx context.Context) error) *FuncChecker {
	return &FuncChecker{name: name, fn: fn}
}

func (c *FuncChecker) Check(ctx context.Context) Check {
	started := time.Now()
	err := c.fn(ctx)
	check := Check{
		Name:       c.name,
		Status:     StatusHealthy,
		DurationMs: time.Since(started).Milliseconds(),
	}
	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	}
	return check
}
