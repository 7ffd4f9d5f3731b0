// Package datasource resolves the projects assigned to an employee, either
// live from the backend or from the last copy cached on disk.
package datasource

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"github.com/Tiliavir/sitelog/internal/model"
)

// ErrNoCache is returned by Offline when nothing was cached for an employee.
var ErrNoCache = errors.New("no cached project list")

// Source lists the projects assigned to an employee.
type Source interface {
	Projects(ctx context.Context, employeeID string) ([]model.Project, error)
}

// Assigner is the backend call behind Live.
type Assigner interface {
	AssignedProjects(ctx context.Context, employeeID string) ([]model.Project, error)
}

// Live asks the backend.
type Live struct {
	backend Assigner
}

// NewLive wraps backend.
func NewLive(backend Assigner) *Live {
	return &Live{backend: backend}
}

func (l *Live) Projects(ctx context.Context, employeeID string) ([]model.Project, error) {
	return l.backend.AssignedProjects(ctx, employeeID)
}

// CacheDir returns the project cache directory below dataDir.
func CacheDir(dataDir string) string {
	return filepath.Join(dataDir, "cache")
}

// Offline serves the project lists saved by Save.
type Offline struct {
	d *diskv.Diskv
}

// NewOffline opens the cache at dir.
func NewOffline(dir string) *Offline {
	return &Offline{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 256 * 1024,
	})}
}

func cacheKey(employeeID string) string {
	return "projects-" + base64.RawURLEncoding.EncodeToString([]byte(employeeID))
}

func (o *Offline) Projects(_ context.Context, employeeID string) ([]model.Project, error) {
	key := cacheKey(employeeID)
	if !o.d.Has(key) {
		return nil, fmt.Errorf("%w for employee %s", ErrNoCache, employeeID)
	}
	data, err := o.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("reading project cache: %w", err)
	}
	var projects []model.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("decoding project cache: %w", err)
	}
	return projects, nil
}

// Save replaces the cached list of employeeID.
func (o *Offline) Save(employeeID string, projects []model.Project) error {
	if projects == nil {
		projects = []model.Project{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("encoding project cache: %w", err)
	}
	if err := o.d.Write(cacheKey(employeeID), data); err != nil {
		return fmt.Errorf("writing project cache: %w", err)
	}
	return nil
}

// Clear drops every cached list.
func (o *Offline) Clear() error {
	return o.d.EraseAll()
}

// Result is the outcome of a Fallback lookup.
type Result struct {
	Projects []model.Project
	// Degraded is set when the live source failed and the cache answered.
	Degraded bool
	// Cause is the live failure behind a degraded result.
	Cause error
}

// Fallback prefers live data, caching every successful answer, and falls
// back to the cache when the backend cannot be asked.
type Fallback struct {
	live    Source
	offline *Offline
	logger  *slog.Logger

	mu       sync.Mutex
	degraded bool
}

// WithFallback combines live with the cache.
func WithFallback(live Source, offline *Offline, logger *slog.Logger) *Fallback {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fallback{live: live, offline: offline, logger: logger}
}

// Lookup returns the projects of employeeID and whether they came from the cache.
func (f *Fallback) Lookup(ctx context.Context, employeeID string) (Result, error) {
	projects, err := f.live.Projects(ctx, employeeID)
	if err == nil {
		if cerr := f.offline.Save(employeeID, projects); cerr != nil {
			f.logger.Warn("caching projects failed", "error", cerr)
		}
		f.setDegraded(false)
		return Result{Projects: projects}, nil
	}

	f.logger.Warn("live project lookup failed, using cache", "employee", employeeID, "error", err)
	cached, cerr := f.offline.Projects(ctx, employeeID)
	if cerr != nil {
		return Result{}, errors.Join(err, cerr)
	}
	f.setDegraded(true)
	return Result{Projects: cached, Degraded: true, Cause: err}, nil
}

// Projects implements Source.
func (f *Fallback) Projects(ctx context.Context, employeeID string) ([]model.Project, error) {
	res, err := f.Lookup(ctx, employeeID)
	return res.Projects, err
}

// Degraded reports whether the last lookup was served from the cache.
func (f *Fallback) Degraded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.degraded
}

func (f *Fallback) setDegraded(v bool) {
	f.mu.Lock()
	f.degraded = v
	f.mu.Unlock()
}

// Find returns the project named name (case-insensitive).
func Find(projects []model.Project, name string) (model.Project, bool) {
	name = strings.TrimSpace(name)
	for _, p := range projects {
		if strings.EqualFold(strings.TrimSpace(p.ProjectName), name) {
			return p, true
		}
	}
	return model.Project{}, false
}
