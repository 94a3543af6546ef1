// Package memmodel is an in-memory implementation of the automation ports.
// It backs the "memory" backend and the test suite, and mirrors the real
// automation object's visibility rule: a child created through AddNew is not
// visible to repository lookups until its handle has been committed with
// Update, and collections track how often they were refreshed so the
// commit/refresh discipline can be asserted.
package memmodel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sparxtools/eabridge/internal/usecase"
)

// Model holds the whole in-memory object graph. One Model acts as both the
// automation client and the repository it opens.
type Model struct {
	mu sync.RWMutex

	nextID       int
	packages     map[string]*pkgRecord // by GUID, committed only
	packagesByID map[int]*pkgRecord
	diagrams     map[string]*diagramRecord
	diagramsByID map[int]*diagramRecord
	elements     map[string]*elementRecord
	elementsByID map[int]*elementRecord
	links        map[string]*linkRecord

	openPath string
	logger   *slog.Logger

	// OpenErr, when set, is returned from OpenFile. Used by tests to simulate
	// a model file that cannot be opened.
	OpenErr error
}

// New creates an empty model.
func New(logger *slog.Logger) *Model {
	return &Model{
		packages:     make(map[string]*pkgRecord),
		packagesByID: make(map[int]*pkgRecord),
		diagrams:     make(map[string]*diagramRecord),
		diagramsByID: make(map[int]*diagramRecord),
		elements:     make(map[string]*elementRecord),
		elementsByID: make(map[int]*elementRecord),
		links:        make(map[string]*linkRecord),
		logger:       logger.With("component", "memmodel"),
	}
}

// newGUID mints an identifier in the braces-and-uppercase shape the
// automation object uses.
func newGUID() string {
	return "{" + strings.ToUpper(uuid.NewString()) + "}"
}

func (m *Model) allocID() int {
	m.nextID++
	return m.nextID
}

// AddPackage seeds a committed package and returns its GUID. Test and
// memory-backend setup helper; the bridge itself never creates packages.
func (m *Model) AddPackage(name, notes string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := &pkgRecord{guid: newGUID(), id: m.allocID(), name: name, notes: notes}
	m.packages[rec.guid] = rec
	m.packagesByID[rec.id] = rec
	m.logger.Debug("Package seeded.", slog.String("guid", rec.guid), slog.String("name", name))
	return rec.guid
}

// LayoutCount returns how many times the layout routine ran for a diagram.
func (m *Model) LayoutCount(diagramGUID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.diagrams[diagramGUID]; ok {
		return rec.layouts
	}
	return 0
}

// ReloadCount returns how many times a diagram was reloaded.
func (m *Model) ReloadCount(diagramGUID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.diagrams[diagramGUID]; ok {
		return rec.reloads
	}
	return 0
}

// PackageRefreshes reports how often a package's diagram and element
// collections were refreshed. Lets tests assert the commit/refresh
// discipline instead of trusting it.
func (m *Model) PackageRefreshes(packageGUID string) (diagrams, elements int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.packages[packageGUID]; ok {
		return rec.diagramRefreshes, rec.elementRefreshes
	}
	return 0, 0
}

// DiagramRefreshes reports how often a diagram's object and link collections
// were refreshed.
func (m *Model) DiagramRefreshes(diagramGUID string) (objects, links int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.diagrams[diagramGUID]; ok {
		return rec.objectRefreshes, rec.linkRefreshes
	}
	return 0, 0
}

// OpenPath returns the currently opened model file path.
func (m *Model) OpenPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.openPath
}

// --- usecase.Client ---

// Open attaches the model as a repository handle.
func (m *Model) Open(_ context.Context) (usecase.Repository, error) {
	return m, nil
}

// --- usecase.Repository ---

func (m *Model) OpenFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OpenErr != nil {
		return m.OpenErr
	}
	m.openPath = path
	return nil
}

func (m *Model) PackageByGUID(guid string) (usecase.Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.packages[guid]
	if !ok {
		return nil, nil
	}
	return &pkgHandle{model: m, rec: rec}, nil
}

func (m *Model) PackageByID(id int) (usecase.Package, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.packagesByID[id]
	if !ok {
		return nil, fmt.Errorf("no package with ID %d", id)
	}
	return &pkgHandle{model: m, rec: rec}, nil
}

func (m *Model) DiagramByGUID(guid string) (usecase.Diagram, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.diagrams[guid]
	if !ok {
		return nil, nil
	}
	return &diagramHandle{model: m, rec: rec}, nil
}

func (m *Model) ElementByGUID(guid string) (usecase.Element, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.elements[guid]
	if !ok {
		return nil, nil
	}
	return &elementHandle{model: m, rec: rec}, nil
}

func (m *Model) ElementSet(query string) ([]usecase.Element, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []usecase.Element
	for _, rec := range m.elements {
		if strings.Contains(strings.ToLower(rec.name), strings.ToLower(query)) {
			out = append(out, &elementHandle{model: m, rec: rec})
		}
	}
	return out, nil
}

func (m *Model) LayoutDiagram(guid string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.diagrams[guid]
	if !ok {
		return fmt.Errorf("no diagram with GUID %s", guid)
	}
	rec.layouts++
	return nil
}

func (m *Model) ReloadDiagram(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.diagramsByID[id]
	if !ok {
		return fmt.Errorf("no diagram with ID %d", id)
	}
	rec.reloads++
	return nil
}
