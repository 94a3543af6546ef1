package memmodel

import (
	"fmt"

	"github.com/sparxtools/eabridge/internal/usecase"
)

// Records are the stored state; handles are the live views returned through
// the ports. A record created by AddNew stays out of the model's lookup maps
// until its handle is committed with Update, which is exactly how the real
// automation object behaves.

type pkgRecord struct {
	guid  string
	id    int
	name  string
	notes string

	diagramRefreshes int
	elementRefreshes int
}

type diagramRecord struct {
	guid  string
	id    int
	name  string
	kind  string
	pkgID int

	layouts int
	reloads int

	objectRefreshes int
	linkRefreshes   int
}

type elementRecord struct {
	guid       string
	id         int
	name       string
	kind       string
	stereotype string
	notes      string
	pkgID      int
}

type objectRecord struct {
	id        int
	name      string
	kind      string
	diagramID int
	elementID int
	committed bool
}

type linkRecord struct {
	guid       string
	id         int
	name       string
	kind       string
	diagramID  int
	clientID   int
	supplierID int
	committed  bool
}

// --- package handle ---

type pkgHandle struct {
	model *Model
	rec   *pkgRecord
}

func (h *pkgHandle) GUID() string  { return h.rec.guid }
func (h *pkgHandle) Name() string  { return h.rec.name }
func (h *pkgHandle) Notes() string { return h.rec.notes }

func (h *pkgHandle) Diagrams() usecase.DiagramCollection {
	return &diagramCollection{model: h.model, pkg: h.rec}
}

func (h *pkgHandle) Elements() usecase.ElementCollection {
	return &elementCollection{model: h.model, pkg: h.rec}
}

// --- diagram handle ---

type diagramHandle struct {
	model *Model
	rec   *diagramRecord
}

func (h *diagramHandle) GUID() string   { return h.rec.guid }
func (h *diagramHandle) Name() string   { return h.rec.name }
func (h *diagramHandle) Kind() string   { return h.rec.kind }
func (h *diagramHandle) ID() int        { return h.rec.id }
func (h *diagramHandle) PackageID() int { return h.rec.pkgID }

func (h *diagramHandle) Objects() usecase.ObjectCollection {
	return &objectCollection{model: h.model, diagram: h.rec}
}

func (h *diagramHandle) Links() usecase.LinkCollection {
	return &linkCollection{model: h.model, diagram: h.rec}
}

// Update publishes the diagram into the repository's lookup maps.
func (h *diagramHandle) Update() error {
	h.model.mu.Lock()
	defer h.model.mu.Unlock()
	h.model.diagrams[h.rec.guid] = h.rec
	h.model.diagramsByID[h.rec.id] = h.rec
	return nil
}

// --- element handle ---

type elementHandle struct {
	model *Model
	rec   *elementRecord
}

func (h *elementHandle) GUID() string       { return h.rec.guid }
func (h *elementHandle) Name() string       { return h.rec.name }
func (h *elementHandle) Kind() string       { return h.rec.kind }
func (h *elementHandle) ID() int            { return h.rec.id }
func (h *elementHandle) Stereotype() string { return h.rec.stereotype }
func (h *elementHandle) Notes() string      { return h.rec.notes }

func (h *elementHandle) SetStereotype(s string) error {
	h.rec.stereotype = s
	return nil
}

func (h *elementHandle) Update() error {
	h.model.mu.Lock()
	defer h.model.mu.Unlock()
	h.model.elements[h.rec.guid] = h.rec
	h.model.elementsByID[h.rec.id] = h.rec
	return nil
}

// --- diagram object handle ---

type objectHandle struct {
	model *Model
	rec   *objectRecord
}

func (h *objectHandle) SetElementID(id int) error {
	h.rec.elementID = id
	return nil
}

func (h *objectHandle) Update() error {
	h.model.mu.Lock()
	defer h.model.mu.Unlock()
	if h.rec.elementID == 0 {
		return fmt.Errorf("diagram object has no element bound")
	}
	h.rec.committed = true
	return nil
}

// --- diagram link handle ---

type linkHandle struct {
	model *Model
	rec   *linkRecord
}

func (h *linkHandle) GUID() string { return h.rec.guid }
func (h *linkHandle) Kind() string { return h.rec.kind }

func (h *linkHandle) SetClientID(id int) error {
	h.rec.clientID = id
	return nil
}

func (h *linkHandle) SetSupplierID(id int) error {
	h.rec.supplierID = id
	return nil
}

func (h *linkHandle) Update() error {
	h.model.mu.Lock()
	defer h.model.mu.Unlock()
	if h.rec.clientID == 0 || h.rec.supplierID == 0 {
		return fmt.Errorf("connector endpoints not set")
	}
	h.rec.committed = true
	h.model.links[h.rec.guid] = h.rec
	return nil
}

// --- collections ---

type diagramCollection struct {
	model *Model
	pkg   *pkgRecord
}

func (c *diagramCollection) AddNew(name, kind string) (usecase.Diagram, error) {
	c.model.mu.Lock()
	defer c.model.mu.Unlock()
	rec := &diagramRecord{
		guid:  newGUID(),
		id:    c.model.allocID(),
		name:  name,
		kind:  kind,
		pkgID: c.pkg.id,
	}
	return &diagramHandle{model: c.model, rec: rec}, nil
}

func (c *diagramCollection) Refresh() error {
	c.model.mu.Lock()
	defer c.model.mu.Unlock()
	c.pkg.diagramRefreshes++
	return nil
}

type elementCollection struct {
	model *Model
	pkg   *pkgRecord
}

func (c *elementCollection) AddNew(name, kind string) (usecase.Element, error) {
	c.model.mu.Lock()
	defer c.model.mu.Unlock()
	rec := &elementRecord{
		guid:  newGUID(),
		id:    c.model.allocID(),
		name:  name,
		kind:  kind,
		pkgID: c.pkg.id,
	}
	return &elementHandle{model: c.model, rec: rec}, nil
}

func (c *elementCollection) Refresh() error {
	c.model.mu.Lock()
	defer c.model.mu.Unlock()
	c.pkg.elementRefreshes++
	return nil
}

type objectCollection struct {
	model   *Model
	diagram *diagramRecord
}

func (c *objectCollection) AddNew(name, kind string) (usecase.DiagramObject, error) {
	c.model.mu.Lock()
	defer c.model.mu.Unlock()
	rec := &objectRecord{
		id:        c.model.allocID(),
		name:      name,
		kind:      kind,
		diagramID: c.diagram.id,
	}
	return &objectHandle{model: c.model, rec: rec}, nil
}

func (c *objectCollection) Refresh() error {
	c.model.mu.Lock()
	defer c.model.mu.Unlock()
	c.diagram.objectRefreshes++
	return nil
}

type linkCollection struct {
	model   *Model
	diagram *diagramRecord
}

func (c *linkCollection) AddNew(name, kind string) (usecase.DiagramLink, error) {
	c.model.mu.Lock()
	defer c.model.mu.Unlock()
	rec := &linkRecord{
		guid:      newGUID(),
		id:        c.model.allocID(),
		name:      name,
		kind:      kind,
		diagramID: c.diagram.id,
	}
	return &linkHandle{model: c.model, rec: rec}, nil
}

func (c *linkCollection) Refresh() error {
	c.model.mu.Lock()
	defer c.model.mu.Unlock()
	c.diagram.linkRefreshes++
	return nil
}
