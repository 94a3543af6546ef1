package usecase

import "context"

// The interfaces below are the outbound port to the modeling application's
// automation object graph. They mirror the handful of verbs the bridge
// actually consumes, not the full automation API. Two adapters implement
// them: eacom (COM dispatch against the real application, Windows only) and
// memmodel (in-memory model used by tests and the memory backend).
//
// The automation object has one quirk every implementation must preserve:
// a child added through AddNew is not visible to sibling lookups until its
// handle has been committed with Update and the owning collection refreshed
// with Refresh. The Connector performs both steps unconditionally after every
// mutation; adapters must not do either implicitly.

// Client creates or attaches the application handle.
type Client interface {
	Open(ctx context.Context) (Repository, error)
}

// Repository is the opened model file inside the application.
type Repository interface {
	// OpenFile loads the model file at path into the repository.
	OpenFile(path string) error

	PackageByGUID(guid string) (Package, error)
	DiagramByGUID(guid string) (Diagram, error)
	ElementByGUID(guid string) (Element, error)

	// PackageByID resolves a package by its repository-local numeric ID.
	// Diagrams reference their owning package this way.
	PackageByID(id int) (Package, error)

	// ElementSet runs the application's element search and returns matches.
	ElementSet(query string) ([]Element, error)

	// LayoutDiagram invokes the application's auto-layout routine.
	LayoutDiagram(guid string, style string) error

	// ReloadDiagram forces the repository to reload a diagram so reads after
	// a layout observe fresh positions.
	ReloadDiagram(id int) error
}

// Package is a container node in the model hierarchy.
type Package interface {
	GUID() string
	Name() string
	Notes() string
	Diagrams() DiagramCollection
	Elements() ElementCollection
}

// Diagram is a visual surface belonging to a package.
type Diagram interface {
	GUID() string
	Name() string
	Kind() string
	ID() int
	PackageID() int
	Objects() ObjectCollection
	Links() LinkCollection
	Update() error
}

// Element is a model-level entity.
type Element interface {
	GUID() string
	Name() string
	Kind() string
	ID() int
	Stereotype() string
	Notes() string
	SetStereotype(s string) error
	Update() error
}

// DiagramObject is the placement of an element on a diagram.
type DiagramObject interface {
	SetElementID(id int) error
	Update() error
}

// DiagramLink is a relationship drawn on a diagram between two elements.
type DiagramLink interface {
	GUID() string
	Kind() string
	SetClientID(id int) error
	SetSupplierID(id int) error
	Update() error
}

// DiagramCollection is a package's diagram list.
type DiagramCollection interface {
	AddNew(name, kind string) (Diagram, error)
	Refresh() error
}

// ElementCollection is a package's element list.
type ElementCollection interface {
	AddNew(name, kind string) (Element, error)
	Refresh() error
}

// ObjectCollection is a diagram's placement list.
type ObjectCollection interface {
	AddNew(name, kind string) (DiagramObject, error)
	Refresh() error
}

// LinkCollection is a diagram's relationship list.
type LinkCollection interface {
	AddNew(name, kind string) (DiagramLink, error)
	Refresh() error
}
