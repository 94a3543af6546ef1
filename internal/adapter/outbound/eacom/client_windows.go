//go:build windows

// Package eacom talks to the real Enterprise Architect application through
// its COM automation interface. Each port handle wraps one IDispatch.
package eacom

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/sparxtools/eabridge/internal/usecase"
)

// Client dispatches the EA.App automation object.
type Client struct {
	logger *slog.Logger
}

// New creates a COM-backed automation client.
func New(logger *slog.Logger) *Client {
	return &Client{logger: logger.With("component", "eacom")}
}

// Open attaches (or starts) the application and returns its repository
// handle. CoInitialize may report that the thread is already initialized;
// that is not a failure.
func (c *Client) Open(_ context.Context) (usecase.Repository, error) {
	_ = ole.CoInitialize(0)

	unknown, err := oleutil.CreateObject("EA.App")
	if err != nil {
		return nil, fmt.Errorf("failed to dispatch EA.App: %w", err)
	}
	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("EA.App has no IDispatch: %w", err)
	}
	repoVar, err := oleutil.GetProperty(app, "Repository")
	if err != nil {
		return nil, fmt.Errorf("failed to get Repository: %w", err)
	}
	disp := repoVar.ToIDispatch()
	if disp == nil {
		return nil, fmt.Errorf("EA.App returned a nil repository")
	}
	c.logger.Info("Attached to EA application.")
	return &repository{disp: disp}, nil
}

// --- variant helpers ---

func varString(v *ole.VARIANT) string {
	if s, ok := v.Value().(string); ok {
		return s
	}
	return ""
}

func varInt(v *ole.VARIANT) int {
	switch n := v.Value().(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	}
	return 0
}

func getString(disp *ole.IDispatch, name string) string {
	v, err := oleutil.GetProperty(disp, name)
	if err != nil {
		return ""
	}
	defer v.Clear()
	return varString(v)
}

func getInt(disp *ole.IDispatch, name string) int {
	v, err := oleutil.GetProperty(disp, name)
	if err != nil {
		return 0
	}
	defer v.Clear()
	return varInt(v)
}

// update calls the handle's Update method. EA reports commit failures as a
// false return, with the reason in Repository.GetLastError; here the false
// alone is surfaced.
func update(disp *ole.IDispatch, what string) error {
	v, err := oleutil.CallMethod(disp, "Update")
	if err != nil {
		return fmt.Errorf("%s update failed: %w", what, err)
	}
	defer v.Clear()
	if ok, isBool := v.Value().(bool); isBool && !ok {
		return fmt.Errorf("%s update rejected by repository", what)
	}
	return nil
}

// --- repository ---

type repository struct {
	disp *ole.IDispatch
}

func (r *repository) OpenFile(path string) error {
	v, err := oleutil.CallMethod(r.disp, "OpenFile", path)
	if err != nil {
		return fmt.Errorf("OpenFile(%s): %w", path, err)
	}
	defer v.Clear()
	if ok, isBool := v.Value().(bool); isBool && !ok {
		return fmt.Errorf("repository refused to open %s", path)
	}
	return nil
}

func (r *repository) dispatchLookup(method, arg string) (*ole.IDispatch, error) {
	v, err := oleutil.CallMethod(r.disp, method, arg)
	if err != nil {
		return nil, fmt.Errorf("%s(%s): %w", method, arg, err)
	}
	return v.ToIDispatch(), nil
}

func (r *repository) PackageByGUID(guid string) (usecase.Package, error) {
	disp, err := r.dispatchLookup("GetPackageByGuid", guid)
	if err != nil || disp == nil {
		return nil, err
	}
	return &pkg{disp: disp}, nil
}

func (r *repository) DiagramByGUID(guid string) (usecase.Diagram, error) {
	disp, err := r.dispatchLookup("GetDiagramByGuid", guid)
	if err != nil || disp == nil {
		return nil, err
	}
	return &diagram{disp: disp}, nil
}

func (r *repository) ElementByGUID(guid string) (usecase.Element, error) {
	disp, err := r.dispatchLookup("GetElementByGuid", guid)
	if err != nil || disp == nil {
		return nil, err
	}
	return &element{disp: disp}, nil
}

func (r *repository) PackageByID(id int) (usecase.Package, error) {
	v, err := oleutil.CallMethod(r.disp, "GetPackageByID", id)
	if err != nil {
		return nil, fmt.Errorf("GetPackageByID(%d): %w", id, err)
	}
	disp := v.ToIDispatch()
	if disp == nil {
		return nil, fmt.Errorf("no package with ID %d", id)
	}
	return &pkg{disp: disp}, nil
}

func (r *repository) ElementSet(query string) ([]usecase.Element, error) {
	v, err := oleutil.CallMethod(r.disp, "GetElementSet", query, 0)
	if err != nil {
		return nil, fmt.Errorf("GetElementSet: %w", err)
	}
	coll := v.ToIDispatch()
	if coll == nil {
		return nil, nil
	}
	count := getInt(coll, "Count")
	out := make([]usecase.Element, 0, count)
	for i := 0; i < count; i++ {
		item, err := oleutil.CallMethod(coll, "GetAt", i)
		if err != nil {
			return nil, fmt.Errorf("GetAt(%d): %w", i, err)
		}
		if disp := item.ToIDispatch(); disp != nil {
			out = append(out, &element{disp: disp})
		}
	}
	return out, nil
}

// LayoutDiagram runs the project interface's layout routine. The style
// string is reserved for future layout flags; the application default is
// used for now.
func (r *repository) LayoutDiagram(guid string, _ string) error {
	v, err := oleutil.CallMethod(r.disp, "GetProjectInterface")
	if err != nil {
		return fmt.Errorf("GetProjectInterface: %w", err)
	}
	project := v.ToIDispatch()
	if project == nil {
		return fmt.Errorf("project interface unavailable")
	}
	if _, err := oleutil.CallMethod(project, "LayoutDiagram", guid, 0); err != nil {
		return fmt.Errorf("LayoutDiagram(%s): %w", guid, err)
	}
	return nil
}

func (r *repository) ReloadDiagram(id int) error {
	if _, err := oleutil.CallMethod(r.disp, "ReloadDiagram", id); err != nil {
		return fmt.Errorf("ReloadDiagram(%d): %w", id, err)
	}
	return nil
}

// --- package ---

type pkg struct {
	disp *ole.IDispatch
}

func (p *pkg) GUID() string  { return getString(p.disp, "PackageGUID") }
func (p *pkg) Name() string  { return getString(p.disp, "Name") }
func (p *pkg) Notes() string { return getString(p.disp, "Notes") }

func (p *pkg) Diagrams() usecase.DiagramCollection {
	return &diagramCollection{disp: collection(p.disp, "Diagrams")}
}

func (p *pkg) Elements() usecase.ElementCollection {
	return &elementCollection{disp: collection(p.disp, "Elements")}
}

func collection(disp *ole.IDispatch, name string) *ole.IDispatch {
	v, err := oleutil.GetProperty(disp, name)
	if err != nil {
		return nil
	}
	return v.ToIDispatch()
}

// --- diagram ---

type diagram struct {
	disp *ole.IDispatch
}

func (d *diagram) GUID() string   { return getString(d.disp, "DiagramGUID") }
func (d *diagram) Name() string   { return getString(d.disp, "Name") }
func (d *diagram) Kind() string   { return getString(d.disp, "Type") }
func (d *diagram) ID() int        { return getInt(d.disp, "DiagramID") }
func (d *diagram) PackageID() int { return getInt(d.disp, "PackageID") }

func (d *diagram) Objects() usecase.ObjectCollection {
	return &objectCollection{disp: collection(d.disp, "DiagramObjects")}
}

func (d *diagram) Links() usecase.LinkCollection {
	return &linkCollection{disp: collection(d.disp, "DiagramLinks")}
}

func (d *diagram) Update() error { return update(d.disp, "diagram") }

// --- element ---

type element struct {
	disp *ole.IDispatch
}

func (e *element) GUID() string       { return getString(e.disp, "ElementGUID") }
func (e *element) Name() string       { return getString(e.disp, "Name") }
func (e *element) Kind() string       { return getString(e.disp, "Type") }
func (e *element) ID() int            { return getInt(e.disp, "ElementID") }
func (e *element) Stereotype() string { return getString(e.disp, "Stereotype") }
func (e *element) Notes() string      { return getString(e.disp, "Notes") }

func (e *element) SetStereotype(s string) error {
	if _, err := oleutil.PutProperty(e.disp, "Stereotype", s); err != nil {
		return fmt.Errorf("set Stereotype: %w", err)
	}
	return nil
}

func (e *element) Update() error { return update(e.disp, "element") }

// --- diagram object ---

type diagramObject struct {
	disp *ole.IDispatch
}

func (o *diagramObject) SetElementID(id int) error {
	if _, err := oleutil.PutProperty(o.disp, "ElementID", id); err != nil {
		return fmt.Errorf("set ElementID: %w", err)
	}
	return nil
}

func (o *diagramObject) Update() error { return update(o.disp, "diagram object") }

// --- diagram link ---

type diagramLink struct {
	disp *ole.IDispatch
}

func (l *diagramLink) GUID() string { return getString(l.disp, "ConnectorGUID") }
func (l *diagramLink) Kind() string { return getString(l.disp, "Type") }

func (l *diagramLink) SetClientID(id int) error {
	if _, err := oleutil.PutProperty(l.disp, "ClientID", id); err != nil {
		return fmt.Errorf("set ClientID: %w", err)
	}
	return nil
}

func (l *diagramLink) SetSupplierID(id int) error {
	if _, err := oleutil.PutProperty(l.disp, "SupplierID", id); err != nil {
		return fmt.Errorf("set SupplierID: %w", err)
	}
	return nil
}

func (l *diagramLink) Update() error { return update(l.disp, "connector") }

// --- collections ---

func addNew(disp *ole.IDispatch, name, kind string) (*ole.IDispatch, error) {
	if disp == nil {
		return nil, fmt.Errorf("collection unavailable")
	}
	v, err := oleutil.CallMethod(disp, "AddNew", name, kind)
	if err != nil {
		return nil, fmt.Errorf("AddNew(%s, %s): %w", name, kind, err)
	}
	child := v.ToIDispatch()
	if child == nil {
		return nil, fmt.Errorf("AddNew(%s, %s) returned no handle", name, kind)
	}
	return child, nil
}

func refresh(disp *ole.IDispatch) error {
	if disp == nil {
		return fmt.Errorf("collection unavailable")
	}
	if _, err := oleutil.CallMethod(disp, "Refresh"); err != nil {
		return fmt.Errorf("Refresh: %w", err)
	}
	return nil
}

type diagramCollection struct{ disp *ole.IDispatch }

func (c *diagramCollection) AddNew(name, kind string) (usecase.Diagram, error) {
	disp, err := addNew(c.disp, name, kind)
	if err != nil {
		return nil, err
	}
	return &diagram{disp: disp}, nil
}

func (c *diagramCollection) Refresh() error { return refresh(c.disp) }

type elementCollection struct{ disp *ole.IDispatch }

func (c *elementCollection) AddNew(name, kind string) (usecase.Element, error) {
	disp, err := addNew(c.disp, name, kind)
	if err != nil {
		return nil, err
	}
	return &element{disp: disp}, nil
}

func (c *elementCollection) Refresh() error { return refresh(c.disp) }

type objectCollection struct{ disp *ole.IDispatch }

func (c *objectCollection) AddNew(name, kind string) (usecase.DiagramObject, error) {
	disp, err := addNew(c.disp, name, kind)
	if err != nil {
		return nil, err
	}
	return &diagramObject{disp: disp}, nil
}

func (c *objectCollection) Refresh() error { return refresh(c.disp) }

type linkCollection struct{ disp *ole.IDispatch }

func (c *linkCollection) AddNew(name, kind string) (usecase.DiagramLink, error) {
	disp, err := addNew(c.disp, name, kind)
	if err != nil {
		return nil, err
	}
	return &diagramLink{disp: disp}, nil
}

func (c *linkCollection) Refresh() error { return refresh(c.disp) }
