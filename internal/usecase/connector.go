package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sparxtools/eabridge/internal/domain"
)

// Connector is the single choke point for all interaction with the
// automation object. It owns the shared session (application handle plus
// opened repository), establishes it lazily on first use, and normalizes
// every failure into a reportable *domain.Error.
//
// The automation object is not documented as safe for concurrent callers, so
// every verb is serialized behind one mutex. MCP requests may arrive
// concurrently; their automation work may not.
type Connector struct {
	client      Client
	defaultFile string
	layoutStyle string
	logger      *slog.Logger
	tracer      trace.Tracer

	mu       sync.Mutex
	repo     Repository
	openFile string
}

// NewConnector creates a Connector. defaultFile is the model file opened when
// a call does not supply its own path (usually from EA_FILE_PATH);
// layoutStyle is the default style handed to the layout routine.
func NewConnector(client Client, defaultFile, layoutStyle string, logger *slog.Logger) *Connector {
	return &Connector{
		client:      client,
		defaultFile: defaultFile,
		layoutStyle: layoutStyle,
		logger:      logger.With("usecase", "Connector"),
		tracer:      otel.Tracer("eabridge/connector"),
	}
}

// Connect establishes the session, reusing the application handle when one
// already exists. The model file is (re)opened on every explicit call: the
// path comes from pathOverride when given, otherwise from configuration.
func (c *Connector) Connect(ctx context.Context, pathOverride string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, span := c.tracer.Start(ctx, "connector.Connect")
	defer span.End()

	if err := c.openLocked(pathOverride); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// EnsureSession makes sure a live session exists before a verb that depends
// on one runs. Unlike Connect it does not reopen an already-open file unless
// the caller supplies a different path.
func (c *Connector) EnsureSession(ctx context.Context, pathOverride string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.repo != nil && (pathOverride == "" || pathOverride == c.openFile) {
		return nil
	}
	return c.openLocked(pathOverride)
}

// openLocked attaches the application handle if needed and opens the model
// file. Callers hold c.mu.
func (c *Connector) openLocked(pathOverride string) error {
	path := pathOverride
	if path == "" {
		path = c.defaultFile
	}
	if path == "" {
		return domain.Errf("EA_FILE_PATH environment variable not set")
	}

	if c.repo == nil {
		repo, err := c.client.Open(context.Background())
		if err != nil {
			c.logger.Error("Failed to create application handle.", slog.Any("error", err))
			return domain.Wrap(err, "failed to connect to EA")
		}
		c.repo = repo
	}

	if err := c.repo.OpenFile(path); err != nil {
		c.logger.Error("Failed to open model file.", slog.String("path", path), slog.Any("error", err))
		return domain.Wrap(err, "failed to connect to EA repository")
	}
	c.openFile = path
	c.logger.Info("Model file opened.", slog.String("path", path))
	return nil
}

// sessionLocked validates the shared session before a dependent verb runs.
func (c *Connector) sessionLocked() (Repository, error) {
	if c.repo == nil {
		return nil, domain.Errf("not connected to Enterprise Architect")
	}
	return c.repo, nil
}

// GetPackage returns the projection of a package.
func (c *Connector) GetPackage(ctx context.Context, packageGUID string) (domain.PackageRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, span := c.tracer.Start(ctx, "connector.GetPackage",
		trace.WithAttributes(attribute.String("ea.package_guid", packageGUID)))
	defer span.End()

	repo, err := c.sessionLocked()
	if err != nil {
		span.RecordError(err)
		return domain.PackageRef{}, err
	}
	pkg, err := c.packageByGUID(repo, packageGUID)
	if err != nil {
		span.RecordError(err)
		return domain.PackageRef{}, err
	}
	return domain.PackageRef{GUID: pkg.GUID(), Name: pkg.Name(), Notes: pkg.Notes()}, nil
}

// CreateDiagram creates a diagram of the given kind inside a package.
// Shape shared by every mutating verb: locate parent, create child, commit
// the child, refresh the owning collection. The commit makes the child
// visible to siblings; the refresh makes the collection reflect it. Both run
// unconditionally.
func (c *Connector) CreateDiagram(ctx context.Context, packageGUID, name string, kind domain.DiagramKind) (domain.DiagramRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, span := c.tracer.Start(ctx, "connector.CreateDiagram",
		trace.WithAttributes(
			attribute.String("ea.package_guid", packageGUID),
			attribute.String("ea.diagram_kind", string(kind)),
		))
	defer span.End()

	ref, err := c.createDiagramLocked(packageGUID, name, kind)
	if err != nil {
		span.RecordError(err)
		return domain.DiagramRef{}, err
	}
	c.logger.Info("Diagram created.",
		slog.String("diagram_guid", ref.GUID), slog.String("kind", string(kind)))
	return ref, nil
}

func (c *Connector) createDiagramLocked(packageGUID, name string, kind domain.DiagramKind) (domain.DiagramRef, error) {
	if !kind.Valid() {
		return domain.DiagramRef{}, domain.Errf("invalid diagram kind %q", string(kind))
	}
	repo, err := c.sessionLocked()
	if err != nil {
		return domain.DiagramRef{}, err
	}
	pkg, err := c.packageByGUID(repo, packageGUID)
	if err != nil {
		return domain.DiagramRef{}, err
	}

	diagrams := pkg.Diagrams()
	diagram, err := diagrams.AddNew(name, string(kind))
	if err != nil {
		return domain.DiagramRef{}, domain.Wrap(err, "failed to create diagram")
	}
	if err := diagram.Update(); err != nil {
		return domain.DiagramRef{}, domain.Wrap(err, "failed to commit diagram")
	}
	if err := diagrams.Refresh(); err != nil {
		return domain.DiagramRef{}, domain.Wrap(err, "failed to refresh diagram collection")
	}

	return domain.DiagramRef{GUID: diagram.GUID(), Name: diagram.Name(), Kind: kind}, nil
}

// AddElementToDiagram creates a model-level element under the diagram's
// owning package, optionally stereotypes it, then places it on the diagram as
// a diagram object. Two mutations, each with its own commit and refresh.
func (c *Connector) AddElementToDiagram(ctx context.Context, diagramGUID, name string, kind domain.ElementKind, stereotype string) (domain.ElementRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, span := c.tracer.Start(ctx, "connector.AddElementToDiagram",
		trace.WithAttributes(
			attribute.String("ea.diagram_guid", diagramGUID),
			attribute.String("ea.element_kind", string(kind)),
		))
	defer span.End()

	ref, err := c.addElementLocked(diagramGUID, name, kind, stereotype)
	if err != nil {
		span.RecordError(err)
		return domain.ElementRef{}, err
	}
	c.logger.Info("Element added to diagram.",
		slog.String("diagram_guid", diagramGUID), slog.String("element_guid", ref.GUID))
	return ref, nil
}

func (c *Connector) addElementLocked(diagramGUID, name string, kind domain.ElementKind, stereotype string) (domain.ElementRef, error) {
	if !kind.Valid() {
		return domain.ElementRef{}, domain.Errf("invalid element kind %q", string(kind))
	}
	repo, err := c.sessionLocked()
	if err != nil {
		return domain.ElementRef{}, err
	}
	diagram, err := c.diagramByGUID(repo, diagramGUID)
	if err != nil {
		return domain.ElementRef{}, err
	}
	pkg, err := repo.PackageByID(diagram.PackageID())
	if err != nil {
		return domain.ElementRef{}, domain.Wrap(err, fmt.Sprintf("failed to resolve owning package of diagram '%s'", diagramGUID))
	}

	elements := pkg.Elements()
	element, err := elements.AddNew(name, string(kind))
	if err != nil {
		return domain.ElementRef{}, domain.Wrap(err, "failed to create element")
	}
	if stereotype != "" {
		if err := element.SetStereotype(stereotype); err != nil {
			return domain.ElementRef{}, domain.Wrap(err, "failed to set stereotype")
		}
	}
	if err := element.Update(); err != nil {
		return domain.ElementRef{}, domain.Wrap(err, "failed to commit element")
	}
	if err := elements.Refresh(); err != nil {
		return domain.ElementRef{}, domain.Wrap(err, "failed to refresh element collection")
	}

	objects := diagram.Objects()
	object, err := objects.AddNew(name, string(kind))
	if err != nil {
		return domain.ElementRef{}, domain.Wrap(err, "failed to place element on diagram")
	}
	if err := object.SetElementID(element.ID()); err != nil {
		return domain.ElementRef{}, domain.Wrap(err, "failed to bind diagram object to element")
	}
	if err := object.Update(); err != nil {
		return domain.ElementRef{}, domain.Wrap(err, "failed to commit diagram object")
	}
	if err := objects.Refresh(); err != nil {
		return domain.ElementRef{}, domain.Wrap(err, "failed to refresh diagram object collection")
	}

	return domain.ElementRef{
		GUID:       element.GUID(),
		Name:       element.Name(),
		Kind:       kind,
		Stereotype: element.Stereotype(),
	}, nil
}

// AutoLayoutDiagram runs the application's layout routine, then reloads the
// diagram so downstream reads observe fresh positions. An empty style selects
// the configured default.
func (c *Connector) AutoLayoutDiagram(ctx context.Context, diagramGUID, style string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, span := c.tracer.Start(ctx, "connector.AutoLayoutDiagram",
		trace.WithAttributes(attribute.String("ea.diagram_guid", diagramGUID)))
	defer span.End()

	if err := c.autoLayoutLocked(diagramGUID, style); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (c *Connector) autoLayoutLocked(diagramGUID, style string) error {
	repo, err := c.sessionLocked()
	if err != nil {
		return err
	}
	diagram, err := c.diagramByGUID(repo, diagramGUID)
	if err != nil {
		return err
	}
	if style == "" {
		style = c.layoutStyle
	}
	if err := repo.LayoutDiagram(diagramGUID, style); err != nil {
		return domain.Wrap(err, "failed to auto-layout diagram")
	}
	if err := repo.ReloadDiagram(diagram.ID()); err != nil {
		return domain.Wrap(err, "failed to reload diagram")
	}
	return nil
}

// ConnectElements creates a relationship between two existing elements on a
// diagram's link collection.
func (c *Connector) ConnectElements(ctx context.Context, diagramGUID, sourceGUID, targetGUID string, kind domain.ConnectorKind, name string) (domain.ConnectorRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, span := c.tracer.Start(ctx, "connector.ConnectElements",
		trace.WithAttributes(
			attribute.String("ea.diagram_guid", diagramGUID),
			attribute.String("ea.connector_kind", string(kind)),
		))
	defer span.End()

	ref, err := c.connectElementsLocked(diagramGUID, sourceGUID, targetGUID, kind, name)
	if err != nil {
		span.RecordError(err)
		return domain.ConnectorRef{}, err
	}
	c.logger.Info("Elements connected.",
		slog.String("connector_guid", ref.GUID),
		slog.String("source", sourceGUID), slog.String("target", targetGUID))
	return ref, nil
}

func (c *Connector) connectElementsLocked(diagramGUID, sourceGUID, targetGUID string, kind domain.ConnectorKind, name string) (domain.ConnectorRef, error) {
	if !kind.Valid() {
		return domain.ConnectorRef{}, domain.Errf("invalid connector kind %q", string(kind))
	}
	repo, err := c.sessionLocked()
	if err != nil {
		return domain.ConnectorRef{}, err
	}
	diagram, err := c.diagramByGUID(repo, diagramGUID)
	if err != nil {
		return domain.ConnectorRef{}, err
	}
	source, err := c.elementByGUID(repo, sourceGUID)
	if err != nil {
		return domain.ConnectorRef{}, err
	}
	target, err := c.elementByGUID(repo, targetGUID)
	if err != nil {
		return domain.ConnectorRef{}, err
	}

	links := diagram.Links()
	link, err := links.AddNew(name, string(kind))
	if err != nil {
		return domain.ConnectorRef{}, domain.Wrap(err, "failed to create connector")
	}
	if err := link.SetClientID(source.ID()); err != nil {
		return domain.ConnectorRef{}, domain.Wrap(err, "failed to set connector source")
	}
	if err := link.SetSupplierID(target.ID()); err != nil {
		return domain.ConnectorRef{}, domain.Wrap(err, "failed to set connector target")
	}
	if err := link.Update(); err != nil {
		return domain.ConnectorRef{}, domain.Wrap(err, "failed to commit connector")
	}
	if err := links.Refresh(); err != nil {
		return domain.ConnectorRef{}, domain.Wrap(err, "failed to refresh connector collection")
	}

	return domain.ConnectorRef{
		GUID:       link.GUID(),
		Kind:       kind,
		SourceGUID: sourceGUID,
		TargetGUID: targetGUID,
	}, nil
}

// GetElement returns the projection of a single element.
func (c *Connector) GetElement(ctx context.Context, elementGUID string) (domain.ElementRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, span := c.tracer.Start(ctx, "connector.GetElement",
		trace.WithAttributes(attribute.String("ea.element_guid", elementGUID)))
	defer span.End()

	repo, err := c.sessionLocked()
	if err != nil {
		span.RecordError(err)
		return domain.ElementRef{}, err
	}
	element, err := c.elementByGUID(repo, elementGUID)
	if err != nil {
		span.RecordError(err)
		return domain.ElementRef{}, err
	}
	return domain.ElementRef{
		GUID:       element.GUID(),
		Name:       element.Name(),
		Kind:       domain.ElementKind(element.Kind()),
		Stereotype: element.Stereotype(),
		Notes:      element.Notes(),
	}, nil
}

// FindElements runs the repository's element search.
func (c *Connector) FindElements(ctx context.Context, query string) ([]domain.ElementRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, span := c.tracer.Start(ctx, "connector.FindElements")
	defer span.End()

	repo, err := c.sessionLocked()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	elements, err := repo.ElementSet(query)
	if err != nil {
		e := domain.Wrap(err, "failed to search elements")
		span.RecordError(e)
		return nil, e
	}
	refs := make([]domain.ElementRef, 0, len(elements))
	for _, element := range elements {
		refs = append(refs, domain.ElementRef{
			GUID:       element.GUID(),
			Name:       element.Name(),
			Kind:       domain.ElementKind(element.Kind()),
			Stereotype: element.Stereotype(),
		})
	}
	return refs, nil
}

// Lookup helpers. The automation object reports missing handles either as a
// nil handle or as a raised error depending on the call; both collapse to a
// not-found reportable error here so failures cannot be mistaken for
// "found but empty."

func (c *Connector) packageByGUID(repo Repository, guid string) (Package, error) {
	pkg, err := repo.PackageByGUID(guid)
	if err != nil || pkg == nil {
		return nil, domain.NotFoundf("package with GUID '%s' not found", guid)
	}
	return pkg, nil
}

func (c *Connector) diagramByGUID(repo Repository, guid string) (Diagram, error) {
	diagram, err := repo.DiagramByGUID(guid)
	if err != nil || diagram == nil {
		return nil, domain.NotFoundf("diagram with GUID '%s' not found", guid)
	}
	return diagram, nil
}

func (c *Connector) elementByGUID(repo Repository, guid string) (Element, error) {
	element, err := repo.ElementByGUID(guid)
	if err != nil || element == nil {
		return nil, domain.NotFoundf("element with GUID '%s' not found", guid)
	}
	return element, nil
}
