package mcptool

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sparxtools/eabridge/internal/domain"
)

// Tools holds what every handler needs.
type Tools struct {
	svc    Service
	logger *slog.Logger
}

// NewTools creates the handler set backed by the given service.
func NewTools(svc Service, logger *slog.Logger) *Tools {
	return &Tools{svc: svc, logger: logger.With("component", "mcptool")}
}

// ensure establishes the shared session, honoring a per-call file path
// override. Returns an error envelope when the session cannot be opened.
func (t *Tools) ensure(ctx context.Context, filePath string) *mcp.CallToolResult {
	if err := t.svc.EnsureSession(ctx, filePath); err != nil {
		t.logger.Error("Failed to establish EA session.", slog.Any("error", err))
		return errorResult(err)
	}
	return nil
}

// CreateSequenceDiagram creates a sequence diagram, places the requested
// elements on it in input order, and auto-layouts once at the end.
func (t *Tools) CreateSequenceDiagram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	packageGUID, res := requireString(args, "package_guid")
	if res != nil {
		return res, nil
	}
	name, res := requireString(args, "name")
	if res != nil {
		return res, nil
	}
	if res := t.ensure(ctx, stringArg(args, "file_path")); res != nil {
		return res, nil
	}

	diagram, err := t.svc.CreateDiagram(ctx, packageGUID, name, domain.DiagramSequence)
	if err != nil {
		return errorResult(err), nil
	}

	items := objectList(args, "elements")
	elements := make([]string, 0, len(items))
	for i, item := range items {
		elementName, _ := item["name"].(string)
		if elementName == "" {
			return missingField(indexedField("elements", i, "name")), nil
		}
		kindName, _ := item["type"].(string)
		kind := domain.ElementObject
		if kindName != "" {
			kind, err = domain.ParseElementKind(kindName)
			if err != nil {
				return errorResult(err), nil
			}
		}
		stereotype, _ := item["stereotype"].(string)

		ref, err := t.svc.AddElementToDiagram(ctx, diagram.GUID, elementName, kind, stereotype)
		if err != nil {
			return errorResult(err), nil
		}
		elements = append(elements, ref.GUID)
	}

	if err := t.svc.AutoLayoutDiagram(ctx, diagram.GUID, ""); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"diagram_guid": diagram.GUID,
		"elements":     elements,
	}), nil
}

// CreateClassDiagram creates a class diagram and one Class element per entry.
func (t *Tools) CreateClassDiagram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	packageGUID, res := requireString(args, "package_guid")
	if res != nil {
		return res, nil
	}
	name, res := requireString(args, "name")
	if res != nil {
		return res, nil
	}
	if res := t.ensure(ctx, stringArg(args, "file_path")); res != nil {
		return res, nil
	}

	diagram, err := t.svc.CreateDiagram(ctx, packageGUID, name, domain.DiagramClass)
	if err != nil {
		return errorResult(err), nil
	}

	items := objectList(args, "classes")
	classes := make([]string, 0, len(items))
	for i, item := range items {
		className, _ := item["name"].(string)
		if className == "" {
			return missingField(indexedField("classes", i, "name")), nil
		}
		ref, err := t.svc.AddElementToDiagram(ctx, diagram.GUID, className, domain.ElementClass, "")
		if err != nil {
			return errorResult(err), nil
		}
		classes = append(classes, ref.GUID)
	}

	if err := t.svc.AutoLayoutDiagram(ctx, diagram.GUID, ""); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"diagram_guid": diagram.GUID,
		"classes":      classes,
	}), nil
}

// CreateUseCaseDiagram creates a use case diagram with an Actor per name in
// actors and a UseCase per name in use_cases, actors first.
func (t *Tools) CreateUseCaseDiagram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	packageGUID, res := requireString(args, "package_guid")
	if res != nil {
		return res, nil
	}
	name, res := requireString(args, "name")
	if res != nil {
		return res, nil
	}
	if res := t.ensure(ctx, stringArg(args, "file_path")); res != nil {
		return res, nil
	}

	diagram, err := t.svc.CreateDiagram(ctx, packageGUID, name, domain.DiagramUseCase)
	if err != nil {
		return errorResult(err), nil
	}

	actorNames := stringList(args, "actors")
	actors := make([]string, 0, len(actorNames))
	for _, actorName := range actorNames {
		ref, err := t.svc.AddElementToDiagram(ctx, diagram.GUID, actorName, domain.ElementActor, "")
		if err != nil {
			return errorResult(err), nil
		}
		actors = append(actors, ref.GUID)
	}

	useCaseNames := stringList(args, "use_cases")
	useCases := make([]string, 0, len(useCaseNames))
	for _, useCaseName := range useCaseNames {
		ref, err := t.svc.AddElementToDiagram(ctx, diagram.GUID, useCaseName, domain.ElementUseCase, "")
		if err != nil {
			return errorResult(err), nil
		}
		useCases = append(useCases, ref.GUID)
	}

	if err := t.svc.AutoLayoutDiagram(ctx, diagram.GUID, ""); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"diagram_guid": diagram.GUID,
		"actors":       actors,
		"use_cases":    useCases,
	}), nil
}

// CreateActivityDiagram creates an activity diagram with an Activity per name
// in activities and a Decision per name in decisions.
func (t *Tools) CreateActivityDiagram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	packageGUID, res := requireString(args, "package_guid")
	if res != nil {
		return res, nil
	}
	name, res := requireString(args, "name")
	if res != nil {
		return res, nil
	}
	if res := t.ensure(ctx, stringArg(args, "file_path")); res != nil {
		return res, nil
	}

	diagram, err := t.svc.CreateDiagram(ctx, packageGUID, name, domain.DiagramActivity)
	if err != nil {
		return errorResult(err), nil
	}

	activityNames := stringList(args, "activities")
	activities := make([]string, 0, len(activityNames))
	for _, activityName := range activityNames {
		ref, err := t.svc.AddElementToDiagram(ctx, diagram.GUID, activityName, domain.ElementActivity, "")
		if err != nil {
			return errorResult(err), nil
		}
		activities = append(activities, ref.GUID)
	}

	decisionNames := stringList(args, "decisions")
	decisions := make([]string, 0, len(decisionNames))
	for _, decisionName := range decisionNames {
		ref, err := t.svc.AddElementToDiagram(ctx, diagram.GUID, decisionName, domain.ElementDecision, "")
		if err != nil {
			return errorResult(err), nil
		}
		decisions = append(decisions, ref.GUID)
	}

	if err := t.svc.AutoLayoutDiagram(ctx, diagram.GUID, ""); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"diagram_guid": diagram.GUID,
		"activities":   activities,
		"decisions":    decisions,
	}), nil
}

// ConnectElements draws a relationship between two existing elements.
func (t *Tools) ConnectElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	diagramGUID, res := requireString(args, "diagram_guid")
	if res != nil {
		return res, nil
	}
	sourceGUID, res := requireString(args, "source_guid")
	if res != nil {
		return res, nil
	}
	targetGUID, res := requireString(args, "target_guid")
	if res != nil {
		return res, nil
	}
	kindName, res := requireString(args, "connector_type")
	if res != nil {
		return res, nil
	}
	kind, err := domain.ParseConnectorKind(kindName)
	if err != nil {
		return errorResult(err), nil
	}
	if res := t.ensure(ctx, ""); res != nil {
		return res, nil
	}

	ref, err := t.svc.ConnectElements(ctx, diagramGUID, sourceGUID, targetGUID, kind, stringArg(args, "name"))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"connector_guid": ref.GUID,
		"type":           string(ref.Kind),
		"source":         ref.SourceGUID,
		"target":         ref.TargetGUID,
	}), nil
}

// GetPackageByGUID returns a package projection.
func (t *Tools) GetPackageByGUID(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	packageGUID, res := requireString(args, "package_guid")
	if res != nil {
		return res, nil
	}
	if res := t.ensure(ctx, ""); res != nil {
		return res, nil
	}

	ref, err := t.svc.GetPackage(ctx, packageGUID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"guid":  ref.GUID,
		"name":  ref.Name,
		"notes": ref.Notes,
	}), nil
}

// GetElementByGUID returns an element projection.
func (t *Tools) GetElementByGUID(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	elementGUID, res := requireString(args, "element_guid")
	if res != nil {
		return res, nil
	}
	if res := t.ensure(ctx, ""); res != nil {
		return res, nil
	}

	ref, err := t.svc.GetElement(ctx, elementGUID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"guid":       ref.GUID,
		"name":       ref.Name,
		"type":       string(ref.Kind),
		"stereotype": ref.Stereotype,
		"notes":      ref.Notes,
	}), nil
}

// FindElements searches the repository by element name.
func (t *Tools) FindElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, res := requireString(args, "query")
	if res != nil {
		return res, nil
	}
	if res := t.ensure(ctx, ""); res != nil {
		return res, nil
	}

	refs, err := t.svc.FindElements(ctx, query)
	if err != nil {
		return errorResult(err), nil
	}
	elements := make([]map[string]any, 0, len(refs))
	for _, ref := range refs {
		elements = append(elements, map[string]any{
			"guid":       ref.GUID,
			"name":       ref.Name,
			"type":       string(ref.Kind),
			"stereotype": ref.Stereotype,
		})
	}
	return successResult(map[string]any{"elements": elements}), nil
}
