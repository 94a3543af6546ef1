package mcptool

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sparxtools/eabridge/internal/domain"
)

// Lifelines are Object elements carrying a role stereotype, so all six
// lifeline tools are the same composed operation parameterized by role. The
// table below drives their registration; each entry still becomes its own
// named tool because callers address tools by name.
var lifelineTools = []struct {
	name string
	role domain.LifelineRole
}{
	{"create_actor_lifeline", domain.RoleActor},
	{"create_boundary_lifeline", domain.RoleBoundary},
	{"create_control_lifeline", domain.RoleControl},
	{"create_entity_lifeline", domain.RoleEntity},
	{"create_database_lifeline", domain.RoleDatabase},
	{"create_use_case_lifeline", domain.RoleUseCase},
}

func lifelineDescription(role domain.LifelineRole) string {
	return fmt.Sprintf("Creates a %s lifeline on a sequence diagram.", role)
}

// CreateLifeline places one stereotyped Object element on an existing
// diagram and auto-layouts it. The registered lifeline tools are closures
// over this with their role fixed.
func (t *Tools) CreateLifeline(ctx context.Context, req mcp.CallToolRequest, role domain.LifelineRole) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	diagramGUID, res := requireString(args, "diagram_guid")
	if res != nil {
		return res, nil
	}
	name, res := requireString(args, "name")
	if res != nil {
		return res, nil
	}
	if res := t.ensure(ctx, ""); res != nil {
		return res, nil
	}

	ref, err := t.svc.AddElementToDiagram(ctx, diagramGUID, name, domain.ElementObject, string(role))
	if err != nil {
		return errorResult(err), nil
	}
	if err := t.svc.AutoLayoutDiagram(ctx, diagramGUID, ""); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"element_guid": ref.GUID}), nil
}
