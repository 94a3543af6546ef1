package mcptool

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Register builds the tool definitions and adds them, with their handlers,
// to the MCP server.
func Register(s *server.MCPServer, svc Service, logger *slog.Logger) {
	t := NewTools(svc, logger)

	s.AddTool(mcp.NewTool("create_sequence_diagram",
		mcp.WithDescription("Creates a sequence diagram in Enterprise Architect and optionally places elements on it."),
		mcp.WithString("package_guid", mcp.Required(), mcp.Description("GUID of the parent package")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Diagram name")),
		mcp.WithString("file_path", mcp.Description("Model file path override; defaults to the configured EA_FILE_PATH")),
		mcp.WithArray("elements",
			mcp.Description("Elements to place on the diagram, in order"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":       map[string]any{"type": "string"},
					"type":       map[string]any{"type": "string"},
					"stereotype": map[string]any{"type": "string"},
				},
				"required": []string{"name"},
			}),
		),
	), t.CreateSequenceDiagram)

	s.AddTool(mcp.NewTool("create_class_diagram",
		mcp.WithDescription("Creates a class diagram in Enterprise Architect with one Class element per entry."),
		mcp.WithString("package_guid", mcp.Required(), mcp.Description("GUID of the parent package")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Diagram name")),
		mcp.WithString("file_path", mcp.Description("Model file path override; defaults to the configured EA_FILE_PATH")),
		mcp.WithArray("classes",
			mcp.Description("Classes to place on the diagram"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
				},
				"required": []string{"name"},
			}),
		),
	), t.CreateClassDiagram)

	s.AddTool(mcp.NewTool("create_use_case_diagram",
		mcp.WithDescription("Creates a use case diagram in Enterprise Architect with actors and use cases."),
		mcp.WithString("package_guid", mcp.Required(), mcp.Description("GUID of the parent package")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Diagram name")),
		mcp.WithString("file_path", mcp.Description("Model file path override; defaults to the configured EA_FILE_PATH")),
		mcp.WithArray("actors",
			mcp.Description("Actor names"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("use_cases",
			mcp.Description("Use case names"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), t.CreateUseCaseDiagram)

	s.AddTool(mcp.NewTool("create_activity_diagram",
		mcp.WithDescription("Creates an activity diagram in Enterprise Architect with activities and decisions."),
		mcp.WithString("package_guid", mcp.Required(), mcp.Description("GUID of the parent package")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Diagram name")),
		mcp.WithString("file_path", mcp.Description("Model file path override; defaults to the configured EA_FILE_PATH")),
		mcp.WithArray("activities",
			mcp.Description("Activity names"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("decisions",
			mcp.Description("Decision names"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), t.CreateActivityDiagram)

	s.AddTool(mcp.NewTool("connect_elements",
		mcp.WithDescription("Connects two existing elements on a diagram with a relationship."),
		mcp.WithString("diagram_guid", mcp.Required(), mcp.Description("GUID of the diagram")),
		mcp.WithString("source_guid", mcp.Required(), mcp.Description("GUID of the source element")),
		mcp.WithString("target_guid", mcp.Required(), mcp.Description("GUID of the target element")),
		mcp.WithString("connector_type", mcp.Required(), mcp.Description("Relationship kind: association, generalization, dependency or message")),
		mcp.WithString("name", mcp.Description("Optional connector name")),
	), t.ConnectElements)

	s.AddTool(mcp.NewTool("get_package_by_guid",
		mcp.WithDescription("Returns the name and notes of a package."),
		mcp.WithString("package_guid", mcp.Required(), mcp.Description("GUID of the package")),
	), t.GetPackageByGUID)

	s.AddTool(mcp.NewTool("get_element_by_guid",
		mcp.WithDescription("Returns the name, type, stereotype and notes of an element."),
		mcp.WithString("element_guid", mcp.Required(), mcp.Description("GUID of the element")),
	), t.GetElementByGUID)

	s.AddTool(mcp.NewTool("find_elements",
		mcp.WithDescription("Searches the repository for elements by name."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Name fragment to search for")),
	), t.FindElements)

	for _, lt := range lifelineTools {
		role := lt.role
		s.AddTool(mcp.NewTool(lt.name,
			mcp.WithDescription(lifelineDescription(role)),
			mcp.WithString("diagram_guid", mcp.Required(), mcp.Description("GUID of the diagram")),
			mcp.WithString("name", mcp.Required(), mcp.Description("Name of the lifeline element")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return t.CreateLifeline(ctx, req, role)
		})
	}

	logger.Info("MCP tools registered.", slog.Int("lifeline_tools", len(lifelineTools)))
}
