package mcptool_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparxtools/eabridge/internal/adapter/inbound/mcptool"
	"github.com/sparxtools/eabridge/internal/adapter/outbound/memmodel"
	"github.com/sparxtools/eabridge/internal/domain"
	"github.com/sparxtools/eabridge/internal/usecase"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// recordedCall captures one connector verb invocation.
type recordedCall struct {
	verb       string
	guid       string
	name       string
	kind       string
	stereotype string
}

// fakeService records every verb call so tests can assert composition order
// without a real model behind it.
type fakeService struct {
	ensureCalls int
	ensurePaths []string
	ensureErr   error

	createDiagramErr error
	addElementErr    error
	layoutErr        error

	calls       []recordedCall
	elementSeq  int
	diagramGUID string
}

func newFakeService() *fakeService {
	return &fakeService{diagramGUID: "{DIAG-1}"}
}

func (f *fakeService) callsFor(verb string) []recordedCall {
	var out []recordedCall
	for _, c := range f.calls {
		if c.verb == verb {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeService) EnsureSession(_ context.Context, pathOverride string) error {
	f.ensureCalls++
	f.ensurePaths = append(f.ensurePaths, pathOverride)
	return f.ensureErr
}

func (f *fakeService) GetPackage(_ context.Context, packageGUID string) (domain.PackageRef, error) {
	f.calls = append(f.calls, recordedCall{verb: "GetPackage", guid: packageGUID})
	return domain.PackageRef{GUID: packageGUID, Name: "Model"}, nil
}

func (f *fakeService) CreateDiagram(_ context.Context, packageGUID, name string, kind domain.DiagramKind) (domain.DiagramRef, error) {
	f.calls = append(f.calls, recordedCall{verb: "CreateDiagram", guid: packageGUID, name: name, kind: string(kind)})
	if f.createDiagramErr != nil {
		return domain.DiagramRef{}, f.createDiagramErr
	}
	return domain.DiagramRef{GUID: f.diagramGUID, Name: name, Kind: kind}, nil
}

func (f *fakeService) AddElementToDiagram(_ context.Context, diagramGUID, name string, kind domain.ElementKind, stereotype string) (domain.ElementRef, error) {
	f.calls = append(f.calls, recordedCall{verb: "AddElementToDiagram", guid: diagramGUID, name: name, kind: string(kind), stereotype: stereotype})
	if f.addElementErr != nil {
		return domain.ElementRef{}, f.addElementErr
	}
	f.elementSeq++
	return domain.ElementRef{GUID: fmt.Sprintf("{EL-%d}", f.elementSeq), Name: name, Kind: kind, Stereotype: stereotype}, nil
}

func (f *fakeService) AutoLayoutDiagram(_ context.Context, diagramGUID, style string) error {
	f.calls = append(f.calls, recordedCall{verb: "AutoLayoutDiagram", guid: diagramGUID, name: style})
	return f.layoutErr
}

func (f *fakeService) ConnectElements(_ context.Context, diagramGUID, sourceGUID, targetGUID string, kind domain.ConnectorKind, name string) (domain.ConnectorRef, error) {
	f.calls = append(f.calls, recordedCall{verb: "ConnectElements", guid: diagramGUID, name: name, kind: string(kind)})
	return domain.ConnectorRef{GUID: "{CON-1}", Kind: kind, SourceGUID: sourceGUID, TargetGUID: targetGUID}, nil
}

func (f *fakeService) GetElement(_ context.Context, elementGUID string) (domain.ElementRef, error) {
	f.calls = append(f.calls, recordedCall{verb: "GetElement", guid: elementGUID})
	return domain.ElementRef{GUID: elementGUID, Name: "User", Kind: domain.ElementObject}, nil
}

func (f *fakeService) FindElements(_ context.Context, query string) ([]domain.ElementRef, error) {
	f.calls = append(f.calls, recordedCall{verb: "FindElements", name: query})
	return nil, nil
}

// --- request/response helpers ---

func newRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func decode(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &payload))
	return payload
}

func decodeData(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	payload := decode(t, res)
	require.Equal(t, "success", payload["status"], "expected success envelope, got %v", payload)
	data, ok := payload["data"].(map[string]any)
	require.True(t, ok)
	return data
}

// --- tests ---

func TestLifelineTools_StereotypeMapping(t *testing.T) {
	ctx := context.Background()

	for _, role := range domain.LifelineRoles {
		t.Run(string(role), func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			fake := newFakeService()
			tools := mcptool.NewTools(fake, testLogger())

			res, err := tools.CreateLifeline(ctx, newRequest(map[string]any{
				"diagram_guid": "{DIAG-1}",
				"name":         "User",
			}), role)
			require.NoError(err)

			data := decodeData(t, res)
			assert.Equal("{EL-1}", data["element_guid"])

			adds := fake.callsFor("AddElementToDiagram")
			require.Len(adds, 1)
			// Every lifeline is an Object element; only the stereotype varies.
			assert.Equal("Object", adds[0].kind)
			assert.Equal(string(role), adds[0].stereotype)

			layouts := fake.callsFor("AutoLayoutDiagram")
			require.Len(layouts, 1)
			assert.Equal("{DIAG-1}", layouts[0].guid)
		})
	}
}

func TestCreateClassDiagram_EmptyClassList(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	fake := newFakeService()
	tools := mcptool.NewTools(fake, testLogger())

	res, err := tools.CreateClassDiagram(context.Background(), newRequest(map[string]any{
		"package_guid": "{PKG1}",
		"name":         "Empty",
		"classes":      []any{},
	}))
	require.NoError(err)

	data := decodeData(t, res)
	assert.Equal("{DIAG-1}", data["diagram_guid"])
	classes, ok := data["classes"].([]any)
	require.True(ok)
	assert.Empty(classes)

	// Empty list: no element creation at all, but still one layout pass.
	assert.Empty(fake.callsFor("AddElementToDiagram"))
	assert.Len(fake.callsFor("AutoLayoutDiagram"), 1)
}

func TestMissingRequiredField_NoConnectionAttempted(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		invoke  func(*mcptool.Tools) (*mcp.CallToolResult, error)
		missing string
	}{
		{
			name: "sequence diagram without name",
			invoke: func(tools *mcptool.Tools) (*mcp.CallToolResult, error) {
				return tools.CreateSequenceDiagram(ctx, newRequest(map[string]any{"package_guid": "{PKG1}"}))
			},
			missing: "name",
		},
		{
			name: "class diagram without package",
			invoke: func(tools *mcptool.Tools) (*mcp.CallToolResult, error) {
				return tools.CreateClassDiagram(ctx, newRequest(map[string]any{"name": "D"}))
			},
			missing: "package_guid",
		},
		{
			name: "lifeline without diagram",
			invoke: func(tools *mcptool.Tools) (*mcp.CallToolResult, error) {
				return tools.CreateLifeline(ctx, newRequest(map[string]any{"name": "User"}), domain.RoleActor)
			},
			missing: "diagram_guid",
		},
		{
			name: "connect without target",
			invoke: func(tools *mcptool.Tools) (*mcp.CallToolResult, error) {
				return tools.ConnectElements(ctx, newRequest(map[string]any{
					"diagram_guid": "{D}", "source_guid": "{S}", "connector_type": "association",
				}))
			},
			missing: "target_guid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			fake := newFakeService()
			tools := mcptool.NewTools(fake, testLogger())

			res, err := tt.invoke(tools)
			require.NoError(err)

			payload := decode(t, res)
			assert.Equal("error", payload["status"])
			assert.Contains(payload["message"], tt.missing)
			// Validation failed before any session work.
			assert.Zero(fake.ensureCalls)
			assert.Empty(fake.calls)
		})
	}
}

func TestCreateSequenceDiagram_DiagramFailureStopsComposition(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	fake := newFakeService()
	fake.createDiagramErr = domain.Errf("failed to create diagram")
	tools := mcptool.NewTools(fake, testLogger())

	res, err := tools.CreateSequenceDiagram(context.Background(), newRequest(map[string]any{
		"package_guid": "{PKG1}",
		"name":         "Login Flow",
		"elements":     []any{map[string]any{"name": "User", "type": "Actor"}},
	}))
	require.NoError(err)

	payload := decode(t, res)
	assert.Equal("error", payload["status"])
	assert.Equal("failed to create diagram", payload["message"])
	// Nothing runs after the failed step.
	assert.Empty(fake.callsFor("AddElementToDiagram"))
	assert.Empty(fake.callsFor("AutoLayoutDiagram"))
}

func TestCreateSequenceDiagram_Composition(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	fake := newFakeService()
	tools := mcptool.NewTools(fake, testLogger())

	res, err := tools.CreateSequenceDiagram(context.Background(), newRequest(map[string]any{
		"package_guid": "PKG1",
		"name":         "Login Flow",
		"elements":     []any{map[string]any{"name": "User", "type": "Actor"}},
	}))
	require.NoError(err)

	data := decodeData(t, res)
	assert.Equal("{DIAG-1}", data["diagram_guid"])
	assert.Equal([]any{"{EL-1}"}, data["elements"])

	assert.Len(fake.callsFor("CreateDiagram"), 1)
	adds := fake.callsFor("AddElementToDiagram")
	require.Len(adds, 1)
	assert.Equal("User", adds[0].name)
	assert.Equal("Actor", adds[0].kind)
	assert.Len(fake.callsFor("AutoLayoutDiagram"), 1)
}

func TestCreateSequenceDiagram_FilePathOverride(t *testing.T) {
	require := require.New(t)
	fake := newFakeService()
	tools := mcptool.NewTools(fake, testLogger())

	_, err := tools.CreateSequenceDiagram(context.Background(), newRequest(map[string]any{
		"package_guid": "PKG1",
		"name":         "Login Flow",
		"file_path":    "other-model.eapx",
	}))
	require.NoError(err)
	require.Equal([]string{"other-model.eapx"}, fake.ensurePaths)
}

func TestCreateUseCaseDiagram_ActorsBeforeUseCases(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	fake := newFakeService()
	tools := mcptool.NewTools(fake, testLogger())

	res, err := tools.CreateUseCaseDiagram(context.Background(), newRequest(map[string]any{
		"package_guid": "PKG1",
		"name":         "Checkout",
		"actors":       []any{"Customer"},
		"use_cases":    []any{"Pay"},
	}))
	require.NoError(err)

	data := decodeData(t, res)
	actors, _ := data["actors"].([]any)
	useCases, _ := data["use_cases"].([]any)
	assert.Len(actors, 1)
	assert.Len(useCases, 1)

	adds := fake.callsFor("AddElementToDiagram")
	require.Len(adds, 2)
	assert.Equal("Actor", adds[0].kind)
	assert.Equal("Customer", adds[0].name)
	assert.Equal("UseCase", adds[1].kind)
	assert.Equal("Pay", adds[1].name)
}

func TestCreateActivityDiagram_Composition(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	fake := newFakeService()
	tools := mcptool.NewTools(fake, testLogger())

	res, err := tools.CreateActivityDiagram(context.Background(), newRequest(map[string]any{
		"package_guid": "PKG1",
		"name":         "Order Flow",
		"activities":   []any{"Receive", "Ship"},
		"decisions":    []any{"In stock?"},
	}))
	require.NoError(err)

	data := decodeData(t, res)
	assert.Len(data["activities"], 2)
	assert.Len(data["decisions"], 1)

	adds := fake.callsFor("AddElementToDiagram")
	require.Len(adds, 3)
	assert.Equal("Activity", adds[0].kind)
	assert.Equal("Activity", adds[1].kind)
	assert.Equal("Decision", adds[2].kind)
}

func TestConnectElements_InvalidKindRejectedBeforeSession(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	fake := newFakeService()
	tools := mcptool.NewTools(fake, testLogger())

	res, err := tools.ConnectElements(context.Background(), newRequest(map[string]any{
		"diagram_guid":   "{D}",
		"source_guid":    "{S}",
		"target_guid":    "{T}",
		"connector_type": "teleports_to",
	}))
	require.NoError(err)

	payload := decode(t, res)
	assert.Equal("error", payload["status"])
	assert.Zero(fake.ensureCalls)
}

// TestRoundTrip drives the real connector over the in-memory model: a
// diagram GUID returned by one tool call must be valid input to the next.
func TestRoundTrip(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	model := memmodel.New(testLogger())
	rootGUID := model.AddPackage("Model", "")
	connector := usecase.NewConnector(model, "test.eapx", "", testLogger())
	tools := mcptool.NewTools(connector, testLogger())

	res, err := tools.CreateSequenceDiagram(ctx, newRequest(map[string]any{
		"package_guid": rootGUID,
		"name":         "Login Flow",
		"elements":     []any{map[string]any{"name": "User", "type": "Actor"}},
	}))
	require.NoError(err)
	data := decodeData(t, res)
	diagramGUID, _ := data["diagram_guid"].(string)
	require.NotEmpty(diagramGUID)

	res, err = tools.CreateLifeline(ctx, newRequest(map[string]any{
		"diagram_guid": diagramGUID,
		"name":         "Session",
	}), domain.RoleBoundary)
	require.NoError(err)
	lifeline := decodeData(t, res)
	elementGUID, _ := lifeline["element_guid"].(string)
	require.NotEmpty(elementGUID)

	// The lifeline element is a boundary-stereotyped Object.
	res, err = tools.GetElementByGUID(ctx, newRequest(map[string]any{"element_guid": elementGUID}))
	require.NoError(err)
	element := decodeData(t, res)
	assert.Equal("Object", element["type"])
	assert.Equal("boundary", element["stereotype"])

	// Both placements triggered a layout pass on the same diagram.
	assert.Equal(2, model.LayoutCount(diagramGUID))

	res, err = tools.FindElements(ctx, newRequest(map[string]any{"query": "Session"}))
	require.NoError(err)
	found := decodeData(t, res)
	assert.Len(found["elements"], 1)
}
