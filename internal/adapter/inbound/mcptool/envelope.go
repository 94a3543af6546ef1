package mcptool

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sparxtools/eabridge/internal/domain"
)

// The response envelope is the tool surface's whole contract: every call
// returns either {"status":"success","data":{...}} or
// {"status":"error","message":...,"detail"?:...} as the text content of the
// MCP result. Handlers never return a Go error to the MCP server.

func successResult(data map[string]any) *mcp.CallToolResult {
	payload := map[string]any{
		"status": "success",
		"data":   data,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return errorResult(err)
	}
	return mcp.NewToolResultText(string(b))
}

func errorResult(err error) *mcp.CallToolResult {
	e := domain.AsError(err)
	payload := map[string]any{
		"status":  "error",
		"message": e.Message,
	}
	if e.Detail != "" {
		payload["detail"] = e.Detail
	}
	b, merr := json.Marshal(payload)
	if merr != nil {
		// Message contained nothing marshallable; fall back to plain text.
		return mcp.NewToolResultText(`{"status":"error","message":"internal error"}`)
	}
	return mcp.NewToolResultText(string(b))
}

func missingField(field string) *mcp.CallToolResult {
	return errorResult(domain.Errf("missing required field '%s'", field))
}

// --- argument helpers ---

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// requireString returns the field value, or a validation envelope when the
// field is absent or empty. Validation runs before any session work.
func requireString(args map[string]any, key string) (string, *mcp.CallToolResult) {
	s := stringArg(args, key)
	if s == "" {
		return "", missingField(key)
	}
	return s, nil
}

func stringList(args map[string]any, key string) []string {
	raw, _ := args[key].([]any)
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func objectList(args map[string]any, key string) []map[string]any {
	raw, _ := args[key].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func indexedField(list string, i int, field string) string {
	return fmt.Sprintf("%s[%d].%s", list, i, field)
}
