// Package mcptool exposes the connector's verbs as MCP tools: it validates
// tool arguments, ensures a live session, runs the per-call composition, and
// wraps every outcome in the uniform status envelope. No error raised below
// ever crosses the tool boundary as a protocol-level failure.
package mcptool

import (
	"context"

	"github.com/sparxtools/eabridge/internal/domain"
)

// Service is the connector surface the tool handlers drive.
// *usecase.Connector implements it; tests substitute a recorder.
type Service interface {
	// EnsureSession lazily establishes the shared session, honoring an
	// optional per-call model file override.
	EnsureSession(ctx context.Context, pathOverride string) error

	GetPackage(ctx context.Context, packageGUID string) (domain.PackageRef, error)
	CreateDiagram(ctx context.Context, packageGUID, name string, kind domain.DiagramKind) (domain.DiagramRef, error)
	AddElementToDiagram(ctx context.Context, diagramGUID, name string, kind domain.ElementKind, stereotype string) (domain.ElementRef, error)
	AutoLayoutDiagram(ctx context.Context, diagramGUID, style string) error
	ConnectElements(ctx context.Context, diagramGUID, sourceGUID, targetGUID string, kind domain.ConnectorKind, name string) (domain.ConnectorRef, error)
	GetElement(ctx context.Context, elementGUID string) (domain.ElementRef, error)
	FindElements(ctx context.Context, query string) ([]domain.ElementRef, error)
}
