package domain

// The reference types below are request-scoped projections of repository
// state. Nothing here is cached or persisted by the bridge; the GUIDs are the
// only durable handles, and a GUID returned from one call is always valid
// input to a later one.

// PackageRef is a projection of a container package in the model hierarchy.
type PackageRef struct {
	GUID  string `json:"guid"`
	Name  string `json:"name"`
	Notes string `json:"notes,omitempty"`
}

// DiagramRef is a projection of a created or located diagram.
type DiagramRef struct {
	GUID string      `json:"guid"`
	Name string      `json:"name"`
	Kind DiagramKind `json:"type"`
}

// ElementRef is a projection of a model-level element.
type ElementRef struct {
	GUID       string      `json:"guid"`
	Name       string      `json:"name"`
	Kind       ElementKind `json:"type"`
	Stereotype string      `json:"stereotype,omitempty"`
	Notes      string      `json:"notes,omitempty"`
}

// ConnectorRef is a projection of a relationship between two elements.
type ConnectorRef struct {
	GUID       string        `json:"guid"`
	Kind       ConnectorKind `json:"type"`
	SourceGUID string        `json:"source"`
	TargetGUID string        `json:"target"`
}
