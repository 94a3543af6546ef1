package domain

import "fmt"

// DiagramKind identifies the kind of diagram created inside the repository.
// The values are the literal strings the automation object expects.
type DiagramKind string

const (
	DiagramSequence DiagramKind = "Sequence"
	DiagramClass    DiagramKind = "Class"
	DiagramUseCase  DiagramKind = "UseCase"
	DiagramActivity DiagramKind = "Activity"
)

// Valid reports whether the kind is one of the closed set accepted by the
// automation object. Arbitrary strings are rejected before any external call.
func (k DiagramKind) Valid() bool {
	switch k {
	case DiagramSequence, DiagramClass, DiagramUseCase, DiagramActivity:
		return true
	}
	return false
}

// ParseDiagramKind resolves a caller-supplied kind string, accepting both the
// automation object's values and the lowercase aliases the original tool
// surface used (e.g. "use_case").
func ParseDiagramKind(s string) (DiagramKind, error) {
	switch s {
	case "Sequence", "sequence":
		return DiagramSequence, nil
	case "Class", "class":
		return DiagramClass, nil
	case "UseCase", "use_case", "usecase":
		return DiagramUseCase, nil
	case "Activity", "activity":
		return DiagramActivity, nil
	}
	return "", fmt.Errorf("unknown diagram kind %q", s)
}

// ElementKind identifies the kind of a model-level element.
type ElementKind string

const (
	ElementClass    ElementKind = "Class"
	ElementActor    ElementKind = "Actor"
	ElementUseCase  ElementKind = "UseCase"
	ElementActivity ElementKind = "Activity"
	ElementDecision ElementKind = "Decision"
	// ElementObject is the generic element kind. Lifelines on sequence
	// diagrams are Object elements carrying a role stereotype.
	ElementObject ElementKind = "Object"
)

func (k ElementKind) Valid() bool {
	switch k {
	case ElementClass, ElementActor, ElementUseCase, ElementActivity, ElementDecision, ElementObject:
		return true
	}
	return false
}

// ParseElementKind resolves a caller-supplied element kind string.
func ParseElementKind(s string) (ElementKind, error) {
	switch s {
	case "Class", "class":
		return ElementClass, nil
	case "Actor", "actor":
		return ElementActor, nil
	case "UseCase", "use_case", "usecase":
		return ElementUseCase, nil
	case "Activity", "activity":
		return ElementActivity, nil
	case "Decision", "decision":
		return ElementDecision, nil
	case "Object", "object":
		return ElementObject, nil
	}
	return "", fmt.Errorf("unknown element kind %q", s)
}

// ConnectorKind identifies the kind of relationship between two elements.
type ConnectorKind string

const (
	ConnectorAssociation    ConnectorKind = "Association"
	ConnectorGeneralization ConnectorKind = "Generalization"
	ConnectorDependency     ConnectorKind = "Dependency"
	// ConnectorSequence is a message on a sequence diagram.
	ConnectorSequence ConnectorKind = "Sequence"
)

func (k ConnectorKind) Valid() bool {
	switch k {
	case ConnectorAssociation, ConnectorGeneralization, ConnectorDependency, ConnectorSequence:
		return true
	}
	return false
}

// ParseConnectorKind resolves a caller-supplied connector kind string.
func ParseConnectorKind(s string) (ConnectorKind, error) {
	switch s {
	case "Association", "association":
		return ConnectorAssociation, nil
	case "Generalization", "generalization":
		return ConnectorGeneralization, nil
	case "Dependency", "dependency":
		return ConnectorDependency, nil
	case "Sequence", "message":
		return ConnectorSequence, nil
	}
	return "", fmt.Errorf("unknown connector kind %q", s)
}

// LifelineRole is the stereotype distinguishing lifeline flavors on a
// sequence diagram. Roles are not element kinds of their own: every lifeline
// is an Object element stereotyped with its role.
type LifelineRole string

const (
	RoleActor    LifelineRole = "actor"
	RoleBoundary LifelineRole = "boundary"
	RoleControl  LifelineRole = "control"
	RoleEntity   LifelineRole = "entity"
	RoleDatabase LifelineRole = "database"
	RoleUseCase  LifelineRole = "use_case"
)

// LifelineRoles lists every role, in the order the tools are registered.
var LifelineRoles = []LifelineRole{
	RoleActor, RoleBoundary, RoleControl, RoleEntity, RoleDatabase, RoleUseCase,
}

func (r LifelineRole) Valid() bool {
	for _, known := range LifelineRoles {
		if r == known {
			return true
		}
	}
	return false
}
