package memmodel_test

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparxtools/eabridge/internal/adapter/outbound/memmodel"
)

func newTestModel(t *testing.T) *memmodel.Model {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return memmodel.New(logger)
}

var guidShape = regexp.MustCompile(`^\{[0-9A-F-]{36}\}$`)

func TestModel_GUIDShape(t *testing.T) {
	model := newTestModel(t)
	guid := model.AddPackage("Model", "")
	assert.Regexp(t, guidShape, guid)
}

func TestModel_CommitVisibility(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	model := newTestModel(t)
	rootGUID := model.AddPackage("Model", "")

	repo, err := model.Open(context.Background())
	require.NoError(err)

	pkg, err := repo.PackageByGUID(rootGUID)
	require.NoError(err)
	require.NotNil(pkg)

	diagram, err := pkg.Diagrams().AddNew("Seq", "Sequence")
	require.NoError(err)

	// Not committed yet: invisible to repository lookups, exactly like the
	// real automation object.
	got, err := repo.DiagramByGUID(diagram.GUID())
	require.NoError(err)
	assert.Nil(got)

	require.NoError(diagram.Update())

	got, err = repo.DiagramByGUID(diagram.GUID())
	require.NoError(err)
	require.NotNil(got)
	assert.Equal("Seq", got.Name())
	assert.Equal("Sequence", got.Kind())
	assert.Equal(rootGUID, pkg.GUID())
}

func TestModel_ElementLifecycle(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	model := newTestModel(t)
	rootGUID := model.AddPackage("Model", "")

	repo, err := model.Open(context.Background())
	require.NoError(err)
	pkg, err := repo.PackageByGUID(rootGUID)
	require.NoError(err)

	element, err := pkg.Elements().AddNew("User", "Object")
	require.NoError(err)
	require.NoError(element.SetStereotype("actor"))
	require.NoError(element.Update())

	got, err := repo.ElementByGUID(element.GUID())
	require.NoError(err)
	require.NotNil(got)
	assert.Equal("actor", got.Stereotype())

	matches, err := repo.ElementSet("use")
	require.NoError(err)
	require.Len(matches, 1)
	assert.Equal("User", matches[0].Name())
}

func TestModel_LinkEndpointsRequired(t *testing.T) {
	require := require.New(t)
	model := newTestModel(t)
	rootGUID := model.AddPackage("Model", "")

	repo, err := model.Open(context.Background())
	require.NoError(err)
	pkg, err := repo.PackageByGUID(rootGUID)
	require.NoError(err)
	diagram, err := pkg.Diagrams().AddNew("Classes", "Class")
	require.NoError(err)
	require.NoError(diagram.Update())

	link, err := diagram.Links().AddNew("", "Association")
	require.NoError(err)
	// Committing a link without endpoints must fail.
	require.Error(link.Update())

	require.NoError(link.SetClientID(1))
	require.NoError(link.SetSupplierID(2))
	require.NoError(link.Update())
}

func TestModel_LayoutAndReloadCounters(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	model := newTestModel(t)
	rootGUID := model.AddPackage("Model", "")

	repo, err := model.Open(context.Background())
	require.NoError(err)
	pkg, err := repo.PackageByGUID(rootGUID)
	require.NoError(err)
	diagram, err := pkg.Diagrams().AddNew("Seq", "Sequence")
	require.NoError(err)
	require.NoError(diagram.Update())

	require.NoError(repo.LayoutDiagram(diagram.GUID(), ""))
	require.NoError(repo.ReloadDiagram(diagram.ID()))
	assert.Equal(1, model.LayoutCount(diagram.GUID()))
	assert.Equal(1, model.ReloadCount(diagram.GUID()))

	require.Error(repo.LayoutDiagram("{MISSING}", ""))
	require.Error(repo.ReloadDiagram(9999))
}
