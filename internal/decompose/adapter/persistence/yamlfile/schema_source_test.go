package yamlfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"boundarycut/internal/decompose/domain/model"
	"boundarycut/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSchemaFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSchemaSource_Load(t *testing.T) {
	path := writeSchemaFile(t, `
entities:
  - name: orders
    fields:
      - name: total
        type: number
      - name: userId
        type: string
        references: users
        cardinality: one
      - name: customer
        fields:
          - name: name
            type: string
  - name: users
    fields:
      - name: email
        type: string
cochange:
  - a: orders
    b: users
    count: 12
`)

	description, err := NewSchemaSource(path, nil).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, description.Entities, 2)
	orders := description.Entities[0]
	assert.Equal(t, "orders", orders.Name)
	require.Len(t, orders.Fields, 3)
	assert.Equal(t, "users", orders.Fields[1].References)
	assert.Equal(t, "one", orders.Fields[1].Cardinality)
	assert.True(t, orders.Fields[2].IsEmbedded())

	require.Len(t, description.CoChange, 1)
	assert.Equal(t, model.CoChangePair{A: "orders", B: "users", Count: 12}, description.CoChange[0])
}

func TestSchemaSource_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	_, err := NewSchemaSource(path, nil).Load(context.Background())
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeInfrastructure, appErr.Type)
	assert.Equal(t, path, appErr.Details["path"])
}

func TestSchemaSource_UnknownKeysRejected(t *testing.T) {
	path := writeSchemaFile(t, `
entities:
  - name: orders
    colums:
      - name: total
`)

	_, err := NewSchemaSource(path, nil).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsInvalidSchema(err))
}

func TestSchemaSource_MalformedYAMLRejected(t *testing.T) {
	path := writeSchemaFile(t, "entities: [unclosed")

	_, err := NewSchemaSource(path, nil).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsInvalidSchema(err))
}

func TestSchemaSource_EmptyFileYieldsEmptyDescription(t *testing.T) {
	path := writeSchemaFile(t, "")

	description, err := NewSchemaSource(path, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, description.Entities)
	assert.Empty(t, description.CoChange)
}
