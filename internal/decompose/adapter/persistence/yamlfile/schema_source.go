package yamlfile

import (
	"bytes"
	"context"
	"io"
	"os"

	"boundarycut/internal/decompose/domain/model"
	"boundarycut/internal/shared/errors"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SchemaSource reads a schema description from a YAML file. Decoding is
// strict: unknown keys fail the run so a typo in the description cannot
// silently drop an entity or a reference.
type SchemaSource struct {
	path string
	log  *zap.Logger
}

// NewSchemaSource creates a schema source for the given file path.
func NewSchemaSource(path string, log *zap.Logger) *SchemaSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &SchemaSource{path: path, log: log}
}

// Load reads and decodes the schema description file.
func (s *SchemaSource) Load(ctx context.Context) (*model.SchemaDescription, error) {
	s.log.Info("Loading schema description",
		zap.String("path", s.path))

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.log.Error("Failed to read schema description",
			zap.String("path", s.path),
			zap.Error(err))
		return nil, errors.NewInfrastructureError("failed to read schema description file").
			WithComponent("yamlfile.SchemaSource").
			WithDetail("path", s.path).
			WithCause(err)
	}

	description := &model.SchemaDescription{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(description); err != nil && err != io.EOF {
		s.log.Error("Failed to decode schema description",
			zap.String("path", s.path),
			zap.Error(err))
		return nil, errors.NewInvalidSchemaError("", "schema description file is not valid YAML: "+err.Error()).
			WithComponent("yamlfile.SchemaSource").
			WithDetail("path", s.path).
			WithCause(err)
	}

	s.log.Info("Schema description loaded",
		zap.String("path", s.path),
		zap.Int("entities", len(description.Entities)),
		zap.Int("cochangePairs", len(description.CoChange)))
	return description, nil
}
