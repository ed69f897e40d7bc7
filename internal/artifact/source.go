package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quotation/internal/config"
	"quotation/internal/model"
	"quotation/internal/regressor"

	"gopkg.in/yaml.v3"
)

// Source produces a live model.
type Source interface {
	Load(ctx context.Context, opts Options) (*Handle, error)
	Describe() string
}

// Store is the subset of the artifact repository a StoreSource needs.
type Store interface {
	GetArtifact(ctx context.Context, name string) (*model.ModelArtifact, error)
}

// NewSource picks the source named by cfg.Source. store may be nil unless
// the postgres source is configured.
func NewSource(cfg *config.ModelConfig, store Store) (Source, error) {
	switch cfg.Source {
	case config.SourceFile, "":
		return &FileSource{Path: cfg.ArtifactPath}, nil
	case config.SourcePostgres:
		if store == nil {
			return nil, fmt.Errorf("postgres artifact source needs a database connection")
		}
		return &StoreSource{Store: store, Name: cfg.ArtifactName}, nil
	case config.SourceRemote:
		return &RemoteSource{Client: regressor.NewRemote(cfg)}, nil
	default:
		return nil, fmt.Errorf("unknown artifact source %q", cfg.Source)
	}
}

// FileSource reads a JSON or YAML document from disk.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s *FileSource) Load(_ context.Context, opts Options) (*Handle, error) {
	doc, err := ReadDocument(s.Path)
	if err != nil {
		return nil, err
	}
	return Build(doc, opts)
}

// Describe implements Source.
func (s *FileSource) Describe() string {
	return "file " + s.Path
}

// ReadDocument decodes an artifact file; the format follows the extension.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".json":
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported artifact format %q, want .json, .yaml or .yml", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	return &doc, nil
}

// StoreSource reads a named row from the model_artifacts table.
type StoreSource struct {
	Store Store
	Name  string
}

// Load implements Source.
func (s *StoreSource) Load(ctx context.Context, opts Options) (*Handle, error) {
	rec, err := s.Store.GetArtifact(ctx, s.Name)
	if err != nil {
		return nil, err
	}
	doc, err := FromRecord(rec)
	if err != nil {
		return nil, err
	}
	return Build(doc, opts)
}

// Describe implements Source.
func (s *StoreSource) Describe() string {
	return "postgres model_artifacts/" + s.Name
}

// RemoteSource asks a model server for its schema and predicts over HTTP.
type RemoteSource struct {
	Client *regressor.Remote
}

// Load implements Source.
func (s *RemoteSource) Load(ctx context.Context, opts Options) (*Handle, error) {
	schema, err := s.Client.FetchSchema(ctx, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote schema: %w", err)
	}
	return assemble(schema.Name, KindRemote, schema.Variant, schema.FeatureColumns, s.Client, opts)
}

// Describe implements Source.
func (s *RemoteSource) Describe() string {
	return "remote " + s.Client.URL()
}
