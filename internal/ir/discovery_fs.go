package ir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

var (
	schemaExtensions = map[string]SourceKind{
		".graphql":  SourceKindSDL,
		".graphqls": SourceKindSDL,
		".gql":      SourceKindSDL,
		".json":     SourceKindIntrospection,
	}
	documentExtensions = map[string]SourceKind{
		".graphql": SourceKindDocument,
		".gql":     SourceKindDocument,
	}
)

type fileEntry struct {
	path string
	kind SourceKind
}

// FileSystemDiscovery implements Discovery for schema and document files on disk
type FileSystemDiscovery struct {
	schemaFiles   []fileEntry
	documentFiles []fileEntry
}

// NewFileSystemDiscovery collects the files under the given paths. A path may
// name a single file or a directory, which is walked in lexical order.
func NewFileSystemDiscovery(ctx context.Context, schemaPaths, documentPaths []string) (*FileSystemDiscovery, error) {
	if len(schemaPaths) == 0 {
		return nil, fmt.Errorf("at least one schema path is required")
	}
	d := &FileSystemDiscovery{}
	var err error
	if d.schemaFiles, err = collectFiles(schemaPaths, schemaExtensions); err != nil {
		return nil, err
	}
	if d.documentFiles, err = collectFiles(documentPaths, documentExtensions); err != nil {
		return nil, err
	}
	if len(d.schemaFiles) == 0 {
		return nil, fmt.Errorf("no schema files found in %v", schemaPaths)
	}
	return d, nil
}

func collectFiles(paths []string, exts map[string]SourceKind) ([]fileEntry, error) {
	var files []fileEntry
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", root, err)
		}
		if !info.IsDir() {
			kind, ok := exts[filepath.Ext(root)]
			if !ok {
				return nil, fmt.Errorf("unsupported file extension %q", root)
			}
			files = append(files, fileEntry{path: root, kind: kind})
			continue
		}
		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if kind, ok := exts[filepath.Ext(d.Name())]; ok {
				files = append(files, fileEntry{path: path, kind: kind})
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %q: %w", root, err)
		}
	}
	return files, nil
}

// ListSchemaSources reads the discovered schema files
func (d *FileSystemDiscovery) ListSchemaSources(ctx context.Context) ([]*Source, error) {
	return readFiles(d.schemaFiles)
}

// ListDocumentSources reads the discovered document files
func (d *FileSystemDiscovery) ListDocumentSources(ctx context.Context) ([]*Source, error) {
	return readFiles(d.documentFiles)
}

func readFiles(files []fileEntry) ([]*Source, error) {
	sources := make([]*Source, 0, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", f.path, err)
		}
		sources = append(sources, &Source{Name: f.path, Kind: f.kind, Content: string(content)})
	}
	return sources, nil
}

// Load is a convenience function that creates a FileSystemDiscovery and builds the project
func Load(ctx context.Context, schemaPaths, documentPaths []string, cfg Config) (*Project, error) {
	discovery, err := NewFileSystemDiscovery(ctx, schemaPaths, documentPaths)
	if err != nil {
		return nil, err
	}
	return Build(ctx, discovery, cfg)
}
