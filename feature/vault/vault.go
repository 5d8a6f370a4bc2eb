package vault

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrTargetExists is returned by Rename when the destination document
// already exists.
var ErrTargetExists = errors.New("target document already exists")

// Field is one frontmatter key/value pair. Fields are applied in slice
// order so new keys land in a stable position.
type Field struct {
	Key   string
	Value any
}

// Vault is a directory of markdown documents with YAML frontmatter.
type Vault struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a vault rooted at cfg.Path.
func New(cfg Config, logger *zap.Logger) *Vault {
	return &Vault{cfg: cfg, logger: logger}
}

// Root returns the vault root directory.
func (v *Vault) Root() string {
	return v.cfg.Path
}

// AssetDir returns the vault-relative asset directory.
func (v *Vault) AssetDir() string {
	return v.cfg.AssetDir
}

// Documents lists every markdown document under the vault root, sorted.
// Hidden directories are skipped.
func (v *Vault) Documents() ([]string, error) {
	var docs []string
	err := filepath.WalkDir(v.cfg.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != v.cfg.Path {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	sort.Strings(docs)
	return docs, nil
}

// ReadFields parses the document's frontmatter into a map. A document
// without frontmatter yields an empty map.
func (v *Vault) ReadFields(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	front, _, ok := splitFrontmatter(content)
	if !ok {
		return map[string]any{}, nil
	}

	fields := map[string]any{}
	if err := yaml.Unmarshal(front, &fields); err != nil {
		return nil, fmt.Errorf("parsing frontmatter of %s: %w", filepath.Base(path), err)
	}
	return fields, nil
}

// ApplyFields updates the document's frontmatter in place. Existing
// keys keep their position; new keys are appended in the order given.
// The document body is left untouched.
func (v *Vault) ApplyFields(path string, fields []Field) error {
	if len(fields) == 0 {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	front, body, ok := splitFrontmatter(content)

	var doc yaml.Node
	if ok && len(bytes.TrimSpace(front)) > 0 {
		if err := yaml.Unmarshal(front, &doc); err != nil {
			return fmt.Errorf("parsing frontmatter of %s: %w", filepath.Base(path), err)
		}
	}
	if !ok {
		body = content
	}
	mapping := ensureMapping(&doc)

	for _, f := range fields {
		var value yaml.Node
		if err := value.Encode(f.Value); err != nil {
			return fmt.Errorf("encoding field %q: %w", f.Key, err)
		}
		setMappingKey(mapping, f.Key, &value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding frontmatter: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("---\n")
	out.Write(buf.Bytes())
	out.WriteString("---\n")
	out.Write(body)

	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// Rename moves a document to a new basename within its directory and
// returns the new path. Renaming onto an existing document is refused.
func (v *Vault) Rename(path, newName string) (string, error) {
	target := filepath.Join(filepath.Dir(path), newName)
	if target == path {
		return path, nil
	}

	if _, err := os.Stat(target); err == nil {
		return "", fmt.Errorf("renaming %s to %s: %w", filepath.Base(path), newName, ErrTargetExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking rename target: %w", err)
	}

	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("renaming document: %w", err)
	}
	v.logger.Info("Renamed document",
		zap.String("from", filepath.Base(path)), zap.String("to", newName))
	return target, nil
}

// Basename returns the document name without directory or extension.
func Basename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// splitFrontmatter splits a document into its frontmatter block and
// body. ok is false when the document carries no frontmatter.
func splitFrontmatter(content []byte) (front, body []byte, ok bool) {
	const marker = "---"
	if !bytes.HasPrefix(content, []byte(marker+"\n")) && !bytes.HasPrefix(content, []byte(marker+"\r\n")) {
		return nil, content, false
	}

	rest := content[len(marker):]
	// Skip the newline after the opening marker.
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	rest = bytes.TrimPrefix(rest, []byte("\n"))

	idx := bytes.Index(rest, []byte("\n"+marker))
	if idx < 0 {
		return nil, content, false
	}
	front = rest[:idx+1]

	after := rest[idx+1+len(marker):]
	// The closing marker line may end with a newline or the file.
	after = bytes.TrimPrefix(after, []byte("\r"))
	after = bytes.TrimPrefix(after, []byte("\n"))
	return front, after, true
}

// ensureMapping returns the document's root mapping node, creating an
// empty one when the document is empty.
func ensureMapping(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
		return doc.Content[0]
	}
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	doc.Kind = yaml.DocumentNode
	doc.Content = []*yaml.Node{mapping}
	return mapping
}

// setMappingKey replaces the value of key in the mapping node, or
// appends the pair when the key is absent.
func setMappingKey(mapping *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = value
			return
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}
