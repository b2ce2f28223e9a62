package poetry

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/monorhyme/internal/domain/entities"
	"github.com/rios0rios0/monorhyme/internal/infrastructure/repositories/tomldoc"
)

const defaultFileMode = 0o644

//nolint:gochecknoglobals // fixed Poetry table paths
var (
	mainSection = []string{"tool", "poetry", "dependencies"}
	devSection  = []string{"tool", "poetry", "dev-dependencies"}
	groupsTable = []string{"tool", "poetry", "group"}
)

// section is one dependency table of a manifest.
type section struct {
	path        []string
	group       string
	development bool
}

// entry remembers where a dependency is declared so a rewrite can target the
// right key: the dependency key itself for a bare string, or its nested
// `version` key for a table.
type entry struct {
	index   int
	section section
	bare    bool
}

// dependencySpec is the on-disk shape of a table dependency entry.
type dependencySpec struct {
	Version          string   `toml:"version"`
	Git              string   `toml:"git"`
	Branch           string   `toml:"branch"`
	Rev              string   `toml:"rev"`
	Tag              string   `toml:"tag"`
	Path             string   `toml:"path"`
	URL              string   `toml:"url"`
	Python           string   `toml:"python"`
	Markers          string   `toml:"markers"`
	AllowPrereleases bool     `toml:"allow-prereleases"`
	Extras           []string `toml:"extras"`
	Optional         bool     `toml:"optional"`
}

// Manifest is a Poetry `pyproject.toml` whose dependency constraints can be
// rewritten without touching anything else in the file.
type Manifest struct {
	path         string
	doc          *tomldoc.Document
	dependencies []entities.Dependency
	entries      map[string]entry
	persisted    []byte // content of the file as last loaded or written
	dirty        bool
}

// Load reads the manifest at path. When path does not already name a file
// called filename, filename is appended to it.
func Load(path, filename string) (*Manifest, error) {
	if filepath.Base(path) != filename {
		path = filepath.Join(path, filename)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}

	doc, err := tomldoc.Load(absPath)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", entities.ErrNotFound, absPath)
		case errors.Is(err, tomldoc.ErrSyntax):
			return nil, fmt.Errorf("%w: %w", entities.ErrParse, err)
		default:
			return nil, err
		}
	}

	logger.Debugf("Loaded manifest: %s", absPath)
	return NewManifest(absPath, doc)
}

// NewManifest builds the dependency view of an already parsed document.
func NewManifest(path string, doc *tomldoc.Document) (*Manifest, error) {
	manifest := &Manifest{
		path:      path,
		doc:       doc,
		entries:   map[string]entry{},
		persisted: doc.Bytes(),
	}

	sections, err := manifest.sections()
	if err != nil {
		return nil, err
	}
	for _, sec := range sections {
		for _, name := range doc.Keys(sec.path...) {
			if err = manifest.addDependency(sec, name); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	return manifest, nil
}

func (it *Manifest) Path() string {
	return it.path
}

// Dependencies returns the dependencies of the main section, then the legacy
// dev section, then every group in document order.
func (it *Manifest) Dependencies() []entities.Dependency {
	return slices.Clone(it.dependencies)
}

func (it *Manifest) Get(name string) (*entities.Dependency, bool) {
	found, ok := it.entries[name]
	if !ok {
		return nil, false
	}
	dependency := it.dependencies[found.index]
	return &dependency, true
}

// SetVersion rewrites the version constraint of name and returns the previous
// one. changed is false when the constraint already equals version, in which
// case the document is left untouched.
func (it *Manifest) SetVersion(name, version string) (string, bool, error) {
	found, ok := it.entries[name]
	if !ok {
		return "", false, fmt.Errorf("%w: %q in %s", entities.ErrUnmanagedDependency, name, it.path)
	}

	dependency := &it.dependencies[found.index]
	if !dependency.Constrained() {
		return "", false, fmt.Errorf(
			"%w: %q is pinned by %s in %s", entities.ErrNotVersionConstrained, name, dependency.SourceString(), it.path,
		)
	}
	previous := dependency.Version
	if previous == version {
		return previous, false, nil
	}

	keyPath := append(slices.Clone(found.section.path), name)
	if !found.bare {
		keyPath = append(keyPath, "version")
	}
	if err := it.doc.SetString(keyPath, version); err != nil {
		return "", false, fmt.Errorf("failed to rewrite %q in %s: %w", name, it.path, err)
	}

	dependency.Version = version
	it.dirty = !bytes.Equal(it.doc.Bytes(), it.persisted)
	return previous, true, nil
}

// Dirty reports whether the document differs from the file on disk. Setting
// a constraint back to its persisted value clears it.
func (it *Manifest) Dirty() bool {
	return it.dirty
}

// Write overwrites the manifest file with the edited document, keeping the
// file permissions.
func (it *Manifest) Write() error {
	mode := fs.FileMode(defaultFileMode)
	if info, err := os.Stat(it.path); err == nil {
		mode = info.Mode().Perm()
	}

	content := it.doc.Bytes()
	if err := os.WriteFile(it.path, content, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", it.path, err)
	}

	logger.Debugf("Wrote manifest: %s", it.path)
	it.persisted = content
	it.dirty = false
	return nil
}

// Bytes returns the current content of the manifest.
func (it *Manifest) Bytes() []byte {
	return it.doc.Bytes()
}

func (it *Manifest) sections() ([]section, error) {
	if !isTable(it.doc, mainSection) {
		return nil, fmt.Errorf(
			"%w: %s has no [%s] table", entities.ErrMalformedManifest, it.path, strings.Join(mainSection, "."),
		)
	}
	sections := []section{{path: mainSection, group: entities.GroupMain}}

	if it.doc.Has(devSection...) {
		if !isTable(it.doc, devSection) {
			return nil, fmt.Errorf(
				"%w: %s: [%s] is not a table", entities.ErrMalformedManifest, it.path, strings.Join(devSection, "."),
			)
		}
		sections = append(sections, section{path: devSection, group: entities.GroupDev, development: true})
	}

	for _, group := range it.doc.Keys(groupsTable...) {
		path := append(slices.Clone(groupsTable), group, "dependencies")
		if isTable(it.doc, path) {
			sections = append(sections, section{path: path, group: group, development: true})
		}
	}
	return sections, nil
}

func (it *Manifest) addDependency(sec section, name string) error {
	if previous, exists := it.entries[name]; exists {
		return fmt.Errorf(
			"%w: %q is declared in both the %s and %s groups",
			entities.ErrMalformedManifest, name, previous.section.group, sec.group,
		)
	}

	keyPath := append(slices.Clone(sec.path), name)
	node, _ := it.doc.Get(keyPath...)

	dependency := entities.Dependency{
		Name:        name,
		Development: sec.development,
		Group:       sec.group,
	}
	bare := false

	switch node.Kind() {
	case tomldoc.KindString:
		value, _ := it.doc.Value(keyPath...)
		dependency.Version, _ = value.(string)
		bare = true
	case tomldoc.KindTable, tomldoc.KindInlineTable:
		var spec dependencySpec
		undecoded, err := it.doc.DecodeTable(keyPath, &spec)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", entities.ErrMalformedManifest, name, err)
		}
		if len(undecoded) > 0 {
			return fmt.Errorf("%w: %q declares %s", entities.ErrUnknownField, name, strings.Join(undecoded, ", "))
		}
		if err = applySpec(&dependency, spec); err != nil {
			return err
		}
	case tomldoc.KindArray:
		return fmt.Errorf("%w: %q uses multiple constraints, which cannot be rewritten", entities.ErrMalformedManifest, name)
	default:
		return fmt.Errorf("%w: %q is a %s, expected a string or a table", entities.ErrMalformedManifest, name, node.Kind())
	}

	it.entries[name] = entry{index: len(it.dependencies), section: sec, bare: bare}
	it.dependencies = append(it.dependencies, dependency)
	return nil
}

// applySpec copies a decoded table entry onto dependency, rejecting entries
// that name more than one source or more than one git reference.
func applySpec(dependency *entities.Dependency, spec dependencySpec) error {
	dependency.Version = spec.Version
	dependency.Python = spec.Python
	dependency.Markers = spec.Markers
	dependency.AllowPrereleases = spec.AllowPrereleases
	dependency.Extras = spec.Extras
	dependency.Optional = spec.Optional

	sources := []entities.Source{
		{Kind: entities.SourceGit, Location: spec.Git},
		{Kind: entities.SourcePath, Location: spec.Path},
		{Kind: entities.SourceURL, Location: spec.URL},
	}
	for _, source := range sources {
		if source.Location == "" {
			continue
		}
		if dependency.Source.Kind != entities.SourceNone {
			return fmt.Errorf(
				"%w: %q declares both %s and %s",
				entities.ErrMalformedManifest, dependency.Name, dependency.Source.Kind, source.Kind,
			)
		}
		dependency.Source = source
	}

	refs := []entities.GitRef{
		{Kind: entities.RefBranch, Value: spec.Branch},
		{Kind: entities.RefRev, Value: spec.Rev},
		{Kind: entities.RefTag, Value: spec.Tag},
	}
	for _, ref := range refs {
		if ref.Value == "" {
			continue
		}
		if dependency.GitRef.Kind != entities.RefNone {
			return fmt.Errorf(
				"%w: %q declares both %s and %s",
				entities.ErrMalformedManifest, dependency.Name, dependency.GitRef.Kind, ref.Kind,
			)
		}
		dependency.GitRef = ref
	}
	return nil
}

func isTable(doc *tomldoc.Document, path []string) bool {
	node, ok := doc.Get(path...)
	if !ok {
		return false
	}
	return node.Kind() == tomldoc.KindTable || node.Kind() == tomldoc.KindInlineTable
}
