package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SupportedFormats is the semver constraint a dataset's formatVersion must
// satisfy.
const SupportedFormats = ">= 1.0.0, < 2.0.0"

// ErrUnsupportedFormat is returned when a dataset declares a formatVersion
// outside SupportedFormats or one that is not a semantic version.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

var supportedConstraint = mustConstraint(SupportedFormats)

// Dataset is the loaded set of entities plus their value counts.
type Dataset struct {
	// FormatVersion is the declared file format version. Empty means 1.0.0.
	FormatVersion string
	// IdentityCategory overrides the configured identity category when set.
	IdentityCategory string
	// Entities are all records, leaves and internal nodes, in file order.
	Entities []*Entity
	// Counts is the per-category value table used for option enumeration.
	Counts Counts
	// Source is the path the dataset was loaded from, if any.
	Source string
}

// document is one YAML document of a dataset stream.
type document struct {
	FormatVersion    string    `yaml:"formatVersion"`
	IdentityCategory string    `yaml:"identityCategory"`
	Entities         []*Entity `yaml:"entities"`
	Counts           Counts    `yaml:"counts"`
}

// Load reads and parses a dataset file. CSV, TSV and XLSX files are read
// as metadata tables (see ParseTable); anything else as YAML or JSON.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided dataset file
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var ds *Dataset
	if IsTable(path) {
		ds, err = ParseTable(data, filepath.Ext(path))
	} else {
		ds, err = Parse(data)
	}

	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}

	ds.Source = path

	return ds, nil
}

// Parse decodes a YAML or JSON dataset. Multi-document YAML streams are
// concatenated: entities are appended and explicit count tables are summed.
func Parse(data []byte) (*Dataset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	ds := &Dataset{}

	var explicit Counts

	for n := 0; ; n++ {
		var doc document

		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("parsing document %d: %w", n+1, err)
		}

		if err := checkFormatVersion(doc.FormatVersion); err != nil {
			return nil, err
		}

		if ds.FormatVersion == "" {
			ds.FormatVersion = doc.FormatVersion
		}

		if doc.IdentityCategory != "" {
			if ds.IdentityCategory != "" && ds.IdentityCategory != doc.IdentityCategory {
				return nil, fmt.Errorf("conflicting identity categories %q and %q",
					ds.IdentityCategory, doc.IdentityCategory)
			}

			ds.IdentityCategory = doc.IdentityCategory
		}

		ds.Entities = append(ds.Entities, doc.Entities...)

		if doc.Counts != nil {
			if explicit == nil {
				explicit = make(Counts)
			}

			explicit.merge(doc.Counts)
		}
	}

	if err := validateEntities(ds.Entities); err != nil {
		return nil, err
	}

	if explicit != nil {
		ds.Counts = explicit
	} else {
		ds.Counts = ComputeCounts(ds.Entities)
	}

	return ds, nil
}

// Leaves returns the leaf entities in file order.
func (d *Dataset) Leaves() []*Entity {
	leaves := make([]*Entity, 0, len(d.Entities))

	for _, e := range d.Entities {
		if e.Leaf() {
			leaves = append(leaves, e)
		}
	}

	return leaves
}

// LeafNames returns the names of the leaf entities in file order.
func (d *Dataset) LeafNames() []string {
	leaves := d.Leaves()
	names := make([]string, len(leaves))

	for i, e := range leaves {
		names[i] = e.Name
	}

	return names
}

func validateEntities(entities []*Entity) error {
	seen := make(map[string]int, len(entities))

	for i, e := range entities {
		if e == nil {
			return fmt.Errorf("entity %d is empty", i+1)
		}

		if e.Name == "" {
			return fmt.Errorf("entity %d has no name", i+1)
		}

		if prev, dup := seen[e.Name]; dup {
			return fmt.Errorf("duplicate entity name %q (entities %d and %d)", e.Name, prev+1, i+1)
		}

		seen[e.Name] = i
	}

	return nil
}

func checkFormatVersion(v string) error {
	if v == "" {
		return nil
	}

	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedFormat, v)
	}

	if !supportedConstraint.Check(ver) {
		return fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedFormat, v, SupportedFormats)
	}

	return nil
}

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(fmt.Sprintf("invalid format constraint %q: %v", c, err))
	}

	return constraint
}
