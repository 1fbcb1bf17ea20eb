package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/kintree/pkg/core/family"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/io"
	"github.com/matzehuels/kintree/pkg/observability"
)

// Family is a loaded family plus the definition keys it was built from.
// Keys is empty for families loaded from record lists.
type Family struct {
	*family.Tree
	Keys map[string]uuid.UUID
}

// Resolve finds a person by definition key, then by identifier, national id
// or full name (see [family.Tree.Lookup]).
func (f *Family) Resolve(query string) (*family.Node, bool) {
	if id, ok := f.Keys[query]; ok {
		return f.Member(id)
	}
	return f.Lookup(query)
}

// MustResolve is [Family.Resolve] returning an
// [errors.ErrCodeMemberNotFound] error instead of false.
func (f *Family) MustResolve(query string) (*family.Node, error) {
	n, ok := f.Resolve(query)
	if !ok {
		return nil, errors.New(errors.ErrCodeMemberNotFound, "no person matches %q", query)
	}
	return n, nil
}

// KeyOf returns the definition key of id, if any.
func (f *Family) KeyOf(id uuid.UUID) (string, bool) {
	for k, v := range f.Keys {
		if v == id {
			return k, true
		}
	}
	return "", false
}

// IsDefinition reports whether path names a TOML family definition rather
// than a record list.
func IsDefinition(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a family from path. TOML files are replayed as family
// definitions; anything else is imported as a record list (see
// [io.FormatFromPath]) and has no relationships.
func Load(path string) (*Family, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(data, path)
}

// LoadBytes is [Load] for source bytes already in memory. The name only
// selects the decoder.
func LoadBytes(data []byte, name string) (*Family, error) {
	if IsDefinition(name) {
		def, err := io.ReadDefinition(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		t, keys, err := family.FromDefinition(def, family.WithListener(reportMutation))
		if err != nil {
			observability.Model().OnRejected(context.Background(), string(errors.GetCode(err)))
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return &Family{Tree: t, Keys: keys}, nil
	}

	recs, err := io.ReadRecords(bytes.NewReader(data), io.FormatFromPath(name))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return FromRecords(recs), nil
}

// FromRecords builds a family holding one member per record.
func FromRecords(recs []io.Record) *Family {
	t := family.New(family.WithListener(reportMutation))
	t.Load(recs)
	return &Family{Tree: t, Keys: map[string]uuid.UUID{}}
}

// reportMutation forwards family events to the registered model hooks.
func reportMutation(e family.Event) {
	observability.Model().OnMutation(context.Background(), e.Kind.String(), len(e.IDs))
}

func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
