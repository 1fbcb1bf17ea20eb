package family

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/kintree/pkg/io"
)

// FromDefinition builds a family by replaying a definition: every person is
// added in order, then partners, then parent/child links. Relationship
// errors are returned as-is, wrapped with the offending keys.
//
// The returned map resolves definition keys to member identifiers.
func FromDefinition(def *io.Definition, opts ...Option) (*Tree, map[string]uuid.UUID, error) {
	t := New(opts...)
	keys := make(map[string]uuid.UUID, len(def.People))
	for _, p := range def.People {
		keys[p.Key] = t.AddMember(FromRecord(p.Record())).ID
	}

	for _, p := range def.Partners {
		if err := t.AddPartner(keys[p.A], keys[p.B]); err != nil {
			return nil, nil, fmt.Errorf("partner %s/%s: %w", p.A, p.B, err)
		}
	}
	for _, c := range def.Children {
		if err := t.AddChild(keys[c.Parent], keys[c.Child]); err != nil {
			return nil, nil, fmt.Errorf("child %s of %s: %w", c.Child, c.Parent, err)
		}
	}
	return t, keys, nil
}
