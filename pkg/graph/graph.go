package graph

import (
	"encoding/json"

	"github.com/matzehuels/kintree/pkg/core/family"
)

// MarshalGraph encodes a family's structure as compact JSON. Nodes and edges
// follow insertion order, so equal families encode to equal bytes and the
// result can be hashed into a cache key.
func MarshalGraph(t *family.Tree) ([]byte, error) {
	return json.Marshal(FromFamily(t))
}
