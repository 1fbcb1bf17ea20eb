package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a layout of a family snapshot.
	LayoutKey(familyHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered output of a source document.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a layout. Style and
// Detailed matter because nodelink layouts embed a styled DOT graph.
type LayoutKeyOpts struct {
	VizType     string  `json:"viz_type"`
	Style       string  `json:"style,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"`
	NodeWidth   float64 `json:"node_width,omitempty"`
	NodeHeight  float64 `json:"node_height,omitempty"`
	VerticalGap float64 `json:"vertical_gap,omitempty"`
	SiblingGap  float64 `json:"sibling_gap,omitempty"`
	CoupleGap   float64 `json:"couple_gap,omitempty"`
	MapWidth    float64 `json:"map_width,omitempty"`
	MapHeight   float64 `json:"map_height,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string        `json:"format"`
	Style    string        `json:"style,omitempty"`
	Title    string        `json:"title,omitempty"`
	Detailed bool          `json:"detailed,omitempty"`
	From     string        `json:"from,omitempty"`
	Scale    float64       `json:"scale,omitempty"`
	Layout   LayoutKeyOpts `json:"layout"`
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(familyHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", familyHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, sourceHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data as 64 hex characters.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
