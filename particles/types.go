// Package particles provides the particle container: named, typed
// per-particle streams stored as structure-of-arrays, with safe loads keyed
// by possibly-invalid ids.
package particles

import (
	"fmt"
	"sort"
)

// Kind is the element type of a stream.
type Kind uint8

const (
	KindFloat Kind = iota
	KindVec3
	KindQuat
	KindID
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindVec3:
		return "vec3"
	case KindQuat:
		return "quat"
	case KindID:
		return "id"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Domain describes where a piece of data is defined.
type Domain uint8

const (
	DomainParticle Domain = 1 << iota // one value per particle
	DomainInstance                    // one value per emitter instance
	DomainGlobal                      // one value for the whole level
)

// Has reports whether all bits of f are set.
func (d Domain) Has(f Domain) bool {
	return d&f == f
}

// DataType names a stream and its element kind and domain.
type DataType struct {
	Name   string
	Kind   Kind
	Domain Domain
}

// IsZero reports whether no data type was configured.
func (t DataType) IsZero() bool {
	return t.Name == ""
}

// String implements fmt.Stringer.
func (t DataType) String() string {
	return t.Name
}

// Well-known streams.
var (
	Position      = DataType{Name: "position", Kind: KindVec3, Domain: DomainParticle}
	Velocity      = DataType{Name: "velocity", Kind: KindVec3, Domain: DomainParticle}
	Orientation   = DataType{Name: "orientation", Kind: KindQuat, Domain: DomainParticle}
	NormalAge     = DataType{Name: "normal_age", Kind: KindFloat, Domain: DomainParticle}
	LifeTime      = DataType{Name: "life_time", Kind: KindFloat, Domain: DomainParticle}
	InvLifeTime   = DataType{Name: "inv_life_time", Kind: KindFloat, Domain: DomainParticle}
	Size          = DataType{Name: "size", Kind: KindFloat, Domain: DomainParticle}
	Alpha         = DataType{Name: "alpha", Kind: KindFloat, Domain: DomainParticle}
	ParentID      = DataType{Name: "parent_id", Kind: KindID, Domain: DomainParticle}
	InstanceIndex = DataType{Name: "instance_index", Kind: KindID, Domain: DomainParticle}

	// InstanceSpawnScale is per-instance data; its ids index instances.
	InstanceSpawnScale = DataType{Name: "instance_spawn_scale", Kind: KindFloat, Domain: DomainInstance}
)

var registry = map[string]DataType{}

func init() {
	for _, t := range []DataType{
		Position, Velocity, Orientation, NormalAge, LifeTime, InvLifeTime,
		Size, Alpha, ParentID, InstanceIndex, InstanceSpawnScale,
	} {
		Register(t)
	}
}

// Register makes a data type available to Lookup. Registering a name twice
// with a different kind or domain panics.
func Register(t DataType) {
	if prev, ok := registry[t.Name]; ok && prev != t {
		panic(fmt.Sprintf("particles: data type %q registered twice with different layout", t.Name))
	}
	registry[t.Name] = t
}

// Lookup finds a registered data type by name.
func Lookup(name string) (DataType, bool) {
	t, ok := registry[name]
	return t, ok
}

// Names returns the registered data type names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
