package sampling

import (
	"fmt"
	"strings"
)

// Domain selects the sampling strategy of a modifier.
type Domain uint8

const (
	DomainGlobal Domain = iota
	DomainAttribute
	DomainRandom
	DomainSpawnID
	DomainViewAngle
	DomainCameraDistance
	DomainSpeed
	DomainAge
	DomainStream
)

var domainNames = [...]string{
	DomainGlobal:         "global",
	DomainAttribute:      "attribute",
	DomainRandom:         "random",
	DomainSpawnID:        "spawn_id",
	DomainViewAngle:      "view_angle",
	DomainCameraDistance: "camera_distance",
	DomainSpeed:          "speed",
	DomainAge:            "age",
	DomainStream:         "stream",
}

// String implements fmt.Stringer.
func (d Domain) String() string {
	if int(d) < len(domainNames) {
		return domainNames[d]
	}
	return fmt.Sprintf("domain(%d)", uint8(d))
}

// ParseDomain parses a domain name as written in configuration.
func ParseDomain(s string) (Domain, error) {
	for i, name := range domainNames {
		if strings.EqualFold(s, name) {
			return Domain(i), nil
		}
	}
	return 0, fmt.Errorf("unknown domain %q", s)
}

// Owner says whose data a modifier samples.
type Owner uint8

const (
	OwnerSelf Owner = iota
	OwnerParent
)

// String implements fmt.Stringer.
func (o Owner) String() string {
	switch o {
	case OwnerSelf:
		return "self"
	case OwnerParent:
		return "parent"
	}
	return fmt.Sprintf("owner(%d)", uint8(o))
}

// ParseOwner parses an owner name. The empty string means self.
func ParseOwner(s string) (Owner, error) {
	switch strings.ToLower(s) {
	case "", "self":
		return OwnerSelf, nil
	case "parent":
		return OwnerParent, nil
	}
	return 0, fmt.Errorf("unknown owner %q", s)
}

// GlobalKind refines DomainGlobal.
type GlobalKind uint8

const (
	GlobalLevelTime GlobalKind = iota
	GlobalTimeOfDay
	GlobalWindSpeed
	GlobalExposure
)

var globalNames = [...]string{
	GlobalLevelTime: "level_time",
	GlobalTimeOfDay: "time_of_day",
	GlobalWindSpeed: "wind_speed",
	GlobalExposure:  "exposure",
}

// String implements fmt.Stringer.
func (k GlobalKind) String() string {
	if int(k) < len(globalNames) {
		return globalNames[k]
	}
	return fmt.Sprintf("global(%d)", uint8(k))
}

// ParseGlobalKind parses a global kind name. The empty string means level
// time.
func ParseGlobalKind(s string) (GlobalKind, error) {
	if s == "" {
		return GlobalLevelTime, nil
	}
	for i, name := range globalNames {
		if strings.EqualFold(s, name) {
			return GlobalKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown global kind %q", s)
}

// SourceKind identifies a source resolver.
type SourceKind uint8

const (
	SourceNone SourceKind = iota // sampler does not read particle data
	SourceSelf
	SourceParentOfParticle
	SourceParentOfInstance
)

// String implements fmt.Stringer.
func (k SourceKind) String() string {
	switch k {
	case SourceNone:
		return "none"
	case SourceSelf:
		return "self"
	case SourceParentOfParticle:
		return "parent_of_particle"
	case SourceParentOfInstance:
		return "parent_of_instance"
	}
	return fmt.Sprintf("source(%d)", uint8(k))
}

// SamplerKind identifies a sampler implementation.
type SamplerKind uint8

const (
	SamplerConstant SamplerKind = iota
	SamplerAttribute
	SamplerChaos
	SamplerSpawnID
	SamplerStream
	SamplerSpeed
	SamplerViewAngle
	SamplerCameraDistance
	SamplerLevelTimeStart
	SamplerParentAge
	SamplerParticleID
)

var samplerNames = [...]string{
	SamplerConstant:       "constant",
	SamplerAttribute:      "attribute",
	SamplerChaos:          "chaos",
	SamplerSpawnID:        "spawn_id",
	SamplerStream:         "stream",
	SamplerSpeed:          "speed",
	SamplerViewAngle:      "view_angle",
	SamplerCameraDistance: "camera_distance",
	SamplerLevelTimeStart: "level_time_start",
	SamplerParentAge:      "parent_age",
	SamplerParticleID:     "particle_id",
}

// String implements fmt.Stringer.
func (k SamplerKind) String() string {
	if int(k) < len(samplerNames) {
		return samplerNames[k]
	}
	return fmt.Sprintf("sampler(%d)", uint8(k))
}
