package sampling

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/sparks/particles"
)

// Configuration errors reported by Modifier.Validate.
var (
	ErrZeroModulus      = errors.New("spawn id modulus must be positive")
	ErrMissingStream    = errors.New("no stream configured")
	ErrStreamKind       = errors.New("stream is not a float stream")
	ErrMissingAttribute = errors.New("no attribute name configured")
	ErrUnknownDomain    = errors.New("unknown domain")
)

// Modifier is the authored configuration of one modifier. It is fixed when
// the effect loads and never changes during simulation.
type Modifier struct {
	Domain Domain
	Global GlobalKind
	Owner  Owner

	// Attribute names the effect attribute read by DomainAttribute;
	// AttributeDefault is used when it cannot be resolved.
	Attribute        string
	AttributeDefault float32

	// Modulus is the ramp period of DomainSpawnID.
	Modulus uint32

	// Stream is the float stream read by DomainStream.
	Stream particles.DataType
}

// Validate rejects configurations that cannot be sampled. It runs once at
// load time so dispatch never has to fail.
func (m Modifier) Validate() error {
	switch m.Domain {
	case DomainGlobal, DomainRandom, DomainViewAngle, DomainCameraDistance, DomainSpeed, DomainAge:
		return nil
	case DomainAttribute:
		if m.Attribute == "" {
			return ErrMissingAttribute
		}
	case DomainSpawnID:
		if m.Modulus == 0 {
			return ErrZeroModulus
		}
	case DomainStream:
		if m.Stream.IsZero() {
			return ErrMissingStream
		}
		if m.Stream.Kind != particles.KindFloat {
			return fmt.Errorf("%w: %q is %v", ErrStreamKind, m.Stream.Name, m.Stream.Kind)
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnknownDomain, m.Domain)
	}
	return nil
}

// NewModifier returns m if it validates.
func NewModifier(m Modifier) (Modifier, error) {
	if err := m.Validate(); err != nil {
		return Modifier{}, fmt.Errorf("%v modifier: %w", m.Domain, err)
	}
	return m, nil
}

// sourceStream is the stream the generic passthrough reads for m.
func (m Modifier) sourceStream() particles.DataType {
	if m.Domain == DomainAge {
		return particles.NormalAge
	}
	return m.Stream
}
