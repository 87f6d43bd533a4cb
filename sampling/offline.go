package sampling

import "github.com/pthm-cable/sparks/lanes"

// SampleOffline fills samples without a live runtime. Only age-domain or
// self-owned modifiers are supported, and they map sample i to i/(n-1).
// Any other configuration, or an empty slice, leaves samples untouched:
// parent-relative and runtime-dependent values cannot be computed offline.
func SampleOffline(m Modifier, samples []float32) {
	if len(samples) == 0 {
		return
	}
	if m.Domain != DomainAge && m.Owner != OwnerSelf {
		return
	}

	s := NewParticleID(len(samples))
	for g := range lanes.FullRange(len(samples)).Groups() {
		v := s.Sample(g)
		for i, id := range lanes.Indices(g) {
			if int(id) < len(samples) {
				samples[id] = v[i]
			}
		}
	}
}
