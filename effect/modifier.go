package effect

import (
	"fmt"
	"strings"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/particles"
	"github.com/pthm-cable/sparks/sampling"
)

// Stage selects which particles a modifier touches.
type Stage uint8

const (
	// StageUpdate runs over every particle each frame.
	StageUpdate Stage = iota
	// StageInit runs once, over particles created this frame.
	StageInit
)

func (s Stage) String() string {
	if s == StageInit {
		return "init"
	}
	return "update"
}

// ParseStage parses "init" or "update". Empty means update.
func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(s) {
	case "", "update":
		return StageUpdate, nil
	case "init":
		return StageInit, nil
	}
	return 0, fmt.Errorf("unknown stage %q", s)
}

// BoundModifier is a configured modifier resolved against the particle
// type registry, ready to dispatch.
type BoundModifier struct {
	Name     string
	Target   particles.DataType
	Stage    Stage
	Op       Op
	Gain     float32
	Bias     float32
	Modifier sampling.Modifier
	Plan     sampling.Plan

	// salt separates this modifier's chaos streams from its siblings'.
	salt uint32

	// samples holds the raw sampler output of the last dispatch by
	// target index; [lastFloor, lastLen) is the written span.
	samples   []float32
	lastFloor int
	lastLen   int
}

// Bind parses and validates a modifier configuration.
func Bind(cfg config.ModifierConfig, salt uint32) (*BoundModifier, error) {
	target, ok := particles.Lookup(cfg.Target)
	if !ok {
		return nil, fmt.Errorf("modifier %q: unknown target %q", cfg.Name, cfg.Target)
	}
	if target.Kind != particles.KindFloat {
		return nil, fmt.Errorf("modifier %q: target %q is not a float stream", cfg.Name, cfg.Target)
	}

	domain, err := sampling.ParseDomain(cfg.Domain)
	if err != nil {
		return nil, fmt.Errorf("modifier %q: %w", cfg.Name, err)
	}
	global, err := sampling.ParseGlobalKind(cfg.Global)
	if err != nil {
		return nil, fmt.Errorf("modifier %q: %w", cfg.Name, err)
	}
	owner, err := sampling.ParseOwner(cfg.Owner)
	if err != nil {
		return nil, fmt.Errorf("modifier %q: %w", cfg.Name, err)
	}
	stage, err := ParseStage(cfg.Stage)
	if err != nil {
		return nil, fmt.Errorf("modifier %q: %w", cfg.Name, err)
	}
	op, err := ParseOp(cfg.Op)
	if err != nil {
		return nil, fmt.Errorf("modifier %q: %w", cfg.Name, err)
	}

	gain := 1.0
	if cfg.Gain != nil {
		gain = *cfg.Gain
	}

	var stream particles.DataType
	if cfg.Stream != "" {
		if stream, ok = particles.Lookup(cfg.Stream); !ok {
			return nil, fmt.Errorf("modifier %q: unknown stream %q", cfg.Name, cfg.Stream)
		}
	}

	m, err := sampling.NewModifier(sampling.Modifier{
		Domain:           domain,
		Global:           global,
		Owner:            owner,
		Attribute:        cfg.Attribute,
		AttributeDefault: float32(cfg.AttributeDefault),
		Modulus:          cfg.Modulus,
		Stream:           stream,
	})
	if err != nil {
		return nil, fmt.Errorf("modifier %q: %w", cfg.Name, err)
	}

	return &BoundModifier{
		Name:     cfg.Name,
		Target:   target,
		Stage:    stage,
		Op:       op,
		Gain:     float32(gain),
		Bias:     float32(cfg.Bias),
		Modifier: m,
		Plan:     sampling.Resolve(m, target),
		salt:     salt,
	}, nil
}

// Samples returns the raw values sampled by the last dispatch.
func (b *BoundModifier) Samples() []float32 {
	if b.lastFloor >= b.lastLen {
		return nil
	}
	return b.samples[b.lastFloor:b.lastLen]
}

// routine prepares the sample buffer and returns the write routine for a
// dispatch over a target of n entries starting at floor.
func (b *BoundModifier) routine(target *particles.Container, floor int) Routine {
	n := target.Len()
	if cap(b.samples) < n {
		b.samples = make([]float32, n)
	}
	b.samples = b.samples[:n]
	b.lastFloor = floor
	b.lastLen = n
	return Routine{
		Op:     b.Op,
		Gain:   b.Gain,
		Bias:   b.Bias,
		Target: target,
		Floor:  uint32(floor),
		Record: b.samples,
	}
}
