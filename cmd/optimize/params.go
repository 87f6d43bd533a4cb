// Package main provides CMA-ES tuning of emitter spawn parameters.
package main

import (
	"fmt"

	"github.com/pthm-cable/sparks/config"
)

// Tunable spawn fields.
const (
	fieldRate     = "rate"
	fieldLifeTime = "life_time"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Effect  int     // Index into config effects
	Field   string  // Spawn field
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates rate and lifetime parameters for every effect,
// bounded to a quarter and four times their configured values.
func NewParamVector(cfg *config.Config) *ParamVector {
	pv := &ParamVector{}
	for i, e := range cfg.Effects {
		for _, f := range []struct {
			field string
			value float64
		}{
			{fieldRate, e.Spawn.Rate},
			{fieldLifeTime, e.Spawn.LifeTime},
		} {
			if f.value <= 0 {
				continue
			}
			pv.Specs = append(pv.Specs, ParamSpec{
				Name:    fmt.Sprintf("%s.%s", e.Name, f.field),
				Effect:  i,
				Field:   f.field,
				Min:     f.value / 4,
				Max:     f.value * 4,
				Default: f.value,
			})
		}
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	for i, spec := range pv.Specs {
		spawn := &cfg.Effects[spec.Effect].Spawn
		switch spec.Field {
		case fieldRate:
			spawn.Rate = clamped[i]
		case fieldLifeTime:
			spawn.LifeTime = clamped[i]
		}
	}
}
