// Curve preview tool - samples a modifier offline and writes the curve as CSV.
//
// Usage: go run ./cmd/curvepreview -effect fountain -modifier alpha_fade -samples 32
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/effect"
	"github.com/pthm-cable/sparks/sampling"
	"github.com/pthm-cable/sparks/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	effectName := flag.String("effect", "", "Effect to read the modifier from")
	modifierName := flag.String("modifier", "", "Modifier name within the effect")
	domain := flag.String("domain", "age", "Domain to sample when no modifier is named")
	owner := flag.String("owner", "self", "Owner to sample when no modifier is named")
	n := flag.Int("samples", 32, "Number of samples")
	base := flag.Float64("base", 1, "Current value the modifier op is applied to")
	out := flag.String("out", "", "Output CSV path (empty = stdout)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, *effectName, *modifierName, *domain, *owner, *n, float32(*base), *out); err != nil {
		slog.Error("curve preview failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, effectName, modifierName, domain, owner string, n int, base float32, out string) error {
	if n <= 0 {
		return fmt.Errorf("samples must be positive, got %d", n)
	}

	b, err := loadModifier(configPath, effectName, modifierName, domain, owner)
	if err != nil {
		return err
	}

	samples := make([]float32, n)
	sampling.SampleOffline(b.Modifier, samples)

	values := make([]float32, n)
	for i, s := range samples {
		values[i] = b.Op.Apply(base, s, b.Gain, b.Bias)
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		w = f
	}

	slog.Info("sampled curve",
		"modifier", b.Name,
		"domain", b.Modifier.Domain,
		"owner", b.Modifier.Owner,
		"summary", telemetry.Summarize(values),
	)
	return telemetry.WriteCurve(w, samples, values)
}

// loadModifier binds the named modifier from config, or an ad-hoc set
// modifier with unit gain when no effect is named.
func loadModifier(configPath, effectName, modifierName, domain, owner string) (*effect.BoundModifier, error) {
	if effectName == "" {
		return effect.Bind(config.ModifierConfig{
			Name:   "preview",
			Target: "alpha",
			Domain: domain,
			Owner:  owner,
		}, 0)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	ec, ok := cfg.Effect(effectName)
	if !ok {
		return nil, fmt.Errorf("unknown effect %q", effectName)
	}
	for _, mc := range ec.Modifiers {
		if mc.Name == modifierName {
			return effect.Bind(mc, 0)
		}
	}
	return nil, fmt.Errorf("effect %q has no modifier %q", effectName, modifierName)
}
