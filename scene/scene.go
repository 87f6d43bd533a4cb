// Package scene runs a set of emitters as an ECS world and steps them one
// frame at a time.
package scene

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/camera"
	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/effect"
	"github.com/pthm-cable/sparks/sampling"
	"github.com/pthm-cable/sparks/systems"
	"github.com/pthm-cable/sparks/telemetry"
)

// Options configures a scene beyond the loaded config.
type Options struct {
	Seed      int64                             // Base chaos seed; 0 uses simulation.seed
	LogStats  bool                              // Log stats rows via slog
	OutputDir string                            // CSV output directory (empty = disabled)
	OnStats   func(rows []telemetry.FrameStats) // Called on every stats flush
}

// Scene holds the complete effect state.
type Scene struct {
	cfg   *config.Config
	world *ecs.World

	emitterMapper *ecs.Map3[components.Emitter, components.Spawner, components.Counters]
	emitterFilter *ecs.Filter3[components.Emitter, components.Spawner, components.Counters]
	emitterMap    *ecs.Map1[components.Emitter]

	entities map[string]ecs.Entity

	// Systems
	pool      *effect.Pool
	spawn     *systems.SpawnSystem
	integrate *systems.IntegrateSystem
	modify    *systems.ModifySystem
	cull      *systems.CullSystem

	// Environment
	camera  *camera.Camera
	globals map[sampling.GlobalKind]float32

	// State
	frame     int
	levelTime float32

	// Telemetry
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	onStats       func(rows []telemetry.FrameStats)
}

// New builds a scene from cfg. Effects are created in declaration order,
// which is also the order every system visits them.
func New(cfg *config.Config, opts Options) (*Scene, error) {
	world := ecs.NewWorld()

	s := &Scene{
		cfg:           cfg,
		world:         world,
		emitterMapper: ecs.NewMap3[components.Emitter, components.Spawner, components.Counters](world),
		emitterFilter: ecs.NewFilter3[components.Emitter, components.Spawner, components.Counters](world),
		emitterMap:    ecs.NewMap1[components.Emitter](world),
		entities:      make(map[string]ecs.Entity, len(cfg.Effects)),
		camera:        newCamera(cfg.Camera),
		globals:       make(map[sampling.GlobalKind]float32),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		logStats:      opts.LogStats,
		onStats:       opts.OnStats,
	}

	for name, v := range cfg.Globals {
		kind, err := sampling.ParseGlobalKind(name)
		if err != nil {
			return nil, fmt.Errorf("globals: %w", err)
		}
		s.globals[kind] = float32(v)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	for i := range cfg.Effects {
		if err := s.addEmitter(&cfg.Effects[i], seed); err != nil {
			return nil, err
		}
	}

	blockGroups := cfg.Simulation.BlockGroups
	s.pool = effect.NewPool(cfg.Simulation.Workers, cfg.Simulation.ParallelThreshold)
	s.spawn = systems.NewSpawnSystem(world)
	s.integrate = systems.NewIntegrateSystem(world, s.pool, cfg.Simulation.Gravity, blockGroups)
	s.modify = systems.NewModifySystem(world, s.pool, s, s, blockGroups)
	s.cull = systems.NewCullSystem(world)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	s.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}
	return s, nil
}

func newCamera(cc config.CameraConfig) *camera.Camera {
	cam := camera.New(
		r3.Vec{X: cc.Position[0], Y: cc.Position[1], Z: cc.Position[2]},
		r3.Vec{X: cc.Target[0], Y: cc.Target[1], Z: cc.Target[2]},
	)
	cam.OrbitSpeed = cc.OrbitSpeed
	return cam
}

// addEmitter creates the runtime and entity for one effect.
func (s *Scene) addEmitter(ec *config.EffectConfig, seed int64) error {
	var parent *effect.Runtime
	if ec.Parent != "" {
		e, ok := s.entities[ec.Parent]
		if !ok {
			return fmt.Errorf("effect %q: unknown parent %q", ec.Name, ec.Parent)
		}
		parent = s.emitterMap.Get(e).Runtime
	}

	rt := effect.NewRuntime(ec.Name, parent, effect.NewChaos(ec.Name, seed))
	for name, v := range ec.Attributes {
		rt.SetAttribute(name, float32(v))
	}

	em := components.Emitter{Runtime: rt}
	for i, mc := range ec.Modifiers {
		b, err := effect.Bind(mc, uint32(i+1))
		if err != nil {
			return fmt.Errorf("effect %q: %w", ec.Name, err)
		}
		if b.Stage == effect.StageInit {
			em.Init = append(em.Init, b)
		} else {
			em.Update = append(em.Update, b)
		}
	}

	sp := components.Spawner{
		Rate:     float32(ec.Spawn.Rate),
		LifeTime: float32(ec.Spawn.LifeTime),
		Speed:    float32(ec.Spawn.Speed),
		Spread:   float32(ec.Spawn.Spread),
	}
	s.entities[ec.Name] = s.emitterMapper.NewEntity(&em, &sp, &components.Counters{})
	return nil
}

// Step runs one frame.
func (s *Scene) Step() {
	dt := s.cfg.Derived.DT32

	s.perfCollector.StartFrame()
	s.beginFrame(dt)

	// 1. Spawn and run init modifiers on the new particles
	s.perfCollector.StartPhase(telemetry.PhaseSpawn)
	s.spawn.Update(dt)
	s.modify.Update(effect.StageInit)

	// 2. Age and move
	s.perfCollector.StartPhase(telemetry.PhaseIntegrate)
	s.integrate.Update(dt)

	// 3. Update modifiers
	s.perfCollector.StartPhase(telemetry.PhaseModify)
	s.modify.Update(effect.StageUpdate)

	// 4. Remove expired particles
	s.perfCollector.StartPhase(telemetry.PhaseCull)
	s.cull.Update()

	s.endFrame(dt)

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()
	s.perfCollector.EndFrame()
}

func (s *Scene) beginFrame(dt float32) {
	query := s.emitterFilter.Query()
	for query.Next() {
		em, _, _ := query.Get()
		em.Runtime.BeginFrame(s.levelTime, dt)
	}
}

func (s *Scene) endFrame(dt float32) {
	query := s.emitterFilter.Query()
	for query.Next() {
		em, _, _ := query.Get()
		em.Runtime.EndFrame()
	}
	s.camera.Update(float64(dt))
	s.levelTime += dt
	s.frame++
}

// Runtime returns the named effect's runtime.
func (s *Scene) Runtime(name string) (*effect.Runtime, bool) {
	e, ok := s.entities[name]
	if !ok {
		return nil, false
	}
	return s.emitterMap.Get(e).Runtime, true
}

// Emitter returns the named effect's emitter component.
func (s *Scene) Emitter(name string) (*components.Emitter, bool) {
	e, ok := s.entities[name]
	if !ok {
		return nil, false
	}
	return s.emitterMap.Get(e), true
}

// Components returns the named effect's components.
func (s *Scene) Components(name string) (*components.Emitter, *components.Spawner, *components.Counters, bool) {
	e, ok := s.entities[name]
	if !ok {
		return nil, nil, nil, false
	}
	em, sp, counters := s.emitterMapper.Get(e)
	return em, sp, counters, true
}

// GlobalValue implements sampling.GlobalLookup.
func (s *Scene) GlobalValue(kind sampling.GlobalKind) float32 {
	if kind == sampling.GlobalLevelTime {
		return s.levelTime
	}
	return s.globals[kind]
}

// SetGlobal sets a level-wide value.
func (s *Scene) SetGlobal(kind sampling.GlobalKind, v float32) {
	s.globals[kind] = v
}

// CameraPosition implements sampling.CameraProvider.
func (s *Scene) CameraPosition() r3.Vec { return s.camera.Position() }

// SetCamera moves the camera, keeping its target.
func (s *Scene) SetCamera(p r3.Vec) { s.camera.SetPosition(p) }

// Camera returns the scene camera.
func (s *Scene) Camera() *camera.Camera { return s.camera }

// Frame returns the number of completed frames.
func (s *Scene) Frame() int { return s.frame }

// LevelTime returns the level clock at the start of the next frame.
func (s *Scene) LevelTime() float32 { return s.levelTime }

// PerfStats returns the rolling frame timings.
func (s *Scene) PerfStats() telemetry.PerfStats { return s.perfCollector.Stats() }

// Close stops the workers and flushes output files.
func (s *Scene) Close() error {
	s.pool.Stop()
	return s.outputManager.Close()
}
