// Package config holds the engine's configuration types and YAML
// loading, mirroring the teacher's WorldConfig/DefaultWorldConfig pattern
// in internal/core/ecs/types.go.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ScriptArgs names the entrypoint script relative to ResourceArgs.Scripts,
// per spec.md §6.
type ScriptArgs struct {
	Entrypoint string `yaml:"entrypoint"`
}

// ResourceArgs names the asset roots, per spec.md §6.
type ResourceArgs struct {
	Dir     string `yaml:"dir"`
	Scripts string `yaml:"scripts"`
	Fonts   string `yaml:"fonts"`
	Meshes  string `yaml:"meshes"`
}

// RendererArgs plugs in a renderer without the core depending on one, per
// spec.md §6 and §9's "dynamic dispatch via C function pointers" note.
type RendererArgs struct {
	CreateRenderer  func() error `yaml:"-"`
	DestroyRenderer func() error `yaml:"-"`
}

// AudioArgs configures the (out-of-scope) audio subsystem's parameters,
// carried here so a host binary can read them even though the core
// itself never opens an audio device.
type AudioArgs struct {
	SampleFrequency int `yaml:"sample_frequency"`
	BufferedSamples int `yaml:"buffered_samples"`
}

// SchedulerArgs carries the async worker-pool settings named in spec.md
// §6. They are not read by the coroutine package: each scene's worker pool
// is sized from runtime.GOMAXPROCS.
type SchedulerArgs struct {
	MaxAsyncTasks           int `yaml:"max_async_tasks"`
	MaxAsyncTasksQueueSize int `yaml:"max_async_tasks_queue_size"`
}

// UniverseConfig is the folded C-style attribute builder (§9): every
// lifecycle knob passed to Universe.New in one value.
type UniverseConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	ScriptArgs    ScriptArgs    `yaml:"script_args"`
	ResourceArgs  ResourceArgs  `yaml:"resource_args"`
	RendererArgs  RendererArgs  `yaml:"-"`
	AudioArgs     AudioArgs     `yaml:"audio_args"`
	SchedulerArgs SchedulerArgs `yaml:"scheduler_args"`

	World WorldConfig `yaml:"world"`
}

// WorldConfig contains per-scene world initialization parameters,
// mirroring the teacher's WorldConfig (internal/core/ecs/types.go).
type WorldConfig struct {
	MaxEntities    int           `yaml:"max_entities"`
	MemoryLimit    int64         `yaml:"memory_limit"`
	EnableMetrics  bool          `yaml:"enable_metrics"`
	EnableEvents   bool          `yaml:"enable_events"`
	ThreadPoolSize int           `yaml:"thread_pool_size"`
	QueryCacheSize int           `yaml:"query_cache_size"`
	GCInterval     time.Duration `yaml:"gc_interval"`

	ComponentPoolSize int `yaml:"component_pool_size"`
	EntityPoolSize    int `yaml:"entity_pool_size"`
	SystemBatchSize   int `yaml:"system_batch_size"`
	CacheLineSize     int `yaml:"cache_line_size"`

	EnableDebugMode bool `yaml:"enable_debug_mode"`
	EnableProfiling bool `yaml:"enable_profiling"`
	LogLevel        int  `yaml:"log_level"`
}

// DefaultWorldConfig mirrors the teacher's DefaultWorldConfig, tuned for
// a general-purpose simulation core rather than one specific game.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		MaxEntities:       10000,
		MemoryLimit:       256 * 1024 * 1024,
		EnableMetrics:     true,
		EnableEvents:      true,
		ThreadPoolSize:    4,
		QueryCacheSize:    1000,
		GCInterval:        30 * time.Second,
		ComponentPoolSize: 1000,
		EntityPoolSize:    1000,
		SystemBatchSize:   64,
		CacheLineSize:     64,
		EnableDebugMode:   false,
		EnableProfiling:   false,
		LogLevel:          2,
	}
}

// DefaultUniverseConfig returns sane defaults for a windowed host,
// leaving RendererArgs' hooks nil (no renderer by default).
func DefaultUniverseConfig() UniverseConfig {
	return UniverseConfig{
		Title:  "ecsforge",
		Width:  1280,
		Height: 720,
		ResourceArgs: ResourceArgs{
			Dir:     "assets",
			Scripts: "assets/scripts",
			Fonts:   "assets/fonts",
			Meshes:  "assets/meshes",
		},
		AudioArgs: AudioArgs{
			SampleFrequency: 44100,
			BufferedSamples: 2048,
		},
		SchedulerArgs: SchedulerArgs{
			MaxAsyncTasks:          8,
			MaxAsyncTasksQueueSize: 64,
		},
		World: DefaultWorldConfig(),
	}
}

// Load reads a UniverseConfig from a YAML file, starting from
// DefaultUniverseConfig so an incomplete file still yields sane values
// for anything it omits.
func Load(path string) (UniverseConfig, error) {
	cfg := DefaultUniverseConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
