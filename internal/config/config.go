package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS         = 60
	DefaultFixedStep   = 1.0 / 60.0
	DefaultMaxSubsteps = 10
	DefaultIterations  = 10
	DefaultDuration    = 5.0
	DefaultGravity     = -9.8
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Structure StructureConfig `yaml:"structure"`
	Disks     []DiskConfig    `yaml:"disks"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Drag      DragConfig      `yaml:"drag"`
	Camera    CameraConfig    `yaml:"camera"`
	FPS       int             `yaml:"fps"`
	Duration  float64         `yaml:"duration"`
}

type StructureConfig struct {
	BaseWidth       float64 `yaml:"base_width"`
	BaseDepth       float64 `yaml:"base_depth"`
	BaseHeight      float64 `yaml:"base_height"`
	CylinderRadius  float64 `yaml:"cylinder_radius"`
	CylinderHeight  float64 `yaml:"cylinder_height"`
	BaseTexture     string  `yaml:"base_texture,omitempty"`
	CylinderTexture string  `yaml:"cylinder_texture,omitempty"`
}

// DiskConfig describes one disk. A mass of 0 makes the disk static.
type DiskConfig struct {
	Radius     float64 `yaml:"radius"`
	HoleRadius float64 `yaml:"hole_radius"`
	Height     float64 `yaml:"height"`
	Mass       float64 `yaml:"mass"`
	Texture    string  `yaml:"texture,omitempty"`
}

type PhysicsConfig struct {
	Enabled          bool       `yaml:"enabled"`
	Stepping         bool       `yaml:"stepping"`
	Gravity          [3]float64 `yaml:"gravity,flow"`
	FixedStep        float64    `yaml:"fixed_step"`
	MaxSubsteps      int        `yaml:"max_substeps"`
	SolverIterations int        `yaml:"solver_iterations"`
	Restitution      float64    `yaml:"restitution"`
	Shape            string     `yaml:"shape"`
	SeedTransform    bool       `yaml:"seed_transform"`
}

type DragConfig struct {
	Enabled bool `yaml:"enabled"`
}

type CameraConfig struct {
	Position [3]float64 `yaml:"position,flow"`
	Target   [3]float64 `yaml:"target,flow"`
	FOV      float64    `yaml:"fov"`
}

func DefaultConfig() *Config {
	return &Config{
		Structure: StructureConfig{
			BaseWidth:      6,
			BaseDepth:      2,
			BaseHeight:     0.5,
			CylinderRadius: 0.1,
			CylinderHeight: 3,
		},
		Disks: Tower(3, 0.9, 0.2),
		Physics: PhysicsConfig{
			Gravity:          [3]float64{0, DefaultGravity, 0},
			FixedStep:        DefaultFixedStep,
			MaxSubsteps:      DefaultMaxSubsteps,
			SolverIterations: DefaultIterations,
			Shape:            "bounds",
			SeedTransform:    true,
		},
		Drag: DragConfig{Enabled: true},
		Camera: CameraConfig{
			Position: [3]float64{0, 6, 14},
			Target:   [3]float64{0, 1, 0},
			FOV:      45,
		},
		FPS:      DefaultFPS,
		Duration: DefaultDuration,
	}
}

// Tower returns n disks shrinking from maxRadius, bottom first.
func Tower(n int, maxRadius, height float64) []DiskConfig {
	disks := make([]DiskConfig, 0, n)
	for i := 0; i < n; i++ {
		r := maxRadius * (1 - 0.5*float64(i)/float64(max(n, 1)))
		disks = append(disks, DiskConfig{Radius: r, HoleRadius: 0.15, Height: height, Mass: 1})
	}
	return disks
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the frame loop or the physics world cannot run
// with.
func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.FPS)
	}
	if c.Physics.FixedStep <= 0 {
		return fmt.Errorf("%w: physics.fixed_step must be positive, got %f", ErrInvalid, c.Physics.FixedStep)
	}
	if c.Physics.MaxSubsteps < 0 {
		return fmt.Errorf("%w: physics.max_substeps must not be negative", ErrInvalid)
	}
	switch c.Physics.Shape {
	case "scale", "bounds":
	default:
		return fmt.Errorf("%w: physics.shape must be scale or bounds, got %q", ErrInvalid, c.Physics.Shape)
	}
	s := c.Structure
	if s.BaseWidth <= 0 || s.BaseDepth <= 0 || s.BaseHeight <= 0 || s.CylinderRadius <= 0 || s.CylinderHeight <= 0 {
		return fmt.Errorf("%w: structure dimensions must be positive", ErrInvalid)
	}
	for i, d := range c.Disks {
		if d.Radius <= 0 || d.HoleRadius <= 0 || d.HoleRadius >= d.Radius {
			return fmt.Errorf("%w: disk %d needs radius > hole_radius > 0", ErrInvalid, i)
		}
		if d.Height <= 0 {
			return fmt.Errorf("%w: disk %d needs a positive height", ErrInvalid, i)
		}
		if d.Mass < 0 {
			return fmt.Errorf("%w: disk %d has negative mass", ErrInvalid, i)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Disks = append([]DiskConfig(nil), c.Disks...)
	return &out
}
