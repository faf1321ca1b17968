package config

import "sort"

// Presets are grouped by what they change: the tower layout or the physics
// setup.
var Presets = map[string]map[string]*Config{
	"tower": {
		"classic": withDisks(Tower(3, 0.9, 0.2)),
		"tall":    withDisks(Tower(7, 0.9, 0.15)),
		"single":  withDisks(Tower(1, 0.9, 0.3)),
	},
	"physics": {
		"settle": withPhysics(func(p *PhysicsConfig) {
			p.Enabled, p.Stepping = true, true
		}),
		"drop": withPhysics(func(p *PhysicsConfig) {
			p.Enabled, p.Stepping = true, true
			p.SeedTransform = false
			p.Shape = "scale"
		}),
		"bouncy": withPhysics(func(p *PhysicsConfig) {
			p.Enabled, p.Stepping = true, true
			p.Restitution = 0.6
		}),
		"moon": withPhysics(func(p *PhysicsConfig) {
			p.Enabled, p.Stepping = true, true
			p.Gravity = [3]float64{0, -1.62, 0}
		}),
	},
}

func withDisks(disks []DiskConfig) *Config {
	cfg := DefaultConfig()
	cfg.Disks = disks
	return cfg
}

func withPhysics(fn func(*PhysicsConfig)) *Config {
	cfg := DefaultConfig()
	fn(&cfg.Physics)
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(group, name string) *Config {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	cfg, ok := groupPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(group string) []string {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(groupPresets))
	for name := range groupPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func PresetGroups() []string {
	groups := make([]string, 0, len(Presets))
	for g := range Presets {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}
