package config

import "flag"

// Flags are the command-line parameters shared by the binaries.
// Zero values leave the file configuration untouched.
type Flags struct {
	ConfigPath     string
	Seed           int64
	Noise          string
	RenderDistance int
}

// Bind attaches the flags to the provided FlagSet.
func (f *Flags) Bind(fs *flag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", f.ConfigPath, "path to a YAML config file")
	fs.Int64Var(&f.Seed, "seed", f.Seed, "noise seed (0 picks one at startup)")
	fs.StringVar(&f.Noise, "noise", f.Noise, "noise kind: simplex, perlin, value or flat")
	fs.IntVar(&f.RenderDistance, "render-distance", f.RenderDistance, "chunk radius kept loaded")
}

// Resolve loads the config file if one was given and applies flag overrides.
func (f *Flags) Resolve() (Config, error) {
	cfg := Default()
	if f.ConfigPath != "" {
		var err error
		if cfg, err = Load(f.ConfigPath); err != nil {
			return cfg, err
		}
	}
	if f.Seed != 0 {
		cfg.Terrain.Seed = f.Seed
	}
	if f.Noise != "" {
		cfg.Terrain.Noise = f.Noise
	}
	if f.RenderDistance != 0 {
		cfg.Streaming.RenderDistance = f.RenderDistance
	}
	return cfg, cfg.Validate()
}
