package voi

// Preset is a named window/level pair tuned for a particular tissue contrast.
type Preset struct {
	Name   string
	Window int
	Level  int
}

// presets is the fixed registry. Order matters: PresetNames reports it for
// flag help and for cycling in the UI.
var presets = []Preset{
	{Name: "brain", Window: 80, Level: 40},
	{Name: "bone", Window: 2000, Level: 600},
	{Name: "lung", Window: 1500, Level: -600},
	{Name: "abdomen", Window: 400, Level: 50},
}

// GetPreset returns the preset registered under name. The registry is fixed
// at build time, so a false return on an internally produced name is a bug;
// user-supplied names must be checked through the returned bool.
func GetPreset(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetNames returns the registered preset names in declaration order.
func PresetNames() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}
