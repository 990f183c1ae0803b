package model

// Officer is one entry in the static field-officer registry. The registry is
// loaded once per run and never mutated by the pipeline.
type Officer struct {
	Role      string  `yaml:"role" json:"role"`
	Location  string  `yaml:"location" json:"location"`
	State     string  `yaml:"state" json:"state"`
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
	Name      string  `yaml:"name,omitempty" json:"name,omitempty"`
	Phone     string  `yaml:"phone,omitempty" json:"phone,omitempty"`
	Email     string  `yaml:"email,omitempty" json:"email,omitempty"`
	Address   string  `yaml:"address,omitempty" json:"address,omitempty"`
}

// DisplayName returns the officer's name, or "{role} - {location}" when the
// registry entry has no name.
func (o *Officer) DisplayName() string {
	if o.Name != "" {
		return o.Name
	}
	return o.Role + " - " + o.Location
}
