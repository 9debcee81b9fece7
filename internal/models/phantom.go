package models

// Ellipse describes one elliptical region of a digital phantom.
// The position of an ellipse in a list defines its paint order and,
// for scanner phantoms, its compartment index.
type Ellipse struct {
	// X0 and Y0 locate the center in rotated grid coordinates
	X0 float64 `yaml:"x0"`
	Y0 float64 `yaml:"y0"`

	// A and B are the semi-axes along the rotated x and y directions
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`

	// Angle is the rotation applied to the grid coordinates, in degrees
	Angle float64 `yaml:"angle"`

	// Intensity is the value painted inside the ellipse
	Intensity float64 `yaml:"intensity"`
}

// NamedPhantom is a titled list of ellipses used for phantom design studies
type NamedPhantom struct {
	Name     string    `yaml:"name"`
	Ellipses []Ellipse `yaml:"ellipses"`
}

// Setting is one acquisition parameter pair of a spin-echo sequence
type Setting struct {
	// TR is the repetition time
	TR float64 `yaml:"tr"`

	// TE is the echo time
	TE float64 `yaml:"te"`
}

// Tissue holds the physical properties of a single compartment
type Tissue struct {
	// A is the proton density (water content)
	A float64

	// T1 is the longitudinal relaxation time
	T1 float64

	// T2 is the transverse relaxation time
	T2 float64
}

// Settings pairs two parallel TR and TE lists by position.
// Lists of different lengths are rejected instead of truncated.
func Settings(tr, te []float64) ([]Setting, error) {
	if len(tr) != len(te) {
		return nil, &DomainError{
			Op:  "settings",
			Msg: "TR and TE lists differ in length",
		}
	}

	settings := make([]Setting, len(tr))
	for i := range tr {
		settings[i] = Setting{TR: tr[i], TE: te[i]}
	}
	return settings, nil
}

// Score is a labelled scalar result such as a similarity index
type Score struct {
	Label string
	Value float64
}
