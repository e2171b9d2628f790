package icc

import seeicc "seehuhn.de/go/icc"

// DefaultCMYKProfile returns the bundled press profile, a compact ICC v2
// CMYK output profile matching CGATS TR 001 (SWOP) coated offset printing.
// It is shared and must not be modified.
func DefaultCMYKProfile() []byte {
	return seeicc.CGATS001Profile
}
