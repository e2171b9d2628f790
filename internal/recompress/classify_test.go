package recompress

import (
	"testing"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/ir"
)

func TestIsCMYK(t *testing.T) {
	cases := []struct {
		model ir.ColorModel
		want  bool
	}{
		{ir.ColorModel{Native: ir.SpaceCMYK, Components: 4}, true},
		{ir.ColorModel{Native: ir.SpaceYCCK, Components: 4}, true},
		{ir.ColorModel{Native: ir.SpaceUnknown, Components: 4}, true},
		{ir.ColorModel{Native: ir.SpaceYCbCr, Components: 3}, false},
		{ir.ColorModel{Native: ir.SpaceRGB, Components: 3}, false},
		{ir.ColorModel{Native: ir.SpaceGray, Components: 1}, false},
		{ir.ColorModel{Native: ir.SpaceUnknown, Components: 2}, false},
		{ir.ColorModel{}, false},
	}
	for _, c := range cases {
		if got := IsCMYK(c.model); got != c.want {
			t.Errorf("IsCMYK(%s/%d) = %v, want %v", c.model.Native, c.model.Components, got, c.want)
		}
	}
}
