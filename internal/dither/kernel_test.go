package dither

import (
	"errors"
	"math"
	"testing"
)

var sierraLiteWeights = []int{0, 0, 2, 1, 1, 0}

var sierraLiteCoefficients = []float32{0, 0, 0.5, 0.25, 0.25, 0}

func TestNewKernel_FactorDefaultsToSum(t *testing.T) {
	k, err := NewKernel(sierraLiteWeights, 3)
	if err != nil {
		t.Fatalf("NewKernel failed: %v", err)
	}

	got := k.Coefficients()
	if len(got) != len(sierraLiteCoefficients) {
		t.Fatalf("got %d coefficients, want %d", len(got), len(sierraLiteCoefficients))
	}
	for i, want := range sierraLiteCoefficients {
		if got[i] != want {
			t.Errorf("coefficient %d: got %v, want %v", i, got[i], want)
		}
	}
}

func TestNewKernelWithFactor(t *testing.T) {
	const factor = 6
	k, err := NewKernelWithFactor(sierraLiteWeights, 3, factor)
	if err != nil {
		t.Fatalf("NewKernelWithFactor failed: %v", err)
	}

	got := k.Coefficients()
	for i, w := range sierraLiteWeights {
		want := float32(w) * (1.0 / float32(factor))
		if got[i] != want {
			t.Errorf("coefficient %d: got %v, want %v", i, got[i], want)
		}
	}
}

func TestNewNormalizedKernel_KeepsWeights(t *testing.T) {
	k, err := NewNormalizedKernel(sierraLiteCoefficients, 3)
	if err != nil {
		t.Fatalf("NewNormalizedKernel failed: %v", err)
	}

	got := k.Coefficients()
	for i, want := range sierraLiteCoefficients {
		if got[i] != want {
			t.Errorf("coefficient %d: got %v, want %v", i, got[i], want)
		}
	}
}

func TestNewKernel_AllZeroWeights(t *testing.T) {
	k, err := NewKernel([]int{0, 0, 0, 0}, 2)
	if err != nil {
		t.Fatalf("all-zero kernel should be accepted, got %v", err)
	}
	for i, c := range k.Coefficients() {
		if c != 0 {
			t.Errorf("coefficient %d: got %v, want 0", i, c)
		}
	}
}

func TestNewKernel_InvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		weights []int
		columns int
		factor  int
	}{
		{"negative factor", sierraLiteWeights, 3, -1},
		{"zero factor", sierraLiteWeights, 3, 0},
		{"negative width", sierraLiteWeights, -1, 4},
		{"zero width", sierraLiteWeights, 0, 4},
		{"incompatible width", sierraLiteWeights, 4, 4},
		{"width too big", sierraLiteWeights, 7, 4},
		{"no weights", nil, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKernelWithFactor(tt.weights, tt.columns, tt.factor)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("got %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestNewNormalizedKernel_InvalidShape(t *testing.T) {
	for _, columns := range []int{0, -2, 4, 7} {
		if _, err := NewNormalizedKernel(sierraLiteCoefficients, columns); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("columns=%d: got %v, want ErrInvalidArgument", columns, err)
		}
	}
}

func TestKernel_Geometry(t *testing.T) {
	tests := []struct {
		name       string
		weights    []int
		columns    int
		wantRows   int
		wantCentre int
	}{
		{"3 columns", sierraLiteWeights, 3, 2, 1},
		{"single column", []int{1, 2, 3}, 1, 3, 0},
		{"2 columns", []int{0, 1, 1, 1}, 2, 2, 0},
		{"4 columns", []int{0, 0, 1, 1, 1, 1, 1, 0}, 4, 2, 1},
		{"5 columns", []int{0, 0, 0, 1, 1}, 5, 1, 2},
		{"6 columns", sierraLiteWeights, 6, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := NewKernel(tt.weights, tt.columns)
			if err != nil {
				t.Fatalf("NewKernel failed: %v", err)
			}
			if k.Columns() != tt.columns {
				t.Errorf("Columns: got %d, want %d", k.Columns(), tt.columns)
			}
			if k.Rows() != tt.wantRows {
				t.Errorf("Rows: got %d, want %d", k.Rows(), tt.wantRows)
			}
			if k.Centre() != tt.wantCentre {
				t.Errorf("Centre: got %d, want %d", k.Centre(), tt.wantCentre)
			}
		})
	}
}

func TestKernel_At(t *testing.T) {
	k, err := NewKernel(sierraLiteWeights, 3)
	if err != nil {
		t.Fatalf("NewKernel failed: %v", err)
	}

	n := 0
	for row := 0; row < k.Rows(); row++ {
		for col := 0; col < k.Columns(); col++ {
			if got := k.At(col, row); got != sierraLiteCoefficients[n] {
				t.Errorf("At(%d,%d): got %v, want %v", col, row, got, sierraLiteCoefficients[n])
			}
			n++
		}
	}
}

func TestKernel_CoefficientsIsCopy(t *testing.T) {
	k, err := NewKernel(sierraLiteWeights, 3)
	if err != nil {
		t.Fatalf("NewKernel failed: %v", err)
	}

	c := k.Coefficients()
	c[2] = 42
	if k.At(2, 0) != 0.5 {
		t.Errorf("kernel was mutated through Coefficients(): At(2,0) = %v", k.At(2, 0))
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		name    string
		kernel  *Kernel
		raw     []int
		columns int
		factor  float32
	}{
		{"Floyd-Steinberg", FloydSteinberg, []int{0, 0, 7, 3, 5, 1}, 3, 16},
		{"Jarvis-Judice-Ninke", JarvisJudiceNinke, []int{0, 0, 0, 7, 5, 3, 5, 7, 5, 3, 1, 3, 5, 3, 1}, 5, 48},
		{"Stucki", Stucki, []int{0, 0, 0, 8, 4, 2, 4, 8, 4, 2, 1, 2, 4, 2, 1}, 5, 42},
		{"Burkes", Burkes, []int{0, 0, 0, 8, 4, 2, 4, 8, 4, 2}, 5, 32},
		{"Sierra", Sierra, []int{0, 0, 0, 5, 3, 2, 4, 5, 4, 2, 0, 2, 3, 2, 0}, 5, 32},
		{"Sierra Lite", SierraLite, sierraLiteWeights, 3, 4},
		{"Atkinson", Atkinson, []int{0, 0, 1, 1, 1, 1, 1, 0, 0, 1, 0, 0}, 4, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.kernel.Columns() != tt.columns {
				t.Errorf("Columns: got %d, want %d", tt.kernel.Columns(), tt.columns)
			}
			if tt.kernel.Rows() != len(tt.raw)/tt.columns {
				t.Errorf("Rows: got %d, want %d", tt.kernel.Rows(), len(tt.raw)/tt.columns)
			}
			got := tt.kernel.Coefficients()
			scale := 1.0 / tt.factor
			for i, w := range tt.raw {
				if want := float32(w) * scale; got[i] != want {
					t.Errorf("coefficient %d: got %v, want %v", i, got[i], want)
				}
			}
		})
	}
}

func TestPresets_SumToOne(t *testing.T) {
	for _, k := range []*Kernel{FloydSteinberg, JarvisJudiceNinke, Stucki, Burkes, Sierra, SierraLite} {
		var sum float64
		for _, c := range k.Coefficients() {
			sum += float64(c)
		}
		if math.Abs(sum-1) > 1e-5 {
			t.Errorf("%dx%d kernel sums to %v, want 1", k.Columns(), k.Rows(), sum)
		}
	}
}

func TestNewKernel_NormalizedSumProperty(t *testing.T) {
	tests := []struct {
		weights []int
		columns int
	}{
		{[]int{1}, 1},
		{[]int{0, 3, 9, 2}, 2},
		{[]int{0, 0, 0, 13, 1, 7, 7, 7, 2, 100}, 5},
		{[]int{5, 5, 5, 5, 5, 5, 5, 5, 5}, 3},
		{[]int{0, 0, 255, 1, 1, 1, 255, 255, 255}, 3},
	}

	for _, tt := range tests {
		k, err := NewKernel(tt.weights, tt.columns)
		if err != nil {
			t.Fatalf("NewKernel(%v, %d) failed: %v", tt.weights, tt.columns, err)
		}
		var sum float64
		for _, c := range k.Coefficients() {
			sum += float64(c)
		}
		if math.Abs(sum-1) > 1e-5 {
			t.Errorf("NewKernel(%v, %d): weights sum to %v, want 1", tt.weights, tt.columns, sum)
		}
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"", MethodNone},
		{"none", MethodNone},
		{"floyd-steinberg", MethodFloydSteinberg},
		{"Floyd_Steinberg", MethodFloydSteinberg},
		{"JARVIS JUDICE NINKE", MethodJarvisJudiceNinke},
		{"stucki", MethodStucki},
		{" burkes ", MethodBurkes},
		{"sierra", MethodSierra},
		{"sierra-lite", MethodSierraLite},
		{"atkinson", MethodAtkinson},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMethod(tt.in)
			if err != nil {
				t.Fatalf("ParseMethod(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMethod(%q): got %s, want %s", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseMethod("bayer"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ParseMethod(bayer): got %v, want ErrInvalidArgument", err)
	}
}

func TestMethod_Kernel(t *testing.T) {
	if MethodNone.Kernel() != nil {
		t.Error("MethodNone should have no kernel")
	}
	if MethodFloydSteinberg.Kernel() != FloydSteinberg {
		t.Error("floyd-steinberg should map to the shared FloydSteinberg preset")
	}
	for _, m := range Methods() {
		if m != MethodNone && m.Kernel() == nil {
			t.Errorf("method %s has no kernel", m)
		}
	}
}
