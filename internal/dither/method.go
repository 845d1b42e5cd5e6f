package dither

import (
	"fmt"
	"strings"
)

// Method identifies a dithering kernel by name. MethodNone disables dithering.
type Method string

// Supported methods.
const (
	MethodNone              Method = "none"
	MethodFloydSteinberg    Method = "floyd-steinberg"
	MethodJarvisJudiceNinke Method = "jarvis-judice-ninke"
	MethodStucki            Method = "stucki"
	MethodBurkes            Method = "burkes"
	MethodSierra            Method = "sierra"
	MethodSierraLite        Method = "sierra-lite"
	MethodAtkinson          Method = "atkinson"
)

var kernels = map[Method]*Kernel{
	MethodNone:              nil,
	MethodFloydSteinberg:    FloydSteinberg,
	MethodJarvisJudiceNinke: JarvisJudiceNinke,
	MethodStucki:            Stucki,
	MethodBurkes:            Burkes,
	MethodSierra:            Sierra,
	MethodSierraLite:        SierraLite,
	MethodAtkinson:          Atkinson,
}

// Methods returns all methods in display order.
func Methods() []Method {
	return []Method{
		MethodNone,
		MethodFloydSteinberg,
		MethodJarvisJudiceNinke,
		MethodStucki,
		MethodBurkes,
		MethodSierra,
		MethodSierraLite,
		MethodAtkinson,
	}
}

// ParseMethod resolves a method name. Matching ignores case and treats
// underscores and spaces like hyphens, so "Floyd_Steinberg" is accepted.
// An empty name resolves to MethodNone.
func ParseMethod(name string) (Method, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	if norm == "" {
		return MethodNone, nil
	}
	m := Method(norm)
	if _, ok := kernels[m]; !ok {
		return MethodNone, fmt.Errorf("%w: unknown dithering method %q", ErrInvalidArgument, name)
	}
	return m, nil
}

// Kernel returns the shared preset for m, or nil for MethodNone and unknown
// methods.
func (m Method) Kernel() *Kernel {
	return kernels[m]
}
