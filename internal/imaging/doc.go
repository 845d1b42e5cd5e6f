// Package imaging loads images and maps them onto fixed palettes.
//
// MapToPalette is the render pipeline: it copies the source image, splits the
// selected region into strips, and runs every pixel of each strip through a
// palette matcher, optionally with error-diffusion dithering from package
// dither. MapImage wraps it with the extras a tool caller wants: colour count,
// quality metrics against the source, a PNG preview and an optional saved
// file. DrawStripGuides marks the strip layout on a preview.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based and relative to the
// image's top-left pixel:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Cached images are never
// modified; every render works on a copy. MapToPalette may be called
// concurrently, and with Parallel set it renders strips on several goroutines
// itself.
//
// # Color Representation
//
// Palette colours are reported as:
//   - Hex: "#rrggbb", or "#rrggbbaa" when not opaque
//   - RGB: 8-bit components (0-255) plus a separate alpha
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions outside image bounds or empty regions
//   - Dithering amounts outside [0,1] and unknown methods (ErrInvalidOptions)
//   - File I/O errors during image loading or saving
//   - Encoding errors during image output
package imaging
