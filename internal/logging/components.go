package logging

// Component constants for structured logging.
const (
	ComponentStartup  = "startup"
	ComponentServer   = "server"
	ComponentTools    = "tools"
	ComponentRenderer = "renderer"
	ComponentPalette  = "palette"
)
