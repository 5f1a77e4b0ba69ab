package ui

// Config contains TUI-specific configuration.
type Config struct {
	GlamourMaxWidth uint
	GlamourStyle    string `env:"GLAMOUR_STYLE"`
	EnableMouse     bool

	// Where episodes are written; shown in the footer.
	OutputDir string

	// For debugging the UI
	GlamourEnabled bool `env:"PODGEN_ENABLE_GLAMOUR" envDefault:"true"`
	AltScreen      bool `env:"PODGEN_ALT_SCREEN"     envDefault:"true"`
}
