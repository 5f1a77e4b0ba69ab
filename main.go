// Package main provides the entry point for the podgen CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/podgen/internal/audio"
	"github.com/dgnsrekt/podgen/internal/config"
	"github.com/dgnsrekt/podgen/internal/podcast"
	"github.com/dgnsrekt/podgen/ui"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	gap "github.com/muesli/go-app-paths"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	outputFile string
	play       bool
	debug      bool
	dryRun     bool
	mouse      bool
	width      uint

	settings config.Settings

	errNoTopic = errors.New("no topic given: pass one as an argument, pipe it on stdin or run in a terminal")

	rootCmd = &cobra.Command{
		Use:   "podgen [TOPIC]",
		Short: "Turn a topic into a podcast episode",
		Long: paragraph(
			fmt.Sprintf("\nWrite a short podcast script about any topic and %s.", keyword("read it out loud")),
		),
		Example: paragraph("podgen \"The future of renewable energy\"\n" +
			"podgen -o coffee.mp3 --play the history of coffee\n" +
			"echo \"black holes\" | podgen\n" +
			"podgen"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
		log.Debug("Using configuration file", "path", configFile)
	}

	s, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}
	settings = s

	if settings.Debug {
		log.SetLevel(log.DebugLevel)
	}

	mouse = viper.GetBool("mouse")
	width = viper.GetUint("width")

	// Detect terminal width
	if !cmd.Flags().Changed("width") {
		isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
		if isTerminal && width == 0 {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}

			if width > 120 {
				width = 120
			}
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func execute(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return executeCLI(cmd, strings.Join(args, " "), os.Stdout)
	}

	// if stdin is a pipe then read the topic from it.
	if yes, err := stdinIsPipe(); err != nil {
		return err
	} else if yes {
		b, err := io.ReadAll(io.LimitReader(os.Stdin, 64*1024))
		if err != nil {
			return fmt.Errorf("unable to read from stdin: %w", err)
		}
		return executeCLI(cmd, string(b), os.Stdout)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTopic
	}
	return runTUI(cmd.Context())
}

// executeCLI runs one batch episode and prints the script and the saved path.
func executeCLI(cmd *cobra.Command, topic string, w io.Writer) error {
	logToStderr()

	// Reject a blank topic before the credential is even looked at.
	topic, err := podcast.ValidateTopic(topic)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := loadPipeline(ctx)
	if err != nil {
		return err
	}

	// Batch runs are their own one-shot session.
	res, err := p.session(uuid.NewString()).Run(ctx, podcast.Request{
		Topic:    topic,
		Filename: outputFile,
	})
	if err != nil {
		return err
	}

	if err := printResult(w, res); err != nil {
		return err
	}

	if play {
		return playFile(ctx, res.Artifact.Path)
	}
	return nil
}

func printResult(w io.Writer, res podcast.Result) error {
	details := []string{humanize.Bytes(uint64(res.Artifact.Size))} //nolint:gosec
	if info, err := audio.Probe(res.Artifact.Path); err == nil && info.Duration > 0 {
		details = append(details, info.Duration.Round(time.Second).String())
	} else if err != nil {
		log.Debug("Could not read audio length", "path", res.Artifact.Path, "error", err)
	}
	details = append(details, fmt.Sprintf("%d words", res.Words()))

	out := fmt.Sprintf("%s\n\n%s\n\n%s %s %s\n",
		headingStyle.Render("Generated script"),
		wordwrap.String(strings.TrimSpace(res.Script), int(width)), //nolint:gosec
		successStyle.Render("Podcast saved as"),
		res.Artifact.Path,
		faintStyle.Render("("+strings.Join(details, ", ")+")"),
	)
	if _, err := fmt.Fprint(w, out); err != nil {
		return fmt.Errorf("unable to write to writer: %w", err)
	}
	return nil
}

func playFile(ctx context.Context, path string) error {
	player := audio.NewPlayer()
	defer player.Close() //nolint:errcheck

	if err := player.Play(path); err != nil {
		return fmt.Errorf("unable to play %s: %w", path, err)
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

func runTUI(ctx context.Context) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}
	if cfg.GlamourStyle == "" || styles.DefaultStyles[cfg.GlamourStyle] == nil {
		cfg.GlamourStyle = styles.AutoStyle
	}
	cfg.GlamourMaxWidth = width
	cfg.EnableMouse = mouse
	cfg.OutputDir = settings.OutputDir

	p, err := loadPipeline(ctx)
	if err != nil {
		return err
	}

	player := audio.NewPlayer()
	defer player.Close() //nolint:errcheck

	// One TUI program is one session.
	if _, err := ui.NewProgram(cfg, p.session(uuid.NewString()), player).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug logs")
	rootCmd.PersistentFlags().StringP("output-dir", "d", config.DefaultOutputDir, "directory episodes are written to")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "use a canned script instead of calling the model")
	_ = rootCmd.PersistentFlags().MarkHidden("dry-run")

	rootCmd.Flags().StringVarP(&outputFile, "output", "o", podcast.DefaultFilename, "episode file name (relative names go in the output directory)")
	rootCmd.Flags().BoolVarP(&play, "play", "p", false, "play the episode when it is ready")
	rootCmd.Flags().UintVarP(&width, "width", "w", 0, "word-wrap the script at width")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse wheel (TUI-mode only)")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("output.dir", rootCmd.PersistentFlags().Lookup("output-dir"))
	_ = viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	config.SetDefaults(viper.GetViper())
	viper.SetDefault("width", 0)

	rootCmd.AddCommand(configCmd, manCmd, serveCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "podgen")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "podgen")}, dirs...)
	}

	if c := os.Getenv("PODGEN_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("podgen")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("podgen")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "podgen.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
