package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/vfgraph/config"
	"github.com/opd-ai/vfgraph/limits"
)

// CLIConfig holds the command-line flags. Flags that are set override the
// matching field of the configuration file.
type CLIConfig struct {
	configPath  string
	size        string
	pixelFormat string
	description string
	script      string
	preset      string
	logLevel    string
	cpuProfile  string
	input       string
	output      string
	help        bool
}

// parseCLIFlags parses args into a CLIConfig.
func parseCLIFlags(fs *flag.FlagSet, args []string) (*CLIConfig, error) {
	cli := &CLIConfig{}

	fs.StringVar(&cli.configPath, "config", "", "Configuration file (.yaml, .yml or .toml)")

	// Stream geometry
	fs.StringVar(&cli.size, "size", "", "Frame size as WxH (default 640x480)")
	fs.StringVar(&cli.pixelFormat, "pix_fmt", "", "Pixel format of the raw frames (default yuv420p)")

	// Filter description
	fs.StringVar(&cli.description, "vf", "", "Filter graph description")
	fs.StringVar(&cli.script, "vf-script", "", "File holding the filter graph description; reloaded on change")
	fs.StringVar(&cli.preset, "preset", "", "Named description from the configuration file")

	// I/O and logging
	fs.StringVar(&cli.input, "i", "-", "Input file ('-' for stdin)")
	fs.StringVar(&cli.output, "o", "-", "Output file ('-' for stdout)")
	fs.StringVar(&cli.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	fs.StringVar(&cli.cpuProfile, "cpuprofile", "", "Write a CPU profile to this file")

	fs.BoolVar(&cli.help, "help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cli, nil
}

// printUsage prints the usage information.
func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "vfilter - run raw planar video through a filter graph")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s [options] < in.yuv > out.yuv\n", fs.Name())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  # Halve a VGA stream")
	fmt.Fprintf(w, "  %s -size 640x480 -vf scale=iw/2:ih/2\n", fs.Name())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Use a live-edited script and a config file")
	fmt.Fprintf(w, "  %s -config vfilter.yaml -vf-script graph.txt -i in.yuv -o out.yuv\n", fs.Name())
}

// validateCLIConfig checks the flags on their own.
func validateCLIConfig(cli *CLIConfig) error {
	if cli.description != "" && cli.script != "" {
		return fmt.Errorf("-vf and -vf-script are mutually exclusive")
	}
	if cli.preset != "" && (cli.description != "" || cli.script != "") {
		return fmt.Errorf("-preset cannot be combined with -vf or -vf-script")
	}
	if cli.size != "" {
		if _, _, err := limits.ParseFrameSize(cli.size); err != nil {
			return err
		}
	}
	if cli.input == "" || cli.output == "" {
		return fmt.Errorf("input and output cannot be empty")
	}
	return nil
}

// resolveConfig loads the configuration file, if any, and applies the flags
// on top of it.
func resolveConfig(cli *CLIConfig) (*config.Config, error) {
	cfg := config.Default()
	if cli.configPath != "" {
		loaded, err := config.Load(cli.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cli.size != "" {
		w, h, err := limits.ParseFrameSize(cli.size)
		if err != nil {
			return nil, err
		}
		cfg.Stream.Width, cfg.Stream.Height = w, h
	}
	if cli.pixelFormat != "" {
		cfg.Stream.PixelFormat = cli.pixelFormat
	}
	if cli.logLevel != "" {
		cfg.Log.Level = cli.logLevel
	}

	switch {
	case cli.description != "":
		cfg.Filter.Description, cfg.Filter.Script, cfg.Filter.Preset = cli.description, "", ""
	case cli.script != "":
		cfg.Filter.Description, cfg.Filter.Script, cfg.Filter.Preset = "", cli.script, ""
	case cli.preset != "":
		cfg.Filter.Description, cfg.Filter.Script, cfg.Filter.Preset = "", "", cli.preset
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// run wires the configuration into a pipeline and processes the stream.
func run(ctx context.Context, cli *CLIConfig, cfg *config.Config, log *logrus.Entry) error {
	desc, err := cfg.ResolveDescription()
	if err != nil {
		return err
	}

	in, err := openInput(cli.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	out, err := openOutput(cli.output)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()

	stopProfile, err := startCPUProfile(cli.cpuProfile, log)
	if err != nil {
		return err
	}
	defer stopProfile()

	var reloads <-chan string
	if cfg.Filter.Script != "" && cfg.Filter.Preset == "" {
		watcher, err := newScriptWatcher(cfg.Filter.Script, log)
		if err != nil {
			return fmt.Errorf("watch script: %w", err)
		}
		defer watcher.Close()
		go watcher.Run(ctx)
		reloads = watcher.Updates()
	}

	log.WithFields(logrus.Fields{
		"function":     "run",
		"engine":       engineName,
		"size":         fmt.Sprintf("%dx%d", cfg.Stream.Width, cfg.Stream.Height),
		"pixel_format": cfg.PixelFormat().String(),
		"description":  desc,
	}).Info("Starting pipeline")

	p := newPipeline(cfg.Stream.Width, cfg.Stream.Height, cfg.PixelFormat(), newEngine(desc, log), log)
	runErr := p.run(ctx, in, out, reloads)
	if err := p.close(); err != nil && runErr == nil {
		runErr = err
	}

	fmt.Fprintf(os.Stderr, "frames: %d in, %d filtered, %d passed through\n",
		p.stats.FramesIn, p.stats.FramesFiltered, p.stats.FramesPassedThrough)
	return runErr
}

// setupSignalHandling cancels the pipeline on interrupt.
func setupSignalHandling(cancel context.CancelFunc, log *logrus.Entry) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	go func() {
		sig := <-sigChan
		log.WithField("signal", sig.String()).Info("Received signal, stopping after current frame")
		cancel()
	}()
}

func main() {
	fs := flag.NewFlagSet("vfilter", flag.ExitOnError)
	cli, err := parseCLIFlags(fs, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if cli.help {
		printUsage(os.Stdout, fs)
		os.Exit(0)
	}

	if err := validateCLIConfig(cli); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Use -help for usage information.\n")
		os.Exit(1)
	}

	cfg, err := resolveConfig(cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := logrus.StandardLogger()
	logger.SetOutput(os.Stderr)
	if err := cfg.ConfigureLogging(logger); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	log := logrus.NewEntry(logger).WithField("command", "vfilter")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel, log)

	if err := run(ctx, cli, cfg, log); err != nil {
		log.WithFields(logrus.Fields{
			"function": "main",
			"error":    err.Error(),
		}).Error("vfilter failed")
		os.Exit(1)
	}
}
