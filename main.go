package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ttexec/pkg/config"
	"ttexec/pkg/eval"
	"ttexec/pkg/ffi"
	"ttexec/pkg/ffi/cbuild"
	"ttexec/pkg/ffi/native"
	"ttexec/pkg/program"
)

// libList collects repeated -lib flags
type libList []string

func (l *libList) String() string {
	return strings.Join(*l, ",")
}

func (l *libList) Set(path string) error {
	*l = append(*l, path)
	return nil
}

var (
	configFile = flag.String("config", "", "Configuration file (YAML)")
	outputFile = flag.String("o", "", "Output file (default: stdout)")
	jsonOutput = flag.Bool("json", false, "Print the result as JSON")
	verbose    = flag.Bool("v", false, "Verbose output")
	libs       libList
)

func main() {
	flag.Var(&libs, "lib", "Shared library or C source to resolve foreign calls in (repeatable)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "ttexec - run elaborated programs\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [program.json]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s main.json                        # Run a program\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -lib libc.so.6 -v main.json      # With foreign calls and debug logs\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -lib ffi/helpers.c main.json     # Build C sources with gcc before loading\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -config ttexec.yaml -json        # Program and libraries from a config file\n", os.Args[0])
	}
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
			os.Exit(1)
		}
	}
	if flag.NArg() > 0 {
		cfg.Program = flag.Arg(0)
	}
	cfg.Libraries = append(cfg.Libraries, libs...)
	if *verbose {
		cfg.LogLevel = zerolog.LevelDebugValue
	}
	if *jsonOutput {
		cfg.Output = config.OutputJSON
	}
	if cfg.Program == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
		w.TimeFormat = time.TimeOnly
	})).Level(level).With().Timestamp().Logger(), nil
}

func run(cfg *config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	prog, err := program.Load(cfg.Program)
	if err != nil {
		return err
	}

	var builder *cbuild.Builder
	var loaded []ffi.Library
	for _, path := range cfg.Libraries {
		if cbuild.IsSource(path) {
			if builder == nil {
				if builder, err = cbuild.New(); err != nil {
					return err
				}
				defer builder.Cleanup()
			}
			src := path
			if path, err = builder.BuildFile(src); err != nil {
				return err
			}
			logger.Debug().Str("src", "main").Str("source", src).Str("lib", path).Msg("built library")
		}
		lib, err := native.Open(path)
		if err != nil {
			return err
		}
		defer lib.Close()
		loaded = append(loaded, lib)
		logger.Debug().Str("src", "main").Str("lib", path).Msg("loaded library")
	}

	res, err := eval.Execute(prog.Defs, prog.Main,
		eval.WithLogger(logger),
		eval.WithLaziness(prog.Laziness),
		eval.WithLibraries(loaded...),
		eval.WithInvoker(native.Invoker{}),
	)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if cfg.Output == config.OutputJSON {
		return program.EncodeTerm(out, res)
	}
	_, err = fmt.Fprintln(out, res)
	return err
}
