// Package main implements the dfcc CLI: a SQL-to-circuit compiler driver.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/electwix/dbcircuit/internal/compiler"
	"github.com/electwix/dbcircuit/internal/dfconfig"
	"github.com/electwix/dbcircuit/internal/logging"
)

func main() {
	code := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

type options struct {
	ConfigPath string
	Out        string
	Verbose    bool
	LogSource  bool
	Args       []string
}

func parseArgs(args []string) (options, error) {
	opts := options{}

	fs := flag.NewFlagSet("dfcc", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to a dfcc.toml configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to a dfcc.toml configuration file")
	fs.StringVar(&opts.Out, "o", "", "Write emitted circuit source here instead of stdout")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&opts.Verbose, "v", false, "Enable debug logging")
	fs.BoolVar(&opts.LogSource, "log-source", false, "Annotate log records with their call site")

	if len(args) == 0 {
		return options{}, fmt.Errorf("expected exactly one .sql file argument\n\n%s", usage(fs))
	}
	if err := fs.Parse(args); err != nil {
		return options{}, fmt.Errorf("%w\n\n%s", err, usage(fs))
	}

	opts.Args = fs.Args()
	if len(opts.Args) != 1 {
		return options{}, fmt.Errorf("expected exactly one .sql file argument\n\n%s", usage(fs))
	}
	return opts, nil
}

func usage(fs *flag.FlagSet) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Usage of %s:\n", fs.Name())
	out := fs.Output()
	fs.SetOutput(&buf)
	fs.PrintDefaults()
	fs.SetOutput(out)
	return buf.String()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	_ = ctx

	opts, err := parseArgs(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stdout, err.Error())
			return 0
		}
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	cfg := dfconfig.Default()
	if opts.ConfigPath != "" {
		cfg, err = dfconfig.Load(opts.ConfigPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	logger := logging.New(logging.Options{Verbose: opts.Verbose, AddSource: opts.LogSource, Writer: stderr})

	source, err := os.ReadFile(opts.Args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error reading %s: %v\n", opts.Args[0], err)
		return 1
	}

	c, err := compiler.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error initializing compiler: %v\n", err)
		return 1
	}
	defer c.Close()

	for _, stmt := range splitStatements(string(source)) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := c.Compile(stmt); err != nil {
			fmt.Fprintf(stderr, "Error compiling statement: %v\n", err)
			return 1
		}
	}

	out, err := c.Emit()
	if err != nil {
		fmt.Fprintf(stderr, "Error emitting circuit: %v\n", err)
		return 1
	}

	if opts.Out == "" {
		fmt.Fprint(stdout, out)
		return 0
	}
	if err := os.WriteFile(opts.Out, []byte(out), 0o644); err != nil {
		fmt.Fprintf(stderr, "Error writing %s: %v\n", opts.Out, err)
		return 1
	}
	return 0
}

// splitStatements breaks a .sql file into individual statements on
// top-level semicolons. The grammar's own statements never contain a
// literal semicolon (spec.md's query body has no string-literal column
// type), so a plain split is sufficient.
func splitStatements(source string) []string {
	return strings.Split(source, ";")
}
