package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

const defaultServerURL = "http://localhost:3000"

// CLI holds the output streams and exit hook so commands can be tested.
type CLI struct {
	Output io.Writer
	Error  io.Writer
	Exit   func(int)
}

// NewCLI creates a new CLI instance with default dependencies
func NewCLI() *CLI {
	return &CLI{
		Output: os.Stdout,
		Error:  os.Stderr,
		Exit:   os.Exit,
	}
}

// GlobalConfig holds common configuration for all commands
type GlobalConfig struct {
	ServerURL string
}

// ParseGlobalFlags parses the common flags plus any registered by extra and
// returns the remaining positional arguments.
func (cli *CLI) ParseGlobalFlags(args []string, commandName string, extra func(*flag.FlagSet)) (*GlobalConfig, []string, error) {
	config := &GlobalConfig{}

	flagSet := flag.NewFlagSet(commandName, flag.ContinueOnError)
	flagSet.SetOutput(cli.Error)
	flagSet.StringVar(&config.ServerURL, "server", envOr("NEGOCIO_SERVER", defaultServerURL), "Negocio server URL")
	if extra != nil {
		extra(flagSet)
	}

	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		return nil, nil, flag.ErrHelp
	}
	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}
	return config, flagSet.Args(), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// CreateClient creates a client from GlobalConfig
func (cli *CLI) CreateClient(config *GlobalConfig) *NegocioClient {
	return NewNegocioClient(config.ServerURL)
}

func (cli *CLI) Printf(format string, args ...any) {
	fmt.Fprintf(cli.Output, format, args...)
}

func (cli *CLI) Println(args ...any) {
	fmt.Fprintln(cli.Output, args...)
}

func (cli *CLI) Errorf(format string, args ...any) {
	fmt.Fprintf(cli.Error, format, args...)
}

func (cli *CLI) Errorln(args ...any) {
	fmt.Fprintln(cli.Error, args...)
}

// HandleError prints err and exits. It reports whether err was non-nil so
// callers can return when Exit does not terminate the process.
func (cli *CLI) HandleError(err error, context string) bool {
	if err == nil {
		return false
	}
	cli.Errorf("Error %s: %v\n", context, err)
	cli.Exit(1)
	return true
}

// ValidateExactArgs checks that exactly n arguments are provided.
func (cli *CLI) ValidateExactArgs(args []string, n int, usage string) bool {
	if len(args) != n {
		cli.Errorln(usage)
		cli.Exit(1)
		return false
	}
	return true
}
