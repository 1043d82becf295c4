// Command flock renders and plays synth definitions.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

type config struct {
	args   []string
	stdout io.Writer
}

type command interface {
	Name() string
	Help() string
	Run(stdout io.Writer) error
	Register(*flag.FlagSet)
}

func (config *config) run() int {
	cmdName, args := parseArgs(config.args)
	if cmdName == "" {
		printUsage(config.stdout)
		return errorExitCode
	}

	for _, cmd := range commands {
		if cmd.Name() != cmdName {
			continue
		}
		flags := flag.NewFlagSet(cmdName, flag.ContinueOnError)
		flags.SetOutput(config.stdout)
		cmd.Register(flags)
		if err := flags.Parse(args); err != nil {
			return errorExitCode
		}
		if err := cmd.Run(config.stdout); err != nil {
			fmt.Fprintf(config.stdout, "Command failed: %v\n", err)
			return errorExitCode
		}
		return successExitCode
	}
	printUsage(config.stdout)
	return errorExitCode
}

var (
	successExitCode = 0
	errorExitCode   = 1
	commands        = []command{
		&listCommand{},
		&inspectCommand{},
		&renderCommand{},
		&playCommand{},
	}
)

func main() {
	c := config{
		args:   os.Args,
		stdout: os.Stdout,
	}
	os.Exit(c.run())
}

func parseArgs(args []string) (string, []string) {
	if len(args) < 2 {
		return "", nil
	}
	return args[1], args[2:]
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Flock renders and plays synth definitions")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: flock <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "\t%s\t%s\n", cmd.Name(), cmd.Help())
	}
}
