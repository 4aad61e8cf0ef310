/*
Tfarepl is an interactive shell for simulating a loaded TFA one step at a
time.

Usage:

	tfarepl [flags]

The flags are:

	-f, --file FILE
		Use the provided .tfa.toml definition file. Defaults to "tfa.toml" in
		the current working directory.

Once started, the shell reads "EVENT TIMESTAMP" pairs and reports the
resulting (state, clock) or an error if the step was not enabled. Type
"RESET" to return to the initial state, or "QUIT" to exit.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/arnelund/tfa/internal/config"
	"github.com/arnelund/tfa/internal/input"
	"github.com/arnelund/tfa/internal/model"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitInitError
)

var (
	returnCode int
	defFile    = pflag.StringP("file", "f", "tfa.toml", "The .tfa.toml definition file to simulate against")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	def, err := config.Load(*defFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	t, err := model.Build(def)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	if len(t.InitialStates()) == 0 {
		fmt.Fprintln(os.Stderr, "ERROR: TFA has no initial states")
		returnCode = ExitInitError
		return
	}

	repl(t)
}

func repl(t model.TFA) {
	icr, err := input.NewInteractiveReader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not start readline: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	icr.SetPrompt("tfa> ")
	defer icr.Close()

	x := t.InitialStates()[0]
	var c float64

	fmt.Printf("Loaded TFA with %d states, %d events. Starting at %s.\n", len(t.States()), len(t.Events()), x)

	for {
		line, err := icr.ReadCommand()
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch strings.ToUpper(line) {
		case "QUIT":
			return
		case "RESET":
			x = t.InitialStates()[0]
			c = 0
			fmt.Printf("Reset to %s at clock 0.\n", x)
			continue
		}

		parts := strings.Fields(line)
		if len(parts) != 2 {
			fmt.Println(`expected "EVENT TIMESTAMP"`)
			continue
		}

		event := parts[0]
		timestamp, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			fmt.Printf("invalid timestamp %q: %s\n", parts[1], err.Error())
			continue
		}

		next, cPrime, ok := t.Successor(x, event, timestamp)
		if !ok {
			fmt.Printf("(%s, %s, %v) is not enabled\n", x, event, timestamp)
			continue
		}

		x, c = next, cPrime
		fmt.Printf("-> %s, clock = %v\n", x, c)
	}
}
