/*
Tfactl loads a TFA definition file and prints a report of its bound sets
and zone automaton.

Usage:

	tfactl [flags]

The flags are:

	-v, --version
		Give the current version of the toolkit and then exit.

	-f, --file FILE
		Use the provided .tfa.toml definition file. Defaults to "tfa.toml" in
		the current working directory.

	-r, --reduce
		Prune unreachable extended states from the zone automaton before
		reporting it.

	-o, --observer
		Also build and report the observer automaton.
*/
package main

import (
	"fmt"
	"os"

	"github.com/arnelund/tfa"
	"github.com/arnelund/tfa/internal/config"
	"github.com/arnelund/tfa/internal/version"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitInitError
	ExitAnalysisError
)

var (
	returnCode  int
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	defFile     = pflag.StringP("file", "f", "tfa.toml", "The .tfa.toml definition file to analyze")
	flagReduce  = pflag.BoolP("reduce", "r", false, "Prune unreachable extended states before reporting")
	flagObs     = pflag.BoolP("observer", "o", false, "Also build and report the observer automaton")
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

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	def, err := config.Load(*defFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	analysis, err := tfa.New(def, tfa.Options{Reduce: *flagReduce, BuildObserver: *flagObs})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitAnalysisError
		return
	}

	fmt.Print(report(analysis))
}

func report(a tfa.Analysis) string {
	var out string

	out += "=== Bound Sets ===\n"
	boundsData := [][]string{{"State", "Bounds"}}
	for _, x := range a.TFA.States() {
		boundsData = append(boundsData, []string{x, fmt.Sprintf("%v", a.Bounds[x])})
	}
	out += rosed.Edit("").
		InsertTableOpts(0, boundsData, 80, rosed.Options{TableHeaders: true}).
		String()
	out += "\n\n"

	if len(a.Warnings) > 0 {
		out += "=== Warnings ===\n"
		for _, w := range a.Warnings {
			out += w.String() + "\n"
		}
		out += "\n"
	}

	out += "=== Zone Automaton ===\n"
	zoneData := [][]string{{"From", "Label", "To"}}
	for _, e := range a.Zone.Edges {
		zoneData = append(zoneData, []string{e.From.String(), e.Label, e.To.String()})
	}
	out += rosed.Edit("").
		InsertTableOpts(0, zoneData, 80, rosed.Options{TableHeaders: true}).
		String()
	out += "\n"

	if a.Observer != nil {
		out += "\n=== Observer Automaton ===\n"
		out += fmt.Sprintf("%d observer states, %d observable events\n", len(a.Observer.States), len(a.Observer.Events))
	}

	return out
}
