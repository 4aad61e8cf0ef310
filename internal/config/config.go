// Package config loads a TFA definition from a TOML file: a small common
// header identifies the file, and the rest of the document is unmarshaled
// into the definition record model.Build expects.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/arnelund/tfa/internal/interval"
	"github.com/arnelund/tfa/internal/model"
	"github.com/arnelund/tfa/internal/util"
)

// SupportedFormat is the only "format" header value this loader accepts.
const SupportedFormat = "TFA"

// FileInfo is the common header every definition file carries.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// transitionRecord is one [[transitions]] table entry.
type transitionRecord struct {
	From  string `toml:"from"`
	Event string `toml:"event"`
	To    string `toml:"to"`
	Guard string `toml:"guard"`
	Reset string `toml:"reset"`
}

// document is the full shape of a .tfa.toml file.
type document struct {
	FileInfo

	States        []string           `toml:"states"`
	Events        []string           `toml:"events"`
	InitialStates []string           `toml:"initial_states"`
	Transitions   []transitionRecord `toml:"transitions"`
}

// Load reads and parses the TFA definition at path into a model.Def ready
// for model.Build. It returns an error if the file cannot be read, is not
// valid TOML, declares an unsupported format, or names a guard/reset
// interval that doesn't parse.
func Load(path string) (model.Def, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Def{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML-formatted data into a model.Def, performing the same
// validation Load does.
func Parse(data []byte) (model.Def, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return model.Def{}, fmt.Errorf("parsing definition: %w", err)
	}

	if doc.Format != "" && doc.Format != SupportedFormat {
		return model.Def{}, fmt.Errorf("unsupported format %q, expected %q", doc.Format, SupportedFormat)
	}

	if missing := unknownStates(doc.InitialStates, doc.States); len(missing) > 0 {
		return model.Def{}, fmt.Errorf("initial_states names %s, not present in states", util.MakeTextList(missing))
	}

	def := model.Def{
		States:        doc.States,
		Events:        doc.Events,
		InitialStates: doc.InitialStates,
		Guard:         map[model.Transition]interval.Interval{},
		Reset:         map[model.Transition]interval.Interval{},
	}

	for _, tr := range doc.Transitions {
		key := model.Transition{From: tr.From, Event: tr.Event, To: tr.To}
		def.Transitions = append(def.Transitions, key)

		if tr.Guard != "" {
			g, err := interval.Parse(tr.Guard)
			if err != nil {
				return model.Def{}, fmt.Errorf("transition %s: guard: %w", key, err)
			}
			def.Guard[key] = g
		}

		if tr.Reset != "" {
			r, err := interval.Parse(tr.Reset)
			if err != nil {
				return model.Def{}, fmt.Errorf("transition %s: reset: %w", key, err)
			}
			def.Reset[key] = r
		}
	}

	return def, nil
}

// unknownStates returns the entries of names not present in known.
func unknownStates(names, known []string) []string {
	knownSet := make(map[string]bool, len(known))
	for _, s := range known {
		knownSet[s] = true
	}

	var missing []string
	for _, n := range names {
		if !knownSet[n] {
			missing = append(missing, n)
		}
	}
	return missing
}
