// Package flagx lets several components share os.Args: each one picks out
// only the flags it owns before handing them to its own flag.FlagSet.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs returns the subset of args that belongs to the flags in valued
// (flags that take a value) and switches (boolean flags that never consume
// the following argument).
//
// Recognised forms:
//
//	-c conf.json     valued flag, value in the next argument
//	-config=conf.json
//	-cleanup         switch
//	-cleanup=false
//
// A valued flag followed by something that looks like another flag is kept
// without a value, so the owning FlagSet reports the error.
func FilterArgs(args []string, valued []string, switches ...string) []string {
	owned := make(map[string]bool, len(valued)+len(switches))
	for _, f := range valued {
		owned[f] = true
	}
	for _, f := range switches {
		owned[f] = false
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, known := owned[name]; known {
				filtered = append(filtered, arg)
			}
			continue
		}

		takesValue, known := owned[arg]
		if !known {
			continue
		}
		filtered = append(filtered, arg)
		if takesValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFileFlag extracts the JSON config path given via -c or -config.
// The last occurrence wins; an empty string means no file was requested.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}

// JsonConfigFlags is ConfigFileFlag applied to the process arguments.
func JsonConfigFlags() string {
	return ConfigFileFlag(os.Args[1:])
}

// Positional is the complement of FilterArgs: it drops the listed flags
// (and the values they consume) and returns everything else in order.
func Positional(args []string, valued []string, switches ...string) []string {
	owned := make(map[string]bool, len(valued)+len(switches))
	for _, f := range valued {
		owned[f] = true
	}
	for _, f := range switches {
		owned[f] = false
	}

	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, known := owned[name]; known {
				continue
			}
			rest = append(rest, arg)
			continue
		}

		takesValue, known := owned[arg]
		if !known {
			rest = append(rest, arg)
			continue
		}
		if takesValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}
	return rest
}
