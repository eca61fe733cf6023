// Package cliargs parses the Unix-style positional/key:value argument
// shape used by latticectl's retrieve subcommands: a single optional
// positional argument plus any number of key:value pairs, with support
// for quoted values the shell has split across multiple argv entries.
package cliargs

import (
	"fmt"
	"strconv"
	"strings"
)

// Parsed holds the result of splitting argv into a single positional
// and a set of key:value params.
type Parsed struct {
	Positional    string
	HasPositional bool
	Params        map[string]string
}

// Parse splits args into an optional first positional argument and a
// map of key:value pairs. A value starting with an unmatched `"` is
// assumed split by the shell and is reconstructed by consuming
// subsequent args until one ends in `"`.
func Parse(args []string) Parsed {
	p := Parsed{Params: make(map[string]string)}
	if len(args) == 0 {
		return p
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		key, value, isPair := strings.Cut(arg, ":")
		if !isPair {
			if !p.HasPositional {
				p.Positional = arg
				p.HasPositional = true
			}
			continue
		}

		var final string
		switch {
		case strings.HasPrefix(value, `"`) && !strings.HasSuffix(value, `"`):
			var b strings.Builder
			b.WriteString(value)
			for i+1 < len(args) {
				i++
				b.WriteByte(' ')
				b.WriteString(args[i])
				if strings.HasSuffix(args[i], `"`) {
					break
				}
			}
			final = unquote(b.String())
		case strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) && len(value) > 1:
			final = unquote(value)
		default:
			final = value
		}

		p.Params[key] = final
	}

	return p
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// RequiredString returns the positional argument if present, else the
// params value for key, else an error wrapping msg.
func RequiredString(p Parsed, key, msg string) (string, error) {
	if p.HasPositional {
		return p.Positional, nil
	}
	if v, ok := p.Params[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%s", msg)
}

// IntParam returns the params value for key parsed as an int, or
// fallback if key is absent or unparseable.
func IntParam(p Parsed, key string, fallback int) int {
	v, ok := p.Params[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// StringParam returns the params value for key, or "" with ok=false.
func StringParam(p Parsed, key string) (string, bool) {
	v, ok := p.Params[key]
	return v, ok
}
