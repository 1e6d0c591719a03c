// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"znkr.io/di/internal/dirdiff"
)

// defaultArgs are parsed before all other options.
var defaultArgs = []string{
	"--rsync-exclude", "--fignore-exclude", "--ignore-cvs-lines",
	"--pager", "--color", "--highlight-whitespace", "--inline",
	"-U3", "-N", "-r", "-p", "-d",
}

// cvsLines matches RCS keyword lines.
const cvsLines = `\$\(LastChanged\(Date\|Revision\|By\)\|Date\|Revision\|Rev\|Author\|HeadURL\|URL\|Id\|Header\|\(Free\|Net\|Open\)BSD\|Name\|Locker\|Log\|RCSfile\|Source\|State\)\(\|: .* \|:: .*[ #]\)\$`

// format is the output format of diff.
type format int

const (
	formatNormal format = iota
	formatUnified
	formatContext
	formatEd
	formatRCS
	formatSideBySide
	formatIfdef
	formatCustom
)

// diffFlag is a flag passed to diff. Flags without a value are switches.
type diffFlag struct {
	name     string
	value    string
	hasValue bool
}

// options collects the result of parsing all option sources.
type options struct {
	stdin io.Reader

	// Wrapper features.
	pager               bool
	color               bool
	highlightWhitespace bool
	rsyncExclude        bool
	ignoreCVSLines      bool
	fignoreExclude      bool
	relative            bool
	inline              bool
	aligner             string
	filter              string

	// Directory traversal.
	recursive    bool
	newFile      dirdiff.NewFile
	exclude      []string
	include      []string
	startingFile string
	fromFile     string
	toFile       string

	// Flags for diff in order.
	flags        []diffFlag
	formatFlags  []diffFlag
	format       format
	customFormat bool

	version bool
	help    bool
}

// setFlag adds or removes a switch.
func (o *options) setFlag(name string, on bool) {
	o.flags = removeFlag(o.flags, name)
	if on {
		o.flags = append(o.flags, diffFlag{name: name})
	}
}

func removeFlag(flags []diffFlag, name string) []diffFlag {
	out := flags[:0]
	for _, f := range flags {
		if f.name != name {
			out = append(out, f)
		}
	}
	return out
}

// addFlag adds a flag with a value.
func (o *options) addFlag(name, value string) {
	o.flags = append(o.flags, diffFlag{name: name, value: value, hasValue: true})
}

// setFormat selects the output format, the last format flag wins.
func (o *options) setFormat(f format, flag diffFlag) {
	o.format = f
	o.customFormat = false
	o.formatFlags = []diffFlag{flag}
}

// addCustomFormat adds a line or group format. Custom formats can be combined with each other.
func (o *options) addCustomFormat(name, value string) {
	if !o.customFormat {
		o.formatFlags = nil
		o.customFormat = true
	}
	o.format = formatCustom
	o.formatFlags = append(o.formatFlags, diffFlag{name: name, value: value, hasValue: true})
}

// finish appends the format flags and derived flags after all options are parsed.
func (o *options) finish() {
	for _, f := range o.formatFlags {
		if f.hasValue {
			o.addFlag(f.name, f.value)
		} else {
			o.setFlag(f.name, true)
		}
	}
	if o.ignoreCVSLines {
		o.addFlag("-I", cvsLines)
	}
}

// diffArgs returns the flags for diff.
func (o *options) diffArgs() []string {
	var args []string
	for _, f := range o.flags {
		args = append(args, f.name)
		if f.hasValue {
			args = append(args, f.value)
		}
	}
	return args
}

// toggle is a boolean flag. It has an optional value, "--name=false" turns it off.
type toggle func(bool)

func (t toggle) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid argument %q", s)
	}
	t(v)
	return nil
}

func (toggle) String() string { return "" }
func (toggle) Type() string   { return "bool" }

// value is a flag with a string value.
type value func(string) error

func (v value) Set(s string) error { return v(s) }
func (value) String() string       { return "" }
func (value) Type() string         { return "string" }

// number validates an integer argument.
func number(s string) (string, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return "", fmt.Errorf("invalid argument %q", s)
	}
	return strconv.Itoa(n), nil
}

// flagSet returns a flag set that parses into o. Flags are applied in the order they appear.
func (o *options) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	onOff := func(long, short string, set func(bool)) {
		fs.VarPF(toggle(set), long, short, "").NoOptDefVal = "true"
	}
	str := func(long, short string, set func(string) error) {
		fs.VarP(value(set), long, short, "")
	}
	optional := func(long, short, def string, set func(string) error) {
		fs.VarPF(value(set), long, short, "").NoOptDefVal = def
	}
	// diffSwitch is passed through to diff.
	diffSwitch := func(long, short, flag string) {
		onOff(long, short, func(on bool) { o.setFlag(flag, on) })
	}
	// diffValue is passed through to diff.
	diffValue := func(long, short, flag string) {
		str(long, short, func(s string) error { o.addFlag(flag, s); return nil })
	}
	diffNumber := func(long, short, flag string) {
		str(long, short, func(s string) error {
			n, err := number(s)
			if err != nil {
				return err
			}
			o.addFlag(flag, n)
			return nil
		})
	}
	formatSwitch := func(long, short, flag string, f format) {
		onOff(long, short, func(on bool) {
			if on {
				o.setFormat(f, diffFlag{name: flag})
			}
		})
	}
	contextFormat := func(flag string, f format) func(string) error {
		return func(s string) error {
			n, err := number(s)
			if err != nil {
				return err
			}
			o.setFormat(f, diffFlag{name: flag, value: n, hasValue: true})
			return nil
		}
	}

	// Wrapper features.
	onOff("pager", "", func(on bool) { o.pager = on })
	onOff("color", "", func(on bool) { o.color = on })
	onOff("highlight-whitespace", "", func(on bool) { o.highlightWhitespace = on })
	onOff("rsync-exclude", "", func(on bool) { o.rsyncExclude = on })
	onOff("cvs-exclude", "", func(on bool) { o.rsyncExclude = on })
	onOff("ignore-cvs-lines", "", func(on bool) { o.ignoreCVSLines = on })
	onOff("fignore-exclude", "", func(on bool) { o.fignoreExclude = on })
	onOff("relative", "R", func(on bool) { o.relative = on })
	onOff("inline", "", func(on bool) { o.inline = on })
	str("aligner", "", func(s string) error {
		switch s {
		case "myers", "dmp", "none":
			o.aligner = s
			return nil
		default:
			return fmt.Errorf("invalid argument %q", s)
		}
	})
	optional("filter", "", "unified", func(s string) error {
		switch s {
		case "unified", "context":
			o.filter = s
			return nil
		default:
			return fmt.Errorf("invalid argument %q", s)
		}
	})

	// Comparison.
	diffSwitch("ignore-case", "i", "-i")
	diffSwitch("ignore-tab-expansion", "E", "-E")
	diffSwitch("ignore-space-change", "b", "-b")
	diffSwitch("ignore-all-space", "w", "-w")
	diffSwitch("ignore-blank-lines", "B", "-B")
	diffValue("ignore-matching-lines", "I", "-I")
	diffSwitch("strip-trailing-cr", "", "--strip-trailing-cr")
	diffSwitch("text", "a", "-a")

	// Output formats.
	optional("context", "c", "3", contextFormat("-C", formatContext))
	str("context-lines", "C", contextFormat("-C", formatContext))
	optional("unified", "u", "3", contextFormat("-U", formatUnified))
	str("unified-lines", "U", contextFormat("-U", formatUnified))
	diffValue("label", "L", "-L")
	diffSwitch("show-c-function", "p", "-p")
	diffValue("show-function-line", "F", "-F")
	diffSwitch("brief", "q", "-q")
	formatSwitch("ed", "e", "-e", formatEd)
	formatSwitch("normal", "", "--normal", formatNormal)
	formatSwitch("rcs", "n", "-n", formatRCS)
	formatSwitch("side-by-side", "y", "-y", formatSideBySide)
	diffNumber("width", "W", "-W")
	diffSwitch("left-column", "", "--left-column")
	diffSwitch("suppress-common-lines", "", "--suppress-common-lines")
	str("ifdef", "D", func(s string) error {
		o.setFormat(formatIfdef, diffFlag{name: "-D", value: s, hasValue: true})
		return nil
	})
	for _, kind := range []string{"old", "new", "changed", "unchanged"} {
		long := kind + "-group-format"
		str(long, "", func(s string) error { o.addCustomFormat("--"+long, s); return nil })
	}
	str("line-format", "", func(s string) error { o.addCustomFormat("--line-format", s); return nil })
	for _, kind := range []string{"old", "new", "unchanged"} {
		long := kind + "-line-format"
		str(long, "", func(s string) error { o.addCustomFormat("--"+long, s); return nil })
	}
	diffSwitch("paginate", "l", "-l")
	diffSwitch("expand-tabs", "t", "-t")
	diffSwitch("initial-tab", "T", "-T")
	diffNumber("tabsize", "", "--tabsize")
	diffSwitch("suppress-blank-empty", "", "--suppress-blank-empty")

	// Directories.
	onOff("recursive", "r", func(on bool) {
		o.setFlag("-r", on)
		o.recursive = on
	})
	onOff("new-file", "N", func(on bool) {
		o.setFlag("-N", on)
		o.newFile = dirdiff.NoNewFile
		if on {
			o.newFile = dirdiff.Bidirectional
		}
	})
	onOff("unidirectional-new-file", "", func(on bool) {
		o.setFlag("--unidirectional-new-file", on)
		o.newFile = dirdiff.NoNewFile
		if on {
			o.newFile = dirdiff.Unidirectional
		}
	})
	diffSwitch("report-identical-files", "s", "-s")
	str("exclude", "x", func(s string) error { o.exclude = append(o.exclude, s); return nil })
	str("exclude-from", "X", func(s string) error {
		patterns, err := o.readPatterns(s)
		if err != nil {
			return err
		}
		o.exclude = append(o.exclude, patterns...)
		return nil
	})
	str("include", "", func(s string) error { o.include = append(o.include, s); return nil })
	str("starting-file", "S", func(s string) error { o.startingFile = s; return nil })
	str("from-file", "", func(s string) error { o.fromFile = s; return nil })
	str("to-file", "", func(s string) error { o.toFile = s; return nil })

	// Algorithm.
	diffNumber("horizon-lines", "", "--horizon-lines")
	diffSwitch("minimal", "d", "-d")
	diffSwitch("speed-large-files", "", "--speed-large-files")

	onOff("version", "v", func(on bool) { o.version = on })
	onOff("help", "", func(on bool) { o.help = on })

	return fs
}

// readPatterns reads one pattern per line from a file or, for "-", from stdin.
func (o *options) readPatterns(name string) ([]string, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(o.stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	var patterns []string
	for line := range strings.SplitSeq(string(data), "\n") {
		if line != "" {
			patterns = append(patterns, line)
		}
	}
	return patterns, nil
}

// normalize rewrites the option syntax that pflag doesn't understand into an equivalent form:
//
//	--no-NAME, --NAME=-  turn off the toggle NAME
//	-x-                  turns off the toggle x
//	-u5, -c5             attach an optional value to a short flag
//
// Clusters of short flags are split into single flags. Everything after "--" is left alone.
func normalize(fs *pflag.FlagSet, args []string) []string {
	isToggle := func(f *pflag.Flag) bool { return f != nil && f.NoOptDefVal == "true" }

	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return append(out, args[i:]...)

		case strings.HasPrefix(arg, "--"):
			name, val, hasVal := strings.Cut(arg[2:], "=")
			f := fs.Lookup(name)
			if f == nil && !hasVal && strings.HasPrefix(name, "no-") && isToggle(fs.Lookup(name[3:])) {
				out = append(out, "--"+name[3:]+"=false")
				continue
			}
			if isToggle(f) && hasVal && val == "-" {
				out = append(out, "--"+name+"=false")
				continue
			}
			out = append(out, arg)
			if f != nil && !hasVal && f.NoOptDefVal == "" && i+1 < len(args) {
				i++
				out = append(out, args[i])
			}

		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			rest := arg[1:]
			for rest != "" {
				c := rest[:1]
				rest = rest[1:]
				f := fs.ShorthandLookup(c)
				switch {
				case f == nil:
					// pflag reports the unknown flag.
					out = append(out, "-"+c+rest)
					rest = ""
				case isToggle(f):
					if rest == "-" {
						out = append(out, "-"+c+"=false")
						rest = ""
					} else {
						out = append(out, "-"+c)
					}
				case f.NoOptDefVal != "":
					if rest != "" {
						out = append(out, "-"+c+"="+rest)
					} else {
						out = append(out, "-"+c)
					}
					rest = ""
				default:
					out = append(out, "-"+c)
					if rest != "" {
						out = append(out, rest)
					} else if i+1 < len(args) {
						i++
						out = append(out, args[i])
					}
					rest = ""
				}
			}

		default:
			out = append(out, arg)
		}
	}
	return out
}

// parse parses args into o and returns the operands.
func parse(fs *pflag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(normalize(fs, args)); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}
