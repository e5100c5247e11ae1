package config

import (
	"github.com/mini-maxit/tester/pkg/constants"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const flagConfig = "config"

// preset is a boolean flag that stands for a fixed value of another key.
type preset struct {
	key   string
	value any
}

var presets = map[string]preset{
	constants.FlagIgnoreSpaces:            {keyCompareMode, constants.CompareModeIgnoreSpaces},
	constants.FlagIgnoreSpacesAndNewlines: {keyCompareMode, constants.CompareModeIgnoreSpacesAndNewlines},
	constants.FlagDiff:                    {keyDisplayMode, constants.DisplayModeDiff},
	"no-print-input":                      {keyPrintInput, false},
	"no-ignore-backup":                    {keyIgnoreBackup, false},
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("tester", pflag.ContinueOnError)
	fs.SortFlags = false

	fs.String(flagConfig, "", "read settings from this yaml, toml or json file")

	fs.StringP(keyCommand, "c", "", "command to test (default ./a.out)")
	fs.StringP(keyFormat, "f", "", "test file name pattern, %s is the name and %e the extension (default %s.%e)")
	fs.StringP(keyDirectory, "d", "", "directory containing the test cases (default data)")
	fs.StringP(keyCompareMode, "m", "", "exact-match, crlf-insensitive-exact-match, ignore-spaces or ignore-spaces-and-newlines")
	fs.StringP(keyDisplayMode, "M", "", "summary, all, diff or diff-all (default summary)")
	fs.BoolP(constants.FlagIgnoreSpaces, "S", false, "same as --compare-mode ignore-spaces")
	fs.BoolP(constants.FlagIgnoreSpacesAndNewlines, "N", false, "same as --compare-mode ignore-spaces-and-newlines")
	fs.BoolP(constants.FlagDiff, "D", false, "same as --display-mode diff")
	fs.Float64P(keyTolerance, "e", 0, "accept floating point numbers within this absolute or relative error")
	fs.Float64P(keyTimeLimit, "t", 0, "time limit in seconds (default unbounded)")
	fs.Float64(keyMemoryLimit, 0, "memory limit in megabytes (default unbounded)")
	fs.BoolP(keyPrintInput, "i", false, "print the input of failed cases (default true)")
	fs.Bool("no-print-input", false, "do not print the input of failed cases")
	fs.IntP(keyJobs, "j", 0, "run this many cases in parallel (default 1)")
	fs.Bool(keyPrintMemory, false, "always print the memory usage")
	fs.String(keyGNUTime, "", "GNU time binary used to measure memory (default time, gtime on macOS)")
	fs.Bool(keyIgnoreBackup, false, "skip backup and hidden files (default true)")
	fs.Bool("no-ignore-backup", false, "do not skip backup and hidden files")
	fs.String(keyJudgeCommand, "", "special judge called as: judge <input> <actual> <expected>")
	fs.Float64(keyJudgeTimeLimit, 0, "time limit of one special judge call in seconds, 0 for unbounded (default 60)")
	fs.Bool(keySilent, false, "print only verdicts, never outputs")
	fs.String(keyReport, "", "write a .json or .yaml report of the run to this file")
	fs.String(keyResultQueueURL, "", "publish the summary to this amqp URL")
	fs.String(keyResultQueueName, "", "queue the summary is published to (default test_results)")
	fs.BoolP(keyVerbose, "v", false, "enable debug logging")

	return fs
}

// applyPresets sets the keys of the preset flags given on the command line.
// They win over every other source, --compare-mode and --display-mode included.
func applyPresets(fs *pflag.FlagSet, v *viper.Viper) {
	fs.Visit(func(f *pflag.Flag) {
		p, ok := presets[f.Name]
		if !ok {
			return
		}
		if enabled, err := fs.GetBool(f.Name); err == nil && enabled {
			v.Set(p.key, p.value)
		}
	})
}
