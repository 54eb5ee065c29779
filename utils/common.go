package utils

import (
	"flag"
	"fmt"
	"log"
	"time"
)

type options struct {
	noColorize bool
	verbose    bool
}

var opts = &options{}

type optInterface struct{}

// Opts exposes read-only access to the global option set.
func Opts() optInterface {
	return optInterface{}
}

func (optInterface) NoColorize() bool {
	return opts.noColorize
}

func (optInterface) Verbose() bool {
	return opts.verbose
}

func (optInterface) OnVerbose(do func()) {
	if Opts().Verbose() {
		do()
	}
}

// CanColorize guards a colorization function behind the -no-colorize flag.
func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			res := ""
			for _, i := range is {
				res += fmt.Sprint(i)
			}
			return res
		}
	}
	return col
}

func VerbosePrint(format string, a ...interface{}) (n int, err error) {
	if Opts().Verbose() {
		return fmt.Printf(format, a...)
	}
	return 0, nil
}

func TimeTrack(start time.Time, name string) {
	VerbosePrint("%s took %s\n", name, time.Since(start))
}

func init() {
	flag.BoolVar(&(opts.noColorize), "no-colorize", false, "Disable pretty printer colorization")
	flag.BoolVar(&(opts.verbose), "verbose", false, "enable verbose output")

	// Set up logging
	log.SetFlags(log.Ltime | log.Lshortfile)
}
