// Package supporting adapts errors to the exit code convention of the
// command line frontend.
package supporting

import (
	"fmt"

	"github.com/urfave/cli"
)

// AdaptError wraps err into a cli.ExitError carrying the given exit
// code. Errors that already are exit errors keep their original code.
func AdaptError(err error, exitCode int) *cli.ExitError {
	if err == nil {
		return nil
	}
	if e, ok := err.(*cli.ExitError); ok {
		return e
	}
	return cli.NewExitError(err.Error(), exitCode)
}

// AdaptErrorWithMessage works like AdaptError but prefixes the error
// text with an explanatory message.
func AdaptErrorWithMessage(err error, msg string, exitCode int) *cli.ExitError {
	if err == nil {
		return nil
	}
	if e, ok := err.(*cli.ExitError); ok {
		return e
	}
	return cli.NewExitError(fmt.Sprintf("%s => err: %s", msg, err.Error()), exitCode)
}
