package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/temirov/tempo/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the tempo command-line application.
func main() {
	executionContext, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	executionError := cli.Execute(executionContext)
	stop()
	if executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
