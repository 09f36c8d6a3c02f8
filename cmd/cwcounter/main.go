// Package main implements a CLI to operate the counter contract on a local
// ledger database.
//
//  cwcounter --db /tmp/counter.db instantiate --sender alice --counter 0
//  cwcounter --db /tmp/counter.db execute increment --sender bob
//  cwcounter --db /tmp/counter.db execute reset --sender alice --value 10
//  cwcounter --db /tmp/counter.db query count
//  cwcounter --config host.yml --metrics query count
package main

import (
	"fmt"
	"io"
	"os"

	"go.dedis.ch/cwcounter/cli/urfave"
	"go.dedis.ch/cwcounter/contracts/counter/controller"
)

func main() {
	err := run(os.Args, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	builder := urfave.NewBuilder("cwcounter", nil, controller.GlobalFlags()...)
	builder.SetUsage("operate the counter contract on a local ledger")

	controller.NewController(out).SetCommands(builder)

	return builder.Build().Run(args)
}
