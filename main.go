// Package main is the entry point for the vres application.
package main

import (
	"github.com/samber/lo"
	"github.com/vres-cli/vres/cmd"
	"github.com/vres-cli/vres/config"
	"github.com/vres-cli/vres/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go log.CollectGarbage()

	cmd.Execute()
}
