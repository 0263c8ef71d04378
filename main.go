package main

import (
	"github.com/ethpandaops/trace-icicle/cmd"
)

func main() {
	cmd.Execute()
}
