package main

import (
	"os"

	"github.com/yuanzh/investlib/bench"
)

func main() {
	comps := bench.Run(bench.Presets)
	bench.Report(os.Stdout, comps)
}
