package main

import (
	"github.com/andrescamacho/coldroute-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
