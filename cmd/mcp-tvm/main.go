package main

import (
	"os"

	"github.com/cloud-ru/mcp-tvm-go/cmd/mcp-tvm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
