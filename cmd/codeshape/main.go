package main

import (
	"context"
	"os"

	"codeshape/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(context.Background(), os.Args[1:], cli.StdStreams()))
}
