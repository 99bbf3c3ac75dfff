package main

import (
	"context"
	"fmt"
	"os"

	"github.com/carlfalc/glutenworld-sub001/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "accessd:", err)
		os.Exit(1)
	}
}
