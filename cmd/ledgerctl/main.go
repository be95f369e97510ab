package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ijair/codeEcommerce-sub001/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(nil, nil).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
