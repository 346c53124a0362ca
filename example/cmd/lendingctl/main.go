// Command lendingctl manages a lending registry from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/AntonStoeckl/lending-registry-go/example/shell/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.Execute(ctx)
	stop()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
