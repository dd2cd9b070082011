package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"

	"steamcli/pkg/api"
	"steamcli/pkg/cli"
	"steamcli/pkg/config"
)

func main() {
	os.Exit(runMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func runMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// The deal-aggregator key usually lives in .env next to the settings.
	config.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env := cli.Env{In: stdin, Out: stdout, Err: stderr}
	if err := cli.Execute(ctx, args, env); err != nil {
		fmt.Fprintln(stderr, describe(err))
		return 1
	}
	return 0
}

// describe turns an error into the line shown to the user.
func describe(err error) string {
	var se *api.StatusError
	var ne net.Error
	switch {
	case errors.As(err, &se):
		return fmt.Sprintf("Error: %s (%d %s, %s)", se.Detail, se.Status, se.Title, se.Instance)
	case errors.Is(err, context.Canceled):
		return "Interrupted"
	case errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()):
		return "Error: upstream service timed out: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}
