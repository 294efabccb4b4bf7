package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacoelho/jpath/internal/exit"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		result := exit.FromError(err)
		result.Output = stderr
		result.Print()
		return result.ExitCode
	}

	return exit.CodeSuccess
}
