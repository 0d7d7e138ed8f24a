package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/croqaz/private-briefcase/cli"
	"github.com/croqaz/private-briefcase/genericclioptions"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	cmd := cli.NewDefaultBriefcaseCommand(genericclioptions.NewDefaultIOStreams(), os.Args[1:])

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
