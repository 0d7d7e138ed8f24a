package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/croqaz/private-briefcase/clierror"
	"github.com/croqaz/private-briefcase/genericclioptions"
)

// StatsOptions holds data required to run the stats command.
type StatsOptions struct {
	*DefaultVltOptions

	name string
}

var _ genericclioptions.CmdOptions = &StatsOptions{}

func NewStatsOptions(defaults *DefaultVltOptions) *StatsOptions {
	return &StatsOptions{DefaultVltOptions: defaults}
}

func (*StatsOptions) Complete() error { return nil }

func (o *StatsOptions) Validate() error {
	if len(o.name) == 0 {
		return fmt.Errorf("stats: --name is required")
	}

	return nil
}

func (o *StatsOptions) Run(ctx context.Context, _ ...string) error {
	stats, err := o.vaultOptions.Vault().FileStatistics(ctx, o.name)
	if err != nil {
		return err
	}

	o.Printf("file:    %s\n", stats.File)
	o.Printf("size0:   %d\n", stats.Size0)
	o.Printf("size:    %d\n", stats.Size)
	o.Printf("sizeb:   %d\n", stats.SizeB)
	o.Printf("date0:   %s\n", stats.Date0)
	o.Printf("date:    %s\n", stats.Date)
	o.Printf("user0:   %s\n", stats.User0)
	o.Printf("user:    %s\n", stats.User)
	o.Printf("labels:  %s\n", stats.Labels)

	return nil
}

// NewCmdStats creates the stats cobra command.
func NewCmdStats(defaults *DefaultVltOptions) *cobra.Command {
	o := NewStatsOptions(defaults)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregated statistics for an entry",
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().StringVar(&o.name, "name", "", "entry name (required)")

	return cmd
}
