package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/croqaz/private-briefcase/clierror"
	"github.com/croqaz/private-briefcase/genericclioptions"
)

// CleanupOptions holds data required to run the cleanup command.
type CleanupOptions struct {
	*DefaultVltOptions
}

var _ genericclioptions.CmdOptions = &CleanupOptions{}

func NewCleanupOptions(defaults *DefaultVltOptions) *CleanupOptions {
	return &CleanupOptions{DefaultVltOptions: defaults}
}

func (*CleanupOptions) Complete() error { return nil }

func (*CleanupOptions) Validate() error { return nil }

func (o *CleanupOptions) Run(ctx context.Context, _ ...string) error {
	if err := o.vaultOptions.Vault().Cleanup(ctx); err != nil {
		return err
	}

	o.Infof("Cleanup complete\n")

	return nil
}

// NewCmdCleanup creates the cleanup cobra command.
func NewCmdCleanup(defaults *DefaultVltOptions) *cobra.Command {
	o := NewCleanupOptions(defaults)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Rebuild statistics, truncate logs, and reclaim unused space",
		Long: `Truncates the logs and statistics tables, recomputes statistics from the
current entries, and runs a container-level VACUUM.`,
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	return cmd
}
