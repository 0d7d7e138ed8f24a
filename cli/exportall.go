package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/croqaz/private-briefcase/clierror"
	"github.com/croqaz/private-briefcase/genericclioptions"
)

// ExportAllOptions holds data required to run the exportall command.
type ExportAllOptions struct {
	*DefaultVltOptions
	passwordFlags

	destDir string
}

var _ genericclioptions.CmdOptions = &ExportAllOptions{}

func NewExportAllOptions(defaults *DefaultVltOptions) *ExportAllOptions {
	return &ExportAllOptions{DefaultVltOptions: defaults}
}

func (*ExportAllOptions) Complete() error { return nil }

func (o *ExportAllOptions) Validate() error {
	if len(o.destDir) == 0 {
		return fmt.Errorf("exportall: --dest is required")
	}

	return nil
}

func (o *ExportAllOptions) Run(ctx context.Context, _ ...string) error {
	password, err := o.resolve(o.IOStreams)
	if err != nil {
		return err
	}

	n, err := o.vaultOptions.Vault().ExportAll(ctx, o.destDir, password)
	if err != nil {
		return err
	}

	o.Infof("Exported %d entries to %q\n", n, o.destDir)

	return nil
}

// NewCmdExportAll creates the exportall cobra command.
func NewCmdExportAll(defaults *DefaultVltOptions) *cobra.Command {
	o := NewExportAllOptions(defaults)

	cmd := &cobra.Command{
		Use:   "exportall",
		Short: "Export the latest version of every entry matching the supplied password",
		Long:  `Entries whose password doesn't match the one supplied are skipped.`,
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().StringVar(&o.destDir, "dest", "", "destination directory (required)")
	o.passwordFlags.register(cmd)

	return cmd
}
