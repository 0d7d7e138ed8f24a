package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/croqaz/private-briefcase/clierror"
	"github.com/croqaz/private-briefcase/genericclioptions"
)

// ExportFileError wraps failures from the exportfile command.
type ExportFileError struct{ Err error }

func (e *ExportFileError) Error() string { return "exportfile: " + e.Err.Error() }
func (e *ExportFileError) Unwrap() error { return e.Err }

// ExportFileOptions holds data required to run the exportfile command.
type ExportFileOptions struct {
	*DefaultVltOptions
	passwordFlags

	name    string
	version int
	destDir string
	execute bool
}

var _ genericclioptions.CmdOptions = &ExportFileOptions{}

func NewExportFileOptions(defaults *DefaultVltOptions) *ExportFileOptions {
	return &ExportFileOptions{DefaultVltOptions: defaults}
}

func (*ExportFileOptions) Complete() error { return nil }

func (o *ExportFileOptions) Validate() error {
	if len(o.name) == 0 {
		return fmt.Errorf("exportfile: --name is required")
	}

	if !o.execute && len(o.destDir) == 0 {
		return fmt.Errorf("exportfile: --dest is required unless --execute is set")
	}

	return nil
}

func (o *ExportFileOptions) Run(ctx context.Context, _ ...string) error {
	password, err := o.resolve(o.IOStreams)
	if err != nil {
		return &ExportFileError{err}
	}

	hash, err := o.vaultOptions.Vault().ExportFile(ctx, o.name, password, o.version, o.destDir, o.execute)
	if err != nil {
		return &ExportFileError{err}
	}

	o.Infof("Exported %q (hash %s)\n", o.name, hash)

	return nil
}

// NewCmdExportFile creates the exportfile cobra command.
func NewCmdExportFile(defaults *DefaultVltOptions) *cobra.Command {
	o := NewExportFileOptions(defaults)

	cmd := &cobra.Command{
		Use:   "exportfile",
		Short: "Export one entry to a destination directory or the default viewer",
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().StringVar(&o.name, "name", "", "entry name (required)")
	cmd.Flags().IntVar(&o.version, "version", 0, "version number to export (default: latest)")
	cmd.Flags().StringVar(&o.destDir, "dest", "", "destination directory")
	cmd.Flags().BoolVar(&o.execute, "execute", false, "materialize to a temp file and launch the host's default viewer")
	o.passwordFlags.register(cmd)

	return cmd
}
