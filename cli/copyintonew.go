package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/croqaz/private-briefcase/clierror"
	"github.com/croqaz/private-briefcase/genericclioptions"
)

// CopyIntoNewOptions holds data required to run the copyintonew command.
type CopyIntoNewOptions struct {
	*DefaultVltOptions

	name    string
	version int
	newName string
}

var _ genericclioptions.CmdOptions = &CopyIntoNewOptions{}

func NewCopyIntoNewOptions(defaults *DefaultVltOptions) *CopyIntoNewOptions {
	return &CopyIntoNewOptions{DefaultVltOptions: defaults}
}

func (*CopyIntoNewOptions) Complete() error { return nil }

func (o *CopyIntoNewOptions) Validate() error {
	if len(o.name) == 0 || len(o.newName) == 0 {
		return fmt.Errorf("copyintonew: --name and --new-name are required")
	}

	return nil
}

func (o *CopyIntoNewOptions) Run(ctx context.Context, _ ...string) error {
	if err := o.vaultOptions.Vault().CopyIntoNew(ctx, o.name, o.version, o.newName); err != nil {
		return err
	}

	o.Infof("Copied %q into %q\n", o.name, o.newName)

	return nil
}

// NewCmdCopyIntoNew creates the copyintonew cobra command.
func NewCmdCopyIntoNew(defaults *DefaultVltOptions) *cobra.Command {
	o := NewCopyIntoNewOptions(defaults)

	cmd := &cobra.Command{
		Use:   "copyintonew",
		Short: "Copy a version of one entry into a brand new entry",
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().StringVar(&o.name, "name", "", "source entry name (required)")
	cmd.Flags().IntVar(&o.version, "version", 0, "source version number (default: latest)")
	cmd.Flags().StringVar(&o.newName, "new-name", "", "destination entry name (required)")

	return cmd
}
