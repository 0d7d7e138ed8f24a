package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/croqaz/private-briefcase/clierror"
	"github.com/croqaz/private-briefcase/genericclioptions"
)

// DelFileOptions holds data required to run the delfile command.
type DelFileOptions struct {
	*DefaultVltOptions

	name    string
	version int
}

var _ genericclioptions.CmdOptions = &DelFileOptions{}

func NewDelFileOptions(defaults *DefaultVltOptions) *DelFileOptions {
	return &DelFileOptions{DefaultVltOptions: defaults}
}

func (*DelFileOptions) Complete() error { return nil }

func (o *DelFileOptions) Validate() error {
	if len(o.name) == 0 {
		return fmt.Errorf("delfile: --name is required")
	}

	return nil
}

func (o *DelFileOptions) Run(ctx context.Context, _ ...string) error {
	if err := o.vaultOptions.Vault().DelFile(ctx, o.name, o.version); err != nil {
		return err
	}

	if o.version <= 0 {
		o.Infof("Deleted %q\n", o.name)
	} else {
		o.Infof("Deleted %q version %d\n", o.name, o.version)
	}

	return nil
}

// NewCmdDelFile creates the delfile cobra command.
func NewCmdDelFile(defaults *DefaultVltOptions) *cobra.Command {
	o := NewDelFileOptions(defaults)

	cmd := &cobra.Command{
		Use:   "delfile",
		Short: "Delete an entry or a single version of it",
		Long:  `Without --version, the entire entry (all versions, statistics) is removed.`,
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().StringVar(&o.name, "name", "", "entry name (required)")
	cmd.Flags().IntVar(&o.version, "version", 0, "version number to delete (default: whole entry)")

	return cmd
}
