package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/croqaz/private-briefcase/clierror"
	"github.com/croqaz/private-briefcase/genericclioptions"
)

// RenFileOptions holds data required to run the renfile command.
type RenFileOptions struct {
	*DefaultVltOptions

	name    string
	newName string
}

var _ genericclioptions.CmdOptions = &RenFileOptions{}

func NewRenFileOptions(defaults *DefaultVltOptions) *RenFileOptions {
	return &RenFileOptions{DefaultVltOptions: defaults}
}

func (*RenFileOptions) Complete() error { return nil }

func (o *RenFileOptions) Validate() error {
	if len(o.name) == 0 || len(o.newName) == 0 {
		return fmt.Errorf("renfile: --name and --new-name are required")
	}

	return nil
}

func (o *RenFileOptions) Run(ctx context.Context, _ ...string) error {
	if err := o.vaultOptions.Vault().RenFile(ctx, o.name, o.newName); err != nil {
		return err
	}

	o.Infof("Renamed %q to %q\n", o.name, o.newName)

	return nil
}

// NewCmdRenFile creates the renfile cobra command.
func NewCmdRenFile(defaults *DefaultVltOptions) *cobra.Command {
	o := NewRenFileOptions(defaults)

	cmd := &cobra.Command{
		Use:   "renfile",
		Short: "Rename an entry",
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().StringVar(&o.name, "name", "", "current entry name (required)")
	cmd.Flags().StringVar(&o.newName, "new-name", "", "new entry name (required)")

	return cmd
}
