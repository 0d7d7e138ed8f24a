package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/croqaz/private-briefcase/clierror"
	"github.com/croqaz/private-briefcase/genericclioptions"
)

// LabelsOptions holds data required to run the labels command.
type LabelsOptions struct {
	*DefaultVltOptions

	name   string
	labels []string
}

var _ genericclioptions.CmdOptions = &LabelsOptions{}

func NewLabelsOptions(defaults *DefaultVltOptions) *LabelsOptions {
	return &LabelsOptions{DefaultVltOptions: defaults}
}

func (*LabelsOptions) Complete() error { return nil }

func (o *LabelsOptions) Validate() error {
	if len(o.name) == 0 {
		return fmt.Errorf("labels: --name is required")
	}

	return nil
}

func (o *LabelsOptions) Run(ctx context.Context, _ ...string) error {
	if err := o.vaultOptions.Vault().SetLabels(ctx, o.name, o.labels); err != nil {
		return err
	}

	o.Infof("Labels updated for %q\n", o.name)

	return nil
}

// NewCmdLabels creates the labels cobra command.
func NewCmdLabels(defaults *DefaultVltOptions) *cobra.Command {
	o := NewLabelsOptions(defaults)

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Replace the labels on an entry",
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().StringVar(&o.name, "name", "", "entry name (required)")
	cmd.Flags().StringSliceVar(&o.labels, "label", nil, "label to set (comma-separated or repeated; omit to clear)")

	return cmd
}
