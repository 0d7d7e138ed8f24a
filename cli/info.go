package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/croqaz/private-briefcase/clierror"
	"github.com/croqaz/private-briefcase/genericclioptions"
)

// InfoOptions holds data required to run the info command.
type InfoOptions struct {
	*DefaultVltOptions
}

var _ genericclioptions.CmdOptions = &InfoOptions{}

func NewInfoOptions(defaults *DefaultVltOptions) *InfoOptions {
	return &InfoOptions{DefaultVltOptions: defaults}
}

func (*InfoOptions) Complete() error { return nil }

func (*InfoOptions) Validate() error { return nil }

func (o *InfoOptions) Run(ctx context.Context, _ ...string) error {
	summary, err := o.vaultOptions.Vault().Info(ctx)
	if err != nil {
		return err
	}

	o.Printf("files:          %d\n", summary.NumberOfFiles)
	o.Printf("created:        %s by %s\n", summary.DateCreated, summary.UserCreated)
	o.Printf("engine version: %s\n", summary.EngineVersion)
	o.Printf("labels:         %s\n", strings.Join(summary.AllLabels, ", "))

	return nil
}

// NewCmdInfo creates the info cobra command.
func NewCmdInfo(defaults *DefaultVltOptions) *cobra.Command {
	o := NewInfoOptions(defaults)

	return &cobra.Command{
		Use:   "info",
		Short: "Show a summary of the vault",
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}
}
