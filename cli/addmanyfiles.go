package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/croqaz/private-briefcase/clierror"
	"github.com/croqaz/private-briefcase/codec"
	"github.com/croqaz/private-briefcase/genericclioptions"
	"github.com/croqaz/private-briefcase/vault"
)

// AddManyFilesOptions holds data required to run the addmanyfiles command.
type AddManyFilesOptions struct {
	*DefaultVltOptions
	passwordFlags

	glob        string
	labels      []string
	algorithm   string
	versionable bool
}

var _ genericclioptions.CmdOptions = &AddManyFilesOptions{}

func NewAddManyFilesOptions(defaults *DefaultVltOptions) *AddManyFilesOptions {
	return &AddManyFilesOptions{DefaultVltOptions: defaults}
}

func (*AddManyFilesOptions) Complete() error { return nil }

func (o *AddManyFilesOptions) Validate() error {
	if len(o.glob) == 0 {
		return fmt.Errorf("addmanyfiles: --glob is required")
	}

	return nil
}

func (o *AddManyFilesOptions) Run(ctx context.Context, _ ...string) error {
	password, err := o.resolve(o.IOStreams)
	if err != nil {
		return err
	}

	opts := vault.AddFileOptions{
		Labels:      o.labels,
		Algorithm:   codec.ParseAlgorithm(o.algorithm),
		Versionable: o.versionable,
	}

	n, err := o.vaultOptions.Vault().AddManyFiles(ctx, o.glob, password, opts)
	if err != nil {
		return err
	}

	o.Infof("Added %d file(s) matching %q\n", n, o.glob)

	return nil
}

// NewCmdAddManyFiles creates the addmanyfiles cobra command.
func NewCmdAddManyFiles(defaults *DefaultVltOptions) *cobra.Command {
	o := NewAddManyFilesOptions(defaults)

	cmd := &cobra.Command{
		Use:   "addmanyfiles",
		Short: "Add every file matching a glob pattern",
		Long:  `Expand a glob pattern and add every match, forwarding the same password and options to each.`,
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().StringVar(&o.glob, "glob", "", "glob pattern of source files (required)")
	cmd.Flags().StringSliceVar(&o.labels, "label", nil, "label to associate with every matched entry (comma-separated or repeated)")
	cmd.Flags().StringVar(&o.algorithm, "algorithm", "zlib", "compression algorithm: zlib or bz2")
	cmd.Flags().BoolVar(&o.versionable, "versionable", false, "allow adding a new version over existing entries")
	o.passwordFlags.register(cmd)

	return cmd
}
