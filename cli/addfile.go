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

// AddFileError wraps failures from the addfile command.
type AddFileError struct{ Err error }

func (e *AddFileError) Error() string { return "addfile: " + e.Err.Error() }
func (e *AddFileError) Unwrap() error { return e.Err }

// AddFileOptions holds data required to run the addfile command.
type AddFileOptions struct {
	*DefaultVltOptions
	passwordFlags

	srcPath     string
	labels      []string
	algorithm   string
	versionable bool
}

var _ genericclioptions.CmdOptions = &AddFileOptions{}

func NewAddFileOptions(defaults *DefaultVltOptions) *AddFileOptions {
	return &AddFileOptions{DefaultVltOptions: defaults}
}

func (*AddFileOptions) Complete() error { return nil }

func (o *AddFileOptions) Validate() error {
	if len(o.srcPath) == 0 {
		return fmt.Errorf("addfile: --src is required")
	}

	return nil
}

func (o *AddFileOptions) Run(ctx context.Context, _ ...string) error {
	password, err := o.resolve(o.IOStreams)
	if err != nil {
		return &AddFileError{err}
	}

	opts := vault.AddFileOptions{
		Labels:      o.labels,
		Algorithm:   codec.ParseAlgorithm(o.algorithm),
		Versionable: o.versionable,
	}

	if err := o.vaultOptions.Vault().AddFile(ctx, o.srcPath, password, opts); err != nil {
		return &AddFileError{err}
	}

	o.Infof("Added %q\n", o.srcPath)

	return nil
}

// NewCmdAddFile creates the addfile cobra command.
func NewCmdAddFile(defaults *DefaultVltOptions) *cobra.Command {
	o := NewAddFileOptions(defaults)

	cmd := &cobra.Command{
		Use:   "addfile",
		Short: "Add or version a file into the vault",
		Long: `Store a file under its base name. If an entry by that name already exists,
--versionable must be set to add it as a new version instead of failing.`,
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().StringVar(&o.srcPath, "src", "", "path to the source file (required)")
	cmd.Flags().StringSliceVar(&o.labels, "label", nil, "label to associate with the entry (comma-separated or repeated)")
	cmd.Flags().StringVar(&o.algorithm, "algorithm", "zlib", "compression algorithm: zlib or bz2")
	cmd.Flags().BoolVar(&o.versionable, "versionable", false, "allow adding a new version over an existing entry")
	o.passwordFlags.register(cmd)

	return cmd
}
