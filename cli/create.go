package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/croqaz/private-briefcase/clierror"
	"github.com/croqaz/private-briefcase/genericclioptions"
	"github.com/croqaz/private-briefcase/input"
	"github.com/croqaz/private-briefcase/vault"
	"github.com/croqaz/private-briefcase/vaulterrors"
)

// CreateOptions have the data required to perform the create operation.
type CreateOptions struct {
	*genericclioptions.StdioOptions

	vaultOptions *VaultOptions
	noPassword   bool
}

var _ genericclioptions.CmdOptions = &CreateOptions{}

// NewCreateOptions initializes the options struct.
func NewCreateOptions(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *CreateOptions {
	return &CreateOptions{
		StdioOptions: stdio,
		vaultOptions: vaultOptions,
	}
}

func (o *CreateOptions) Complete() error {
	return o.vaultOptions.Complete()
}

func (o *CreateOptions) Validate() error {
	if _, err := os.Stat(o.vaultOptions.Path); !errors.Is(err, fs.ErrNotExist) {
		return vaulterrors.ErrVaultFileExists
	}

	if o.noPassword {
		return nil
	}

	if o.NonInteractive {
		return vaulterrors.ErrNonInteractiveUnsupported
	}

	return nil
}

func (o *CreateOptions) Run(ctx context.Context, _ ...string) error {
	var password []byte

	if !o.noPassword {
		mk, err := input.PromptNewPassword(o.Out, int(o.In.Fd()), masterKeyMinLen)
		if err != nil {
			return fmt.Errorf("read new password: %w", err)
		}

		password = mk
	}

	v, err := vault.Open(ctx, o.vaultOptions.Path, password)
	if err != nil {
		return fmt.Errorf("create vault: %w", err)
	}

	if err := v.Close(ctx); err != nil {
		return fmt.Errorf("close new vault: %w", err)
	}

	o.Infof("New vault successfully created at %q\n", o.vaultOptions.Path)

	return nil
}

// NewCmdCreate creates the create cobra command.
func NewCmdCreate(stdio *genericclioptions.StdioOptions, vaultOptions *VaultOptions) *cobra.Command {
	o := NewCreateOptions(stdio, vaultOptions)

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"new"},
		Short:   "Initialize a new vault",
		Long: fmt.Sprintf(`Create a new vault at the specified path.

If no --file path is provided, uses the default path (~/%s).`, defaultDatabaseFilename),
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().BoolVar(&o.noPassword, "no-password", false, "create the vault without a vault-wide password")

	return cmd
}
