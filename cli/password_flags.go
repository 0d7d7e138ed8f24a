package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/croqaz/private-briefcase/genericclioptions"
	"github.com/croqaz/private-briefcase/input"
	"github.com/croqaz/private-briefcase/vault"
)

var errMutuallyExclusivePassword = errors.New("--use-vault-password and --password are mutually exclusive")

// passwordFlags is embedded by every command that takes a per-file
// password argument (addfile, addmanyfiles, exportfile, exportall).
type passwordFlags struct {
	useDefault bool
	literal    string
}

func (f *passwordFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.useDefault, "use-vault-password", false, "encrypt/decrypt this entry using the vault-wide password")
	cmd.Flags().StringVar(&f.literal, "password", "", `per-file password; pass "-" to be prompted securely`)
}

// resolve turns the flags into a vault.Password, prompting securely when
// --password was given the sentinel value "-".
func (f *passwordFlags) resolve(io *genericclioptions.IOStreams) (vault.Password, error) {
	if f.useDefault && len(f.literal) > 0 {
		return vault.Password{}, errMutuallyExclusivePassword
	}

	if f.useDefault {
		return vault.DefaultPassword(), nil
	}

	if len(f.literal) == 0 {
		return vault.NoPassword(), nil
	}

	if f.literal == "-" {
		pw, err := input.PromptReadSecure(io.Out, int(io.In.Fd()), "Per-file password: ")
		if err != nil {
			return vault.Password{}, err
		}

		return vault.LiteralPassword(pw), nil
	}

	return vault.LiteralPassword([]byte(f.literal)), nil
}
