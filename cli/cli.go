// Package cli wires the briefcase engine to a cobra command tree in the
// Options-struct/Complete/Validate/Run style shared by every subcommand.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/croqaz/private-briefcase/clierror"
	"github.com/croqaz/private-briefcase/genericclioptions"
	"github.com/croqaz/private-briefcase/input"
	"github.com/croqaz/private-briefcase/vault"
	"github.com/croqaz/private-briefcase/vaulterrors"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const (
	// defaultDatabaseFilename is the default name for the vault file,
	// created under the user's home directory.
	defaultDatabaseFilename = ".briefcase"

	masterKeyMinLen = 8
)

var (
	// preRunSkipCommands lists command names that should bypass the
	// persistent pre-run logic (they don't need an open vault).
	preRunSkipCommands = []string{"config", "generate", "create", "version", "help"}
)

// VaultOptions resolves and opens the target vault file.
type VaultOptions struct {
	Path  string
	vault *vault.Vault
}

var _ genericclioptions.BaseOptions = &VaultOptions{}

// Complete sets the default vault file path if not provided.
func (o *VaultOptions) Complete() error {
	if len(o.Path) == 0 {
		p, err := defaultVaultPath()
		if err != nil {
			return err
		}

		o.Path = p
	}

	return nil
}

// Validate checks that the vault file exists.
func (o *VaultOptions) Validate() error {
	if _, err := os.Stat(o.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return vaulterrors.ErrVaultFileNotFound
		}

		return fmt.Errorf("stat vault file: %w", err)
	}

	return nil
}

// Open prompts for the vault-wide password and opens the vault at Path.
// Commands that need no open vault skip the call (see preRunSkipCommands).
func (o *VaultOptions) Open(ctx context.Context, io *genericclioptions.IOStreams) error {
	password, err := input.PromptReadSecure(io.Out, int(io.In.Fd()), "Password for %q: ", o.Path)
	if err != nil {
		return fmt.Errorf("prompt password: %w", err)
	}

	v, err := vault.Open(ctx, o.Path, password, vault.WithDiagnostics(io, diagVerbosity(io.Verbose)))
	if err != nil {
		return err
	}

	o.vault = v

	return nil
}

func (o *VaultOptions) Vault() *vault.Vault { return o.vault }

func diagVerbosity(verbose bool) vault.Verbosity {
	if verbose {
		return vault.VerbosityAll
	}

	return vault.VerbosityErrors
}

func defaultVaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, defaultDatabaseFilename), nil
}

// DefaultVltOptions is embedded by every subcommand's Options struct. It
// carries the shared I/O streams and the resolved vault handle.
type DefaultVltOptions struct {
	*genericclioptions.StdioOptions

	vaultOptions *VaultOptions
}

var _ genericclioptions.CmdOptions = &DefaultVltOptions{}

func NewDefaultVltOptions(iostreams *genericclioptions.IOStreams) *DefaultVltOptions {
	return &DefaultVltOptions{
		StdioOptions: &genericclioptions.StdioOptions{IOStreams: iostreams},
		vaultOptions: &VaultOptions{},
	}
}

func (o *DefaultVltOptions) Complete() error {
	if err := o.StdioOptions.Complete(); err != nil {
		return err
	}

	return o.vaultOptions.Complete()
}

func (o *DefaultVltOptions) Validate() error {
	if err := o.StdioOptions.Validate(); err != nil {
		return err
	}

	return o.vaultOptions.Validate()
}

func (o *DefaultVltOptions) Run(ctx context.Context, args ...string) error {
	cmd := ""
	if len(args) == 1 {
		cmd = args[0]
	}

	if slices.Contains(preRunSkipCommands, cmd) {
		return nil
	}

	return o.vaultOptions.Open(ctx, o.IOStreams)
}

// NewDefaultBriefcaseCommand creates the `briefcase` root command and wires
// every subcommand.
func NewDefaultBriefcaseCommand(iostreams *genericclioptions.IOStreams, args []string) *cobra.Command {
	o := NewDefaultVltOptions(iostreams)

	cmd := &cobra.Command{
		Use:   "briefcase",
		Short: "Encrypted, versioned single-file document vault",
		Long: `briefcase stores documents in a single encrypted, versioned container file.

Environment Variables:
    BRIEFCASE_CONFIG_PATH: overrides the default config path: "~/.briefcase.toml".`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if slices.Contains(preRunSkipCommands, cmd.Name()) {
				return
			}

			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o, cmd.Name()))
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if slices.Contains(preRunSkipCommands, cmd.Name()) {
				return
			}

			if o.vaultOptions.vault != nil {
				clierror.Check(o.vaultOptions.vault.Close(cmd.Context()))
			}
		},
	}

	cmd.SetArgs(args)

	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().StringVarP(&o.vaultOptions.Path, "file", "f", "",
		fmt.Sprintf("vault file path (default: ~/%s)", defaultDatabaseFilename))

	cmd.AddCommand(NewCmdConfig(o.StdioOptions))
	cmd.AddCommand(NewCmdCreate(o.StdioOptions, o.vaultOptions))
	cmd.AddCommand(NewCmdAddFile(o))
	cmd.AddCommand(NewCmdAddManyFiles(o))
	cmd.AddCommand(NewCmdExportFile(o))
	cmd.AddCommand(NewCmdExportAll(o))
	cmd.AddCommand(NewCmdCopyIntoNew(o))
	cmd.AddCommand(NewCmdRenFile(o))
	cmd.AddCommand(NewCmdDelFile(o))
	cmd.AddCommand(NewCmdList(o))
	cmd.AddCommand(NewCmdLabels(o))
	cmd.AddCommand(NewCmdStats(o))
	cmd.AddCommand(NewCmdInfo(o))
	cmd.AddCommand(NewCmdCleanup(o))
	cmd.AddCommand(newVersionCommand(o))

	return cmd
}
