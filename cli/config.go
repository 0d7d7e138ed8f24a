package cli

import (
	"context"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/croqaz/private-briefcase/clierror"
	"github.com/croqaz/private-briefcase/genericclioptions"
)

// ConfigOptions resolves the on-disk configuration file.
type ConfigOptions struct {
	*genericclioptions.StdioOptions

	configPath string
	fileConfig *FileConfig
}

var _ genericclioptions.CmdOptions = &ConfigOptions{}

func NewConfigOptions(stdio *genericclioptions.StdioOptions) *ConfigOptions {
	return &ConfigOptions{StdioOptions: stdio, fileConfig: newFileConfig()}
}

func (o *ConfigOptions) Complete() error {
	c, err := LoadFileConfig(o.configPath)
	if err != nil {
		return err
	}

	o.fileConfig = c

	return nil
}

func (*ConfigOptions) Validate() error { return nil }

func (o *ConfigOptions) Run(context.Context, ...string) error {
	if len(o.fileConfig.path) == 0 {
		o.Infof("no config file found; using default values.\n")
		return nil
	}

	o.Infof("%s\n", o.fileConfig.path)

	return nil
}

// NewCmdConfig creates the cobra config command tree.
func NewCmdConfig(stdio *genericclioptions.StdioOptions) *cobra.Command {
	o := NewConfigOptions(stdio)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Resolve and inspect the active configuration",
		Long: fmt.Sprintf(`Resolve the active configuration file and print its path.

If --file is not provided, the default config path (~/%s) is used.`, defaultConfigName),
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().StringVarP(&o.configPath, "file", "f", "",
		fmt.Sprintf("path to the configuration file (default: ~/%s)", defaultConfigName))

	cmd.AddCommand(newGenerateConfigCmd(stdio))

	return cmd
}

type generateConfigOptions struct {
	*genericclioptions.StdioOptions
}

var _ genericclioptions.CmdOptions = &generateConfigOptions{}

func (*generateConfigOptions) Complete() error { return nil }

func (*generateConfigOptions) Validate() error { return nil }

func (o *generateConfigOptions) Run(context.Context, ...string) error {
	c := newFileConfig()
	c.Vault.Algorithm = "zlib"

	out, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	o.Printf("%s", string(out))

	return nil
}

func newGenerateConfigCmd(stdio *genericclioptions.StdioOptions) *cobra.Command {
	o := &generateConfigOptions{StdioOptions: stdio}

	return &cobra.Command{
		Use:   "generate",
		Short: "Print a default config file",
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}
}
