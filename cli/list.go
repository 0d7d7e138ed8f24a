package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/croqaz/private-briefcase/clierror"
	"github.com/croqaz/private-briefcase/genericclioptions"
	"github.com/croqaz/private-briefcase/vault"
)

// ListOptions holds data required to run the list command.
type ListOptions struct {
	*DefaultVltOptions
	genericclioptions.FilterOptions

	sortKey string
	desc    bool
}

var _ genericclioptions.CmdOptions = &ListOptions{}

func NewListOptions(defaults *DefaultVltOptions) *ListOptions {
	return &ListOptions{DefaultVltOptions: defaults}
}

func (*ListOptions) Complete() error { return nil }

func (o *ListOptions) Validate() error {
	return o.FilterOptions.Validate()
}

func (o *ListOptions) Run(ctx context.Context, _ ...string) error {
	order := vault.Ascending
	if o.desc {
		order = vault.Descending
	}

	var filter *vault.Filter
	if o.FilterOptions.Active() {
		filter = &vault.Filter{Field: o.FilterField, Value: o.FilterValue}
	}

	names, err := o.vaultOptions.Vault().GetFileList(ctx, vault.SortKey(o.sortKey), order, filter)
	if err != nil {
		return err
	}

	o.Printf("%s\n", strings.Join(names, "\n"))

	return nil
}

// NewCmdList creates the list cobra command.
func NewCmdList(defaults *DefaultVltOptions) *cobra.Command {
	o := NewListOptions(defaults)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"find", "ls"},
		Short:   "List entry names, optionally sorted and filtered",
		Long: `Permitted --sort values: file, size0, size, sizeb, date0, date.
Permitted --filter-field values: file, labels, size0, size, sizeb, date0, date, user0, user.`,
		Run: func(cmd *cobra.Command, _ []string) {
			clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().StringVar(&o.sortKey, "sort", "file", "sort key")
	cmd.Flags().BoolVar(&o.desc, "desc", false, "sort descending")
	cmd.Flags().StringVar(&o.FilterField, "filter-field", "", "field to filter on")
	cmd.Flags().StringVar(&o.FilterValue, "filter-value", "", "value to match for --filter-field")

	return cmd
}
