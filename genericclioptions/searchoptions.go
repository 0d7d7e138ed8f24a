package genericclioptions

import "errors"

var errFilterValueWithoutField = errors.New("--filter-value requires --filter-field")

// FilterOptions defines the field/value filter flags used by the list
// command over a whitelisted set of entry fields.
type FilterOptions struct {
	FilterField string
	FilterValue string
}

var _ BaseOptions = &FilterOptions{}

func (*FilterOptions) Complete() error { return nil }

func (o *FilterOptions) Validate() error {
	if len(o.FilterValue) > 0 && len(o.FilterField) == 0 {
		return errFilterValueWithoutField
	}

	return nil
}

// Active reports whether a filter was actually requested.
func (o *FilterOptions) Active() bool {
	return len(o.FilterField) > 0
}
