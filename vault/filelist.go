package vault

import (
	"sort"
	"strconv"
	"strings"

	"github.com/croqaz/private-briefcase/store"
	"github.com/croqaz/private-briefcase/vaulterrors"
)

// SortKey enumerates GetFileList's permitted sort columns.
type SortKey string

const (
	SortFile  SortKey = "file"
	SortSize0 SortKey = "size0"
	SortSize  SortKey = "size"
	SortSizeB SortKey = "sizeb"
	SortDate0 SortKey = "date0"
	SortDate  SortKey = "date"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

var filterFields = map[string]bool{
	"file": true, "labels": true, "size0": true, "size": true, "sizeb": true,
	"date0": true, "date": true, "user0": true, "user": true,
}

// Filter is a whitelist predicate: Field = Value, evaluated as a numeric
// comparison for the size* columns and a case-sensitive substring match
// otherwise.
type Filter struct {
	Field string
	Value string
}

func validSortKey(k SortKey) bool {
	switch k {
	case SortFile, SortSize0, SortSize, SortSizeB, SortDate0, SortDate:
		return true
	default:
		return false
	}
}

func sortFileRows(rows []store.FileListRow, key SortKey, order SortOrder) {
	less := func(i, j int) bool {
		a, b := rows[i], rows[j]

		switch key {
		case SortSize0:
			return a.Size0 < b.Size0
		case SortSize:
			return a.Size < b.Size
		case SortSizeB:
			return a.SizeB < b.SizeB
		case SortDate0:
			return a.Date0 < b.Date0
		case SortDate:
			return a.Date < b.Date
		default:
			return a.File < b.File
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if order == Descending {
			return less(j, i)
		}

		return less(i, j)
	})
}

func filterFileRows(rows []store.FileListRow, f Filter) ([]store.FileListRow, error) {
	if !filterFields[f.Field] {
		return nil, vaulterrors.ErrInvalidQuery
	}

	out := make([]store.FileListRow, 0, len(rows))

	for _, r := range rows {
		if fileRowMatches(r, f) {
			out = append(out, r)
		}
	}

	return out, nil
}

func fileRowMatches(r store.FileListRow, f Filter) bool {
	switch f.Field {
	case "file":
		return strings.Contains(r.File, f.Value)
	case "labels":
		return strings.Contains(r.Labels, f.Value)
	case "user0":
		return strings.Contains(r.User0, f.Value)
	case "user":
		return strings.Contains(r.User, f.Value)
	case "date0":
		return strings.Contains(r.Date0, f.Value)
	case "date":
		return strings.Contains(r.Date, f.Value)
	case "size0":
		return numEquals(r.Size0, f.Value)
	case "size":
		return numEquals(r.Size, f.Value)
	case "sizeb":
		return numEquals(r.SizeB, f.Value)
	default:
		return false
	}
}

func numEquals(v int64, want string) bool {
	n, err := strconv.ParseInt(want, 10, 64)
	if err != nil {
		return false
	}

	return v == n
}
