package vault

import (
	"context"

	"github.com/croqaz/private-briefcase/namemap"
	"github.com/croqaz/private-briefcase/store"
)

// recomputeStatistics rebuilds and upserts the statistics row for name
// from its version history, as required after every Add/Copy/Delete/
// Rename. It returns nil, nil if the entry currently has no versions
// (nothing to aggregate).
func recomputeStatistics(ctx context.Context, s *store.Store, name string) (*store.StatisticsRow, error) {
	versions, err := s.AllVersions(ctx, namemap.StorageID(name))
	if err != nil {
		return nil, err
	}

	if len(versions) == 0 {
		_ = s.DeleteStatistics(ctx, name)
		return nil, nil
	}

	first, last := versions[0], versions[len(versions)-1]

	biggest := first.Size
	for _, v := range versions {
		if v.Size > biggest {
			biggest = v.Size
		}
	}

	file, err := s.GetFile(ctx, name)
	if err != nil {
		return nil, err
	}

	labels := ""
	if file != nil {
		labels = file.Labels
	}

	row := store.StatisticsRow{
		File:   name,
		Size0:  first.Size,
		Size:   last.Size,
		SizeB:  biggest,
		Date0:  first.Date,
		Date:   last.Date,
		User0:  first.User,
		User:   last.User,
		Labels: labels,
	}

	if err := s.UpsertStatistics(ctx, row); err != nil {
		return nil, err
	}

	return &row, nil
}
