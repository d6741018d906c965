package catalog

import "adriarent/internal/domain/models"

// StatusBucket is one row of the grouped-by-status aggregation the listing
// repository runs.
type StatusBucket struct {
	Status    models.ListingStatus `bson:"_id"`
	Count     int64                `bson:"count"`
	Views     int64                `bson:"views"`
	Favorites int64                `bson:"favorites"`
}

type StatusStat struct {
	Count          int64 `json:"count"`
	TotalViews     int64 `json:"totalViews"`
	TotalFavorites int64 `json:"totalFavorites"`
}

type Stats struct {
	ByStatus       map[models.ListingStatus]StatusStat `json:"byStatus"`
	Active         int64                               `json:"active"`
	Pending        int64                               `json:"pending"`
	TotalViews     int64                               `json:"totalViews"`
	TotalFavorites int64                               `json:"totalFavorites"`
}

// ComputeStats shapes the grouped buckets into per-status stats plus totals
// summed across all statuses. The favorites figure comes from the per-listing
// counter, which is maintained on every favorite/unfavorite and is the single
// source of truth for favorite counts.
func ComputeStats(buckets []StatusBucket) Stats {
	stats := Stats{
		ByStatus: make(map[models.ListingStatus]StatusStat, len(buckets)),
	}

	for _, b := range buckets {
		stats.ByStatus[b.Status] = StatusStat{
			Count:          b.Count,
			TotalViews:     b.Views,
			TotalFavorites: b.Favorites,
		}
		stats.TotalViews += b.Views
		stats.TotalFavorites += b.Favorites

		switch b.Status {
		case models.StatusActive:
			stats.Active = b.Count
		case models.StatusPending:
			stats.Pending = b.Count
		}
	}

	return stats
}
