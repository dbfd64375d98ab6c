package services

import (
	"bouquet-tour-service/internal/domain"
	"cmp"
	"slices"
)

// TourOptions bounds the size of the tours produced by BuildTours.
//
// A trailing remainder smaller than MergeThreshold is folded into the previous
// tour as long as that tour stays within MaxPerTour+MergeSlack. Both thresholds
// are empirical defaults, kept configurable.
type TourOptions struct {
	MaxPerTour     int
	MergeThreshold int
	MergeSlack     int
}

func DefaultTourOptions() TourOptions {
	return TourOptions{
		MaxPerTour:     12,
		MergeThreshold: 5,
		MergeSlack:     3,
	}
}

func (o TourOptions) normalized() TourOptions {
	if o.MaxPerTour <= 0 {
		o.MaxPerTour = DefaultTourOptions().MaxPerTour
	}
	if o.MergeThreshold < 0 {
		o.MergeThreshold = 0
	}
	if o.MergeSlack < 0 {
		o.MergeSlack = 0
	}
	return o
}

// BuildTours groups deliverable clients into bounded-size tours.
//
// Clients are grouped by zone and zones are consumed centre to periphery, so
// later tours generally cover zones farther out. Within a zone clients are
// sorted by (postal code, address) for determinism, then appended to a bucket
// that is closed every MaxPerTour clients. Buckets span zone boundaries.
// Every client must already carry a resolved zone and postal code.
func BuildTours(clients []*domain.Client, zones *ZoneClassifier, opts TourOptions) []*domain.Tour {
	opts = opts.normalized()
	if len(clients) == 0 {
		return []*domain.Tour{}
	}

	byZone := make(map[string][]*domain.Client)
	for _, c := range clients {
		byZone[c.Zone] = append(byZone[c.Zone], c)
	}

	zoneNames := make([]string, 0, len(byZone))
	for z := range byZone {
		zoneNames = append(zoneNames, z)
	}
	slices.SortFunc(zoneNames, func(a, b string) int {
		if c := cmp.Compare(zones.Rank(a), zones.Rank(b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	tours := make([]*domain.Tour, 0, (len(clients)+opts.MaxPerTour-1)/opts.MaxPerTour)
	bucket := make([]*domain.Client, 0, opts.MaxPerTour)

	for _, z := range zoneNames {
		members := byZone[z]
		slices.SortFunc(members, compareByPostalAddress)

		for _, c := range members {
			bucket = append(bucket, c)
			if len(bucket) == opts.MaxPerTour {
				tours = append(tours, domain.NewTour(len(tours)+1, bucket))
				bucket = make([]*domain.Client, 0, opts.MaxPerTour)
			}
		}
	}

	if len(bucket) == 0 {
		return tours
	}

	// Avoid a tiny standalone tour when the previous one can absorb it.
	if n := len(tours); n > 0 && len(bucket) < opts.MergeThreshold &&
		tours[n-1].Size()+len(bucket) <= opts.MaxPerTour+opts.MergeSlack {
		tours[n-1].Append(bucket...)
		return tours
	}

	return append(tours, domain.NewTour(len(tours)+1, bucket))
}

func compareByPostalAddress(a, b *domain.Client) int {
	if c := cmp.Compare(a.PostalCode, b.PostalCode); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Address, b.Address); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
