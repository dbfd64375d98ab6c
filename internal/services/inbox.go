package services

import (
	"bouquet-tour-service/internal/domain"
	"cmp"
	"slices"
	"time"
)

// InboxOptions tunes backlog triage.
type InboxOptions struct {
	// Alert when a client has waited strictly more than this many days.
	AlertAfterDays int
	// Tours at or above this size cannot take a graft.
	MaxPerTour int
	// Other backlog clients required in the same zone to offer a mini-tour.
	MiniTourPeers int
}

func DefaultInboxOptions() InboxOptions {
	return InboxOptions{
		AlertAfterDays: 4,
		MaxPerTour:     DefaultTourOptions().MaxPerTour,
		MiniTourPeers:  2,
	}
}

// BacklogClient is a client awaiting placement, with a resolved zone.
type BacklogClient struct {
	Client     *domain.Client
	IntakeDate time.Time
	// Already placed on a mini-tour: counted as a zone peer, never triaged.
	OnMiniTour bool
}

// WaitDays counts whole calendar days between intake and today, never negative.
func WaitDays(intake, today time.Time) int {
	a := time.Date(intake.Year(), intake.Month(), intake.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	d := int(b.Sub(a).Hours() / 24)
	return max(d, 0)
}

// TriageInbox computes placement options and wait-time alerts for the backlog.
// Entries are returned alerted first, then by descending wait time.
func TriageInbox(backlog []BacklogClient, tours []*domain.Tour, today time.Time, opts InboxOptions) []domain.InboxEntry {
	if opts.MaxPerTour <= 0 {
		opts.MaxPerTour = DefaultTourOptions().MaxPerTour
	}

	perZone := make(map[string]int, len(backlog))
	for _, b := range backlog {
		perZone[b.Client.Zone]++
	}

	entries := make([]domain.InboxEntry, 0, len(backlog))
	for _, b := range backlog {
		if b.OnMiniTour {
			continue
		}
		zone := b.Client.Zone
		wait := WaitDays(b.IntakeDate, today)

		options := make([]domain.Option, 0, len(tours)+2)
		for _, t := range tours {
			if t.Size() >= opts.MaxPerTour {
				continue
			}
			// Other is zone-agnostic: any tour with room qualifies.
			if zone != OtherZone && !t.CoversZone(zone) {
				continue
			}
			options = append(options, domain.Option{
				Kind:       domain.PlacementGraft,
				TourNumber: t.Number,
				DayLabel:   t.DayLabel,
			})
		}

		if peers := perZone[zone] - 1; peers >= opts.MiniTourPeers {
			options = append(options, domain.Option{Kind: domain.PlacementMiniTour, Peers: peers})
		}
		options = append(options, domain.Option{Kind: domain.PlacementIndividual})

		entries = append(entries, domain.InboxEntry{
			Client:     b.Client,
			Zone:       zone,
			IntakeDate: b.IntakeDate,
			WaitDays:   wait,
			Alert:      wait > opts.AlertAfterDays,
			Options:    options,
		})
	}

	slices.SortStableFunc(entries, func(a, b domain.InboxEntry) int {
		if a.Alert != b.Alert {
			if a.Alert {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(b.WaitDays, a.WaitDays); c != 0 {
			return c
		}
		return cmp.Compare(a.Client.ID, b.Client.ID)
	})

	return entries
}
