package services

import (
	"bouquet-tour-service/internal/domain"
	"bouquet-tour-service/internal/platform/obs"
	"bouquet-tour-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PlannerConfig gathers the tunables of the planning engine.
type PlannerConfig struct {
	Tours      TourOptions
	Calendar   DeliveryCalendar
	Inbox      InboxOptions
	HubAddress string
}

func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		Tours:    DefaultTourOptions(),
		Calendar: DefaultDeliveryCalendar(),
		Inbox:    DefaultInboxOptions(),
	}
}

// Planner exposes the engine operations over the repository ports.
//
// Every call reads a fresh snapshot and recomputes its result from scratch;
// the planner keeps no state between calls and is safe for concurrent use.
// The only writes it issues are ConfirmAssignment and PlaceBacklogClient.
//
// Placed backlog clients are planned by placement: a graft joins its target
// tour, mini-tour and individual clients are served by SpecialDeliveries.
type Planner struct {
	Clients   ports.ClientRepository
	Inventory ports.InventoryRepository
	Backlog   ports.BacklogRepository
	// Optional; when nil, clients without an extractable postal code are skipped.
	Resolver ports.PostalCodeResolver
	Zones    *ZoneClassifier
	Config   PlannerConfig
	Now      func() time.Time
}

func NewPlanner(
	clients ports.ClientRepository,
	inventory ports.InventoryRepository,
	backlog ports.BacklogRepository,
	zones *ZoneClassifier,
	cfg PlannerConfig,
) *Planner {
	if zones == nil {
		zones = NewZoneClassifier(DefaultZones())
	}

	return &Planner{
		Clients:   clients,
		Inventory: inventory,
		Backlog:   backlog,
		Zones:     zones,
		Config:    cfg,
		Now:       time.Now,
	}
}

type snapshot struct {
	clients []*domain.Client
	backlog []*domain.BacklogRecord
}

type plan struct {
	tours   []*domain.Tour
	special []domain.SpecialDelivery
}

func (p *Planner) today() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Planner) loadSnapshot(ctx context.Context) (*snapshot, error) {
	var snap snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		clients, err := p.Clients.ListActiveClients(gctx)
		if err != nil {
			return fmt.Errorf("list active clients: %w", err)
		}
		snap.clients = clients
		return nil
	})
	g.Go(func() error {
		backlog, err := p.Backlog.ListBacklog(gctx)
		if err != nil {
			return fmt.Errorf("list backlog: %w", err)
		}
		snap.backlog = backlog
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// PlanTours partitions the deliverable clients into scheduled, route-ordered tours.
func (p *Planner) PlanTours(ctx context.Context) (_ []*domain.Tour, err error) {
	defer obs.Time(ctx, "planner.PlanTours")(&err)

	snap, err := p.loadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan tours: %w", err)
	}

	return p.planFromSnapshot(ctx, snap).tours, nil
}

// SpecialDeliveries lists the placed backlog clients served outside the
// regular tours: one run per mini-tour zone, then one per individual client.
func (p *Planner) SpecialDeliveries(ctx context.Context) (_ []domain.SpecialDelivery, err error) {
	defer obs.Time(ctx, "planner.SpecialDeliveries")(&err)

	snap, err := p.loadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("special deliveries: %w", err)
	}

	return p.planFromSnapshot(ctx, snap).special, nil
}

func (p *Planner) planFromSnapshot(ctx context.Context, snap *snapshot) *plan {
	records := make(map[string]*domain.BacklogRecord, len(snap.backlog))
	for _, r := range snap.backlog {
		records[r.ClientID] = r
	}

	candidates := make([]*domain.Client, 0, len(snap.clients))
	for _, c := range snap.clients {
		if !c.Active || c.ItemsNeeded <= 0 {
			continue
		}
		// Clients still in the inbox are not planned until placed.
		if r, ok := records[c.ID]; ok && !r.Placed() {
			continue
		}
		candidates = append(candidates, c)
	}

	var (
		regular     = make([]*domain.Client, 0, len(candidates))
		grafts      []*domain.Client
		individuals []*domain.Client
		miniTours   = make(map[string][]*domain.Client)
	)
	for _, c := range p.locate(ctx, candidates) {
		r, ok := records[c.ID]
		switch {
		case !ok:
			regular = append(regular, c)
		case r.Placement == domain.PlacementGraft:
			grafts = append(grafts, c)
		case r.Placement == domain.PlacementMiniTour:
			miniTours[c.Zone] = append(miniTours[c.Zone], c)
		default:
			individuals = append(individuals, c)
		}
	}

	tours := BuildTours(regular, p.Zones, p.Config.Tours)

	var orphans []*domain.Client
	for _, c := range grafts {
		if target := records[c.ID].TargetTour; target != nil {
			if t := findTour(tours, *target); t != nil {
				t.Append(c)
				continue
			}
		}
		orphans = append(orphans, c)
	}
	// Grafts whose tour no longer exists are planned after the regular tours.
	for _, t := range BuildTours(orphans, p.Zones, p.Config.Tours) {
		tours = append(tours, domain.NewTour(len(tours)+1, t.Clients))
	}

	order := ZoneRouteOrderer(p.Zones)
	for _, t := range tours {
		t.Clients = order(t.Clients)
		t.RouteLink = RouteLink(p.Config.HubAddress, t.Clients)
	}
	AssignDeliveryDays(tours, p.today(), p.Config.Calendar)

	special := make([]domain.SpecialDelivery, 0, len(miniTours)+len(individuals))
	for _, zone := range p.Zones.Names() {
		group := miniTours[zone]
		if len(group) == 0 {
			continue
		}
		group = order(group)
		special = append(special, domain.SpecialDelivery{
			Kind:      domain.PlacementMiniTour,
			Zone:      zone,
			Clients:   group,
			RouteLink: RouteLink(p.Config.HubAddress, group),
		})
	}
	for _, c := range individuals {
		special = append(special, domain.SpecialDelivery{
			Kind:      domain.PlacementIndividual,
			Zone:      c.Zone,
			Clients:   []*domain.Client{c},
			RouteLink: RouteLink(p.Config.HubAddress, []*domain.Client{c}),
		})
	}

	obs.SetToursPlanned(len(tours))
	return &plan{tours: tours, special: special}
}

// locate returns copies of clients with postal code and zone resolved.
// Clients without an address or a resolvable postal code are dropped.
func (p *Planner) locate(ctx context.Context, clients []*domain.Client) []*domain.Client {
	logger := zerolog.Ctx(ctx)

	located := make([]*domain.Client, 0, len(clients))
	unresolved := make([]*domain.Client, 0)

	for _, c := range clients {
		if strings.TrimSpace(c.Address) == "" {
			logger.Debug().Str("client_id", c.ID).Msg("client has no address; skipped")
			continue
		}

		cc := *c
		cc.PostalCode = strings.TrimSpace(cc.PostalCode)
		if cc.PostalCode == "" {
			cc.PostalCode = ExtractPostalCode(cc.Address)
		}
		if cc.PostalCode == "" {
			unresolved = append(unresolved, &cc)
			continue
		}
		located = append(located, &cc)
	}

	if len(unresolved) > 0 && p.Resolver != nil {
		addresses := make([]string, 0, len(unresolved))
		for _, c := range unresolved {
			addresses = append(addresses, c.Address)
		}

		codes, err := p.Resolver.ResolvePostalCodes(ctx, addresses)
		if err != nil {
			// Malformed input is never fatal: those clients are just not planned.
			logger.Warn().Err(err).Int("clients", len(unresolved)).Msg("postal code resolution failed")
		}
		for _, c := range unresolved {
			if code := codes[c.Address]; code != "" {
				c.PostalCode = code
				located = append(located, c)
			}
		}
	}

	if skipped := len(clients) - len(located); skipped > 0 {
		logger.Info().Int("skipped", skipped).Msg("clients without postal code excluded from planning")
	}

	for _, c := range located {
		c.Zone, _ = p.Zones.Classify(c.PostalCode)
	}
	return located
}

// DispatchForTour proposes items for every client of tour number.
func (p *Planner) DispatchForTour(ctx context.Context, number int) (_ *domain.TourDispatch, err error) {
	defer obs.Time(ctx, "planner.DispatchForTour")(&err)

	var (
		tours []*domain.Tour
		items []*domain.Item
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tours, err = p.PlanTours(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = p.Inventory.ListItems(gctx)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dispatch tour %d: %w", number, err)
	}

	tour := findTour(tours, number)
	if tour == nil {
		return nil, fmt.Errorf("dispatch tour %d: %w", number, domain.ErrTourNotFound)
	}

	// Tour clients are already route-ordered by PlanTours.
	return DispatchTour(tour, items, nil), nil
}

// ConfirmAssignment assigns exactly itemID to exactly clientID.
//
// Losing the race for the item is reported as a Conflict outcome with a nil
// error; the caller is expected to re-request suggestions or try an
// alternative. Confirming the same pair twice succeeds both times.
func (p *Planner) ConfirmAssignment(ctx context.Context, clientID, itemID string) (_ domain.AssignmentOutcome, err error) {
	defer obs.Time(ctx, "planner.ConfirmAssignment")(&err)

	clientID = strings.TrimSpace(clientID)
	itemID = strings.TrimSpace(itemID)
	outcome := domain.AssignmentOutcome{ClientID: clientID, ItemID: itemID}

	if clientID == "" || itemID == "" {
		return outcome, fmt.Errorf("confirm assignment: client id and item id are required: %w", domain.ErrInvalidArgument)
	}

	clients, err := p.Clients.ListActiveClients(ctx)
	if err != nil {
		return outcome, fmt.Errorf("confirm assignment: list active clients: %w", err)
	}
	if !hasClient(clients, clientID) {
		return outcome, fmt.Errorf("confirm assignment: client %q: %w", clientID, domain.ErrClientNotFound)
	}

	return p.markAssigned(ctx, outcome)
}

// ConfirmWithFallback confirms the first candidate item still available for
// the client, trying candidates in order. Taken or vanished items are skipped.
// When no candidate can be confirmed the last conflict outcome is returned, or
// ErrItemNotFound when every candidate was missing.
func (p *Planner) ConfirmWithFallback(ctx context.Context, clientID string, itemIDs []string) (domain.AssignmentOutcome, error) {
	outcome := domain.AssignmentOutcome{ClientID: clientID}
	if len(itemIDs) == 0 {
		return outcome, fmt.Errorf("confirm with fallback: no candidate items: %w", domain.ErrInvalidArgument)
	}

	var (
		conflict *domain.AssignmentOutcome
		notFound error
	)
	for _, id := range itemIDs {
		res, err := p.ConfirmAssignment(ctx, clientID, id)
		switch {
		case errors.Is(err, domain.ErrItemNotFound):
			notFound = err
			continue
		case err != nil:
			return res, err
		case res.Confirmed:
			return res, nil
		}
		conflict = &res
	}

	if conflict != nil {
		return *conflict, nil
	}
	return outcome, notFound
}

func (p *Planner) markAssigned(ctx context.Context, outcome domain.AssignmentOutcome) (domain.AssignmentOutcome, error) {
	logger := zerolog.Ctx(ctx)

	err := p.Inventory.MarkAssigned(ctx, outcome.ItemID, outcome.ClientID)
	switch {
	case err == nil:
		outcome.Confirmed = true
		obs.RecordAssignment("confirmed")
		logger.Info().Str("client_id", outcome.ClientID).Str("item_id", outcome.ItemID).Msg("assignment confirmed")
		return outcome, nil
	case errors.Is(err, domain.ErrItemUnavailable):
		outcome.Conflict = true
		obs.RecordAssignment("conflict")
		logger.Info().Str("client_id", outcome.ClientID).Str("item_id", outcome.ItemID).Msg("assignment conflict")
		return outcome, nil
	default:
		obs.RecordAssignment("error")
		return outcome, fmt.Errorf("confirm assignment: mark item %q assigned: %w", outcome.ItemID, err)
	}
}

// Inbox triages every client still awaiting placement.
func (p *Planner) Inbox(ctx context.Context) (_ []domain.InboxEntry, err error) {
	defer obs.Time(ctx, "planner.Inbox")(&err)

	snap, err := p.loadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("inbox: %w", err)
	}

	entries := p.triage(ctx, snap, p.planFromSnapshot(ctx, snap).tours)

	alerts := 0
	for _, e := range entries {
		if e.Alert {
			alerts++
		}
	}
	obs.SetBacklogAlerts(alerts)

	return entries, nil
}

// triage computes the inbox entries of the unplaced backlog against tours.
// Clients already placed on a mini-tour still count as zone peers.
func (p *Planner) triage(ctx context.Context, snap *snapshot, tours []*domain.Tour) []domain.InboxEntry {
	byID := make(map[string]*domain.Client, len(snap.clients))
	for _, c := range snap.clients {
		byID[c.ID] = c
	}

	logger := zerolog.Ctx(ctx)
	backlog := make([]BacklogClient, 0, len(snap.backlog))
	for _, r := range snap.backlog {
		onMiniTour := r.Placement == domain.PlacementMiniTour
		if r.Placed() && !onMiniTour {
			continue
		}
		c, ok := byID[r.ClientID]
		if !ok {
			if !onMiniTour {
				logger.Warn().Str("client_id", r.ClientID).Msg("backlog record without active client")
			}
			continue
		}

		cc := *c
		cc.PostalCode = strings.TrimSpace(cc.PostalCode)
		if cc.PostalCode == "" {
			cc.PostalCode = ExtractPostalCode(cc.Address)
		}
		cc.Zone, _ = p.Zones.Classify(cc.PostalCode)

		backlog = append(backlog, BacklogClient{Client: &cc, IntakeDate: r.IntakeDate, OnMiniTour: onMiniTour})
	}

	opts := p.Config.Inbox
	// Grafts are capped by the same size as tour building.
	opts.MaxPerTour = p.Config.Tours.MaxPerTour
	return TriageInbox(backlog, tours, p.today(), opts)
}

// PlaceBacklogClient records the chosen placement for a backlog client so it
// is no longer offered. The placement must be one of the options the inbox
// currently offers the client; a graft names its target tour.
func (p *Planner) PlaceBacklogClient(ctx context.Context, clientID string, option string, targetTour *int) (err error) {
	defer obs.Time(ctx, "planner.PlaceBacklogClient")(&err)

	kind, ok := domain.ParsePlacementKind(strings.TrimSpace(option))
	if !ok {
		return fmt.Errorf("place backlog client: option %q: %w", option, domain.ErrInvalidPlacement)
	}

	snap, err := p.loadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("place backlog client: %w", err)
	}

	var record *domain.BacklogRecord
	for _, r := range snap.backlog {
		if r.ClientID == clientID {
			record = r
			break
		}
	}
	if record == nil {
		return fmt.Errorf("place backlog client %q: %w", clientID, domain.ErrBacklogNotFound)
	}
	if record.Placed() {
		return fmt.Errorf("place backlog client %q: already placed as %s: %w", clientID, record.Placement, domain.ErrInvalidPlacement)
	}

	tours := p.planFromSnapshot(ctx, snap).tours
	if kind != domain.PlacementGraft {
		targetTour = nil
	} else {
		if targetTour == nil {
			return fmt.Errorf("place backlog client %q: graft requires a target tour: %w", clientID, domain.ErrInvalidPlacement)
		}
		if findTour(tours, *targetTour) == nil {
			return fmt.Errorf("place backlog client %q: tour %d: %w", clientID, *targetTour, domain.ErrTourNotFound)
		}
	}

	var entry *domain.InboxEntry
	entries := p.triage(ctx, snap, tours)
	for i := range entries {
		if entries[i].Client.ID == clientID {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("place backlog client %q: %w", clientID, domain.ErrClientNotFound)
	}
	if !offers(entry.Options, kind, targetTour) {
		if targetTour != nil {
			return fmt.Errorf("place backlog client %q: graft onto tour %d not offered: %w", clientID, *targetTour, domain.ErrInvalidPlacement)
		}
		return fmt.Errorf("place backlog client %q: %s not offered: %w", clientID, kind, domain.ErrInvalidPlacement)
	}

	if err := p.Backlog.SetPlacement(ctx, clientID, kind, targetTour, p.today()); err != nil {
		return fmt.Errorf("place backlog client %q: %w", clientID, err)
	}

	zerolog.Ctx(ctx).Info().Str("client_id", clientID).Str("placement", string(kind)).Msg("backlog client placed")
	return nil
}

func offers(options []domain.Option, kind domain.PlacementKind, targetTour *int) bool {
	for _, o := range options {
		if o.Kind != kind {
			continue
		}
		if kind != domain.PlacementGraft || o.TourNumber == *targetTour {
			return true
		}
	}
	return false
}

func findTour(tours []*domain.Tour, number int) *domain.Tour {
	for _, t := range tours {
		if t.Number == number {
			return t
		}
	}
	return nil
}

func hasClient(clients []*domain.Client, id string) bool {
	for _, c := range clients {
		if c.ID == id {
			return true
		}
	}
	return false
}
