// Package engine derives turnaround-time (TAT) fields and SLA verdicts for
// shipped orders. Derivation is a pure function of the order, the rule set
// and a reference date; the batch driver adds ordering and optional
// parallelism on top of it.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/Veraticus/orderflow/internal/model"
	"golang.org/x/sync/errgroup"
)

// Engine applies a validated rule set against a fixed reference date.
type Engine struct {
	logger   *slog.Logger
	progress func()
	today    time.Time
	rules    Rules
	workers  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets how many goroutines DeriveAll uses. Values below 2 keep
// the pass sequential.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithProgress registers a callback invoked once per derived record.
// It may be called from several goroutines when workers > 1.
func WithProgress(fn func()) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New validates rules and returns an engine that evaluates open orders
// against today.
func New(rules Rules, today time.Time, opts ...Option) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		rules:   rules,
		today:   truncateDay(today),
		workers: 1,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Today returns the reference date open orders are measured against.
func (e *Engine) Today() time.Time {
	return e.today
}

// DeriveStats counts record-scoped conditions seen during a batch.
type DeriveStats struct {
	Records              int
	UnmappedZones        int
	MissingIdealDispatch int
	OpenDeliveries       int
	PickupFromReference  int
}

// DeriveAll derives every order. Output index i always corresponds to input
// index i, whatever the worker count.
func (e *Engine) DeriveAll(ctx context.Context, orders []model.Order) ([]model.Record, DeriveStats, error) {
	records := make([]model.Record, len(orders))

	if e.workers < 2 {
		for i := range orders {
			if err := ctx.Err(); err != nil {
				return nil, DeriveStats{}, fmt.Errorf("derivation interrupted at row %d: %w", i, err)
			}
			records[i] = e.Derive(orders[i])
			e.tick()
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for i := range orders {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return fmt.Errorf("derivation interrupted at row %d: %w", i, err)
				}
				records[i] = e.Derive(orders[i])
				e.tick()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, DeriveStats{}, err
		}
	}

	stats := collectStats(records)
	e.logger.Info("derived TAT fields",
		"records", stats.Records,
		"today", e.today.Format("2006-01-02"),
		"open_deliveries", stats.OpenDeliveries,
		"workers", e.workers)
	if stats.UnmappedZones > 0 {
		e.logger.Warn("orders with unmapped zone have no zone-based verdicts", "count", stats.UnmappedZones)
	}
	if stats.MissingIdealDispatch > 0 {
		e.logger.Warn("orders without ideal dispatch date have no dispatch or placed day counts", "count", stats.MissingIdealDispatch)
	}
	if stats.PickupFromReference > 0 {
		e.logger.Warn("orders with no pickup signal use the reference date as pickup", "count", stats.PickupFromReference)
	}

	return records, stats, nil
}

func (e *Engine) tick() {
	if e.progress != nil {
		e.progress()
	}
}

func collectStats(records []model.Record) DeriveStats {
	stats := DeriveStats{Records: len(records)}
	for i := range records {
		r := &records[i]
		if r.IdealDeliveryTAT == nil {
			stats.UnmappedZones++
		}
		if r.Dates.IdealDispatch.IsZero() {
			stats.MissingIdealDispatch++
		}
		if r.Dates.Delivery.IsZero() {
			stats.OpenDeliveries++
		}
		if r.Dates.Pickup.IsZero() && r.Dates.IdealDispatch.IsZero() &&
			(r.FacilityKind != model.FacilityWarehouse || r.Dates.Assigned.IsZero()) {
			stats.PickupFromReference++
		}
	}
	return stats
}

// Derive computes every derived field of a single order.
func (e *Engine) Derive(o model.Order) model.Record {
	rec := model.Record{
		Order:         o,
		Dates:         parseDates(o),
		FacilityKind:  e.rules.FacilityKind(o.Facility),
		StatusClass:   e.rules.ClassifyStatus(o.FinalStatus),
		ReshippedFlag: e.rules.IsReshipped(o.Reshipped),
	}
	rec.Zone = model.NormalizeText(o.Zone)

	if !rec.Dates.Placed.IsZero() {
		rec.Week = model.IntPtr(weekOfMonth(rec.Dates.Placed))
	}

	rec.EffectivePickup = e.effectivePickup(rec.FacilityKind, rec.Dates)
	rec.EffectiveDelivery = firstDate(rec.Dates.Delivery, e.today)

	rec.IdealDeliveryTAT, rec.IdealPlacedTAT, rec.ConsumerPlacedTAT = e.zoneTargets(rec.Zone)

	if !rec.Dates.IdealDispatch.IsZero() {
		rec.DispatchDays = model.IntPtr(daysBetween(rec.Dates.IdealDispatch, rec.EffectivePickup))
		rec.PlacedDays = model.IntPtr(daysBetween(rec.Dates.IdealDispatch, rec.EffectiveDelivery))
	}
	rec.PickupDays = model.IntPtr(daysBetween(rec.EffectivePickup, rec.EffectiveDelivery))

	rec.DispatchStatus = judge(rec.DispatchDays, model.IntPtr(e.rules.DispatchThresholdDays))
	rec.PlacedStatus = judge(rec.PlacedDays, rec.IdealPlacedTAT)
	rec.ConsumerStatus = judge(rec.PlacedDays, rec.ConsumerPlacedTAT)
	rec.PickupStatus = judge(rec.PickupDays, rec.IdealDeliveryTAT)

	return rec
}

// judge is the single OutTAT rule: strictly greater than target. A missing
// target means no verdict; a missing day count never exceeds its target.
func judge(days, target *int) model.Verdict {
	if target == nil {
		return model.VerdictUnknown
	}
	if days != nil && *days > *target {
		return model.VerdictOutTAT
	}
	return model.VerdictInTAT
}

// pickupSource yields a candidate pickup date for a facility kind.
type pickupSource func(model.Dates) time.Time

// pickupChain lists, per facility kind, the proxies tried after the raw
// pickup date and before the ideal-dispatch safety fallback.
var pickupChain = map[model.FacilityKind][]pickupSource{
	model.FacilityWarehouse: {func(d model.Dates) time.Time { return d.Assigned }},
	model.FacilityDarkStore: {func(d model.Dates) time.Time { return d.IdealDispatch }},
}

func (e *Engine) effectivePickup(kind model.FacilityKind, d model.Dates) time.Time {
	candidates := []time.Time{d.Pickup}
	for _, src := range pickupChain[kind] {
		candidates = append(candidates, src(d))
	}
	candidates = append(candidates, d.IdealDispatch, e.today)
	return firstDate(candidates...)
}

func (e *Engine) zoneTargets(zone string) (ideal, placed, consumer *int) {
	days, ok := e.rules.ZoneTargets[zone]
	if !ok {
		return nil, nil, nil
	}

	p := days
	if !slices.Contains(e.rules.NoPlacementBufferZones, zone) {
		p++
	}
	c := p
	if slices.Contains(e.rules.ConsumerGraceZones, zone) {
		c++
	}

	return model.IntPtr(days), model.IntPtr(p), model.IntPtr(c)
}

func parseDates(o model.Order) model.Dates {
	var d model.Dates
	d.OrderDate, _ = ParseDate(o.OrderDate)
	d.Placed, _ = ParseDate(o.PlacedDate)
	d.IdealDispatch, _ = ParseDate(o.IdealDispatchDate)
	d.IdealDispatchR, _ = ParseDate(o.IdealDispatchDateR)
	d.Dispatch, _ = ParseDate(o.DispatchDate)
	d.Assigned, _ = ParseDate(o.AssignedDate)
	d.Pickup, _ = ParseDate(o.PickupDate)
	d.Delivery, _ = ParseDate(o.DeliveryDate)
	return d
}

func firstDate(candidates ...time.Time) time.Time {
	for _, t := range candidates {
		if !t.IsZero() {
			return t
		}
	}
	return time.Time{}
}
