package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andina-labs/cierre-core/internal/core/domain"
	"github.com/andina-labs/cierre-core/internal/core/ports/driven"
	"github.com/andina-labs/cierre-core/internal/core/ports/driving"
)

const (
	// dateLayout is the calendar date format used for all filtering and keys.
	dateLayout = "2006-01-02"

	// topProductCount caps the product ranking per location.
	topProductCount = 10

	// syncLockTTL bounds how long a (connection, date) sync lock is held if
	// the holder dies without releasing it.
	syncLockTTL = 5 * time.Minute
)

// deniedLocations lists substrings of location names that are settled through
// a separate franchise pipeline and must never produce a summary row.
var deniedLocations = []string{"CRUZ", "CHALPON", "INDACOCHEA", "AMAY", "P&P"}

// orderStates are the POS order states that count toward a daily closing.
var orderStates = []any{"paid", "done", "invoiced"}

// SyncEngine pulls daily POS closing data from ERP connections, aggregates it
// per location and persists one summary row per (location, date).
type SyncEngine struct {
	connections driven.ConnectionStore
	summaries   driven.SummaryStore
	jobs        driven.SyncJobStore
	erpFactory  driven.ERPClientFactory
	cipher      driven.SecretCipher
	lock        driven.DistributedLock
	logger      *slog.Logger

	now func() time.Time
}

var _ driving.SyncOrchestrator = (*SyncEngine)(nil)

// NewSyncEngine creates a sync engine wired to its collaborators.
func NewSyncEngine(
	connections driven.ConnectionStore,
	summaries driven.SummaryStore,
	jobs driven.SyncJobStore,
	erpFactory driven.ERPClientFactory,
	cipher driven.SecretCipher,
	lock driven.DistributedLock,
	logger *slog.Logger,
) *SyncEngine {
	return &SyncEngine{
		connections: connections,
		summaries:   summaries,
		jobs:        jobs,
		erpFactory:  erpFactory,
		cipher:      cipher,
		lock:        lock,
		logger:      logger,
		now:         time.Now,
	}
}

// SyncConnection runs one daily sync for a connection. An empty date targets
// today. Failures inside the pipeline are recorded as an error sync job and
// returned; failures before the pipeline starts (unknown connection, missing
// credential, concurrent run) are returned without an audit record.
func (e *SyncEngine) SyncConnection(ctx context.Context, connectionID, date string) (*domain.SyncResult, error) {
	date, err := e.resolveDate(date)
	if err != nil {
		return nil, err
	}

	conn, err := e.connections.Get(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("connection %s: %w", connectionID, err)
	}

	apiKey := e.cipher.DecryptString(conn.APIKeyBlob)
	if apiKey == "" {
		return nil, fmt.Errorf("connection %s: %w", connectionID, domain.ErrCredentialUnavailable)
	}

	lockName := "sync:" + conn.ID + ":" + date
	acquired, err := e.lock.Acquire(ctx, lockName, syncLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquiring sync lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("connection %s date %s: %w", connectionID, date, domain.ErrSyncInProgress)
	}
	defer func() {
		if err := e.lock.Release(context.WithoutCancel(ctx), lockName); err != nil {
			e.logger.Warn("failed to release sync lock", "lock", lockName, "error", err)
		}
	}()

	start := e.now()
	e.logger.Info("starting daily sync", "connection_id", conn.ID, "connection", conn.Name, "date", date)

	locations, err := e.run(ctx, conn, apiKey, date)
	if err != nil {
		e.recordJob(ctx, conn.ID, date, domain.SyncJobError, err.Error())
		e.logger.Error("daily sync failed", "connection_id", conn.ID, "date", date, "error", err)
		return nil, err
	}

	result := &domain.SyncResult{
		ConnectionID: conn.ID,
		Date:         date,
		Success:      true,
		Synced:       len(locations),
		Locations:    locations,
		Duration:     e.now().Sub(start).Seconds(),
	}

	if locations == nil {
		// Zero orders for the date: a quiet day, not a failure. No summary
		// rows are written and no job record is appended.
		e.logger.Info("no orders for date", "connection_id", conn.ID, "date", date)
		return result, nil
	}

	e.recordJob(ctx, conn.ID, date, domain.SyncJobSuccess,
		fmt.Sprintf("Synced %d locations: %s", len(locations), strings.Join(locations, ", ")))
	e.logger.Info("daily sync finished",
		"connection_id", conn.ID,
		"date", date,
		"locations", len(locations),
		"duration", result.Duration)
	return result, nil
}

// SyncAll syncs every enabled connection for the date. One connection's
// failure is recorded in its result and does not stop the rest.
func (e *SyncEngine) SyncAll(ctx context.Context, date string) ([]*domain.SyncResult, error) {
	date, err := e.resolveDate(date)
	if err != nil {
		return nil, err
	}

	conns, err := e.connections.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}

	results := make([]*domain.SyncResult, 0, len(conns))
	for _, conn := range conns {
		result, err := e.SyncConnection(ctx, conn.ID, date)
		if err != nil {
			e.logger.Error("sync failed for connection", "connection_id", conn.ID, "date", date, "error", err)
			results = append(results, &domain.SyncResult{
				ConnectionID: conn.ID,
				Date:         date,
				Success:      false,
				Error:        err.Error(),
			})
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

func (e *SyncEngine) resolveDate(date string) (string, error) {
	if date == "" {
		return e.now().Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", fmt.Errorf("date %q: %w", date, domain.ErrInvalidInput)
	}
	return date, nil
}

// run executes the fetch/aggregate/persist pipeline. It returns the names of
// the locations written, or nil when the date had no orders at all.
func (e *SyncEngine) run(ctx context.Context, conn *domain.Connection, apiKey, date string) ([]string, error) {
	client := e.erpFactory.New(domain.ConnectionParams{
		BaseURL:  conn.BaseURL,
		Database: conn.Database,
		Username: conn.Username,
		APIKey:   apiKey,
	})

	uid, err := client.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := e.fetchOrders(ctx, client, uid, conn, date)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	orderIDs := make([]any, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, asInt(order["id"]))
	}

	payments, err := client.SearchRead(ctx, uid, "pos.payment",
		[]any{[]any{"pos_order_id", "in", orderIDs}},
		[]string{"amount", "payment_method_id", "pos_order_id"})
	if err != nil {
		return nil, fmt.Errorf("fetching payments: %w", err)
	}

	lines, err := client.SearchRead(ctx, uid, "pos.order.line",
		[]any{[]any{"order_id", "in", orderIDs}},
		[]string{"product_id", "qty", "price_subtotal_incl", "order_id"})
	if err != nil {
		return nil, fmt.Errorf("fetching order lines: %w", err)
	}

	groups := aggregate(orders, payments, lines)

	synced := make([]string, 0, len(groups))
	for _, group := range groups {
		if deniedLocation(group.name) {
			continue
		}
		summary := group.toSummary(conn.ID, date, e.now())
		if err := e.summaries.Upsert(ctx, summary); err != nil {
			return nil, fmt.Errorf("upserting summary for %s: %w", group.name, err)
		}
		synced = append(synced, group.name)
	}
	return synced, nil
}

func (e *SyncEngine) fetchOrders(ctx context.Context, client driven.ERPClient, uid int64, conn *domain.Connection, date string) ([]map[string]any, error) {
	filter := []any{
		[]any{"date_order", ">=", date + " 00:00:00"},
		[]any{"date_order", "<=", date + " 23:59:59"},
		[]any{"state", "in", orderStates},
	}
	if len(conn.CompanyIDs) > 0 {
		filter = append(filter, []any{"company_id", "in", conn.CompanyIDs})
	}
	orders, err := client.SearchRead(ctx, uid, "pos.order", filter,
		[]string{"id", "name", "amount_total", "amount_tax", "pos_reference", "session_id", "config_id", "lines", "payment_ids"})
	if err != nil {
		return nil, fmt.Errorf("fetching orders: %w", err)
	}
	return orders, nil
}

func (e *SyncEngine) recordJob(ctx context.Context, connectionID, date string, status domain.SyncJobStatus, message string) {
	job := &domain.SyncJob{
		ID:           uuid.NewString(),
		ConnectionID: connectionID,
		Status:       status,
		Message:      message,
		Date:         date,
		CreatedAt:    e.now(),
	}
	if err := e.jobs.Save(ctx, job); err != nil {
		e.logger.Error("failed to record sync job", "connection_id", connectionID, "date", date, "error", err)
	}
}

// locationGroup accumulates one location's orders during aggregation.
// Product insertion order is preserved so ranking ties keep first-seen order.
type locationGroup struct {
	id       int64
	name     string
	total    float64
	orders   int
	payments map[string]float64

	products     map[string]*productGroup
	productNames []string
}

type productGroup struct {
	qty   float64
	total float64
}

// aggregate groups orders by their POS config (the location) in one pass,
// folding in each order's payments and lines. Groups come back in the order
// their location was first seen.
func aggregate(orders, payments, lines []map[string]any) []*locationGroup {
	paymentsByOrder := indexByRef(payments, "pos_order_id")
	linesByOrder := indexByRef(lines, "order_id")

	byLocation := make(map[int64]*locationGroup)
	var ordered []*locationGroup

	for _, order := range orders {
		locationID, locationName, ok := refPair(order["config_id"])
		if !ok {
			continue
		}
		group, exists := byLocation[locationID]
		if !exists {
			group = &locationGroup{
				id:       locationID,
				name:     locationName,
				payments: make(map[string]float64),
				products: make(map[string]*productGroup),
			}
			byLocation[locationID] = group
			ordered = append(ordered, group)
		}

		group.total += asFloat(order["amount_total"])
		group.orders++

		orderID := asInt(order["id"])
		for _, payment := range paymentsByOrder[orderID] {
			_, method, ok := refPair(payment["payment_method_id"])
			if !ok {
				continue
			}
			group.payments[method] += asFloat(payment["amount"])
		}
		for _, line := range linesByOrder[orderID] {
			_, product, ok := refPair(line["product_id"])
			if !ok {
				continue
			}
			pg, seen := group.products[product]
			if !seen {
				pg = &productGroup{}
				group.products[product] = pg
				group.productNames = append(group.productNames, product)
			}
			pg.qty += asFloat(line["qty"])
			pg.total += asFloat(line["price_subtotal_incl"])
		}
	}
	return ordered
}

func (g *locationGroup) toSummary(connectionID, date string, now time.Time) *domain.DailySummary {
	names := make([]string, len(g.productNames))
	copy(names, g.productNames)
	// Stable sort keeps first-seen order between equal quantities.
	sort.SliceStable(names, func(i, j int) bool {
		return g.products[names[i]].qty > g.products[names[j]].qty
	})
	if len(names) > topProductCount {
		names = names[:topProductCount]
	}

	top := make([]domain.ProductSales, 0, len(names))
	for _, name := range names {
		pg := g.products[name]
		top = append(top, domain.ProductSales{
			Name:  name,
			Qty:   int64(math.Round(pg.qty)),
			Total: roundMoney(pg.total),
		})
	}

	return &domain.DailySummary{
		LocationID:   g.id,
		LocationName: g.name,
		ConnectionID: connectionID,
		Date:         date,
		Total:        roundMoney(g.total),
		OrderCount:   g.orders,
		Payments:     g.payments,
		TopProducts:  top,
		Delivered:    false,
		UpdatedAt:    now,
	}
}

func deniedLocation(name string) bool {
	upper := strings.ToUpper(name)
	for _, denied := range deniedLocations {
		if strings.Contains(upper, denied) {
			return true
		}
	}
	return false
}

func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// indexByRef buckets records by the id half of a many2one reference field.
func indexByRef(records []map[string]any, field string) map[int64][]map[string]any {
	index := make(map[int64][]map[string]any, len(records))
	for _, record := range records {
		id, _, ok := refPair(record[field])
		if !ok {
			continue
		}
		index[id] = append(index[id], record)
	}
	return index
}

// refPair decodes an ERP many2one value, which arrives as [id, display name].
// A false-valued field (the ERP's null) is reported as not ok.
func refPair(v any) (int64, string, bool) {
	pair, ok := v.([]any)
	if !ok || len(pair) < 2 {
		return 0, "", false
	}
	name, ok := pair[1].(string)
	if !ok {
		return 0, "", false
	}
	return asInt(pair[0]), name, true
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	default:
		return 0
	}
}
