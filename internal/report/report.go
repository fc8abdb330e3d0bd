package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meridianlogistics/insight-service/internal/aggregate"
	"github.com/meridianlogistics/insight-service/internal/classify"
	"github.com/meridianlogistics/insight-service/internal/models"
	"github.com/meridianlogistics/insight-service/internal/stats"
	"github.com/meridianlogistics/insight-service/internal/trend"
)

// Store is the slice of the repository the report layer reads from
type Store interface {
	UnpaidInvoices(ctx context.Context) ([]models.InvoiceRow, error)
	InvoicesInPeriod(ctx context.Context, from, to time.Time) ([]models.InvoiceRow, error)
	JobOrdersInPeriod(ctx context.Context, from, to time.Time) ([]models.JobOrderRow, error)
	ActiveDocumentsExpiringBy(ctx context.Context, cutoff time.Time) ([]models.DocumentRow, error)
	SaveSnapshot(ctx context.Context, snapshot *models.KPISnapshotRow) error
	SnapshotForWeek(ctx context.Context, weekStart time.Time) (*models.KPISnapshotRow, error)
}

// Cache is the read-through cache the report layer stores results in
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// Service composes the repository with the pure aggregation and
// classification layer into the concrete reports the API serves.
type Service struct {
	repo          Store
	cache         Cache
	stats         *stats.Collector
	logger        *zap.Logger
	lookaheadDays int
}

// NewService creates a report service
func NewService(repo Store, reportCache Cache, collector *stats.Collector, logger *zap.Logger, lookaheadDays int) *Service {
	if lookaheadDays <= 0 {
		lookaheadDays = classify.DefaultExpiryLookaheadDays
	}
	return &Service{
		repo:          repo,
		cache:         reportCache,
		stats:         collector,
		logger:        logger,
		lookaheadDays: lookaheadDays,
	}
}

// AgingBucketView is one row of the AR aging report, in display order
type AgingBucketView struct {
	Bucket classify.AgingBucket `json:"bucket"`
	Count  int                  `json:"count"`
	Amount float64              `json:"amount"`
}

// ARAgingReport is the receivables aging rollup as of a reference date
type ARAgingReport struct {
	AsOf        time.Time         `json:"as_of"`
	Buckets     []AgingBucketView `json:"buckets"`
	TotalCount  int               `json:"total_count"`
	TotalAmount float64           `json:"total_amount"`
}

// ARAging buckets every unpaid invoice by days overdue. Reads through the
// report cache keyed by day.
func (s *Service) ARAging(ctx context.Context, asOf time.Time) (*ARAgingReport, error) {
	cacheKey := fmt.Sprintf("ar-aging:%s", asOf.Format("2006-01-02"))

	var cached ARAgingReport
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	started := time.Now()
	rows, err := s.repo.UnpaidInvoices(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]aggregate.AgingItem, len(rows))
	for i, row := range rows {
		items[i] = aggregate.AgingItem{DueDate: row.DueDate, Amount: row.Amount}
	}
	totals := aggregate.AgeItems(items, asOf)

	result := &ARAgingReport{
		AsOf:        asOf,
		TotalCount:  totals.TotalCount,
		TotalAmount: totals.TotalAmount,
	}
	for _, bucket := range classify.AgingBuckets {
		bt := totals.Buckets[bucket]
		result.Buckets = append(result.Buckets, AgingBucketView{
			Bucket: bucket,
			Count:  bt.Count,
			Amount: bt.Amount,
		})
	}

	if s.stats.Observe("ar_aging_report", time.Since(started)) {
		s.logger.Warn("Slow report generation",
			zap.String("report", "ar-aging"),
			zap.Duration("duration", time.Since(started)))
	}

	if err := s.cache.Set(ctx, cacheKey, result); err != nil {
		s.logger.Warn("Failed to cache report", zap.String("report", "ar-aging"), zap.Error(err))
	}
	return result, nil
}

// CustomerRevenue is one row of the revenue-by-customer report
type CustomerRevenue struct {
	Customer string  `json:"customer"`
	Revenue  float64 `json:"revenue"`
}

// RevenueByCustomer sums invoice amounts per customer over the period,
// highest revenue first. Invoices without a customer accumulate under the
// Unknown key.
func (s *Service) RevenueByCustomer(ctx context.Context, from, to time.Time) ([]CustomerRevenue, error) {
	rows, err := s.repo.InvoicesInPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}

	sums := aggregate.GroupSum(rows,
		func(r models.InvoiceRow) string { return r.CustomerName },
		func(r models.InvoiceRow) float64 { return r.Amount })

	result := make([]CustomerRevenue, 0, len(sums))
	for customer, revenue := range sums {
		result = append(result, CustomerRevenue{Customer: customer, Revenue: revenue})
	}
	return aggregate.SortedCopy(result, func(a, b CustomerRevenue) bool {
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Customer < b.Customer
	}), nil
}

// ExpiringDocument is one row of the expiring-documents report
type ExpiringDocument struct {
	Document models.Document        `json:"document"`
	DaysLeft int                    `json:"days_left"`
	Urgency  classify.ExpiryUrgency `json:"urgency"`
}

// ExpiringDocuments lists active documents expiring inside the lookahead
// window, most urgent first. Documents beyond the window are excluded by the
// query, not merely unlabelled.
func (s *Service) ExpiringDocuments(ctx context.Context, today time.Time) ([]ExpiringDocument, error) {
	cutoff := today.AddDate(0, 0, s.lookaheadDays)
	rows, err := s.repo.ActiveDocumentsExpiringBy(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	result := make([]ExpiringDocument, 0, len(rows))
	for _, row := range rows {
		days := classify.DaysUntilExpiry(today, row.ExpiryDate)
		if !classify.WithinLookahead(days, s.lookaheadDays) {
			continue
		}
		result = append(result, ExpiringDocument{
			Document: models.MapDocument(row),
			DaysLeft: days,
			Urgency:  classify.ExpiryUrgencyFor(days),
		})
	}

	return aggregate.SortedCopy(result, func(a, b ExpiringDocument) bool {
		return a.DaysLeft < b.DaysLeft
	}), nil
}

// WeeklyTrend compares this week's metrics against the captured snapshot of
// the previous week. A missing previous snapshot compares against zeroes,
// which the trend calculator defines as 100% growth for any positive metric.
func (s *Service) WeeklyTrend(ctx context.Context, now time.Time) ([]trend.Metric, error) {
	weekStart := StartOfWeek(now)
	current, err := s.WeekMetrics(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	previous := map[string]float64{}
	snapshot, err := s.repo.SnapshotForWeek(ctx, weekStart.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		previous = SnapshotMetrics(snapshot)
	}

	return trend.WeeklyReport(current, previous), nil
}

// WeekMetrics computes the closed weekly metric set for the week starting
// at weekStart.
func (s *Service) WeekMetrics(ctx context.Context, weekStart time.Time) (map[string]float64, error) {
	weekEnd := weekStart.AddDate(0, 0, 7)

	invoices, err := s.repo.InvoicesInPeriod(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	jobs, err := s.repo.JobOrdersInPeriod(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	unpaid, err := s.repo.UnpaidInvoices(ctx)
	if err != nil {
		return nil, err
	}

	var revenue, collected float64
	for _, inv := range invoices {
		revenue += inv.Amount
		if inv.Status == "paid" {
			collected += inv.Amount
		}
	}

	times := make([]aggregate.JobTimes, len(jobs))
	for i, j := range jobs {
		times[i] = aggregate.JobTimes{
			CreatedAt:   j.CreatedAt,
			CompletedAt: j.CompletedAt,
			TargetDate:  j.TargetDate,
		}
	}

	agingItems := make([]aggregate.AgingItem, len(unpaid))
	for i, inv := range unpaid {
		agingItems[i] = aggregate.AgingItem{DueDate: inv.DueDate, Amount: inv.Amount}
	}
	aging := aggregate.AgeItems(agingItems, weekStart)

	var collectionRate float64
	if revenue > 0 {
		collectionRate = collected / revenue
	}

	return map[string]float64{
		trend.MetricRevenue:         revenue,
		trend.MetricJobsCompleted:   float64(aggregate.CompletedCount(times)),
		trend.MetricOnTimeRate:      aggregate.OnTimeRate(times),
		trend.MetricAvgDurationDays: aggregate.AverageDurationDays(times),
		trend.MetricAgingCurrent:    aging.Buckets[classify.AgingCurrent].Amount,
		trend.MetricAging1To30:      aging.Buckets[classify.Aging1To30].Amount,
		trend.MetricAging31To60:     aging.Buckets[classify.Aging31To60].Amount,
		trend.MetricAging61To90:     aging.Buckets[classify.Aging61To90].Amount,
		trend.MetricAgingOver90:     aging.Buckets[classify.AgingOver90].Amount,
		trend.MetricCollectionRate:  collectionRate,
	}, nil
}

// CaptureSnapshot computes and persists the metric snapshot for the week
// containing now. Called by the scheduler so next week's trend report has a
// previous period.
func (s *Service) CaptureSnapshot(ctx context.Context, now time.Time) error {
	weekStart := StartOfWeek(now)
	metrics, err := s.WeekMetrics(ctx, weekStart)
	if err != nil {
		return fmt.Errorf("failed to compute week metrics: %w", err)
	}

	snapshot := &models.KPISnapshotRow{
		ID:              uuid.New().String(),
		WeekStart:       weekStart,
		Revenue:         metrics[trend.MetricRevenue],
		JobsCompleted:   metrics[trend.MetricJobsCompleted],
		OnTimeRate:      metrics[trend.MetricOnTimeRate],
		AvgDurationDays: metrics[trend.MetricAvgDurationDays],
		AgingCurrent:    metrics[trend.MetricAgingCurrent],
		Aging1To30:      metrics[trend.MetricAging1To30],
		Aging31To60:     metrics[trend.MetricAging31To60],
		Aging61To90:     metrics[trend.MetricAging61To90],
		AgingOver90:     metrics[trend.MetricAgingOver90],
		CollectionRate:  metrics[trend.MetricCollectionRate],
	}

	if err := s.repo.SaveSnapshot(ctx, snapshot); err != nil {
		return err
	}

	s.logger.Info("Captured weekly KPI snapshot",
		zap.Time("week_start", weekStart),
		zap.Float64("revenue", snapshot.Revenue))
	return nil
}

// SnapshotMetrics flattens a snapshot row back into the metric map the trend
// calculator consumes.
func SnapshotMetrics(row *models.KPISnapshotRow) map[string]float64 {
	return map[string]float64{
		trend.MetricRevenue:         row.Revenue,
		trend.MetricJobsCompleted:   row.JobsCompleted,
		trend.MetricOnTimeRate:      row.OnTimeRate,
		trend.MetricAvgDurationDays: row.AvgDurationDays,
		trend.MetricAgingCurrent:    row.AgingCurrent,
		trend.MetricAging1To30:      row.Aging1To30,
		trend.MetricAging31To60:     row.Aging31To60,
		trend.MetricAging61To90:     row.Aging61To90,
		trend.MetricAgingOver90:     row.AgingOver90,
		trend.MetricCollectionRate:  row.CollectionRate,
	}
}

// StartOfWeek returns local midnight of the Monday of the week containing t
func StartOfWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(midnight.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started the previous Monday
	}
	return midnight.AddDate(0, 0, -(weekday - 1))
}
