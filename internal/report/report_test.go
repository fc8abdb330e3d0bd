package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meridianlogistics/insight-service/internal/classify"
	"github.com/meridianlogistics/insight-service/internal/models"
	"github.com/meridianlogistics/insight-service/internal/stats"
	"github.com/meridianlogistics/insight-service/internal/trend"
)

// fakeStore serves canned rows and records saved snapshots
type fakeStore struct {
	unpaid    []models.InvoiceRow
	invoices  []models.InvoiceRow
	jobs      []models.JobOrderRow
	documents []models.DocumentRow
	snapshots map[string]*models.KPISnapshotRow
	saved     []*models.KPISnapshotRow
}

func (f *fakeStore) UnpaidInvoices(context.Context) ([]models.InvoiceRow, error) {
	return f.unpaid, nil
}

func (f *fakeStore) InvoicesInPeriod(context.Context, time.Time, time.Time) ([]models.InvoiceRow, error) {
	return f.invoices, nil
}

func (f *fakeStore) JobOrdersInPeriod(context.Context, time.Time, time.Time) ([]models.JobOrderRow, error) {
	return f.jobs, nil
}

func (f *fakeStore) ActiveDocumentsExpiringBy(_ context.Context, cutoff time.Time) ([]models.DocumentRow, error) {
	var rows []models.DocumentRow
	for _, d := range f.documents {
		if !d.ExpiryDate.After(cutoff) {
			rows = append(rows, d)
		}
	}
	return rows, nil
}

func (f *fakeStore) SaveSnapshot(_ context.Context, snapshot *models.KPISnapshotRow) error {
	f.saved = append(f.saved, snapshot)
	return nil
}

func (f *fakeStore) SnapshotForWeek(_ context.Context, weekStart time.Time) (*models.KPISnapshotRow, error) {
	return f.snapshots[weekStart.Format("2006-01-02")], nil
}

// noCache is a cache that never hits
type noCache struct{}

func (noCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (noCache) Set(context.Context, string, interface{}) error         { return nil }

func newTestService(store *fakeStore) *Service {
	return NewService(store, noCache{}, stats.NewCollector(10), zap.NewNop(), 30)
}

func TestARAging(t *testing.T) {
	asOf := time.Date(2026, 2, 15, 12, 0, 0, 0, time.Local)
	store := &fakeStore{
		unpaid: []models.InvoiceRow{
			{ID: "1", Amount: 1_000_000, DueDate: asOf.AddDate(0, 0, -45)},
			{ID: "2", Amount: 250_000, DueDate: asOf.AddDate(0, 0, -5)},
			{ID: "3", Amount: 100_000, DueDate: asOf.AddDate(0, 0, 10)},
		},
	}
	svc := newTestService(store)

	result, err := svc.ARAging(context.Background(), asOf)
	require.NoError(t, err)

	t.Run("Buckets In Display Order", func(t *testing.T) {
		require.Len(t, result.Buckets, 5)
		for i, bucket := range classify.AgingBuckets {
			assert.Equal(t, bucket, result.Buckets[i].Bucket)
		}
	})

	t.Run("Forty Five Days Overdue Lands In 31-60", func(t *testing.T) {
		assert.Equal(t, 1, result.Buckets[2].Count)
		assert.Equal(t, 1_000_000.0, result.Buckets[2].Amount)
	})

	t.Run("Totals Close", func(t *testing.T) {
		var amount float64
		var count int
		for _, b := range result.Buckets {
			amount += b.Amount
			count += b.Count
		}
		assert.Equal(t, result.TotalCount, count)
		assert.InDelta(t, result.TotalAmount, amount, 0.001)
		assert.Equal(t, 3, result.TotalCount)
		assert.InDelta(t, 1_350_000.0, result.TotalAmount, 0.001)
	})
}

func TestRevenueByCustomer(t *testing.T) {
	store := &fakeStore{
		invoices: []models.InvoiceRow{
			{CustomerName: "PT Samudra", Amount: 300},
			{CustomerName: "CV Nusantara", Amount: 500},
			{CustomerName: "PT Samudra", Amount: 400},
			{CustomerName: "", Amount: 50},
		},
	}
	svc := newTestService(store)

	result, err := svc.RevenueByCustomer(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	require.Len(t, result, 3)

	assert.Equal(t, "PT Samudra", result[0].Customer)
	assert.Equal(t, 700.0, result[0].Revenue)
	assert.Equal(t, "CV Nusantara", result[1].Customer)
	assert.Equal(t, "Unknown", result[2].Customer, "Missing customer rolls up under Unknown")
}

func TestExpiringDocuments(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	store := &fakeStore{
		documents: []models.DocumentRow{
			{ID: "soon", Name: "SIO Crane", ExpiryDate: today.AddDate(0, 0, 5), Active: true},
			{ID: "expired", Name: "SIM B2", ExpiryDate: today.AddDate(0, 0, -2), Active: true},
			{ID: "later", Name: "KIR", ExpiryDate: today.AddDate(0, 0, 25), Active: true},
			{ID: "far", Name: "Passport", ExpiryDate: today.AddDate(0, 0, 40), Active: true},
		},
	}
	svc := newTestService(store)

	result, err := svc.ExpiringDocuments(context.Background(), today)
	require.NoError(t, err)

	t.Run("Beyond Lookahead Excluded Entirely", func(t *testing.T) {
		require.Len(t, result, 3)
		for _, d := range result {
			assert.NotEqual(t, "far", d.Document.ID)
		}
	})

	t.Run("Most Urgent First", func(t *testing.T) {
		assert.Equal(t, "expired", result[0].Document.ID)
		assert.Equal(t, classify.ExpiryExpired, result[0].Urgency)
		assert.Equal(t, "soon", result[1].Document.ID)
		assert.Equal(t, classify.ExpiryExpiringThisWeek, result[1].Urgency)
		assert.Equal(t, "later", result[2].Document.ID)
		assert.Equal(t, classify.ExpiryExpiringThisMonth, result[2].Urgency)
	})
}

func TestWeeklyTrend(t *testing.T) {
	now := time.Date(2026, 3, 11, 10, 0, 0, 0, time.Local) // a Wednesday
	weekStart := StartOfWeek(now)
	created := weekStart.AddDate(0, 0, 1)
	completed := created.AddDate(0, 0, 2)

	store := &fakeStore{
		invoices: []models.InvoiceRow{
			{Amount: 200, Status: "paid"},
			{Amount: 100, Status: "unpaid"},
		},
		jobs: []models.JobOrderRow{
			{CreatedAt: &created, CompletedAt: &completed, TargetDate: &completed},
		},
		snapshots: map[string]*models.KPISnapshotRow{
			weekStart.AddDate(0, 0, -7).Format("2006-01-02"): {
				Revenue:       150,
				JobsCompleted: 2,
			},
		},
	}
	svc := newTestService(store)

	metrics, err := svc.WeeklyTrend(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, metrics, len(trend.WeeklyMetricNames))

	byName := map[string]trend.Metric{}
	for _, m := range metrics {
		byName[m.Name] = m
	}

	assert.Equal(t, 300.0, byName[trend.MetricRevenue].Current)
	assert.Equal(t, 100.0, byName[trend.MetricRevenue].ChangePercent)
	assert.Equal(t, trend.DirectionUp, byName[trend.MetricRevenue].Direction)
	assert.Equal(t, trend.DirectionDown, byName[trend.MetricJobsCompleted].Direction)
	assert.Equal(t, 1.0, byName[trend.MetricOnTimeRate].Current)
}

func TestWeeklyTrendWithoutPreviousSnapshot(t *testing.T) {
	store := &fakeStore{
		invoices: []models.InvoiceRow{{Amount: 100, Status: "paid"}},
	}
	svc := newTestService(store)

	metrics, err := svc.WeeklyTrend(context.Background(), time.Now())
	require.NoError(t, err)

	byName := map[string]trend.Metric{}
	for _, m := range metrics {
		byName[m.Name] = m
	}
	assert.Equal(t, 100.0, byName[trend.MetricRevenue].ChangePercent, "Growth from an empty baseline reads as 100%")
}

func TestCaptureSnapshot(t *testing.T) {
	store := &fakeStore{
		invoices: []models.InvoiceRow{{Amount: 500, Status: "paid"}},
	}
	svc := newTestService(store)

	err := svc.CaptureSnapshot(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, store.saved, 1)

	snapshot := store.saved[0]
	assert.NotEmpty(t, snapshot.ID)
	assert.Equal(t, 500.0, snapshot.Revenue)
	assert.Equal(t, 1.0, snapshot.CollectionRate)
	assert.Equal(t, StartOfWeek(time.Now()), snapshot.WeekStart)
}

func TestStartOfWeek(t *testing.T) {
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local)

	cases := []time.Time{
		time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local),   // Monday itself
		time.Date(2026, 3, 11, 15, 30, 0, 0, time.Local), // midweek
		time.Date(2026, 3, 15, 23, 59, 0, 0, time.Local), // Sunday
	}
	for _, c := range cases {
		assert.Equal(t, monday, StartOfWeek(c), "input %v", c)
	}
}

func TestSnapshotMetricsRoundTrip(t *testing.T) {
	row := &models.KPISnapshotRow{
		Revenue:         1,
		JobsCompleted:   2,
		OnTimeRate:      0.5,
		AvgDurationDays: 3.5,
		AgingCurrent:    10,
		Aging1To30:      20,
		Aging31To60:     30,
		Aging61To90:     40,
		AgingOver90:     50,
		CollectionRate:  0.9,
	}

	metrics := SnapshotMetrics(row)
	assert.Len(t, metrics, len(trend.WeeklyMetricNames))
	for _, name := range trend.WeeklyMetricNames {
		_, present := metrics[name]
		assert.True(t, present, "metric %s missing from snapshot", name)
	}
	assert.Equal(t, 0.9, metrics[trend.MetricCollectionRate])
}
