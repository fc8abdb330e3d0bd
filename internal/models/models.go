package models

import (
	"time"

	"github.com/meridianlogistics/insight-service/internal/classify"
	"github.com/meridianlogistics/insight-service/internal/notify"
)

// Row types mirror the persistence shape column for column; one explicit
// struct per table, one mapper per struct. Handlers and services only ever
// see the mapped view models.

// InvoiceRow represents one row of the invoices table
type InvoiceRow struct {
	ID            string     `json:"id" gorm:"column:id;primarykey"`
	InvoiceNumber string     `json:"invoice_number" gorm:"column:invoice_number;not null;index"`
	CustomerName  string     `json:"customer_name" gorm:"column:customer_name"`
	Amount        float64    `json:"amount" gorm:"column:amount"`
	Status        string     `json:"status" gorm:"column:status;index"`
	DueDate       time.Time  `json:"due_date" gorm:"column:due_date;index"`
	PaidAt        *time.Time `json:"paid_at" gorm:"column:paid_at"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at"`
}

// TableName maps InvoiceRow to its table
func (InvoiceRow) TableName() string { return "invoices" }

// Invoice is the in-memory shape of an invoice
type Invoice struct {
	ID            string     `json:"id"`
	InvoiceNumber string     `json:"invoiceNumber"`
	CustomerName  string     `json:"customerName"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	DueDate       time.Time  `json:"dueDate"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

// MapInvoice converts a persistence row into the invoice model
func MapInvoice(row InvoiceRow) Invoice {
	return Invoice{
		ID:            row.ID,
		InvoiceNumber: row.InvoiceNumber,
		CustomerName:  row.CustomerName,
		Amount:        row.Amount,
		Status:        row.Status,
		DueDate:       row.DueDate,
		PaidAt:        row.PaidAt,
	}
}

// MapInvoices converts a batch of rows
func MapInvoices(rows []InvoiceRow) []Invoice {
	out := make([]Invoice, len(rows))
	for i, row := range rows {
		out[i] = MapInvoice(row)
	}
	return out
}

// JobOrderRow represents one row of the job_orders table
type JobOrderRow struct {
	ID           string     `json:"id" gorm:"column:id;primarykey"`
	JobNumber    string     `json:"job_number" gorm:"column:job_number;not null;index"`
	CustomerName string     `json:"customer_name" gorm:"column:customer_name"`
	ServiceType  string     `json:"service_type" gorm:"column:service_type;index"`
	Value        float64    `json:"value" gorm:"column:value"`
	CreatedAt    *time.Time `json:"created_at" gorm:"column:created_at"`
	TargetDate   *time.Time `json:"target_date" gorm:"column:target_date"`
	CompletedAt  *time.Time `json:"completed_at" gorm:"column:completed_at"`
}

// TableName maps JobOrderRow to its table
func (JobOrderRow) TableName() string { return "job_orders" }

// JobOrder is the in-memory shape of a job order
type JobOrder struct {
	ID           string     `json:"id"`
	JobNumber    string     `json:"jobNumber"`
	CustomerName string     `json:"customerName"`
	ServiceType  string     `json:"serviceType"`
	Value        float64    `json:"value"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	TargetDate   *time.Time `json:"targetDate,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// MapJobOrder converts a persistence row into the job order model
func MapJobOrder(row JobOrderRow) JobOrder {
	return JobOrder{
		ID:           row.ID,
		JobNumber:    row.JobNumber,
		CustomerName: row.CustomerName,
		ServiceType:  row.ServiceType,
		Value:        row.Value,
		CreatedAt:    row.CreatedAt,
		TargetDate:   row.TargetDate,
		CompletedAt:  row.CompletedAt,
	}
}

// MapJobOrders converts a batch of rows
func MapJobOrders(rows []JobOrderRow) []JobOrder {
	out := make([]JobOrder, len(rows))
	for i, row := range rows {
		out[i] = MapJobOrder(row)
	}
	return out
}

// DocumentRow represents one row of the documents table
type DocumentRow struct {
	ID         string    `json:"id" gorm:"column:id;primarykey"`
	Name       string    `json:"name" gorm:"column:name"`
	Category   string    `json:"category" gorm:"column:category"`
	HolderName string    `json:"holder_name" gorm:"column:holder_name"`
	ExpiryDate time.Time `json:"expiry_date" gorm:"column:expiry_date;index"`
	Active     bool      `json:"active" gorm:"column:active;index"`
}

// TableName maps DocumentRow to its table
func (DocumentRow) TableName() string { return "documents" }

// Document is the in-memory shape of a tracked document
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	HolderName string    `json:"holderName"`
	ExpiryDate time.Time `json:"expiryDate"`
}

// MapDocument converts a persistence row into the document model
func MapDocument(row DocumentRow) Document {
	return Document{
		ID:         row.ID,
		Name:       row.Name,
		Category:   row.Category,
		HolderName: row.HolderName,
		ExpiryDate: row.ExpiryDate,
	}
}

// MapDocuments converts a batch of rows
func MapDocuments(rows []DocumentRow) []Document {
	out := make([]Document, len(rows))
	for i, row := range rows {
		out[i] = MapDocument(row)
	}
	return out
}

// KPISnapshotRow represents one row of the kpi_snapshots table. Metric
// values are stored one column per metric of the closed weekly list.
type KPISnapshotRow struct {
	ID              string    `json:"id" gorm:"column:id;primarykey"`
	WeekStart       time.Time `json:"week_start" gorm:"column:week_start;index"`
	Revenue         float64   `json:"revenue" gorm:"column:revenue"`
	JobsCompleted   float64   `json:"jobs_completed" gorm:"column:jobs_completed"`
	OnTimeRate      float64   `json:"on_time_rate" gorm:"column:on_time_rate"`
	AvgDurationDays float64   `json:"avg_duration_days" gorm:"column:avg_duration_days"`
	AgingCurrent    float64   `json:"aging_current" gorm:"column:aging_current"`
	Aging1To30      float64   `json:"aging_1_30" gorm:"column:aging_1_30"`
	Aging31To60     float64   `json:"aging_31_60" gorm:"column:aging_31_60"`
	Aging61To90     float64   `json:"aging_61_90" gorm:"column:aging_61_90"`
	AgingOver90     float64   `json:"aging_over_90" gorm:"column:aging_over_90"`
	CollectionRate  float64   `json:"collection_rate" gorm:"column:collection_rate"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName maps KPISnapshotRow to its table
func (KPISnapshotRow) TableName() string { return "kpi_snapshots" }

// PreferenceRow represents one row of the notification_preferences table
type PreferenceRow struct {
	UserID          string `json:"user_id" gorm:"column:user_id;primarykey"`
	Email           string `json:"email" gorm:"column:email"`
	Phone           string `json:"phone" gorm:"column:phone"`
	InAppEnabled    bool   `json:"in_app_enabled" gorm:"column:in_app_enabled"`
	EmailEnabled    bool   `json:"email_enabled" gorm:"column:email_enabled"`
	WhatsAppEnabled bool   `json:"whatsapp_enabled" gorm:"column:whatsapp_enabled"`
	Digest          string `json:"digest" gorm:"column:digest"`
	QuietStart      string `json:"quiet_start" gorm:"column:quiet_start"`
	QuietEnd        string `json:"quiet_end" gorm:"column:quiet_end"`
}

// TableName maps PreferenceRow to its table
func (PreferenceRow) TableName() string { return "notification_preferences" }

// MapPreference converts a preference row into the notify package's shape.
// An empty quiet-hours pair means the user has no quiet window configured.
func MapPreference(row PreferenceRow) notify.Preference {
	pref := notify.Preference{
		InAppEnabled:    row.InAppEnabled,
		EmailEnabled:    row.EmailEnabled,
		WhatsAppEnabled: row.WhatsAppEnabled,
		Digest:          notify.DigestFrequency(row.Digest),
	}
	if row.QuietStart != "" && row.QuietEnd != "" {
		pref.QuietHours = &classify.QuietHours{Start: row.QuietStart, End: row.QuietEnd}
	}
	return pref
}
