package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlogistics/insight-service/internal/notify"
)

func TestMapInvoice(t *testing.T) {
	paid := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	row := InvoiceRow{
		ID:            "inv-1",
		InvoiceNumber: "INV-2026-0042",
		CustomerName:  "PT Samudra",
		Amount:        1_000_000,
		Status:        "paid",
		DueDate:       time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		PaidAt:        &paid,
	}

	model := MapInvoice(row)

	assert.Equal(t, row.ID, model.ID)
	assert.Equal(t, row.InvoiceNumber, model.InvoiceNumber)
	assert.Equal(t, row.CustomerName, model.CustomerName)
	assert.Equal(t, row.Amount, model.Amount)
	assert.Equal(t, row.Status, model.Status)
	assert.Equal(t, row.DueDate, model.DueDate)
	require.NotNil(t, model.PaidAt)
	assert.Equal(t, paid, *model.PaidAt)
}

func TestMapJobOrders(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []JobOrderRow{
		{ID: "jo-1", JobNumber: "JO-1", CreatedAt: &created},
		{ID: "jo-2", JobNumber: "JO-2"},
	}

	mapped := MapJobOrders(rows)
	require.Len(t, mapped, 2)
	assert.Equal(t, "JO-1", mapped[0].JobNumber)
	require.NotNil(t, mapped[0].CreatedAt)
	assert.Nil(t, mapped[1].CreatedAt, "Absent timestamps stay absent")
}

func TestMapDocuments(t *testing.T) {
	rows := []DocumentRow{
		{ID: "d-1", Name: "SIO Crane", Category: "certification", Active: true},
	}
	mapped := MapDocuments(rows)
	require.Len(t, mapped, 1)
	assert.Equal(t, "SIO Crane", mapped[0].Name)
	assert.Equal(t, "certification", mapped[0].Category)
}

func TestMapPreference(t *testing.T) {
	t.Run("With Quiet Hours", func(t *testing.T) {
		row := PreferenceRow{
			UserID:          "u-1",
			EmailEnabled:    true,
			WhatsAppEnabled: false,
			Digest:          "daily",
			QuietStart:      "22:00",
			QuietEnd:        "07:00",
		}

		pref := MapPreference(row)
		assert.True(t, pref.EmailEnabled)
		assert.False(t, pref.WhatsAppEnabled)
		assert.Equal(t, notify.DigestDaily, pref.Digest)
		require.NotNil(t, pref.QuietHours)
		assert.Equal(t, "22:00", pref.QuietHours.Start)
	})

	t.Run("Without Quiet Hours", func(t *testing.T) {
		pref := MapPreference(PreferenceRow{UserID: "u-2", Digest: "immediate"})
		assert.Nil(t, pref.QuietHours)
	})
}
