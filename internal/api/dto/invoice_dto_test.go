package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyTotalMarshalsBareNumber(t *testing.T) {
	row := MonthlyTotalResponse{
		Employee: "alice",
		Month:    "2025-05",
		Total:    Number{Decimal: decimal.RequireFromString("150")},
	}

	raw, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"employee":"alice","month":"2025-05","total":150}`, string(raw))

	// Numeric consumers must be able to decode the total directly.
	var decoded struct {
		Total float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 150.0, decoded.Total)
}

func TestInvoiceAmountMarshalsBareNumber(t *testing.T) {
	resp := InvoiceResponse{
		ID:            1,
		InvoiceNumber: "INV-1",
		Date:          "2025-05-01",
		Amount:        Number{Decimal: decimal.RequireFromString("100.50")},
		Status:        "Pending",
	}

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded struct {
		Amount float64 `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 100.5, decoded.Amount)
}
