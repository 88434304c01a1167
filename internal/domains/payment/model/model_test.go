package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeeper/internal/domains/payment/model"
)

func TestIsRefund(t *testing.T) {
	originalID := "payment-id-123"

	charge := model.Payment{ID: "p1", AmountCents: 10000}
	refund := model.Payment{ID: "p2", AmountCents: -10000, RefundOf: &originalID}

	assert.False(t, charge.IsRefund())
	assert.True(t, refund.IsRefund())
}

func TestNetPaid(t *testing.T) {
	originalID := "payment-id-123"

	tests := []struct {
		name   string
		ledger []model.Payment
		want   int64
	}{
		{
			name:   "empty ledger",
			ledger: nil,
			want:   0,
		},
		{
			name: "charges only",
			ledger: []model.Payment{
				{AmountCents: 30000},
				{AmountCents: 20000},
				{AmountCents: 10000},
			},
			want: 60000,
		},
		{
			name: "charges with partial refund",
			ledger: []model.Payment{
				{AmountCents: 30000},
				{AmountCents: 20000},
				{AmountCents: 10000},
				{AmountCents: -10000, RefundOf: &originalID},
			},
			want: 50000,
		},
		{
			name: "fully refunded",
			ledger: []model.Payment{
				{AmountCents: 25000},
				{AmountCents: -25000, RefundOf: &originalID},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.NetPaid(tt.ledger))
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	originalID := "payment-id-123"

	tests := []struct {
		name       string
		totalCents int64
		ledger     []model.Payment
		want       string
	}{
		{
			name:       "no payments",
			totalCents: 60000,
			ledger:     nil,
			want:       model.StatusPending,
		},
		{
			name:       "partially paid",
			totalCents: 60000,
			ledger: []model.Payment{
				{AmountCents: 30000},
			},
			want: model.StatusPartiallyPaid,
		},
		{
			name:       "paid in installments",
			totalCents: 60000,
			ledger: []model.Payment{
				{AmountCents: 30000},
				{AmountCents: 20000},
				{AmountCents: 10000},
			},
			want: model.StatusPaid,
		},
		{
			name:       "refund drops status back to partially paid",
			totalCents: 60000,
			ledger: []model.Payment{
				{AmountCents: 30000},
				{AmountCents: 20000},
				{AmountCents: 10000},
				{AmountCents: -10000, RefundOf: &originalID},
			},
			want: model.StatusPartiallyPaid,
		},
		{
			name:       "fully refunded is pending again",
			totalCents: 60000,
			ledger: []model.Payment{
				{AmountCents: 60000},
				{AmountCents: -60000, RefundOf: &originalID},
			},
			want: model.StatusPending,
		},
		{
			name:       "overpayment still reads paid",
			totalCents: 60000,
			ledger: []model.Payment{
				{AmountCents: 70000},
			},
			want: model.StatusPaid,
		},
		{
			name:       "zero total never reads paid",
			totalCents: 0,
			ledger:     nil,
			want:       model.StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.DeriveStatus(tt.totalCents, tt.ledger))
		})
	}
}
