package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{OrderPending, OrderProcessing},
		{OrderProcessing, OrderShipped},
		{OrderShipped, OrderDelivered},
		{OrderPending, OrderCancelled},
		{OrderProcessing, OrderCancelled},
		{OrderShipped, OrderCancelled},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	rejected := [][2]string{
		{OrderPending, OrderPending},
		{OrderPending, OrderDelivered},
		{OrderShipped, OrderProcessing},
		{OrderDelivered, OrderCancelled},
		{OrderDelivered, OrderPending},
		{OrderCancelled, OrderPending},
		{OrderCancelled, OrderCancelled},
	}
	for _, tr := range rejected {
		assert.False(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}
}

func TestOrderAdjustments_MergesSameProduct(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	o := &Order{Items: []OrderItem{
		{Product: a, TotalItems: 6},
		{Product: b, TotalItems: 1},
		{Product: a, TotalItems: 2},
	}}

	adj := o.Adjustments()
	assert.Equal(t, []StockAdjustment{{ProductID: a, Units: 8}, {ProductID: b, Units: 1}}, adj)
}

func TestOrderOwnedBy(t *testing.T) {
	owner := uuid.New()
	o := &Order{UserID: &owner}
	assert.True(t, o.OwnedBy(owner))
	assert.False(t, o.OwnedBy(uuid.New()))
	assert.False(t, (&Order{}).OwnedBy(owner))
}
