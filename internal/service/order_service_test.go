package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajedamilola/pharmalink/internal/model"
)

func TestStatusIndex(t *testing.T) {
	assert.Equal(t, 0, statusIndex(model.OrderStatusPending))
	assert.Equal(t, len(model.OrderStatusChain)-1, statusIndex(model.OrderStatusDelivered))
	assert.Equal(t, -1, statusIndex("cancelled"))
	assert.Equal(t, -1, statusIndex(""))
}

func TestStatusChainIsForwardOnly(t *testing.T) {
	// Every adjacent pair must advance; a vendor update to an earlier or
	// equal position is rejected by AdvanceStatus.
	for i := 1; i < len(model.OrderStatusChain); i++ {
		prev := statusIndex(model.OrderStatusChain[i-1])
		next := statusIndex(model.OrderStatusChain[i])
		assert.Greater(t, next, prev, "%s -> %s", model.OrderStatusChain[i-1], model.OrderStatusChain[i])
	}
}
