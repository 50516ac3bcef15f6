package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajedamilola/pharmalink/internal/model"
)

func TestReorderQuantity(t *testing.T) {
	t.Run("explicit quantity wins", func(t *testing.T) {
		lot := &model.InventoryLot{ReorderQuantity: 75, ReorderThreshold: 10}
		assert.Equal(t, 75, reorderQuantity(lot))
	})

	t.Run("falls back to twice the threshold", func(t *testing.T) {
		lot := &model.InventoryLot{ReorderThreshold: 15}
		assert.Equal(t, 30, reorderQuantity(lot))
	})

	t.Run("missing threshold uses the platform default", func(t *testing.T) {
		lot := &model.InventoryLot{}
		assert.Equal(t, model.DefaultReorderThreshold*2, reorderQuantity(lot))
	})
}
