package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ajedamilola/pharmalink/pkg/pagination"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"happy path", 3, 25, 3, 25, 50},
		{"zero page defaults", 0, 10, 1, 10, 0},
		{"negative page defaults", -5, 10, 1, 10, 0},
		{"zero limit defaults", 2, 0, 2, 20, 20},
		{"limit above cap is clamped", 1, 500, 1, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pagination.Clamp(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestParse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	parseQuery := func(query string) pagination.Params {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+query, nil)
		return pagination.Parse(c)
	}

	assert.Equal(t, pagination.Params{Page: 2, Limit: 50, Offset: 50}, parseQuery("page=2&limit=50"))
	assert.Equal(t, pagination.Params{Page: 1, Limit: 20, Offset: 0}, parseQuery(""))
	assert.Equal(t, pagination.Params{Page: 1, Limit: 20, Offset: 0}, parseQuery("page=abc&limit=xyz"))
}
