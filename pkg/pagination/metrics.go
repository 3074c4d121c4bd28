package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "components_pagination_pages_total",
		Help: "Total pages fetched by resource",
	}, []string{"resource"})

	itemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "components_pagination_items_total",
		Help: "Total items accumulated by resource",
	}, []string{"resource"})

	boundExceededTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "components_pagination_bound_exceeded_total",
		Help: "Pagination sessions aborted by a page or item limit",
	}, []string{"resource"})
)
