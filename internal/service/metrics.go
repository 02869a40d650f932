package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_pagination_fetches_total",
			Help: "Page fetches by mode (scroll, jump) and outcome (ok or error kind)",
		},
		[]string{"mode", "outcome"},
	)

	ignoredRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_pagination_ignored_requests_total",
			Help: "Next-page requests ignored by reason (loading, exhausted)",
		},
		[]string{"reason"},
	)

	staleResponsesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_pagination_stale_responses_total",
			Help: "Page responses discarded because a newer fetch was issued",
		},
	)

	accumulatedProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_pagination_accumulated_products",
			Help: "Products currently held by the listing",
		},
	)
)
