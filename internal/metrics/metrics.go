package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmarkd_registrations_total",
		Help: "Registration attempts by outcome.",
	}, []string{"status"})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmarkd_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"status"})

	BookmarksCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookmarkd_bookmarks_created_total",
		Help: "Bookmarks successfully created.",
	})

	AliasRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookmarkd_alias_retries_total",
		Help: "Alias candidates redrawn after a uniqueness collision.",
	})

	AliasExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookmarkd_alias_exhausted_total",
		Help: "Creates that failed with the alias space exhausted.",
	})
)
