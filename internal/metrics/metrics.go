package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Kennzahlen des Adressbuchs. Sie liegen in einem eigenen Paket, damit Service
// und HTTP-Schicht sie ohne Importzyklus nutzen können.
var (
	Mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "teambook_mutations_total",
		Help: "Änderungsoperationen am Adressbuch nach Operation und Ergebnis",
	}, []string{"operation", "result"})

	Entries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "teambook_entries",
		Help: "Aktuelle Anzahl der Einträge je Liste",
	}, []string{"list"})

	SaveLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "teambook_save_latency_ms",
		Help:    "Dauer des Speicherns eines Snapshots in Millisekunden",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)

// Register registriert alle Kennzahlen an reg (oder am Standard-Registry bei nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{Mutations, Entries, SaveLatency} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return err
			}
		}
	}
	return nil
}
