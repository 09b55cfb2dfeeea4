package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const namespace = "sqslab"

// Metrics - counters of a receive loop, labelled by queue name
type Metrics struct {
	Received       *prometheus.CounterVec
	Deleted        *prometheus.CounterVec
	DeleteFailures *prometheus.CounterVec
	Kept           *prometheus.CounterVec
	EmptyPolls     *prometheus.CounterVec
}

func counter(name, help string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, []string{"queue"})
}

// New registers the counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Received:       counter("messages_received_total", "Messages received by the loop."),
		Deleted:        counter("messages_deleted_total", "Messages deleted after receipt."),
		DeleteFailures: counter("messages_delete_failures_total", "Delete calls that failed."),
		Kept:           counter("messages_kept_total", "Messages left on the queue because of --no-delete."),
		EmptyPolls:     counter("empty_polls_total", "Long polls that returned no message."),
	}
	reg.MustRegister(m.Received, m.Deleted, m.DeleteFailures, m.Kept, m.EmptyPolls)
	return m
}

// Serve exposes gatherer under /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, log *logrus.Entry) *http.Server {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithFields(logrus.Fields{
				"event": "metrics_listen_failed",
				"addr":  addr,
			}).Warn(err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithFields(logrus.Fields{
				"event": "metrics_shutdown_failed",
			}).Warn(err)
		}
	}()
	log.WithFields(logrus.Fields{
		"event": "metrics_started",
		"addr":  addr,
	}).Info("serving metrics")
	return srv
}
