package metric

import (
	"log/slog"
	"time"

	"smartschedule/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func databaseEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	databaseEmptyRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "smartschedule_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseEmptyRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register smartschedule_database_empty_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("smartschedule_database_empty_read_microsec metric registered")
		databaseEmptyRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseEmptyRead) {
				case true:
					slog.Debug("smartschedule_database_empty_read_microsec metric unregistered")
				case false:
					slog.Warn("smartschedule_database_empty_read_microsec metric not registered")
				}
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				databaseEmptyRead.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func eventRead(as *utils.AppState, clearTickerInterval *time.Duration) {
	eventRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "smartschedule_event_read_microsec",
		Help: "The latency of one event list read in microseconds",
	})
	good := true
	if err := prometheus.Register(eventRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register smartschedule_event_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("smartschedule_event_read_microsec metric registered")
		eventRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(eventRead) {
				case true:
					slog.Debug("smartschedule_event_read_microsec metric unregistered")
				case false:
					slog.Warn("smartschedule_event_read_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.EventRead:
				eventRead.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				eventRead.Set(0)
			}
		}
	}()
}

func eventWrite(as *utils.AppState, clearTickerInterval *time.Duration) {
	eventWrite := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "smartschedule_event_write_microsec",
		Help: "The latency of one event mutation (incl. the re-list) in microseconds",
	})
	good := true
	if err := prometheus.Register(eventWrite); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register smartschedule_event_write_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("smartschedule_event_write_microsec metric registered")
		eventWrite.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(eventWrite) {
				case true:
					slog.Debug("smartschedule_event_write_microsec metric unregistered")
				case false:
					slog.Warn("smartschedule_event_write_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.EventWrite:
				eventWrite.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				eventWrite.Set(0)
			}
		}
	}()
}

func sessionCheck(as *utils.AppState, clearTickerInterval *time.Duration) {
	sessionCheck := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "smartschedule_session_check_microsec",
		Help: "The latency of the middleware's session lookup in microseconds",
	})
	good := true
	if err := prometheus.Register(sessionCheck); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register smartschedule_session_check_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("smartschedule_session_check_microsec metric registered")
		sessionCheck.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(sessionCheck) {
				case true:
					slog.Debug("smartschedule_session_check_microsec metric unregistered")
				case false:
					slog.Warn("smartschedule_session_check_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.SessionCheckLatency:
				sessionCheck.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				sessionCheck.Set(0)
			}
		}
	}()
}

func unauthorizedWrites(as *utils.AppState) {
	unauthorizedWrites := promauto.NewCounter(prometheus.CounterOpts{
		Name: "smartschedule_unauthorized_writes_total",
		Help: "Writes rejected before any store call because no caller was signed in",
	})
	if err := prometheus.Register(unauthorizedWrites); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register smartschedule_unauthorized_writes_total metric", "error", err)
			return
		}
	}
	slog.Debug("smartschedule_unauthorized_writes_total metric registered")
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(unauthorizedWrites) {
				case true:
					slog.Debug("smartschedule_unauthorized_writes_total metric unregistered")
				case false:
					slog.Warn("smartschedule_unauthorized_writes_total metric not registered")
				}
				return
			case <-as.MetricChans.UnauthorizedWrite:
				unauthorizedWrites.Inc()
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	databaseEmptyRead(as, &tickerInterval)
	eventRead(as, &clearTickerInterval)
	eventWrite(as, &clearTickerInterval)
	sessionCheck(as, &clearTickerInterval)
	unauthorizedWrites(as)
}
