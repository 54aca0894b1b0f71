package route

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"smartschedule/src-server/schedule"
	"smartschedule/src-server/utils"

	ics "github.com/arran4/golang-ical"
)

// Ical exposes the caller's events as an iCalendar feed so the schedule can
// be subscribed to from a regular calendar client. Events carry no duration
// in the data model; each one is exported as an hour-long block.
func Ical(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /calendar/export", SessionMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			c, ok := caller(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get caller from middleware"))
				return
			}

			events, err := c.Source.List(r.Context())
			if err != nil {
				slog.Error("can't list events for export", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Failed to fetch events"))
				return
			}

			loc := as.Config.GetLocation()
			cal := ics.NewCalendar()
			cal.SetMethod(ics.MethodPublish)
			for _, event := range events {
				startUnix, err := schedule.CombineDateTime(event.Date, event.Time, loc)
				if err != nil {
					slog.Warn("can't combine date and time for export", "id", event.ID, "error", err)
					continue
				}
				start := time.Unix(startUnix, 0).In(loc)

				icalEvent := cal.AddEvent(event.ID)
				icalEvent.SetSummary(event.Title)
				icalEvent.SetStartAt(start)
				icalEvent.SetEndAt(start.Add(time.Hour))
				icalEvent.SetDtStampTime(time.Now())
				if event.Description != "" {
					icalEvent.SetDescription(event.Description)
				}
				if event.Category != "" {
					icalEvent.SetProperty(ics.ComponentProperty(ics.PropertyCategories), event.Category)
				}
			}

			w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			if _, err := io.WriteString(w, cal.Serialize()); err != nil {
				slog.Warn("can't write to response", "where", "route/ical.go", "err", err)
			}
		}))
}
