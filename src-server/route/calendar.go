package route

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"smartschedule/src-server/schedule"
	"smartschedule/src-server/utils"
)

func caller(r *http.Request) (*Caller, bool) {
	c, ok := r.Context().Value(CallerCtxKey).(*Caller)
	return c, ok
}

// Calendar wires the event CRUD plus the derived views the SPA binds to:
// the per-date filtered list, the calendar grid's badge counts and the
// closed category/recurrence vocabularies.
func Calendar(muxer *http.ServeMux, as *utils.AppState) {
	type GetEventsReqBody struct {
		Date       string   `json:"date"`
		Search     string   `json:"search"`
		Categories []string `json:"categories"`
	}

	type EventsRespBody struct {
		Events     []schedule.Event `json:"events"`
		Categories []string         `json:"categories"`
	}

	writeEvents := func(w http.ResponseWriter, events []schedule.Event) {
		respBody := EventsRespBody{
			Events:     events,
			Categories: schedule.KnownCategories(events),
		}
		respBodyJson, err := json.Marshal(respBody)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}

	writeMutationError := func(w http.ResponseWriter, err error, failedMsg string) {
		switch {
		case errors.Is(err, schedule.ErrNotSignedIn):
			as.MetricChans.UnauthorizedWrite <- struct{}{}
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("You must be logged in to add events"))
		default:
			slog.Error(failedMsg, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(failedMsg))
		}
	}

	// the filtered, sorted event list for one selected date
	muxer.HandleFunc("POST /calendar/get-events", SessionMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			c, ok := caller(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get caller from middleware"))
				return
			}

			var reqBody GetEventsReqBody
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			startTimer := time.Now()
			events, err := c.Source.List(r.Context())
			if err != nil {
				slog.Error("can't list events", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Failed to fetch events"))
				return
			}
			as.MetricChans.EventRead <- float64(time.Since(startTimer).Microseconds())

			respBody := EventsRespBody{
				// categories come from the whole collection, not the
				// filtered slice, so the chips don't vanish while filtering
				Categories: schedule.KnownCategories(events),
				Events: schedule.EventsForDate(events, schedule.Filter{
					Date:       reqBody.Date,
					Search:     reqBody.Search,
					Categories: reqBody.Categories,
				}),
			}
			respBodyJson, err := json.Marshal(respBody)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	type DayCountsReqBody struct {
		Month string `json:"month"` // YYYY-MM, blank for all days
	}

	// per-day badge counts for the calendar grid; search and category
	// filters deliberately don't apply here
	muxer.HandleFunc("POST /calendar/day-counts", SessionMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			c, ok := caller(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get caller from middleware"))
				return
			}

			var reqBody DayCountsReqBody
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			events, err := c.Source.List(r.Context())
			if err != nil {
				slog.Error("can't list events", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Failed to fetch events"))
				return
			}

			counts := schedule.DayCounts(events)
			if reqBody.Month != "" {
				for date := range counts {
					if !strings.HasPrefix(date, reqBody.Month+"-") {
						delete(counts, date)
					}
				}
			}

			respBodyJson, err := json.Marshal(map[string]map[string]int{"counts": counts})
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	// create a new event; the success response is the refreshed collection
	muxer.HandleFunc("POST /calendar/create-event", SessionMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			c, ok := caller(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get caller from middleware"))
				return
			}

			var reqBody schedule.EventDraft
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}
			if err := schedule.ValidateDraft(reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(err.Error()))
				return
			}

			startTimer := time.Now()
			events, err := c.Source.Create(r.Context(), reqBody)
			if err != nil {
				writeMutationError(w, err, "Failed to add event")
				return
			}
			as.MetricChans.EventWrite <- float64(time.Since(startTimer).Microseconds())

			writeEvents(w, events)
		}))

	type ModifyEventReqBody struct {
		ID string `json:"id"`
		schedule.EventDraft
	}

	// full-field overwrite of an existing event, keyed by id
	muxer.HandleFunc("POST /calendar/modify-event", SessionMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			c, ok := caller(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get caller from middleware"))
				return
			}

			var reqBody ModifyEventReqBody
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}
			if reqBody.ID == "" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Please provide an event ID"))
				return
			}
			if err := schedule.ValidateDraft(reqBody.EventDraft); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(err.Error()))
				return
			}

			startTimer := time.Now()
			events, err := c.Source.Update(r.Context(), schedule.Event{
				ID:          reqBody.ID,
				Title:       reqBody.Title,
				Date:        reqBody.Date,
				Time:        reqBody.Time,
				Description: reqBody.Description,
				Category:    reqBody.Category,
				Recurrence:  reqBody.Recurrence,
			})
			if err != nil {
				writeMutationError(w, err, "Failed to update event")
				return
			}
			as.MetricChans.EventWrite <- float64(time.Since(startTimer).Microseconds())

			writeEvents(w, events)
		}))

	// delete an event
	muxer.HandleFunc("DELETE /event/{id}", SessionMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			c, ok := caller(r)
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get caller from middleware"))
				return
			}

			id := r.PathValue("id")
			if id == "" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Please provide an event ID"))
				return
			}

			startTimer := time.Now()
			events, err := c.Source.Delete(r.Context(), id)
			if err != nil {
				writeMutationError(w, err, "Failed to delete event")
				return
			}
			as.MetricChans.EventWrite <- float64(time.Since(startTimer).Microseconds())

			w.Header().Set("Content-Type", "application/json")
			writeEvents(w, events)
		}))

	type VocabularyRespBody struct {
		Categories  []schedule.VocabEntry `json:"categories"`
		Recurrences []schedule.VocabEntry `json:"recurrences"`
	}

	// the closed vocabularies both forms and the filter chips render from
	muxer.HandleFunc("GET /calendar/vocabulary", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		respBodyJson, err := json.Marshal(VocabularyRespBody{
			Categories:  schedule.CategoryVocab,
			Recurrences: schedule.RecurrenceVocab,
		})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})
}
