package route

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"smartschedule/src-server/schedule"
	"smartschedule/src-server/utils"
)

// Quick backs the floating action cluster. Text quick-add parses a natural
// phrase ("dentist tomorrow at 3pm") into prefilled form fields; voice and
// image only answer with a notice, they are not implemented.
func Quick(muxer *http.ServeMux, as *utils.AppState) {
	type QuickTextReqBody struct {
		Text string `json:"text"`
	}

	type QuickTextRespBody struct {
		Title string `json:"title"`
		Date  string `json:"date"`
		Time  string `json:"time"`
	}

	muxer.HandleFunc("POST /quick/text", SessionMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			var reqBody QuickTextReqBody
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}
			if strings.TrimSpace(reqBody.Text) == "" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Please provide some text"))
				return
			}

			loc := as.Config.GetLocation()
			result, err := as.When.Parse(reqBody.Text, time.Now().In(loc))
			switch {
			case err != nil:
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't parse text"))
				return
			case result == nil:
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte("Couldn't find a date in that text"))
				return
			}

			// the leftover text, minus the date phrase, becomes the title
			title := utils.CleanupString(reqBody.Text[:result.Index] + reqBody.Text[result.Index+len(result.Text):])
			if title == "" {
				title = "Untitled"
			}

			date, clock := schedule.SplitTimestamp(result.Time.Unix(), loc)
			respBodyJson, err := json.Marshal(QuickTextRespBody{
				Title: title,
				Date:  date,
				Time:  clock,
			})
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't marshal response body"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(respBodyJson)
		}))

	notice := func(msg string) func(http.ResponseWriter, *http.Request) {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"notice": msg})
		}
	}

	muxer.HandleFunc("POST /quick/voice", notice("Voice input will be available soon!"))
	muxer.HandleFunc("POST /quick/image", notice("Image upload will be available soon!"))
}
