package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/Jonnymurillo288/TourCast/internal/events"
	"github.com/Jonnymurillo288/TourCast/internal/pipeline"
	"github.com/Jonnymurillo288/TourCast/internal/runs"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ------------------------------------------------------------
// GET /api/events
// ------------------------------------------------------------
// Upgrades to a websocket, opens a progress session, and drains its events
// to the socket. The first frame is the connection event carrying the
// clientId the caller must echo on /api/predict. The socket closes after
// the terminal event or when the client goes away.
func eventsHandler(hub *events.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		sess := hub.Open()

		// Reader goroutine only watches for disconnect; the stream is
		// one-directional.
		go func() {
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					hub.Close(sess.ID())
					return
				}
			}
		}()

		for ev := range sess.Events() {
			if err := ws.WriteJSON(ev); err != nil {
				hub.Close(sess.ID())
				break
			}
			if ev.Terminal() {
				break
			}
		}
		_ = ws.Close()
	}
}

// ------------------------------------------------------------
// POST /api/predict
// ------------------------------------------------------------

type predictRequest struct {
	Artist   pipeline.ArtistRef `json:"artist"`
	ClientID string             `json:"clientId"`
}

// predictHandler accepts the trigger, registers the run, and returns
// immediately; results arrive exclusively over the client's progress
// channel.
func predictHandler(hub *events.Hub, registry *runs.Registry, runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method != http.MethodPost {
			http.Error(w, `{"error":"method_not_allowed"}`, http.StatusMethodNotAllowed)
			return
		}

		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid_body"}`, http.StatusBadRequest)
			return
		}
		if req.Artist.Name == "" || req.ClientID == "" {
			http.Error(w, `{"error":"missing_artist_or_clientId"}`, http.StatusBadRequest)
			return
		}
		if !hub.Active(req.ClientID) {
			http.Error(w, `{"error":"unknown_clientId"}`, http.StatusNotFound)
			return
		}

		run, err := registry.Begin(req.ClientID, req.Artist.Name)
		if err != nil {
			// second trigger while a run is in flight; the channel is
			// single-shot so this can only compete, never deliver
			http.Error(w, `{"error":"run_already_active"}`, http.StatusConflict)
			return
		}

		go func() {
			if err := runner.Run(context.Background(), req.Artist, req.ClientID); err != nil {
				registry.Finish(req.ClientID, runs.StatusError, err.Error())
				return
			}
			registry.Finish(req.ClientID, runs.StatusFinished, "")
		}()

		log.Printf("Started run %s for %q (client %s)", run.ID, req.Artist.Name, req.ClientID)
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"runId": run.ID})
	}
}
