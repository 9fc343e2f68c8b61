package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"FotaClientv2/internal/config"
	"FotaClientv2/internal/logging"
	"FotaClientv2/internal/models"
	"FotaClientv2/pkg/batch"
	"FotaClientv2/pkg/fusapi"
	"FotaClientv2/pkg/operations"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var fotaClient = fusapi.NewClient()

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.GlobalLogger.Error("Failed to encode response: " + err.Error())
	}
}

func stableHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	model, region := vars["model"], vars["region"]

	info, err := operations.ResolveStable(r.Context(), fotaClient, model, region)
	if err != nil {
		writeJSON(w, operations.StatusForError(err), models.ResolveResponse{Status: "error", Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, models.ResolveResponse{
		Status: "ok",
		Firmware: &models.FirmwareInfo{
			Model:          model,
			Region:         region,
			Version:        info.Version,
			AndroidVersion: info.AndroidVersion,
		},
	})
}

func testHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	model, region := vars["model"], vars["region"]

	maxMatches := 0
	if raw := r.URL.Query().Get("max"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, models.ReconstructResponse{Status: "error", Model: model, Region: region, Error: "max must be a positive integer"})
			return
		}
		maxMatches = parsed
	}

	res := operations.ReconstructTest(r.Context(), fotaClient, model, region, maxMatches, nil)
	resp := operations.BuildReconstructResponse(model, region, res)
	status := http.StatusOK
	if res.Err != nil {
		status = operations.StatusForError(res.Err)
	}
	writeJSON(w, status, resp)
}

func batchHandler(w http.ResponseWriter, r *http.Request) {
	var req models.BatchResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.BatchResolveResponse{})
		return
	}

	resolver := batch.NewResolver(r.Context(), config.Config.ResolveChanSize)
	jobs := make([]batch.ResolveJob, 0, len(req.Devices))
	for _, d := range req.Devices {
		jobs = append(jobs, batch.ResolveJob{Model: d.Model, Region: d.Region})
	}
	outcomes := resolver.ResolveAll(jobs)
	resolver.Stop()

	resp := models.BatchResolveResponse{Results: make([]models.ResolveResponse, 0, len(outcomes))}
	for _, out := range outcomes {
		if !out.Succeeded {
			resp.Results = append(resp.Results, models.ResolveResponse{Status: "error", Error: out.Err.Error()})
			continue
		}
		resp.Results = append(resp.Results, models.ResolveResponse{
			Status: "ok",
			Firmware: &models.FirmwareInfo{
				Model:          out.Job.Model,
				Region:         out.Job.Region,
				Version:        out.Info.Version,
				AndroidVersion: out.Info.AndroidVersion,
			},
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// wsHandler streams a reconstruction: the client sends one request
// frame, receives progress/match events while the search runs and a
// terminal result frame at the end. Closing the socket cancels the
// search.
func wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.GlobalLogger.Error("Websocket upgrade failed: " + err.Error())
		return
	}
	defer conn.Close()

	var req models.ReconstructRequest
	if err := conn.ReadJSON(&req); err != nil {
		logging.GlobalLogger.Warn("Invalid websocket request: " + err.Error())
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The search is CPU-bound; run it off the connection goroutine so
	// the socket stays responsive to the client going away.
	progress := make(chan models.ProgressEvent, 64)
	resultCh := make(chan models.ProgressEvent, 1)
	go func() {
		res := operations.ReconstructTest(ctx, fotaClient, req.Model, req.Region, req.MaxMatches, progress)
		final := models.ProgressEvent{Type: "result", Matches: len(res.Matches), Coverage: res.Coverage}
		if res.Err != nil {
			final.Error = res.Err.Error()
		}
		resultCh <- final
	}()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case event := <-progress:
			if err := conn.WriteJSON(event); err != nil {
				cancel()
				return
			}
		case final := <-resultCh:
			if err := conn.WriteJSON(final); err != nil {
				logging.GlobalLogger.Warn("Failed to deliver final frame: " + err.Error())
			}
			return
		case <-ctx.Done():
			return
		}
	}
}

func main() {
	r := mux.NewRouter()
	r.HandleFunc("/api/firmware/{region}/{model}", stableHandler).Methods("GET")
	r.HandleFunc("/api/firmware/{region}/{model}/test", testHandler).Methods("GET")
	r.HandleFunc("/api/firmware/batch", batchHandler).Methods("POST")
	r.HandleFunc("/ws", wsHandler)

	logging.GlobalLogger.Info("FOTA version resolver listening on " + config.Config.ListenAddr)
	if err := http.ListenAndServe(config.Config.ListenAddr, r); err != nil {
		logging.GlobalLogger.Fatal("Server stopped: " + err.Error())
	}
}
