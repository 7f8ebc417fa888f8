package server

import (
	"encoding/json"
	"net/http"

	"github.com/drivesim/drivesim/internal/core/events/bus"
	"github.com/drivesim/drivesim/internal/core/observability/log"
)

type healthResponse struct {
	Status  string      `json:"status"`
	Clients int         `json:"clients"`
	Events  bus.Metrics `json:"events"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	resp := healthResponse{Status: "ok", Clients: s.ClientCount(), Events: s.events.Metrics()}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("write health response", log.Error(err))
	}
}
