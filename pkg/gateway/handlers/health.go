package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/catalog"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/config"
)

type HealthHandler struct{}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

type ReadyHandler struct {
	Config  config.Config
	Gateway catalog.Gateway
}

func (h ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type readyResp struct {
		OK             bool     `json:"ok"`
		StoreReachable bool     `json:"store_reachable"`
		RealtimeKeySet bool     `json:"realtime_key_set"`
		Issues         []string `json:"issues,omitempty"`
	}

	issues := make([]string, 0, 2)

	resp := readyResp{
		RealtimeKeySet: h.Config.OpenAIAPIKey != "",
	}
	if !resp.RealtimeKeySet {
		issues = append(issues, "OPENAI_API_KEY not set")
	}

	if h.Gateway != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Gateway.Ping(ctx); err != nil {
			issues = append(issues, "catalog store unreachable: "+err.Error())
		} else {
			resp.StoreReachable = true
		}
	} else {
		issues = append(issues, "catalog store not configured")
	}

	resp.OK = len(issues) == 0
	resp.Issues = issues

	status := http.StatusOK
	if !resp.OK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
