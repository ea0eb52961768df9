package api

import (
	"net/http"

	"github.com/lorikeet-audio/lorikeet/internal/request"
	"github.com/lorikeet-audio/lorikeet/pkg/languages"
)

// infoResponse is the payload for GET /api/v1/.
type infoResponse struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// languagesResponse is the payload for GET /api/v1/languages.
type languagesResponse struct {
	Languages map[string]string `json:"languages"`
	Default   string            `json:"default"`
	Count     int               `json:"count"`
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		Service: ServiceName,
		Version: Version,
		Endpoints: map[string]string{
			"tts":       "POST /api/v1/tts",
			"stream":    "GET /ws/tts",
			"languages": "GET /api/v1/languages",
			"health":    "GET /health",
		},
	})
}

func (s *Server) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	supported := languages.Supported()
	writeJSON(w, http.StatusOK, languagesResponse{
		Languages: supported,
		Default:   request.DefaultLanguage,
		Count:     len(supported),
	})
}
