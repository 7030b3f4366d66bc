package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"restyle-server/internal/infra"
	"restyle-server/internal/sample"
	"restyle-server/internal/studio"
)

// App is the handler container: the presentation boundary in front of the
// orchestration core.
type App struct {
	Config *infra.Config
	Logger zerolog.Logger
	Studio *studio.Controller
	Sample *sample.Holder
}

func NewApp(cfg *infra.Config, logger zerolog.Logger, controller *studio.Controller, sampleHolder *sample.Holder) *App {
	return &App{
		Config: cfg,
		Logger: logger,
		Studio: controller,
		Sample: sampleHolder,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}
