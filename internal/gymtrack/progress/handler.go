package progress

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/dplatten/gymtrack/pkg"
)

type Handler struct {
	analyzer *Analyzer
}

func NewHandler(analyzer *Analyzer) *Handler {
	return &Handler{analyzer: analyzer}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/progress/{exerciseId}", handler.HandleProgress).Methods("GET", "OPTIONS").Name("exercise-progress")
	r.HandleFunc("/progress/{exerciseId}/latest", handler.HandleLatest).Methods("GET", "OPTIONS").Name("exercise-latest")
}

func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	exerciseID := mux.Vars(r)["exerciseId"]

	exerciseProgress, err := handler.analyzer.Progress(r.Context(), exerciseID)
	if err != nil {
		log.Debugf("progress for exercise %s: %s", exerciseID, err)
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}

	progressJson, err := json.Marshal(exerciseProgress)
	if err != nil {
		log.Errorf("marshal exercise progress error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, progressJson, http.StatusOK)
}

func (handler *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	exerciseID := mux.Vars(r)["exerciseId"]

	latest, err := handler.analyzer.Latest(r.Context(), exerciseID)
	if err != nil {
		log.Debugf("latest entry for exercise %s: %s", exerciseID, err)
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}
	if latest == nil {
		http.Error(w, "exercise has no entries", http.StatusNotFound)
		return
	}

	latestJson, err := json.Marshal(latest)
	if err != nil {
		log.Errorf("marshal latest entry error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, latestJson, http.StatusOK)
}
