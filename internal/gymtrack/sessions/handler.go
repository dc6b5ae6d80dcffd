package sessions

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/dplatten/gymtrack/internal/telemetry/tracing"
	"github.com/dplatten/gymtrack/pkg"
)

type SessionsResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`

	Sessions json.RawMessage `json:"sessions"`
}

type Handler struct {
	resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/sessions/{name}", handler.HandleList).Methods("GET", "OPTIONS").Name("list-sessions")
	r.HandleFunc("/sessions/{name}/{index}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-session")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.list")
	defer span.End()

	name := mux.Vars(r)["name"]
	sessions := handler.resolver.SessionsFor(name)

	sessionsJson, err := json.Marshal(sessions)
	if err != nil {
		log.Errorf("marshal sessions error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(SessionsResponse{
		Name:     name,
		Count:    len(sessions),
		Sessions: sessionsJson,
	})
	if err != nil {
		log.Errorf("marshal sessions response error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.get")
	defer span.End()

	vars := mux.Vars(r)
	name := vars["name"]
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		http.Error(w, "error, index invalid", http.StatusBadRequest)
		return
	}

	session, err := handler.resolver.Session(name, index)
	if err != nil {
		log.Debugf("session [%s] index %d not found", name, index)
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("marshal session error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionJson, http.StatusOK)
}
