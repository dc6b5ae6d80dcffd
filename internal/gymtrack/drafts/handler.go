package drafts

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/dplatten/gymtrack/internal/gymtrack/model"
	"github.com/dplatten/gymtrack/internal/gymtrack/tracker"
	"github.com/dplatten/gymtrack/pkg"
)

type UpdateDraftRequest struct {
	Reps   *int     `json:"reps,omitempty"`
	Sets   *int     `json:"sets,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

type DraftStateResponse struct {
	WorkoutID string                    `json:"workoutId"`
	Draft     model.ExerciseTracking   `json:"draft"`
	Committed []model.ExerciseTracking `json:"committed"`
}

// Handler exposes draft sessions over HTTP. One session per workout is kept
// open at a time; beginning again restarts from persisted state.
type Handler struct {
	manager *Manager

	mutex    sync.Mutex
	sessions map[string]*Session
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{
		manager:  manager,
		sessions: map[string]*Session{},
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/drafts/{workoutId}", handler.HandleBegin).Methods("POST", "OPTIONS").Name("begin-draft-session")
	r.HandleFunc("/drafts/{workoutId}/flush", handler.HandleFlush).Methods("POST", "OPTIONS").Name("flush-draft-session")
	r.HandleFunc("/drafts/{workoutId}/{exerciseId}", handler.HandleGetDraft).Methods("GET", "OPTIONS").Name("get-draft")
	r.HandleFunc("/drafts/{workoutId}/{exerciseId}", handler.HandleUpdateDraft).Methods("PUT", "OPTIONS").Name("update-draft")
	r.HandleFunc("/drafts/{workoutId}/{exerciseId}/commit", handler.HandleCommitDraft).Methods("POST", "OPTIONS").Name("commit-draft")
}

func (handler *Handler) session(workoutID string) *Session {
	handler.mutex.Lock()
	defer handler.mutex.Unlock()
	return handler.sessions[workoutID]
}

func (handler *Handler) HandleBegin(w http.ResponseWriter, r *http.Request) {
	workoutID := mux.Vars(r)["workoutId"]

	session, err := handler.manager.Begin(r.Context(), workoutID)
	if err != nil {
		if errors.Is(err, tracker.ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to begin draft session for workout %s: %s", workoutID, err)
		http.Error(w, "draft session not started", http.StatusInternalServerError)
		return
	}

	handler.mutex.Lock()
	handler.sessions[workoutID] = session
	handler.mutex.Unlock()

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"started":true}`), http.StatusCreated)
}

func (handler *Handler) HandleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	workoutID := vars["workoutId"]
	exerciseID := vars["exerciseId"]

	session := handler.session(workoutID)
	if session == nil {
		http.Error(w, "draft session not found", http.StatusNotFound)
		return
	}

	if _, ok := session.Draft(exerciseID); !ok {
		http.Error(w, "exercise not part of this workout", http.StatusNotFound)
		return
	}

	var req UpdateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session.UpdateDraft(exerciseID, func(t *model.ExerciseTracking) {
		if req.Reps != nil {
			t.Reps = *req.Reps
		}
		if req.Sets != nil {
			t.Sets = *req.Sets
		}
		if req.Weight != nil {
			t.Weight = *req.Weight
		}
	})

	handler.writeDraftState(w, session, exerciseID)
}

func (handler *Handler) HandleCommitDraft(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	workoutID := vars["workoutId"]
	exerciseID := vars["exerciseId"]

	session := handler.session(workoutID)
	if session == nil {
		http.Error(w, "draft session not found", http.StatusNotFound)
		return
	}

	if _, err := session.CommitDraft(exerciseID); err != nil {
		http.Error(w, "exercise not part of this workout", http.StatusNotFound)
		return
	}

	handler.writeDraftState(w, session, exerciseID)
}

func (handler *Handler) HandleGetDraft(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	workoutID := vars["workoutId"]
	exerciseID := vars["exerciseId"]

	session := handler.session(workoutID)
	if session == nil {
		http.Error(w, "draft session not found", http.StatusNotFound)
		return
	}

	if _, ok := session.Draft(exerciseID); !ok {
		http.Error(w, "exercise not part of this workout", http.StatusNotFound)
		return
	}

	handler.writeDraftState(w, session, exerciseID)
}

func (handler *Handler) HandleFlush(w http.ResponseWriter, r *http.Request) {
	workoutID := mux.Vars(r)["workoutId"]

	session := handler.session(workoutID)
	if session == nil {
		http.Error(w, "draft session not found", http.StatusNotFound)
		return
	}

	if err := session.Flush(r.Context()); err != nil {
		if errors.Is(err, tracker.ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to flush draft session for workout %s: %s", workoutID, err)
		http.Error(w, "draft session not flushed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"flushed":true}`)
}

func (handler *Handler) writeDraftState(w http.ResponseWriter, session *Session, exerciseID string) {
	draft, _ := session.Draft(exerciseID)
	stateJson, err := json.Marshal(DraftStateResponse{
		WorkoutID: session.WorkoutID(),
		Draft:     draft,
		Committed: session.Committed(exerciseID),
	})
	if err != nil {
		log.Errorf("failed to marshal draft state: %s", err)
		http.Error(w, "failed to marshal draft state", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(stateJson))
}
