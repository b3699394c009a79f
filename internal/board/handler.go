package board

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inamate/whiteboard/internal/auth"
)

const maxSceneSize = 4 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the board endpoints on r.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/boards", h.List).Methods("GET", "OPTIONS")
	r.HandleFunc("/boards", h.Create).Methods("POST", "OPTIONS")
	r.HandleFunc("/boards/{boardId}/scene", h.GetScene).Methods("GET", "OPTIONS")
	r.HandleFunc("/boards/{boardId}/scene", h.PutScene).Methods("PUT", "OPTIONS")
	r.HandleFunc("/boards/{boardId}/scene", h.Delete).Methods("DELETE", "OPTIONS")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Create(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	slog.Info("board created", "board", b.ID, "user", auth.UserIDFromContext(r.Context()))
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	boards, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (h *Handler) GetScene(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Scene(r.Context(), mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) PutScene(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSceneSize))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "scene too large"})
		return
	}

	n, err := h.service.PutScene(r.Context(), mux.Vars(r)["boardId"], data)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"shapes": n})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["boardId"]); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidScene), errors.Is(err, ErrUnknownFormat):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrUnsupported):
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
