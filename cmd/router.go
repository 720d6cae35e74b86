package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/assistant"
	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/store"
)

// newRouter builds the chat API. The transcript store may be nil, in which
// case conversations are not persisted.
func newRouter(manager *assistant.Manager, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/session", func(w http.ResponseWriter, req *http.Request) {
		id, greeting, err := manager.Create(req.Context())
		if err != nil {
			zap.L().Error("create session", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "no se pudo crear la sesión"})
			return
		}

		if st != nil {
			recordTurn(req.Context(), st, id, "", greeting, string(assistant.StateCarrera), true)
		}

		writeJSON(w, http.StatusCreated, map[string]string{
			"session_id": id,
			"message":    greeting,
		})
	})

	r.Get("/api/session/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		state, err := manager.StateOf(id)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "sesión no encontrada"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"session_id": id,
			"state":      string(state),
		})
	})

	r.Post("/api/chat", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			SessionID string `json:"session_id"`
			Message   string `json:"message"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cuerpo de petición inválido"})
			return
		}
		if body.SessionID == "" || body.Message == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id y message son obligatorios"})
			return
		}

		reply, err := manager.Handle(req.Context(), body.SessionID, body.Message)
		if eris.Is(err, assistant.ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "sesión no encontrada"})
			return
		}
		if err != nil {
			zap.L().Error("chat turn failed",
				zap.String("session_id", body.SessionID),
				zap.Error(err),
			)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "no se pudo procesar el mensaje, inténtalo de nuevo"})
			return
		}

		state, _ := manager.StateOf(body.SessionID)
		if st != nil {
			recordTurn(req.Context(), st, body.SessionID, body.Message, reply, string(state), false)
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"session_id": body.SessionID,
			"message":    reply,
			"state":      string(state),
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

// recordTurn persists one exchange. Persistence failures are logged, never
// surfaced to the client.
func recordTurn(ctx context.Context, st store.Store, id, userMsg, reply, state string, created bool) {
	if created {
		if _, err := st.CreateConversation(ctx, id); err != nil {
			zap.L().Warn("record conversation", zap.Error(err))
		}
	}
	if userMsg != "" {
		if _, err := st.AppendMessage(ctx, id, "user", userMsg); err != nil {
			zap.L().Warn("record message", zap.Error(err))
		}
	}
	if _, err := st.AppendMessage(ctx, id, "assistant", reply); err != nil {
		zap.L().Warn("record message", zap.Error(err))
	}
	if err := st.UpdateConversationState(ctx, id, state); err != nil {
		zap.L().Warn("record state", zap.Error(err))
	}
}
