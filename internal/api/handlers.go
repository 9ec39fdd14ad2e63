package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"somni-backend/internal/model"
	"somni-backend/internal/store"
)

// StoreHandler exposes the mock JSON document store over HTTP with
// whole-document semantics: GET returns an entire resource, PUT replaces it,
// PATCH does a shallow top-level merge. This mirrors what json-server did
// for the original application.
type StoreHandler struct {
	store *store.Store
}

func NewStoreHandler(s *store.Store) *StoreHandler {
	return &StoreHandler{store: s}
}

// GetStatus reports API liveness. The body matches the original Express
// mock endpoint verbatim.
func (h *StoreHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "API is working",
		"status":  "ok",
	})
}

// GetUsers returns every user record, plaintext passwords included; the
// store is demo infrastructure and authentication happens client-side.
func (h *StoreHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store.Users())
}

// CreateUser appends a user record and echoes it back with a 201.
func (h *StoreHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user model.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := h.store.AddUser(user); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

// ReplaceUser overwrites the record addressed by the path id.
func (h *StoreHandler) ReplaceUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var user model.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := h.store.ReplaceUser(userID, user); err != nil {
		respondWithError(w, err)
		return
	}
	user.ID = userID
	respondWithJSON(w, http.StatusOK, user)
}

// GetChats returns the whole chats document: one chat array per user id.
func (h *StoreHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.store.Chats())
}

// ReplaceChats overwrites the whole chats document.
func (h *StoreHandler) ReplaceChats(w http.ResponseWriter, r *http.Request) {
	var doc model.ChatsDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := h.store.ReplaceChats(doc); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.store.Chats())
}

// PatchChats merges the posted user ids into the chats document, leaving
// every other user's chat list untouched.
func (h *StoreHandler) PatchChats(w http.ResponseWriter, r *http.Request) {
	var patch model.ChatsDocument
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := h.store.MergeChats(patch); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.store.Chats())
}

// GetModels serves the static model catalog.
func (h *StoreHandler) GetModels(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, model.AvailableModels())
}
