package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/houseofcharity/charity-be/internal/auth"
	"github.com/houseofcharity/charity-be/internal/http/respond"
	"github.com/houseofcharity/charity-be/internal/models"
	"github.com/houseofcharity/charity-be/internal/models/dto"
	"github.com/houseofcharity/charity-be/internal/storage"
)

// DirectoryStore is what the user directory and stats routes need.
type DirectoryStore interface {
	storage.UserStore
	storage.StatsStore
}

// UserHandler serves the user directory and per-user stats.
type UserHandler struct {
	store  DirectoryStore
	tokens *auth.TokenManager
	log    *logrus.Entry
}

// NewUserHandler constructs the handler.
func NewUserHandler(store DirectoryStore, tokens *auth.TokenManager, log *logrus.Entry) *UserHandler {
	return &UserHandler{store: store, tokens: tokens, log: log}
}

// Register attaches user routes to the mux.
func (h *UserHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+APIPrefix+"/users/ngos", h.handleListNGOs)
	mux.Handle("GET "+APIPrefix+"/users/{id}", authed(h.tokens, h.handleGet))
	mux.Handle("PUT "+APIPrefix+"/users/{id}", authed(h.tokens, h.handleUpdate))
	mux.Handle("GET "+APIPrefix+"/users/{id}/stats", authed(h.tokens, h.handleStats))
}

func (h *UserHandler) handleListNGOs(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListNGOs(r.Context())
	if err != nil {
		serverError(w, h.log, "list ngos failed", err)
		return
	}
	ngos := make([]models.PublicNGO, 0, len(users))
	for _, u := range users {
		ngos = append(ngos, u.Public())
	}
	respond.JSON(w, http.StatusOK, map[string]any{"ngos": ngos})
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := h.findUser(w, r, r.PathValue("id"))
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if auth.UserID(r.Context()) != id {
		respond.Error(w, http.StatusForbidden, "You can only update your own profile")
		return
	}

	var req dto.UpdateUserRequest
	if !readBody(w, r, &req, true) {
		return
	}
	upd := req.Update()
	if upd.IsEmpty() {
		respond.Error(w, http.StatusBadRequest, "No valid fields to update")
		return
	}
	upd.Name = strPtrTrimmed(upd.Name)
	upd.Phone = strPtrTrimmed(upd.Phone)
	upd.Website = strPtrTrimmed(upd.Website)
	// An empty website clears it.
	if upd.Website != nil && *upd.Website != "" {
		if err := validate.Var(*upd.Website, "url"); err != nil {
			respond.Error(w, http.StatusBadRequest, "website must be a valid URL")
			return
		}
	}

	user, err := h.store.UpdateUser(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		serverError(w, h.log, "update user failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *UserHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	user, ok := h.findUser(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	var (
		stats any
		err   error
	)
	switch user.UserType {
	case models.Donor:
		stats, err = h.store.DonorStats(r.Context(), user.ID)
	case models.NGO:
		stats, err = h.store.NGOStats(r.Context(), user.ID)
	default:
		stats = struct{}{}
	}
	if err != nil {
		serverError(w, h.log, "load stats failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (h *UserHandler) findUser(w http.ResponseWriter, r *http.Request, id string) (models.User, bool) {
	user, err := h.store.FindUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return models.User{}, false
		}
		serverError(w, h.log, "fetch user failed", err)
		return models.User{}, false
	}
	return user, true
}
