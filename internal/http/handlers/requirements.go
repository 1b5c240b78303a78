package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/houseofcharity/charity-be/internal/auth"
	"github.com/houseofcharity/charity-be/internal/http/respond"
	"github.com/houseofcharity/charity-be/internal/models"
	"github.com/houseofcharity/charity-be/internal/models/dto"
	"github.com/houseofcharity/charity-be/internal/storage"
)

const msgRequirementNotFound = "Requirement not found"

// BoardStore is what the requirement routes need.
type BoardStore interface {
	storage.UserStore
	storage.RequirementStore
}

// RequirementHandler serves the requirement board.
type RequirementHandler struct {
	store  BoardStore
	tokens *auth.TokenManager
	log    *logrus.Entry
}

// NewRequirementHandler constructs the handler.
func NewRequirementHandler(store BoardStore, tokens *auth.TokenManager, log *logrus.Entry) *RequirementHandler {
	return &RequirementHandler{store: store, tokens: tokens, log: log}
}

// Register attaches requirement routes to the mux.
func (h *RequirementHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+APIPrefix+"/requirements", h.handleListActive)
	mux.Handle("POST "+APIPrefix+"/requirements", authed(h.tokens, h.handleCreate))
	mux.HandleFunc("GET "+APIPrefix+"/requirements/ngo/{ngoId}", h.handleListByNGO)
	mux.HandleFunc("GET "+APIPrefix+"/requirements/category/{category}", h.handleListByCategory)
	mux.HandleFunc("GET "+APIPrefix+"/requirements/{id}", h.handleGet)
	mux.Handle("PUT "+APIPrefix+"/requirements/{id}", authed(h.tokens, h.handleUpdate))
	mux.Handle("DELETE "+APIPrefix+"/requirements/{id}", authed(h.tokens, h.handleDelete))
}

func (h *RequirementHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRequirementRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Priority = strings.ToLower(strings.TrimSpace(req.Priority))
	if req.Title == "" {
		respond.Error(w, http.StatusBadRequest, "Title is required")
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if req.AmountNeeded != nil {
		amount, msg := checkAmount(*req.AmountNeeded, "Amount needed")
		if msg != "" {
			respond.Error(w, http.StatusBadRequest, msg)
			return
		}
		req.AmountNeeded = &amount
	}

	callerID := auth.UserID(r.Context())
	caller, err := h.store.FindUserByID(r.Context(), callerID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		serverError(w, h.log, "fetch requirement author failed", err)
		return
	}
	if err != nil || caller.UserType != models.NGO {
		respond.Error(w, http.StatusForbidden, "Only NGOs can create requirements")
		return
	}

	created, err := h.store.CreateRequirement(r.Context(), newRequirement(callerID, req))
	if err != nil {
		serverError(w, h.log, "create requirement failed", err)
		return
	}
	h.log.WithFields(logrus.Fields{
		"requirement_id": created.ID,
		"ngo_id":         created.NGOID,
		"priority":       created.Priority,
	}).Info("requirement created")
	respond.JSON(w, http.StatusCreated, map[string]any{
		"message":     "Requirement created successfully",
		"requirement": created,
	})
}

func (h *RequirementHandler) handleListActive(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.store.ListActiveRequirements(r.Context())
	if err != nil {
		serverError(w, h.log, "list requirements failed", err)
		return
	}
	models.SortByPriority(reqs)
	respond.JSON(w, http.StatusOK, map[string]any{"requirements": reqs})
}

func (h *RequirementHandler) handleListByCategory(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.store.ListActiveRequirementsByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		serverError(w, h.log, "list requirements by category failed", err)
		return
	}
	models.SortByPriority(reqs)
	respond.JSON(w, http.StatusOK, map[string]any{"requirements": reqs})
}

func (h *RequirementHandler) handleListByNGO(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.store.ListRequirementsByNGO(r.Context(), r.PathValue("ngoId"))
	if err != nil {
		serverError(w, h.log, "list ngo requirements failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"requirements": reqs})
}

func (h *RequirementHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	req, ok := h.find(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"requirement": req})
}

func (h *RequirementHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.findOwned(w, r, "You can only update your own requirements")
	if !ok {
		return
	}

	var body dto.UpdateRequirementRequest
	if !readBody(w, r, &body, true) {
		return
	}
	upd := body.Update()
	if upd.IsEmpty() {
		respond.Error(w, http.StatusBadRequest, "No valid fields to update")
		return
	}
	if msg := checkRequirementUpdate(existing, &upd); msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.store.UpdateRequirement(r.Context(), existing.ID, existing.Status, upd)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			respond.Error(w, http.StatusNotFound, msgRequirementNotFound)
		case errors.Is(err, storage.ErrConflict):
			respond.Error(w, http.StatusConflict, "Requirement was modified by another request")
		default:
			serverError(w, h.log, "update requirement failed", err)
		}
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"message":     "Requirement updated successfully",
		"requirement": updated,
	})
}

func (h *RequirementHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.findOwned(w, r, "You can only delete your own requirements")
	if !ok {
		return
	}
	if err := h.store.DeleteRequirement(r.Context(), existing.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, msgRequirementNotFound)
			return
		}
		serverError(w, h.log, "delete requirement failed", err)
		return
	}
	h.log.WithField("requirement_id", existing.ID).Info("requirement deleted")
	respond.JSON(w, http.StatusOK, map[string]any{"message": "Requirement deleted successfully"})
}

func (h *RequirementHandler) find(w http.ResponseWriter, r *http.Request) (models.Requirement, bool) {
	req, err := h.store.FindRequirementByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, msgRequirementNotFound)
			return models.Requirement{}, false
		}
		serverError(w, h.log, "fetch requirement failed", err)
		return models.Requirement{}, false
	}
	return req, true
}

// findOwned loads the requirement and writes 403 with denied unless the caller posted it.
func (h *RequirementHandler) findOwned(w http.ResponseWriter, r *http.Request, denied string) (models.Requirement, bool) {
	req, ok := h.find(w, r)
	if !ok {
		return models.Requirement{}, false
	}
	if auth.UserID(r.Context()) != req.NGOID {
		respond.Error(w, http.StatusForbidden, denied)
		return models.Requirement{}, false
	}
	return req, true
}

// checkRequirementUpdate normalizes upd in place and returns a client message when it is unacceptable.
func checkRequirementUpdate(existing models.Requirement, upd *models.RequirementUpdate) string {
	if upd.Title != nil {
		upd.Title = strPtrTrimmed(upd.Title)
		if *upd.Title == "" {
			return "Title cannot be empty"
		}
	}
	if upd.Priority != nil {
		p := models.Priority(strings.ToLower(string(*upd.Priority)))
		if !p.Valid() {
			return "Invalid priority"
		}
		upd.Priority = &p
	}
	if upd.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*upd.Currency))
		upd.Currency = &c
	}
	if upd.AmountNeeded != nil {
		amount, msg := checkAmount(*upd.AmountNeeded, "Amount needed")
		if msg != "" {
			return msg
		}
		upd.AmountNeeded = &amount
	}
	if upd.Status != nil {
		s := models.RequirementStatus(strings.ToLower(string(*upd.Status)))
		if !s.Valid() {
			return "Invalid status"
		}
		if err := existing.Status.CanTransition(s); err != nil {
			return err.Error()
		}
		upd.Status = &s
	}
	return ""
}

func newRequirement(ngoID string, req dto.CreateRequirementRequest) models.Requirement {
	priority := models.Priority(req.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}
	r := models.Requirement{
		ID:          uuid.NewString(),
		NGOID:       ngoID,
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Currency:    currency,
		Priority:    priority,
		Status:      models.RequirementActive,
		Deadline:    req.Deadline,
	}
	if req.AmountNeeded != nil {
		r.AmountNeeded = decimal.NewNullDecimal(*req.AmountNeeded)
	}
	return r
}
