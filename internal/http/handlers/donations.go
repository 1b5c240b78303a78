package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/houseofcharity/charity-be/internal/auth"
	"github.com/houseofcharity/charity-be/internal/http/respond"
	"github.com/houseofcharity/charity-be/internal/models"
	"github.com/houseofcharity/charity-be/internal/models/dto"
	"github.com/houseofcharity/charity-be/internal/storage"
)

const (
	msgAccessDenied     = "Access denied"
	msgNGONotFound      = "NGO not found"
	msgDonationNotFound = "Donation not found"
)

// LedgerStore is what the donation routes need.
type LedgerStore interface {
	storage.UserStore
	storage.DonationStore
}

// DonationHandler serves the donation ledger.
type DonationHandler struct {
	store  LedgerStore
	tokens *auth.TokenManager
	log    *logrus.Entry
}

// NewDonationHandler constructs the handler.
func NewDonationHandler(store LedgerStore, tokens *auth.TokenManager, log *logrus.Entry) *DonationHandler {
	return &DonationHandler{store: store, tokens: tokens, log: log}
}

// Register attaches donation routes to the mux.
func (h *DonationHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+APIPrefix+"/donations", h.handleListPublic)
	mux.Handle("POST "+APIPrefix+"/donations", authed(h.tokens, h.handleCreate))
	mux.Handle("GET "+APIPrefix+"/donations/donor/{donorId}", authed(h.tokens, h.handleListByDonor))
	mux.Handle("GET "+APIPrefix+"/donations/ngo/{ngoId}", authed(h.tokens, h.handleListByNGO))
	mux.Handle("PUT "+APIPrefix+"/donations/{id}/status", authed(h.tokens, h.handleUpdateStatus))
	mux.Handle("GET "+APIPrefix+"/donations/{id}", authed(h.tokens, h.handleGet))
}

func (h *DonationHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDonationRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.NGOID = strings.TrimSpace(req.NGOID)
	if req.NGOID == "" || req.Amount == nil {
		respond.Error(w, http.StatusBadRequest, "NGO ID and amount are required")
		return
	}
	amount, msg := checkAmount(*req.Amount, "Amount")
	if msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if !h.isNGO(w, r, req.NGOID) {
		return
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}
	donation := models.Donation{
		ID:            uuid.NewString(),
		DonorID:       auth.UserID(r.Context()),
		NGOID:         req.NGOID,
		Amount:        amount,
		Currency:      currency,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		TransactionID: strings.TrimSpace(req.TransactionID),
		Status:        models.DonationPending,
		Message:       strings.TrimSpace(req.Message),
		Anonymous:     req.Anonymous,
	}
	created, err := h.store.CreateDonation(r.Context(), donation)
	if err != nil {
		serverError(w, h.log, "create donation failed", err)
		return
	}
	h.log.WithFields(logrus.Fields{
		"donation_id": created.ID,
		"ngo_id":      created.NGOID,
		"amount":      created.Amount.String(),
	}).Info("donation created")
	respond.JSON(w, http.StatusCreated, map[string]any{
		"message":  "Donation created successfully",
		"donation": created,
	})
}

// handleListByDonor shows the donor's own history with true identity, regardless of the anonymous flag.
func (h *DonationHandler) handleListByDonor(w http.ResponseWriter, r *http.Request) {
	donorID := r.PathValue("donorId")
	if auth.UserID(r.Context()) != donorID {
		respond.Error(w, http.StatusForbidden, msgAccessDenied)
		return
	}
	donations, err := h.store.ListDonationsByDonor(r.Context(), donorID)
	if err != nil {
		serverError(w, h.log, "list donor donations failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"donations": donations})
}

func (h *DonationHandler) handleListByNGO(w http.ResponseWriter, r *http.Request) {
	ngoID := r.PathValue("ngoId")
	if !h.isNGO(w, r, ngoID) {
		return
	}
	donations, err := h.store.ListDonationsByNGO(r.Context(), ngoID)
	if err != nil {
		serverError(w, h.log, "list ngo donations failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"donations": models.RedactAll(donations)})
}

func (h *DonationHandler) handleListPublic(w http.ResponseWriter, r *http.Request) {
	donations, err := h.store.ListCompletedDonations(r.Context(), models.PublicFeedLimit)
	if err != nil {
		serverError(w, h.log, "list public donations failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"donations": models.RedactAll(donations)})
}

func (h *DonationHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDonationStatusRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	next := models.DonationStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !next.Valid() {
		respond.Error(w, http.StatusBadRequest, "Invalid status")
		return
	}

	current, ok := h.findParty(w, r, r.PathValue("id"))
	if !ok {
		return
	}
	if err := current.Status.CanTransition(next); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.store.UpdateDonationStatus(r.Context(), current.ID, current.Status, next)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			respond.Error(w, http.StatusNotFound, msgDonationNotFound)
		case errors.Is(err, storage.ErrConflict):
			respond.Error(w, http.StatusConflict, "Donation was modified by another request")
		default:
			serverError(w, h.log, "update donation status failed", err)
		}
		return
	}
	h.log.WithFields(logrus.Fields{
		"donation_id": updated.ID,
		"from":        current.Status,
		"to":          updated.Status,
		"by":          auth.UserID(r.Context()),
	}).Info("donation status changed")
	respond.JSON(w, http.StatusOK, map[string]any{
		"message":  "Donation status updated successfully",
		"donation": updated,
	})
}

func (h *DonationHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	donation, ok := h.findParty(w, r, r.PathValue("id"))
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"donation": donation})
}

// findParty loads a donation the caller is a party to, writing 404 or 403 otherwise.
func (h *DonationHandler) findParty(w http.ResponseWriter, r *http.Request, id string) (models.Donation, bool) {
	donation, err := h.store.FindDonationByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, msgDonationNotFound)
			return models.Donation{}, false
		}
		serverError(w, h.log, "fetch donation failed", err)
		return models.Donation{}, false
	}
	if !donation.IsParty(auth.UserID(r.Context())) {
		respond.Error(w, http.StatusForbidden, msgAccessDenied)
		return models.Donation{}, false
	}
	return donation, true
}

// isNGO writes 404 unless id names an NGO account.
func (h *DonationHandler) isNGO(w http.ResponseWriter, r *http.Request, id string) bool {
	user, err := h.store.FindUserByID(r.Context(), id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, msgNGONotFound)
		return false
	case err != nil:
		serverError(w, h.log, "fetch ngo failed", err)
		return false
	case user.UserType != models.NGO:
		respond.Error(w, http.StatusNotFound, msgNGONotFound)
		return false
	}
	return true
}
