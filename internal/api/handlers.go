package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/capture"
	"github.com/starford/ansuz/internal/models"
)

// maxBodyBytes caps capture request bodies.
const maxBodyBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *capture.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *capture.Service) *Handler {
	return &Handler{svc: svc}
}

// ListVaults handles GET /api/vaults.
//
//	@Summary		List vaults that can receive captures
//	@Tags			vaults
//	@Produce		json
//	@Success		200	{object}	VaultListResponse
//	@Failure		412	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/vaults [get]
func (h *Handler) ListVaults(w http.ResponseWriter, _ *http.Request) {
	vs, err := h.svc.Vaults()
	if err != nil {
		writeError(w, "list vaults", err)
		return
	}
	writeJSON(w, http.StatusOK, VaultListResponse{Vaults: vs})
}

// Defaults handles GET /api/defaults.
//
//	@Summary		Get the last-used vault and folder
//	@Tags			capture
//	@Produce		json
//	@Success		200	{object}	DefaultsResponse
//	@Failure		412	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/defaults [get]
func (h *Handler) Defaults(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Defaults(r.Context())
	if err != nil {
		writeError(w, "defaults", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Resolve handles POST /api/resolve.
//
//	@Summary		Preview where a title would be written
//	@Tags			capture
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ResolveRequest	true	"Title to resolve"
//	@Success		200		{object}	ResolveResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		412		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/resolve [post]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	res, err := h.svc.ResolveRequest(r.Context(), &models.CaptureRequest{
		Title:  req.Title,
		Vault:  req.Vault,
		Folder: req.Folder,
	})
	if err != nil {
		writeError(w, "resolve", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Capture handles POST /api/capture.
//
//	@Summary		Capture a note and build its deep link
//	@Tags			capture
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CaptureRequest	true	"Note to capture"
//	@Success		201		{object}	CaptureResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		412		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/capture [post]
func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req CaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	res, err := h.svc.Capture(r.Context(), req)
	if err != nil {
		writeError(w, "capture", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// writeError maps capture errors to HTTP statuses.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrVaultNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrNoEligibleVault):
		writeJSON(w, http.StatusPreconditionFailed, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrVaultUnreadable):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("vault unreadable"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
