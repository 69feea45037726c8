package api

import (
	"github.com/starford/ansuz/internal/capture"
	"github.com/starford/ansuz/internal/models"
)

// CaptureRequest is the request body for POST /api/capture.
type CaptureRequest = models.CaptureRequest

// ResolveRequest is the request body for POST /api/resolve.
// Empty vault and folder fall back to the saved defaults.
type ResolveRequest struct {
	Title  string `json:"title" example:"Daily" validate:"required"`
	Vault  string `json:"vault,omitempty" example:"Notes"`
	Folder string `json:"folder,omitempty" example:"inbox"`
}

// VaultListResponse wraps the eligible vaults.
type VaultListResponse struct {
	Vaults []models.Vault `json:"vaults" validate:"required"`
}

// DefaultsResponse is the pre-filled vault and folder for a capture form.
type DefaultsResponse = capture.Defaults

// ResolveResponse is where a title lives, or would live.
type ResolveResponse = capture.Resolution

// CaptureResponse is the outcome of a capture, including the deep link.
type CaptureResponse = capture.Result
