package handler

import (
	"strings"

	"github.com/asaskevich/govalidator"

	"paygate/pkg/domain"
	"paygate/pkg/errdomain"
)

// ResolveRequest is the HTTP request body for POST /wallet/resolve.
type ResolveRequest struct {
	Identity string `json:"identity"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ResolveRequest) Validate() error {
	if r == nil {
		return errdomain.New(errdomain.CodeInvalidInput, "request body is required")
	}
	r.Identity = strings.TrimSpace(r.Identity)
	if !govalidator.StringLength(r.Identity, "1", "64") {
		return errdomain.New(errdomain.CodeInvalidInput, "identity must be 1-64 characters")
	}
	if _, err := domain.ParseIdentity(r.Identity); err != nil {
		return err
	}
	return nil
}
