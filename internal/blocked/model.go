package blocked

import (
	"net/http"

	"github.com/nuitdor/booking-backend/internal/pkg/apperror"
)

var (
	ErrAlreadyBlocked = apperror.New(http.StatusConflict, "date is already blocked")
	ErrNotBlocked     = apperror.New(http.StatusNotFound, "date is not blocked")
)
