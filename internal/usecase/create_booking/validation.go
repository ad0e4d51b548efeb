package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса и нормализует статус
func validateRequest(req *Request) error {
	if req.LocationID <= 0 {
		return fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	if len(req.ResourceIDs) == 0 {
		return fmt.Errorf("%w: at least one resource is required", ErrInvalidInput)
	}
	if len(req.ResourceIDs) > domain.MaxResourcesPerBooking {
		return fmt.Errorf("%w: at most %d resources per booking", ErrInvalidInput, domain.MaxResourcesPerBooking)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	switch req.Status {
	case "":
		req.Status = domain.StatusPending
	case domain.StatusPending, domain.StatusConfirmed:
	default:
		return fmt.Errorf("%w: new booking cannot have status %q", ErrInvalidInput, req.Status)
	}

	return validateClient(req)
}

// validateClient проверяет данные клиента
func validateClient(req *Request) error {
	req.ClientName = strings.TrimSpace(req.ClientName)
	if req.ClientName == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.ClientName) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: clientName exceeds %d characters", ErrInvalidInput, domain.MaxClientNameLength)
	}

	if req.ClientEmail != nil {
		if _, err := mail.ParseAddress(*req.ClientEmail); err != nil {
			return fmt.Errorf("%w: invalid clientEmail: %v", ErrInvalidInput, err)
		}
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
