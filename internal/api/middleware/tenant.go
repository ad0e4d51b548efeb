package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	tenantRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/tenant"
)

// HeaderOrganization заголовок со slug организации
const HeaderOrganization = "X-Organization"

const (
	msgMissingOrganization  = "не указана организация (заголовок X-Organization)"
	msgOrganizationNotFound = "организация не найдена"
	msgOrganizationInactive = "организация отключена"
)

// Tenant определяет организацию по заголовку X-Organization и кладёт её в контекст
// Все репозитории получают арендатора явно из контекста обработчика
func Tenant(registry TenantRegistry, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderOrganization)))
			if slug == "" {
				logger.Warn("%s %s - Missing %s header", r.Method, r.URL.Path, HeaderOrganization)
				handlers.RespondBadRequest(w, msgMissingOrganization)
				return
			}

			tenant, err := registry.GetBySlug(r.Context(), slug)
			if err != nil {
				if errors.Is(err, tenantRepo.ErrTenantNotFound) {
					logger.Warn("%s %s - Organization not found: slug=%s", r.Method, r.URL.Path, slug)
					handlers.RespondNotFound(w, msgOrganizationNotFound)
					return
				}
				logger.Error("%s %s - Failed to resolve organization slug=%s: %v", r.Method, r.URL.Path, slug, err)
				handlers.RespondInternalError(w)
				return
			}

			if !tenant.Active {
				logger.Warn("%s %s - Organization inactive: slug=%s", r.Method, r.URL.Path, slug)
				handlers.RespondForbidden(w, msgOrganizationInactive)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), *tenant)))
		})
	}
}
