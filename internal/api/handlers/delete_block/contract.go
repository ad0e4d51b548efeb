package delete_block

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type CalendarService interface {
	DeleteBlock(ctx context.Context, tenant domain.Tenant, blockID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
