package datasource

import (
	"context"
	"errors"
	"fmt"

	v1 "github.com/prometheus/client_golang/api/prometheus/v1"

	"github.com/opscart/k8s-probe-analyzer/pkg/models"
)

// MetricsSource defines the interface for probe metrics backends
type MetricsSource interface {
	ProbeDurationsP99(ctx context.Context) (*models.ProbeMetrics, error)
	TimeoutViolations(ctx context.Context) (*models.ProbeMetrics, error)
	IsAvailable(ctx context.Context) bool
	Name() string
}

// ParseError marks a malformed query response. Runs abort on these so
// a broken exporter or proxy cannot produce a silently empty report.
type ParseError struct {
	Query string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed response for query %q: %s", e.Query, e.Msg)
}

// IsParseError reports whether err is a decode failure, as opposed to
// a transport or availability problem that degrades to an empty result
func IsParseError(err error) bool {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return true
	}

	var apiErr *v1.Error
	if errors.As(err, &apiErr) {
		return apiErr.Type == v1.ErrBadResponse || apiErr.Type == v1.ErrBadData
	}

	return false
}
