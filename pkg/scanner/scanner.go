package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/opscart/k8s-probe-analyzer/pkg/models"
)

// WorkloadLister lists workload objects of one kind. An empty
// namespace means every namespace.
type WorkloadLister interface {
	List(ctx context.Context, kind, namespace string) ([]*models.Workload, error)
}

// ParseError marks a workload listing that could not be decoded. The
// scan aborts on these instead of reporting a partial result as clean.
type ParseError struct {
	Kind string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s list: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Scanner finds workloads whose exec probes lack explicit timeouts
type Scanner struct {
	lister         WorkloadLister
	defaultTimeout int
	logger         zerolog.Logger
}

func New(lister WorkloadLister, defaultTimeout int, logger zerolog.Logger) *Scanner {
	return &Scanner{
		lister:         lister,
		defaultTimeout: defaultTimeout,
		logger:         logger,
	}
}

// Scan walks all workload kinds and returns the ones needing probe
// timeout patches. A kind whose listing fails is skipped with a
// warning; a malformed listing aborts the scan.
func (s *Scanner) Scan(ctx context.Context, namespace string) ([]*models.WorkloadProbeIssue, error) {
	var issues []*models.WorkloadProbeIssue

	for _, kind := range models.WorkloadKinds {
		workloads, err := s.lister.List(ctx, kind, namespace)
		if err != nil {
			var parseErr *ParseError
			if errors.As(err, &parseErr) {
				return nil, err
			}
			s.logger.Warn().Err(err).Str("kind", kind).Msg("listing failed, skipping kind")
			continue
		}

		for _, workload := range workloads {
			needsUpdate, findings := CheckWorkload(workload, s.defaultTimeout)
			if !needsUpdate {
				continue
			}

			for _, f := range findings {
				s.logger.Debug().
					Str("workload", workload.Namespace+"/"+workload.Name).
					Str("container", f.Container).
					Str("probe", f.ProbeType).
					Msg("exec probe missing explicit timeoutSeconds")
			}

			issues = append(issues, &models.WorkloadProbeIssue{
				Kind:      workload.Kind,
				Namespace: workload.Namespace,
				Name:      workload.Name,
				Findings:  findings,
			})
		}
	}

	return issues, nil
}

// PrintSummary renders the scan result to out
func PrintSummary(out io.Writer, issues []*models.WorkloadProbeIssue) {
	if len(issues) == 0 {
		fmt.Fprintln(out, "✅ No workloads need updates!")
		return
	}

	fmt.Fprintf(out, "\n⚠️  Found %d workloads needing updates\n", len(issues))
	for _, issue := range issues {
		fmt.Fprintf(out, "  - %s: %s/%s\n", issue.Kind, issue.Namespace, issue.Name)
	}

	fmt.Fprintln(out, "\n✅ Remediation complete!")
}
