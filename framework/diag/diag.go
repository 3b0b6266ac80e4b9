// Package diag collects the non-fatal issues raised while the container boots
// and while requests are dispatched.
//
// Every init-phase stage (scan, instantiate, inject, route) records what went
// wrong into a shared *Report instead of aborting. The caller decides what to
// do with it:
//
//	report := diag.NewReport(logger)
//	ids, _ := scanner.Scan(fs, "app", ".bean")
//	...
//	if err := report.Fatal(cfg.Boot.Strict); err != nil {
//	    log.Fatal(err)
//	}
package diag

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ── Kinds ─────────────────────────────────────────────────────────────────────

// Kind classifies an Issue.
type Kind int

const (
	// ScanNotFound: a namespace does not resolve to a directory on the class path.
	ScanNotFound Kind = iota + 1
	// InstantiationFailure: a discovered type could not be resolved or constructed.
	InstantiationFailure
	// DuplicateAlias: two services claim the same interface alias.
	DuplicateAlias
	// MissingDependency: an injection target is not in the container.
	MissingDependency
	// InjectionFailure: the resolved bean cannot be assigned to the field.
	InjectionFailure
	// InvalidMapping: a request mapping names a missing method or an unbindable signature.
	InvalidMapping
	// RouteOverwritten: two mappings normalize to the same path; the later one wins.
	RouteOverwritten
	// RouteMiss: no route for the requested path.
	RouteMiss
	// InvocationFailure: argument binding failed or the handler failed.
	InvocationFailure
)

var kindNames = map[Kind]string{
	ScanNotFound:         "scan_not_found",
	InstantiationFailure: "instantiation_failure",
	DuplicateAlias:       "duplicate_alias",
	MissingDependency:    "missing_dependency",
	InjectionFailure:     "injection_failure",
	InvalidMapping:       "invalid_mapping",
	RouteOverwritten:     "route_overwritten",
	RouteMiss:            "route_miss",
	InvocationFailure:    "invocation_failure",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// fatalKinds are promoted to a boot failure in strict mode.
var fatalKinds = map[Kind]bool{
	ScanNotFound:         true,
	InstantiationFailure: true,
	DuplicateAlias:       true,
	MissingDependency:    true,
	InjectionFailure:     true,
}

// ── Sentinel errors ───────────────────────────────────────────────────────────

var (
	ErrScanNotFound      = errors.New("namespace not found")
	ErrInstantiation     = errors.New("instantiation failed")
	ErrDuplicateAlias    = errors.New("alias already registered")
	ErrMissingDependency = errors.New("dependency not found")
	ErrInjection         = errors.New("injection failed")
	ErrInvalidMapping    = errors.New("invalid request mapping")
	ErrRouteOverwritten  = errors.New("route overwritten")
	ErrRouteMiss         = errors.New("route not found")
	ErrInvocation        = errors.New("invocation failed")
)

var sentinels = map[Kind]error{
	ScanNotFound:         ErrScanNotFound,
	InstantiationFailure: ErrInstantiation,
	DuplicateAlias:       ErrDuplicateAlias,
	MissingDependency:    ErrMissingDependency,
	InjectionFailure:     ErrInjection,
	InvalidMapping:       ErrInvalidMapping,
	RouteOverwritten:     ErrRouteOverwritten,
	RouteMiss:            ErrRouteMiss,
	InvocationFailure:    ErrInvocation,
}

// ── Issue ─────────────────────────────────────────────────────────────────────

// Issue is a single problem tied to a subject (a namespace, TypeId, bean
// name, field or path). errors.Is matches both the kind's sentinel and the
// wrapped cause.
type Issue struct {
	Kind    Kind
	Subject string
	Detail  string
	Cause   error
}

// New builds an Issue.
func New(kind Kind, subject, detail string, cause error) *Issue {
	return &Issue{Kind: kind, Subject: subject, Detail: detail, Cause: cause}
}

func (i *Issue) Error() string {
	var b strings.Builder
	b.WriteString(i.Kind.String())
	if i.Subject != "" {
		b.WriteString(" [")
		b.WriteString(i.Subject)
		b.WriteString("]")
	}
	if i.Detail != "" {
		b.WriteString(": ")
		b.WriteString(i.Detail)
	}
	if i.Cause != nil {
		b.WriteString(": ")
		b.WriteString(i.Cause.Error())
	}
	return b.String()
}

func (i *Issue) Unwrap() []error {
	errs := []error{sentinels[i.Kind]}
	if i.Cause != nil {
		errs = append(errs, i.Cause)
	}
	return errs
}

// ── Report ────────────────────────────────────────────────────────────────────

// Report accumulates issues in the order they were raised. It is used by the
// single init goroutine and is not safe for concurrent writers.
type Report struct {
	logger *zap.Logger
	issues []*Issue
}

// NewReport creates an empty report. A nil logger discards the log records.
func NewReport(logger *zap.Logger) *Report {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Report{logger: logger}
}

// Add records an issue and logs it at warn level.
func (r *Report) Add(issue *Issue) {
	r.issues = append(r.issues, issue)
	r.logger.Warn(issue.Kind.String(),
		zap.String("subject", issue.Subject),
		zap.String("detail", issue.Detail),
		zap.NamedError("cause", issue.Cause),
	)
}

// Addf is shorthand for Add(New(kind, subject, fmt.Sprintf(...), nil)).
func (r *Report) Addf(kind Kind, subject, format string, args ...any) {
	r.Add(New(kind, subject, fmt.Sprintf(format, args...), nil))
}

// Issues returns the recorded issues.
func (r *Report) Issues() []*Issue { return r.issues }

// Empty reports whether no issue was recorded.
func (r *Report) Empty() bool { return len(r.issues) == 0 }

// Has returns true if at least one issue of kind was recorded.
func (r *Report) Has(kind Kind) bool { return r.Count(kind) > 0 }

// Count returns the number of issues of kind.
func (r *Report) Count(kind Kind) int {
	n := 0
	for _, i := range r.issues {
		if i.Kind == kind {
			n++
		}
	}
	return n
}

// Err joins every recorded issue, or returns nil.
func (r *Report) Err() error {
	if len(r.issues) == 0 {
		return nil
	}
	errs := make([]error, len(r.issues))
	for i, issue := range r.issues {
		errs[i] = issue
	}
	return errors.Join(errs...)
}

// Fatal returns the joined fatal-class issues when strict is set, nil otherwise.
// RouteOverwritten and InvalidMapping never abort a boot.
func (r *Report) Fatal(strict bool) error {
	if !strict {
		return nil
	}
	var errs []error
	for _, i := range r.issues {
		if fatalKinds[i.Kind] {
			errs = append(errs, i)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("boot aborted: %w", errors.Join(errs...))
}
