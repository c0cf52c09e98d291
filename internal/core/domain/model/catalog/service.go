// Package catalog holds the services an order can include. A service decides
// which kind of work item its instances spawn, which team owns that work and
// whether the work gates delivery.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var (
	ErrServiceIsNotConstructed = errors.New("Service must be created via NewService constructor")
	ErrNameIsRequired          = errs.NewValueIsRequiredError("name")
)

// Type selects the work item spawned by each instance of a service.
type Type int

const (
	UnknownType Type = iota
	// ServiceTask instances are fulfilled as assignable tasks.
	ServiceTask
	// AskingService instances are fulfilled as asking tasks with communication stages.
	AskingService
)

var typeNames = map[Type]string{
	ServiceTask:   "SERVICE_TASK",
	AskingService: "ASKING_SERVICE",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

func (t Type) Validate() error {
	if _, ok := typeNames[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("service type", fmt.Errorf("%d is not a valid service type", t))
	}
	return nil
}

// ParseType maps the wire name back to a Type.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return UnknownType, errs.NewValueIsInvalidErrorWithCause("service type", fmt.Errorf("%q is not a valid service type", s))
}

// Service is a catalog entry. It is immutable once built.
type Service struct {
	id                     kernel.UUID
	name                   string
	serviceType            Type
	teamID                 kernel.UUID
	isMandatory            bool
	requiresCompletionNote bool
	guard                  guard.ConstructorGuard
}

// Options carries the optional flags of a service.
type Options struct {
	Mandatory              bool
	RequiresCompletionNote bool
}

// NewService builds a catalog service. RequiresCompletionNote is only meaningful
// for ServiceTask services and is rejected for asking services.
func NewService(id kernel.UUID, name string, serviceType Type, teamID kernel.UUID, opts Options) (*Service, error) {
	s := &Service{
		id:                     id,
		name:                   strings.TrimSpace(name),
		serviceType:            serviceType,
		teamID:                 teamID,
		isMandatory:            opts.Mandatory,
		requiresCompletionNote: opts.RequiresCompletionNote,
		guard:                  guard.NewConstructorGuard(),
	}

	var nameErr, noteErr error
	if s.name == "" {
		nameErr = ErrNameIsRequired
	}
	if serviceType == AskingService && opts.RequiresCompletionNote {
		noteErr = errs.NewValueIsInvalidErrorWithCause("requiresCompletionNote",
			errors.New("asking services carry notes on completion, not as a requirement"))
	}

	if err := errors.Join(id.Validate(), nameErr, serviceType.Validate(), teamID.Validate(), noteErr); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) Validate() error {
	if s == nil {
		return ErrServiceIsNotConstructed
	}
	return s.guard.Validate(ErrServiceIsNotConstructed)
}

func (s *Service) ID() kernel.UUID       { return s.id }
func (s *Service) Name() string          { return s.name }
func (s *Service) Type() Type            { return s.serviceType }
func (s *Service) TeamID() kernel.UUID   { return s.teamID }
func (s *Service) IsMandatory() bool     { return s.isMandatory }
func (s *Service) IsAskingService() bool { return s.serviceType == AskingService }

// RequiresCompletionNote reports whether completing a task of this service needs notes.
func (s *Service) RequiresCompletionNote() bool {
	return s.requiresCompletionNote
}
