package commands

import (
	"errors"

	"orderdesk/internal/core/domain/model/access"
	"orderdesk/internal/core/domain/model/asking"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/guard"
)

var (
	ErrAdvanceAskingStageCommandIsNotConstructed = errors.New(
		"AdvanceAskingStageCommand must be created via NewAdvanceAskingStageCommand constructor",
	)
	ErrFlagAskingTaskCommandIsNotConstructed = errors.New(
		"FlagAskingTaskCommand must be created via NewFlagAskingTaskCommand constructor",
	)
	ErrCompleteAskingTaskCommandIsNotConstructed = errors.New(
		"CompleteAskingTaskCommand must be created via NewCompleteAskingTaskCommand constructor",
	)
)

// AdvanceAskingStageCommand records a stage with its details.
type AdvanceAskingStageCommand struct {
	actor        access.Actor
	askingTaskID kernel.UUID
	stage        asking.Stage
	details      map[string]string

	guard guard.ConstructorGuard
}

func NewAdvanceAskingStageCommand(
	actor access.Actor,
	askingTaskID kernel.UUID,
	stage asking.Stage,
	details map[string]string,
) (AdvanceAskingStageCommand, error) {
	if err := errors.Join(validateActor(actor), askingTaskID.Validate(), stage.Validate()); err != nil {
		return AdvanceAskingStageCommand{}, err
	}
	return AdvanceAskingStageCommand{
		actor:        actor,
		askingTaskID: askingTaskID,
		stage:        stage,
		details:      details,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceAskingStageCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceAskingStageCommandIsNotConstructed)
}

func (c AdvanceAskingStageCommand) Actor() access.Actor        { return c.actor }
func (c AdvanceAskingStageCommand) AskingTaskID() kernel.UUID  { return c.askingTaskID }
func (c AdvanceAskingStageCommand) Stage() asking.Stage        { return c.stage }
func (c AdvanceAskingStageCommand) Details() map[string]string { return c.details }

// FlagAskingTaskCommand sets or clears the flag of an asking task.
type FlagAskingTaskCommand struct {
	actor        access.Actor
	askingTaskID kernel.UUID
	flagged      bool
	reason       string

	guard guard.ConstructorGuard
}

func NewFlagAskingTaskCommand(
	actor access.Actor,
	askingTaskID kernel.UUID,
	flagged bool,
	reason string,
) (FlagAskingTaskCommand, error) {
	if err := errors.Join(validateActor(actor), askingTaskID.Validate()); err != nil {
		return FlagAskingTaskCommand{}, err
	}
	return FlagAskingTaskCommand{
		actor:        actor,
		askingTaskID: askingTaskID,
		flagged:      flagged,
		reason:       reason,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c FlagAskingTaskCommand) Validate() error {
	return c.guard.Validate(ErrFlagAskingTaskCommandIsNotConstructed)
}

func (c FlagAskingTaskCommand) Actor() access.Actor       { return c.actor }
func (c FlagAskingTaskCommand) AskingTaskID() kernel.UUID { return c.askingTaskID }
func (c FlagAskingTaskCommand) Flagged() bool             { return c.flagged }
func (c FlagAskingTaskCommand) Reason() string            { return c.reason }

// CompleteAskingTaskCommand completes an asking task at its final stage.
type CompleteAskingTaskCommand struct {
	actor        access.Actor
	askingTaskID kernel.UUID
	notes        string

	guard guard.ConstructorGuard
}

func NewCompleteAskingTaskCommand(
	actor access.Actor,
	askingTaskID kernel.UUID,
	notes string,
) (CompleteAskingTaskCommand, error) {
	if err := errors.Join(validateActor(actor), askingTaskID.Validate()); err != nil {
		return CompleteAskingTaskCommand{}, err
	}
	return CompleteAskingTaskCommand{
		actor:        actor,
		askingTaskID: askingTaskID,
		notes:        notes,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteAskingTaskCommand) Validate() error {
	return c.guard.Validate(ErrCompleteAskingTaskCommandIsNotConstructed)
}

func (c CompleteAskingTaskCommand) Actor() access.Actor       { return c.actor }
func (c CompleteAskingTaskCommand) AskingTaskID() kernel.UUID { return c.askingTaskID }
func (c CompleteAskingTaskCommand) Notes() string             { return c.notes }
