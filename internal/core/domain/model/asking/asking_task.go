package asking

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"
	"orderdesk/internal/pkg/guard"
)

var (
	ErrAskingTaskIsNotConstructed = errors.New("AskingTask must be created via NewAskingTask or RestoreAskingTask")
	ErrFlagReasonIsRequired       = errs.NewValueIsRequiredError("reason")
)

const entityName = "asking task"

// AskingTask is the unit of work of one ASKING_SERVICE instance.
//
// Invariants:
//   - completedAt is set only when currentStage is INFORMED_TEAM
//   - completedAt and completedUser never change once set
//   - the stage log only grows
type AskingTask struct {
	id           kernel.UUID
	currentStage Stage
	isFlagged    bool
	flagReason   string
	isMandatory  bool

	completedAt     *time.Time
	completedUser   *kernel.UUID
	completionNotes string

	stageLog []StageRecord

	guard guard.ConstructorGuard
}

// NewAskingTask creates a task at ASKED. isMandatory is copied from the service.
func NewAskingTask(id kernel.UUID, isMandatory bool) (*AskingTask, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return &AskingTask{
		id:           id,
		currentStage: Asked,
		isMandatory:  isMandatory,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Snapshot carries the stored state of an asking task.
type Snapshot struct {
	ID              kernel.UUID
	CurrentStage    Stage
	IsFlagged       bool
	FlagReason      string
	IsMandatory     bool
	CompletedAt     *time.Time
	CompletedUser   *kernel.UUID
	CompletionNotes string
	StageLog        []StageRecord
}

// RestoreAskingTask rebuilds a task from storage.
func RestoreAskingTask(s Snapshot) (*AskingTask, error) {
	if err := errors.Join(s.ID.Validate(), s.CurrentStage.Validate()); err != nil {
		return nil, err
	}
	if s.CompletedAt != nil && s.CurrentStage != FinalStage {
		return nil, errs.NewValueIsInvalidErrorWithCause("completedAt",
			fmt.Errorf("completed asking task must be at %s, got %s", FinalStage, s.CurrentStage))
	}
	if (s.CompletedAt == nil) != (s.CompletedUser == nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("completedUser",
			errors.New("completedAt and completedUser must be set together"))
	}

	return &AskingTask{
		id:              s.ID,
		currentStage:    s.CurrentStage,
		isFlagged:       s.IsFlagged,
		flagReason:      s.FlagReason,
		isMandatory:     s.IsMandatory,
		completedAt:     s.CompletedAt,
		completedUser:   s.CompletedUser,
		completionNotes: s.CompletionNotes,
		stageLog:        slices.Clone(s.StageLog),
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (t *AskingTask) Validate() error {
	if t == nil {
		return ErrAskingTaskIsNotConstructed
	}
	return t.guard.Validate(ErrAskingTaskIsNotConstructed)
}

func (t *AskingTask) ID() kernel.UUID             { return t.id }
func (t *AskingTask) CurrentStage() Stage         { return t.currentStage }
func (t *AskingTask) IsFlagged() bool             { return t.isFlagged }
func (t *AskingTask) FlagReason() string          { return t.flagReason }
func (t *AskingTask) IsMandatory() bool           { return t.isMandatory }
func (t *AskingTask) CompletedAt() *time.Time     { return t.completedAt }
func (t *AskingTask) CompletedUser() *kernel.UUID { return t.completedUser }
func (t *AskingTask) CompletionNotes() string     { return t.completionNotes }
func (t *AskingTask) IsCompleted() bool           { return t.completedAt != nil }

// StageLog returns the recorded stages, oldest first.
func (t *AskingTask) StageLog() []StageRecord {
	return slices.Clone(t.stageLog)
}

// HasLeftInitialState reports whether any work was recorded on the task.
func (t *AskingTask) HasLeftInitialState() bool {
	return len(t.stageLog) > 0 || t.isFlagged || t.completedAt != nil
}

// AdvanceStage records target with its details. target must be the current
// stage or the one directly after it.
func (t *AskingTask) AdvanceStage(target Stage, details map[string]string, by kernel.UUID, now time.Time) error {
	if t.IsCompleted() {
		return errs.NewInvalidTransitionError(entityName, "COMPLETED", "advance")
	}
	if err := target.Validate(); err != nil {
		return err
	}
	if !t.currentStage.CanMoveTo(target) {
		return errs.NewInvalidTransitionError(entityName, t.currentStage.String(), "advance to "+target.String())
	}

	record, err := NewStageRecord(target, details, by, now)
	if err != nil {
		return err
	}
	t.stageLog = append(t.stageLog, record)
	t.currentStage = target
	return nil
}

// Flag marks the task for attention at any stage.
func (t *AskingTask) Flag(reason string) error {
	if t.IsCompleted() {
		return errs.NewInvalidTransitionError(entityName, "COMPLETED", "flag")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrFlagReasonIsRequired
	}
	if t.isFlagged {
		return errs.NewInvalidTransitionError(entityName, "FLAGGED", "flag")
	}

	t.isFlagged = true
	t.flagReason = reason
	return nil
}

// Unflag clears the flag and its reason.
func (t *AskingTask) Unflag() error {
	if t.IsCompleted() {
		return errs.NewInvalidTransitionError(entityName, "COMPLETED", "unflag")
	}
	if !t.isFlagged {
		return errs.NewInvalidTransitionError(entityName, "UNFLAGGED", "unflag")
	}

	t.isFlagged = false
	t.flagReason = ""
	return nil
}

// Complete finishes the task. It needs the final stage to be recorded first.
func (t *AskingTask) Complete(by kernel.UUID, notes string, now time.Time) error {
	if t.IsCompleted() {
		return errs.NewInvalidTransitionError(entityName, "COMPLETED", "complete")
	}
	if err := by.Validate(); err != nil {
		return err
	}
	if t.currentStage != FinalStage {
		return errs.NewPreconditionError(
			fmt.Sprintf("asking task must reach %s before completion, current stage is %s", FinalStage, t.currentStage))
	}

	completedAt := now.UTC()
	t.completedAt = &completedAt
	t.completedUser = &by
	t.completionNotes = strings.TrimSpace(notes)
	return nil
}
