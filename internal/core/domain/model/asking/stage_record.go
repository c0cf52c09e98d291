package asking

import (
	"maps"
	"time"

	"orderdesk/internal/core/domain/model/kernel"
)

// StageRecord is one entry of the stage log. Records are never changed once appended.
type StageRecord struct {
	stage      Stage
	details    map[string]string
	recordedBy kernel.UUID
	recordedAt time.Time
}

// NewStageRecord is used by the persistence layer to rebuild the log.
func NewStageRecord(stage Stage, details map[string]string, recordedBy kernel.UUID, recordedAt time.Time) (StageRecord, error) {
	if err := stage.Validate(); err != nil {
		return StageRecord{}, err
	}
	if err := recordedBy.Validate(); err != nil {
		return StageRecord{}, err
	}
	return StageRecord{
		stage:      stage,
		details:    maps.Clone(details),
		recordedBy: recordedBy,
		recordedAt: recordedAt.UTC(),
	}, nil
}

func (r StageRecord) Stage() Stage            { return r.stage }
func (r StageRecord) RecordedBy() kernel.UUID { return r.recordedBy }
func (r StageRecord) RecordedAt() time.Time   { return r.recordedAt }

// Details returns a copy of the stage-specific details.
func (r StageRecord) Details() map[string]string {
	return maps.Clone(r.details)
}
