package recorder

import "EtfRadar/internal/model"

// Recorder persists refresh history for later analysis.
type Recorder interface {
	RecordBatch(batch *model.BatchResult) error
	Close() error
}

// NoopRecorder is used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordBatch(_ *model.BatchResult) error { return nil }
func (n *NoopRecorder) Close() error                           { return nil }
