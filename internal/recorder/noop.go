package recorder

// NoopRecorder discards all records; used when no database is configured.
type NoopRecorder struct{}

// NewNoopRecorder creates a no-op recorder.
func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (*NoopRecorder) RecordAnalysis(*AnalysisRecord) error { return nil }

func (*NoopRecorder) Close() error { return nil }
