package logging

import "context"

// NullLogger discards everything. It stands in wherever a Logger is
// required but output is unwanted, such as library defaults and tests.
type NullLogger struct{}

// NewNull returns a no-op logger.
func NewNull() *NullLogger { return &NullLogger{} }

func (*NullLogger) Debug(context.Context, string, Fields)        {}
func (*NullLogger) Info(context.Context, string, Fields)         {}
func (*NullLogger) Warn(context.Context, string, Fields)         {}
func (*NullLogger) Error(context.Context, string, error, Fields) {}

func (l *NullLogger) WithFields(Fields) Logger { return l }

func (*NullLogger) Close() error { return nil }
