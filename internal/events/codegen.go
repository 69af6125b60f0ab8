package events

import "time"

// SchemaBuildStart is emitted before a schema context is built.
type SchemaBuildStart struct {
	QueryType string
	TypeCount int
}

// SchemaBuildFinish is emitted after a schema context is built.
type SchemaBuildFinish struct {
	EntityCount int
	Err         error
	Duration    time.Duration
}

// DocumentsBuildStart is emitted before a batch of documents is transformed.
type DocumentsBuildStart struct {
	Documents []string
}

// DocumentsBuildFinish is emitted after a batch of documents is transformed.
type DocumentsBuildFinish struct {
	Documents      []string
	NamespaceCount int
	Err            error
	Duration       time.Duration
}

// RenderStart is emitted before a context tree is rendered to source text.
type RenderStart struct {
	Target string
}

// RenderFinish is emitted after a context tree is rendered to source text.
type RenderFinish struct {
	Target   string
	Bytes    int
	Err      error
	Duration time.Duration
}

// RunStart is emitted by the CLI before a command runs.
type RunStart struct {
	Command string
}

// RunFinish is emitted by the CLI after a command ran.
type RunFinish struct {
	Command  string
	Err      error
	Duration time.Duration
}
