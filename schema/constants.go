package schema

// EdgeKind classifies the causality expressed by an edge.
type EdgeKind string

// Edge kinds.
const (
	ControlEdge EdgeKind = "control" // Process-to-process control flow
	DataEdge    EdgeKind = "data"    // Data flow between a process and an artifact
)

// ObjectKind classifies the logical entity behind a version chain.
type ObjectKind string

// Object kinds.
const (
	ProcessObject  ObjectKind = "process"  // A running process over its lifetime
	ArtifactObject ObjectKind = "artifact" // A file or other data artifact over its lifetime
)

// DatabaseBackend identifies a run-store backend.
type DatabaseBackend string

// Supported run-store backends.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// OutputFormat identifies an output rendering format.
type OutputFormat string

// Supported output formats.
const (
	TextOut OutputFormat = "text"
	CSVOut  OutputFormat = "csv"
	JSONOut OutputFormat = "json"
)

// NoTime is the sentinel for a missing timestamp. Nodes carrying NoTime are
// skipped by time-based clustering unless configured otherwise.
const NoTime float64 = 0
