package record

import "errors"

// Configuration errors are fatal for the model or call; precondition
// errors are fatal per-call. Neither class is retried. Database failures
// are not classified here: they propagate wrapped but otherwise verbatim.
var (
	// ErrNoTable indicates a model declared without a table name.
	ErrNoTable = errors.New("model requires a table name")

	// ErrNoConnection indicates no executor was resolvable for a call.
	ErrNoConnection = errors.New("no database connection configured")

	// ErrNoPrimaryKey indicates the schema declares no primary key for an
	// operation that needs one.
	ErrNoPrimaryKey = errors.New("schema declares no primary key")

	// ErrMissingKey indicates a declared primary key attribute is not set.
	ErrMissingKey = errors.New("primary key attribute not set")

	// ErrAmbiguousKey indicates a single-value load against a schema that
	// does not declare exactly one primary key.
	ErrAmbiguousKey = errors.New("single-value load requires exactly one primary key")

	// ErrUnknownColumn indicates a column name the schema does not declare.
	ErrUnknownColumn = errors.New("column not declared by schema")

	// ErrEmptyPredicate guards against unconstrained writes: update and
	// delete refuse to run without at least one predicate column.
	ErrEmptyPredicate = errors.New("refusing statement with empty predicate")
)
