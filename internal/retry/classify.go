package retry

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kind is the retry policy bucket for a classified error.
type Kind int

const (
	// KindRetryable marks transient conflicts that are safe to retry with backoff.
	KindRetryable Kind = iota
	// KindFatal marks non-recoverable errors; retrying cannot succeed.
	KindFatal
	// KindUnknown marks unrecognized errors, treated as non-retryable to fail safe.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindRetryable:
		return "retryable"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Classification is the result of classifying a raw store error.
type Classification struct {
	Kind   Kind
	Code   string // SQLSTATE, empty when the error carried none
	Detail string
}

// Retryable reports whether the error is safe to retry.
func (c Classification) Retryable() bool { return c.Kind == KindRetryable }

// Aurora DSQL reports optimistic concurrency conflicts with its own
// SQLSTATE class OC; plain Postgres raises 40001/40P01 for the same
// situation. Both mean the schema or row versions changed mid-transaction.
const (
	dsqlOCCConflict       = "OC000"
	dsqlOCCSchemaConflict = "OC001"
)

var retryableCodes = map[string]struct{}{
	pgerrcode.SerializationFailure:                    {},
	pgerrcode.DeadlockDetected:                        {},
	dsqlOCCConflict:                                   {},
	dsqlOCCSchemaConflict:                             {},
	pgerrcode.LockNotAvailable:                        {},
	pgerrcode.ConnectionException:                     {},
	pgerrcode.ConnectionDoesNotExist:                  {},
	pgerrcode.ConnectionFailure:                       {},
	pgerrcode.SQLClientUnableToEstablishSQLConnection: {},
	pgerrcode.CannotConnectNow:                        {},
	pgerrcode.TooManyConnections:                      {},
	pgerrcode.InsufficientResources:                   {},
	pgerrcode.DiskFull:                                {},
	pgerrcode.OutOfMemory:                             {},
	pgerrcode.AdminShutdown:                           {},
}

var fatalCodes = map[string]struct{}{
	pgerrcode.InsufficientPrivilege:             {},
	pgerrcode.SyntaxError:                       {},
	pgerrcode.UndefinedTable:                    {},
	pgerrcode.UndefinedColumn:                   {},
	pgerrcode.DatatypeMismatch:                  {},
	pgerrcode.NotNullViolation:                  {},
	pgerrcode.ForeignKeyViolation:               {},
	pgerrcode.UniqueViolation:                   {},
	pgerrcode.CheckViolation:                    {},
	pgerrcode.InvalidTextRepresentation:         {},
	pgerrcode.NumericValueOutOfRange:            {},
	pgerrcode.InvalidPassword:                   {},
	pgerrcode.InvalidAuthorizationSpecification: {},
}

// Classify maps a raw store error to a Classification. Matching is on the
// structured SQLSTATE carried by the driver error, never on message text.
// Errors that carry no SQLSTATE, or carry one outside the known maps, come
// back as KindUnknown.
func Classify(err error) Classification {
	if err == nil {
		return Classification{Kind: KindUnknown, Detail: "classify called without error"}
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return Classification{Kind: KindUnknown, Detail: err.Error()}
	}

	if _, ok := retryableCodes[pgErr.Code]; ok {
		return Classification{Kind: KindRetryable, Code: pgErr.Code, Detail: pgErr.Message}
	}
	if _, ok := fatalCodes[pgErr.Code]; ok {
		return Classification{Kind: KindFatal, Code: pgErr.Code, Detail: pgErr.Message}
	}
	return Classification{Kind: KindUnknown, Code: pgErr.Code, Detail: pgErr.Message}
}
