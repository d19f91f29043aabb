package retry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code string) error {
	return &pgconn.PgError{Code: code, Message: "test"}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect Kind
	}{
		{"serialization failure", pgErr(pgerrcode.SerializationFailure), KindRetryable},
		{"deadlock", pgErr(pgerrcode.DeadlockDetected), KindRetryable},
		{"dsql occ conflict", pgErr("OC000"), KindRetryable},
		{"dsql schema conflict", pgErr("OC001"), KindRetryable},
		{"lock not available", pgErr(pgerrcode.LockNotAvailable), KindRetryable},
		{"connection failure", pgErr(pgerrcode.ConnectionFailure), KindRetryable},
		{"too many connections", pgErr(pgerrcode.TooManyConnections), KindRetryable},
		{"insufficient privilege", pgErr(pgerrcode.InsufficientPrivilege), KindFatal},
		{"syntax error", pgErr(pgerrcode.SyntaxError), KindFatal},
		{"undefined table", pgErr(pgerrcode.UndefinedTable), KindFatal},
		{"unique violation", pgErr(pgerrcode.UniqueViolation), KindFatal},
		{"not null violation", pgErr(pgerrcode.NotNullViolation), KindFatal},
		{"bad password", pgErr(pgerrcode.InvalidPassword), KindFatal},
		{"unmapped sqlstate", pgErr("P0001"), KindUnknown},
		{"plain error", errors.New("connection reset by peer"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got.Kind != tt.expect {
				t.Errorf("Classify(%v).Kind = %v, want %v", tt.err, got.Kind, tt.expect)
			}
		})
	}
}

func TestClassify_UnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("batch insert into public.orders: %w",
		pgErr(pgerrcode.SerializationFailure))

	got := Classify(wrapped)
	if got.Kind != KindRetryable {
		t.Errorf("Classify(wrapped).Kind = %v, want KindRetryable", got.Kind)
	}
	if got.Code != pgerrcode.SerializationFailure {
		t.Errorf("Classify(wrapped).Code = %q, want %q", got.Code, pgerrcode.SerializationFailure)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindRetryable, "retryable"},
		{KindFatal, "fatal"},
		{KindUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
