package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found", detailsOK: true},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeDependentOperation, status: http.StatusInternalServerError, publicMsg: "dependent operation failed", retryable: true, detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("db exploded")
	err := Wrap(CodeDependentOperation, cause, "apply stock delta")

	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable via errors.Is")
	}
	if typed := As(err); typed == nil || typed.Code() != CodeDependentOperation {
		t.Fatalf("expected dependent-operation code, got %v", err)
	}
}

func TestDumpExtractsPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: PGUniqueViolation, ConstraintName: "categories_name_key", TableName: "categories"}
	err := Wrap(CodeConflict, pgErr, "insert category")

	d := Dump(err)
	if d.PGCode != PGUniqueViolation {
		t.Fatalf("expected pg code %s, got %q", PGUniqueViolation, d.PGCode)
	}
	if d.PGConstraint != "categories_name_key" {
		t.Fatalf("unexpected constraint %q", d.PGConstraint)
	}
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation detection")
	}
}

func TestIsUniqueViolationFalseForPlainErrors(t *testing.T) {
	if IsUniqueViolation(stdErrors.New("nope")) {
		t.Fatalf("plain error must not register as unique violation")
	}
	if IsUniqueViolation(nil) {
		t.Fatalf("nil must not register as unique violation")
	}
}
