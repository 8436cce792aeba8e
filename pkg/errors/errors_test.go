package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("row not found")
	err := Wrap(CodeNotFound, cause, "load product")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause in chain")
	}
	if err.Code() != CodeNotFound {
		t.Fatalf("unexpected code: %s", err.Code())
	}
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	t.Parallel()

	inner := New(CodeNoBandAssignment, "no band assignment for genuine")
	outer := fmt.Errorf("resolve price: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeNoBandAssignment {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
}

func TestHasCode(t *testing.T) {
	t.Parallel()

	err := New(CodeEmptyCart, "cart has no items")
	if !HasCode(err, CodeEmptyCart) {
		t.Fatal("expected HasCode to match")
	}
	if HasCode(err, CodeNotFound) {
		t.Fatal("expected HasCode to reject mismatched code")
	}
	if HasCode(nil, CodeEmptyCart) {
		t.Fatal("expected HasCode to reject nil error")
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", meta.HTTPStatus)
	}
}

func TestDomainCodesMapToClientStatuses(t *testing.T) {
	t.Parallel()

	cases := map[Code]int{
		CodeEntitlementDenied: http.StatusForbidden,
		CodeNoBandAssignment:  http.StatusUnprocessableEntity,
		CodeNoPriceForBand:    http.StatusUnprocessableEntity,
		CodeEmptyCart:         http.StatusUnprocessableEntity,
		CodeInactiveResource:  http.StatusUnprocessableEntity,
		CodeNotFound:          http.StatusNotFound,
	}
	for code, status := range cases {
		if got := MetadataFor(code).HTTPStatus; got != status {
			t.Fatalf("code %s: expected status %d, got %d", code, status, got)
		}
	}
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeDependency, stdErrors.New("dial tcp"), "query band prices")
	dump := Dump(err)

	if dump.Code != CodeDependency {
		t.Fatalf("unexpected code: %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(dump.Chain))
	}
}
