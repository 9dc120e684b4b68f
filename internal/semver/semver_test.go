package semver

import "testing"

func TestSatisfies(t *testing.T) {
	c, err := ParseConstraint("^1.2.0")
	if err != nil {
		t.Fatalf("ParseConstraint failed: %v", err)
	}

	v, err := ParseVersion("1.2.0")
	if err != nil {
		t.Fatalf("ParseVersion failed: %v", err)
	}
	if !Satisfies(v, c) {
		t.Fatalf("expected 1.2.0 to satisfy ^1.2.0")
	}

	v, err = ParseVersion("1.9.9")
	if err != nil {
		t.Fatalf("ParseVersion failed: %v", err)
	}
	if !Satisfies(v, c) {
		t.Fatalf("expected 1.9.9 to satisfy ^1.2.0")
	}

	v, err = ParseVersion("2.0.0")
	if err != nil {
		t.Fatalf("ParseVersion failed: %v", err)
	}
	if Satisfies(v, c) {
		t.Fatalf("expected 2.0.0 to NOT satisfy ^1.2.0")
	}
}

func TestSatisfiesRejectsUnparsedZeroValues(t *testing.T) {
	if Satisfies(Version{}, Constraint{}) {
		t.Fatal("expected zero-value Version/Constraint to never satisfy")
	}
}

func TestParseConstraintRejectsMalformedInput(t *testing.T) {
	if _, err := ParseConstraint("not a constraint"); err == nil {
		t.Fatal("expected an error parsing a malformed constraint")
	}
}

func TestParseVersionRejectsMalformedInput(t *testing.T) {
	if _, err := ParseVersion("not a version"); err == nil {
		t.Fatal("expected an error parsing a malformed version")
	}
}
