package cleaning

import "fmt"

// DuplicateKeyError reports rows sharing a natural key with an earlier row.
type DuplicateKeyError struct {
	Rows int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("key uniqueness violated: %d rows repeat the key of an earlier row", e.Rows)
}

// NullKeyError reports rows missing a key attribute, including flight dates that did not parse.
type NullKeyError struct {
	Rows int
}

func (e *NullKeyError) Error() string {
	return fmt.Sprintf("key completeness violated: %d rows have a null key attribute", e.Rows)
}

// DomainViolationError reports cancelled or diverted flags outside {0, 1}.
type DomainViolationError struct {
	Column string
	Rows   int
}

func (e *DomainViolationError) Error() string {
	return fmt.Sprintf("domain violated: %d rows have %s outside {0, 1}", e.Rows, e.Column)
}

// TypeViolationError reports attributes that were never coerced to their typed form.
type TypeViolationError struct {
	Column string
	Rows   int
}

func (e *TypeViolationError) Error() string {
	return fmt.Sprintf("type violated: %d rows still carry %s as text", e.Rows, e.Column)
}

// SentinelLeakError reports string attributes holding the literal "NaN".
type SentinelLeakError struct {
	Column string
	Rows   int
}

func (e *SentinelLeakError) Error() string {
	return fmt.Sprintf("sentinel leaked: %d rows have the literal \"NaN\" in %s", e.Rows, e.Column)
}
