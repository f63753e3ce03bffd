package payroll

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var referencePattern = regexp.MustCompile(`^PAY-(\d{6})-(\d{4,})$`)

// ReferenceMonth is the YYYYMM bucket a run created at t draws its sequence from.
func ReferenceMonth(t time.Time) string {
	return t.UTC().Format("200601")
}

// FormatReference renders PAY-YYYYMM-NNNN. Sequences above 9999 widen.
func FormatReference(month string, seq int64) string {
	return fmt.Sprintf("PAY-%s-%04d", month, seq)
}

func ParseReference(ref string) (month string, seq int64, err error) {
	m := referencePattern.FindStringSubmatch(ref)
	if m == nil {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}
	seq, err = strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}
	return m[1], seq, nil
}
