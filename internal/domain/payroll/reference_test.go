package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReference(t *testing.T) {
	month := ReferenceMonth(time.Date(2024, time.March, 31, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "202403", month)
	assert.Equal(t, "PAY-202403-0001", FormatReference(month, 1))
	assert.Equal(t, "PAY-202403-9999", FormatReference(month, 9999))
	assert.Equal(t, "PAY-202403-10000", FormatReference(month, 10000))
}

func TestParseReference(t *testing.T) {
	month, seq, err := ParseReference("PAY-202412-0042")
	require.NoError(t, err)
	assert.Equal(t, "202412", month)
	assert.Equal(t, int64(42), seq)

	for _, bad := range []string{"", "PAY-2024-0001", "PAY-202412-12", "REF-202412-0001"} {
		_, _, err := ParseReference(bad)
		assert.ErrorIs(t, err, ErrInvalidReference, bad)
	}
}

func TestFormatReference_SequencesNeverCollide(t *testing.T) {
	seen := make(map[string]bool)
	for seq := int64(1); seq <= 12000; seq++ {
		ref := FormatReference("202401", seq)
		assert.False(t, seen[ref], ref)
		seen[ref] = true
	}
}
