package dues

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapterfin/chapterledger/internal/core/domain"
)

func TestDefaultScheduleCoversEveryType(t *testing.T) {
	schedule := Default()
	for _, mt := range []domain.MembershipType{
		domain.MembershipProbation,
		domain.MembershipFull,
		domain.MembershipHonorary,
		domain.MembershipSenator,
		domain.MembershipVisiting,
	} {
		_, ok := schedule.AmountFor(mt)
		assert.True(t, ok, "missing schedule entry for %s", mt)
	}

	senator, _ := schedule.AmountFor(domain.MembershipSenator)
	assert.True(t, senator.IsZero())
}

func writeSchedule(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dues.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeSchedule(t, "dues:\n  FULL: \"120.50\"\n")

	schedule, err := Load(path)
	require.NoError(t, err)

	full, ok := schedule.AmountFor(domain.MembershipFull)
	require.True(t, ok)
	assert.True(t, full.Equal(decimal.RequireFromString("120.50")))

	// Types absent from the file keep their compiled-in amounts.
	probation, ok := schedule.AmountFor(domain.MembershipProbation)
	require.True(t, ok)
	assert.True(t, probation.Equal(decimal.NewFromInt(50)))
}

func TestLoadRejectsNegativeAmount(t *testing.T) {
	path := writeSchedule(t, "dues:\n  FULL: \"-5\"\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnparsableAmount(t *testing.T) {
	path := writeSchedule(t, "dues:\n  FULL: \"lots\"\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
