package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visacrm/internal/config"
	"visacrm/internal/db"
)

const seedYAML = `
branches:
  - code: LON
    name: London HQ
    country: United Kingdom
    is_hq: true
  - code: LHR
    name: Lahore
    country: Pakistan
    currency: PKR
    timezone: Asia/Karachi
    opening_time: "10:00"
    closing_time: "19:00"

users:
  - email: admin@example.com
    first_name: Sana
    last_name: Malik
    role: SUPER_ADMIN
  - email: counselor@example.com
    first_name: Ayesha
    last_name: Khan
    role: COUNSELOR
    branch_code: LHR
`

func newTestApp(t *testing.T) *App {
	t.Helper()
	writeDB, readDB := db.OpenTestSQLite(t)
	cfg := &config.Config{LeadRetentionDays: 730, StudentRetentionDays: 2555}
	return New(Deps{Cfg: cfg, WriteDB: writeDB, ReadDB: readDB, Logger: slog.Default()})
}

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSeed_CreatesBranchesAndUsers(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, a, writeSeedFile(t, seedYAML)))

	hq, err := a.Branches.GetByCode(ctx, "LON")
	require.NoError(t, err)
	assert.True(t, hq.IsHQ)
	assert.Equal(t, "GBP", hq.Currency)
	assert.Equal(t, "09:00", hq.OpeningTime)

	lhr, err := a.Branches.GetByCode(ctx, "LHR")
	require.NoError(t, err)
	assert.Equal(t, "PKR", lhr.Currency)
	assert.Equal(t, "Asia/Karachi", lhr.Timezone)
	assert.Equal(t, "10:00", lhr.OpeningTime)

	counselor, err := a.Users.GetByEmail(ctx, "counselor@example.com")
	require.NoError(t, err)
	require.NotNil(t, counselor.BranchID)
	assert.Equal(t, lhr.ID, *counselor.BranchID)
	assert.True(t, counselor.IsActive)

	admin, err := a.Users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Nil(t, admin.BranchID)
}

func TestSeed_SecondRunIsNoOp(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	path := writeSeedFile(t, seedYAML)

	require.NoError(t, Seed(ctx, a, path))
	require.NoError(t, Seed(ctx, a, path))

	lhrBefore, err := a.Branches.GetByCode(ctx, "LHR")
	require.NoError(t, err)
	assert.Equal(t, "Lahore", lhrBefore.Name)
}

func TestSeed_UnknownRoleRejected(t *testing.T) {
	a := newTestApp(t)
	err := Seed(context.Background(), a, writeSeedFile(t, `
users:
  - email: x@example.com
    role: WIZARD
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

func TestSeed_MissingFileFails(t *testing.T) {
	a := newTestApp(t)
	assert.Error(t, Seed(context.Background(), a, filepath.Join(t.TempDir(), "nope.yaml")))
}
