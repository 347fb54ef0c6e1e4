package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxmph/contact-form/internal/contacts"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "contacts.db")
	require.NoError(t, Initialize(path))

	database, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestOpen_MissingDatabase(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Contains(t, err.Error(), "contact-form init")
}

func TestInitialize_RefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.db")
	require.NoError(t, Initialize(path))
	assert.Error(t, Initialize(path))
}

func TestSlot_GetSet(t *testing.T) {
	database := newTestDB(t)

	_, ok, err := database.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, database.Set("k", "one"))
	require.NoError(t, database.Set("k", "two"))

	v, ok, err := database.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", v)

	slot, err := database.GetSlot("k")
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, "two", slot.Value)
	assert.False(t, slot.UpdatedAt.IsZero())

	missing, err := database.GetSlot("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStoreOverDB_RoundTrip(t *testing.T) {
	database := newTestDB(t)

	store, err := contacts.Load(database)
	require.NoError(t, err)
	_, err = store.Add(contacts.Contact{FirstName: "John", LastName: "Smith", Company: "Acme", City: "Springfield", State: "Illinois"})
	require.NoError(t, err)

	reloaded, err := contacts.Load(database)
	require.NoError(t, err)
	assert.Equal(t, store.List(), reloaded.List())
}

func TestMigrations_CreateSlotsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.db")
	conn, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = conn.Exec(`CREATE TABLE unrelated (id INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	database, err := Open(path)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.Set("k", "v"))
}

func TestMigrations_AssignIDsToLegacyRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.db")
	require.NoError(t, Initialize(path))

	database, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, database.Set(contacts.SlotKey,
		`[{"firstName":"John","lastName":"Smith","company":"Acme","city":"Springfield","state":"Illinois"}]`))
	require.NoError(t, database.Close())

	database, err = Open(path)
	require.NoError(t, err)
	defer database.Close()

	store, err := contacts.Load(database)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())
	c, _ := store.At(0)
	assert.NotEmpty(t, c.ID)
}

func TestCreateFixturesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.db")
	require.NoError(t, CreateFixturesDatabase(path))

	database, err := Open(path)
	require.NoError(t, err)
	defer database.Close()

	store, err := contacts.Load(database)
	require.NoError(t, err)
	assert.Equal(t, len(Fixtures), store.Len())
}
