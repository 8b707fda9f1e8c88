package tests

import (
	"context"
	"testing"

	"github.com/openheritage/api/internal/model"
	"github.com/openheritage/api/internal/service"
	"github.com/openheritage/api/internal/testing/fixtures"
	"github.com/openheritage/api/internal/testing/helpers"
	"github.com/openheritage/api/internal/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
FEATURE: Heritage Catalog
DOMAIN: Catalog

ACCEPTANCE CRITERIA:
===================

AC-CATALOG-001: Create Entry
  GIVEN a creator profile
  WHEN they create a site entry
  THEN the entry is stored with server-assigned ID and creation time
  AND attributed to the creator

AC-CATALOG-002: List Entries by State
  GIVEN entries across multiple states
  WHEN listing with a state filter
  THEN only entries for that state are returned

AC-CATALOG-003: Get Entry
  GIVEN a stored entry
  WHEN it is fetched by ID
  THEN the full entry is returned
  AND unknown IDs yield a not-found error

AC-CATALOG-004: Delete Entry Ownership
  GIVEN an entry created by user A
  WHEN a user without owner, admin, or creator standing attempts to delete it
  THEN the request is refused
  AND the owner, any creator (content entries only), and admins may delete it

AC-CATALOG-005: Delete Cascades Interactions
  GIVEN an entry with likes and comments
  WHEN the entry is deleted
  THEN its likes and comments are removed as well
*/

func TestCatalog_CreateEntry(t *testing.T) {
	// AC-CATALOG-001: Create Entry
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	catalog := createCatalogService(t, tdb)
	ctx := context.Background()

	creator := f.CreateCreator(t)

	entry, err := catalog.Create(ctx, model.EntitySite, creator, &model.CreateEntityRequest{
		Name:        "  Konark Sun Temple  ",
		State:       "Odisha",
		Category:    "temple",
		Description: "13th century temple shaped as a colossal chariot",
	})
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "Konark Sun Temple", entry.Name, "name should be trimmed")
	assert.Equal(t, "Odisha", entry.State)
	assert.Equal(t, creator.ID, entry.CreatedBy)
	assert.False(t, entry.CreatedAt.IsZero(), "creation time is server-assigned")

	helpers.AssertRecordExists(t, tdb.DB, "sites", entry.ID)
}

func TestCatalog_CreateInvalidType(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	catalog := createCatalogService(t, tdb)
	ctx := context.Background()

	admin := f.CreateAdmin(t)

	_, err := catalog.Create(ctx, model.EntityType("festival"), admin, &model.CreateEntityRequest{Name: "Holi"})
	assert.ErrorIs(t, err, service.ErrInvalidEntryType)
}

func TestCatalog_ListEntriesByState(t *testing.T) {
	// AC-CATALOG-002: List Entries by State
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	catalog := createCatalogService(t, tdb)
	ctx := context.Background()

	creator := f.CreateCreator(t)

	f.CreateSite(t, creator, func(o *fixtures.EntityOpts) { o.State = "Kerala" })
	f.CreateSite(t, creator, func(o *fixtures.EntityOpts) { o.State = "Kerala" })
	f.CreateSite(t, creator, func(o *fixtures.EntityOpts) { o.State = "Goa" })

	keralaSites, err := catalog.List(ctx, model.EntitySite, "Kerala", 50, 0)
	require.NoError(t, err)
	assert.Len(t, keralaSites, 2)
	for _, e := range keralaSites {
		assert.Equal(t, "Kerala", e.State)
	}

	allSites, err := catalog.List(ctx, model.EntitySite, "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, allSites, 3)

	// Each entity type lists its own collection
	traditions, err := catalog.List(ctx, model.EntityTradition, "", 50, 0)
	require.NoError(t, err)
	assert.Empty(t, traditions)
}

func TestCatalog_GetEntry(t *testing.T) {
	// AC-CATALOG-003: Get Entry
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	catalog := createCatalogService(t, tdb)
	ctx := context.Background()

	creator := f.CreateCreator(t)
	tradition := f.CreateTradition(t, creator, func(o *fixtures.EntityOpts) {
		o.Name = "Kathakali"
		o.State = "Kerala"
	})

	fetched, err := catalog.Get(ctx, model.EntityTradition, tradition.ID)
	require.NoError(t, err)
	assert.Equal(t, tradition.ID, fetched.ID)
	assert.Equal(t, "Kathakali", fetched.Name)

	_, err = catalog.Get(ctx, model.EntityTradition, "traditions:missing")
	assert.ErrorIs(t, err, service.ErrEntryNotFound)
}

func TestCatalog_DeleteEntryOwnership(t *testing.T) {
	// AC-CATALOG-004: Delete Entry Ownership
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	catalog := createCatalogService(t, tdb)
	ctx := context.Background()

	owner := f.CreateCreator(t)
	curator := f.CreateCreator(t)
	enthusiast := f.CreateProfile(t)
	admin := f.CreateAdmin(t)

	first := f.CreateSite(t, owner)
	second := f.CreateSite(t, owner)
	third := f.CreateSite(t, owner)

	// An enthusiast cannot delete someone else's entry
	err := catalog.Delete(ctx, model.EntitySite, first.ID, enthusiast)
	assert.ErrorIs(t, err, service.ErrNotEntryOwner)
	helpers.AssertRecordExists(t, tdb.DB, "sites", first.ID)

	// The owner can
	require.NoError(t, catalog.Delete(ctx, model.EntitySite, first.ID, owner))
	helpers.AssertRecordNotExists(t, tdb.DB, "sites", first.ID)

	// So can an admin
	require.NoError(t, catalog.Delete(ctx, model.EntitySite, second.ID, admin))
	helpers.AssertRecordNotExists(t, tdb.DB, "sites", second.ID)

	// Content entries also accept any creator as curator
	require.NoError(t, catalog.Delete(ctx, model.EntitySite, third.ID, curator))
	helpers.AssertRecordNotExists(t, tdb.DB, "sites", third.ID)

	// Guide listings stay owner-or-admin
	guideListing := f.CreateGuide(t, admin)
	err = catalog.Delete(ctx, model.EntityGuide, guideListing.ID, curator)
	assert.ErrorIs(t, err, service.ErrNotEntryOwner)

	// Deleting a missing entry reports not found
	err = catalog.Delete(ctx, model.EntitySite, second.ID, admin)
	assert.ErrorIs(t, err, service.ErrEntryNotFound)
}

func TestCatalog_DeleteCascadesInteractions(t *testing.T) {
	// AC-CATALOG-005: Delete Cascades Interactions
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	catalog := createCatalogService(t, tdb)
	ctx := context.Background()

	creator := f.CreateCreator(t)
	fan := f.CreateProfile(t)

	site := f.CreateSite(t, creator)
	like := f.CreateLike(t, site, fan)
	comment := f.CreateComment(t, site, fan)

	require.NoError(t, catalog.Delete(ctx, model.EntitySite, site.ID, creator))

	helpers.AssertRecordNotExists(t, tdb.DB, "sites", site.ID)
	helpers.AssertRecordNotExists(t, tdb.DB, "likes", like.ID)
	helpers.AssertRecordNotExists(t, tdb.DB, "itemComments", comment.ID)
}
