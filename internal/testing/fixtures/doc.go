// Package fixtures provides test data factories for the OpenHeritage API.
//
// The fixtures package contains factory functions for creating test data
// with sensible defaults and optional customization.
//
// # Factory Pattern
//
// Create a factory with a database connection:
//
//	f := fixtures.New(testDB)
//
// # Creating Test Data
//
// Factory methods create domain records:
//
//	user := f.CreateProfile(t)                // Default enthusiast
//	admin := f.CreateAdmin(t)                 // Admin profile
//	site := f.CreateSite(t, creator)          // Heritage site entry
//	f.CreateLike(t, site, user)               // Like on the entry
//
// # Customization
//
// Use option functions for customization:
//
//	f.CreateProfile(t, func(o *ProfileOpts) { o.Role = model.RoleCreator })
//	f.CreateSite(t, creator, func(o *EntityOpts) { o.State = "Kerala" })
//
// # Random Data
//
// Unique identifiers are generated automatically:
//
//	user1 := f.CreateProfile(t) // user_abc123@test.local
//	user2 := f.CreateProfile(t) // user_def456@test.local
//
// # Cleanup
//
// Test data is cleaned up when the test database is closed.
package fixtures
