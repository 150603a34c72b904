// Package testutil provides seeded fixture generators shared by tests.
package testutil
