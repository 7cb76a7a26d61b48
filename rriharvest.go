// Package rriharvest incrementally harvests articles from the category tree
// of a news site and persists them so later runs resume where earlier runs
// stopped.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, yaml/).
package rriharvest
