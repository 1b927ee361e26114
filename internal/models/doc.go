// Package models defines the core domain records for the Financify ledger
// engine and the typed result rows its queries return.
//
// # Domain records
//
//   - User: a registered owner of a ledger
//   - Account: a named bucket transactions attach to; every user gets a
//     lazily created "Default" account on first login
//   - Transaction: a single money movement, always with a positive amount;
//     direction is carried by Type, never by sign
//   - MonthlyBudget / CategoryBudget: per-period spending limits
//
// # Query results
//
// Aggregation queries return explicit structs (DashboardNumbers,
// CategoryBudgetRow, ComparisonRow, CategoryTotal) rather than loosely typed
// maps, so callers never do stringly-typed key lookups.
//
// # Design principles
//
//  1. Amounts are currency-agnostic positive decimals; zero and negative
//     amounts are rejected at the service boundary
//  2. Dates are calendar days with no time component, stored as "YYYY-MM-DD"
//  3. Categories are free-form labels, not managed entities; relationships
//     use IDs, never pointers, to avoid circular references
package models
