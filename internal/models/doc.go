// Package models defines the core domain models for settleup.
//
// # Models
//
//   - Group: a fixed set of participants sharing expenses
//   - Participant: a member of a group, referenced by ID everywhere else
//   - Expense: one payment made by a participant on behalf of others,
//     optionally broken into SubItems with their own splits
//
// Money is always an int64 amount in the currency's minor unit (cents).
// Nothing in this package is derived: balances, reimbursements and lease
// projections are computed on demand by the calculator package.
//
// # Design Principles
//
//  1. **Records, not results**: models mirror what the store persists
//  2. **Avoid circular references**: use ID strings instead of pointers for relationships
//  3. **Legacy tolerance**: zero values (empty SettlementMode, nil LeaseOwnerID)
//     are meaningful and resolved by the helpers on Expense
package models
