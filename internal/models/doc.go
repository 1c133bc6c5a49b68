// Package models defines the core domain models for SplitEase.
//
// # Models
//
//   - User: registered account; every user owns exactly one Wallet
//   - Group: a set of users sharing expenses, tagged with a Category
//   - LedgerEntry: an immutable record of money moved inside a group,
//     either an expense (one payer, explicit splits) or a payment
//     (a wallet settlement with a single split to the payee)
//   - Wallet: a standalone cash balance per user
//
// # Design Principles
//
// 1. **Decimal money**: every amount is a decimal.Decimal, never a float
// 2. **Derived balances**: net balances are recomputed from entries on every read and never stored
// 3. **Avoid circular references**: relationships use ID strings instead of pointers
// 4. **Unix milliseconds**: all CreatedAt/UpdatedAt fields are Unix milliseconds
package models
