// Package models defines the core domain models for splitbills.
//
// # Models
//
//   - Receipt: the canonical state of one bill-splitting session
//   - Item: a priced line on the receipt with its assigned people
//   - PersonSummary: derived per-person owed breakdown (never stored)
//   - ChatMessage: one entry in the session's assistant transcript
//
// Participants are identified by display name strings; there are no user
// accounts. Names are opaque and case-sensitive.
//
// # Design Principles
//
//  1. **One source of truth**: the Receipt is only ever replaced wholesale or
//     item-patched through the merge gate, never mutated in place by callers.
//  2. **Derived views are recomputed**: PersonSummary is produced fresh on
//     every read by the calculator package and never cached.
//  3. **No silent arithmetic**: Subtotal, Tax, Tip and Total are independent
//     fields written by the extraction service or an accepted proposal; they
//     are never resynced from the item list.
package models
