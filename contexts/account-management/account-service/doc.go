// Package accountservice owns organizations and their children: memberships,
// affiliations, contacts, payment settings, and the invitation read model.
// Commands enforce lifecycle invariants and emit best-effort notifications on
// membership status and role changes.
package accountservice
