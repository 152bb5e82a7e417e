// Package accounts implements the account lifecycle engine behind the
// account-management service: registration, email confirmation through an
// external verification provider, login validation, and password reset.
//
// Account lifecycle:
//   - Accounts carry an AccountStatus field that is persisted via Bun.
//     They are created as pending_verification and become active only
//     after the verification provider confirms the emailed code.
//     TransitionStatus centralizes the transition graph and timestamps.
//   - Email uniqueness is enforced by the store's unique index; the
//     engine's existence pre-check is an optimization, not the guarantee.
//
// Delegation contracts:
//   - The credential store is the RepositoryManager (bun repositories over
//     accounts, roles, and password resets). The verification provider and
//     the outbound mail queue are injected as small interfaces, so the
//     engine stays stateless and safe for concurrent use.
//   - Registration commits before the verification send is attempted, so
//     a flaky provider never loses the account (commit-then-notify).
//
// Every operation returns a Result envelope with a stable status code;
// unexpected faults are recovered and converted, never propagated raw.
package accounts
