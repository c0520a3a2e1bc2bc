// Package client talks to the ridehail auth API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     SendOtp, VerifyOtp and CompleteProfile.
//  2. A JSON-over-HTTP implementation (see HTTPClient) that attaches the
//     current access token and a request id to every call and maps
//     response statuses to sentinel errors.
//
// # Error Handling
//
// Every failure is a *Error whose Kind is one of ErrNetwork, ErrServer,
// ErrRateLimited, ErrDuplicateAccount, ErrInvalidCode, ErrExpiredSession or
// ErrValidation. Callers match kinds with errors.Is and read the server
// message or offending field with errors.As.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and timeouts.
package client
