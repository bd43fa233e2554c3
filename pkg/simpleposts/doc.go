// Package simpleposts provides a reusable library for a post registry with a
// per-author donation ledger and content-addressed image attachments.
//
// It exposes a single Service interface that orchestrates post creation,
// listing, title search, deletion, and donation accounting. Image payloads
// supplied at creation time are resolved to stable content addresses by a
// pluggable blob store (IPFS-compatible HTTP API, S3, filesystem, memory);
// resolution failure never fails post creation. Registry implementations
// (memory, Postgres) and blob stores are provided under subpackages.
//
// Donation totals are unsigned 128-bit values (see Amount). Addition is
// checked: an overflow rejects the single donate operation and leaves the
// ledger unchanged. The ledger records accepted transfers only; the transfer
// itself is delegated to a FundsTransferrer collaborator.
package simpleposts
