// Package keys manages the identities behind signed payloads and
// registration-document attestations.
//
// An asset identity is the base58 encoding of an Ed25519 public key; it is
// the value carried in a signed payload's "asset" field. The filesystem
// KeyStore is a local-first convenience: hex seeds under a directory, with
// deterministic role subkeys derived from a root seed.
//
// Attestation signing additionally supports Dilithium3 for
// registration-document attestations; the payload protocol itself is
// Ed25519 only.
package keys
