package registry

import "errors"

var (
	// ErrNotAttested means the document carries no attestation block.
	ErrNotAttested = errors.New("registry: document is not attested")
	// ErrAttestation means the attestation block is malformed or its
	// signature does not verify.
	ErrAttestation = errors.New("registry: attestation invalid")
	// ErrVerifyFailed means a signed payload did not verify against the
	// expected key. Never treat it as a soft failure.
	ErrVerifyFailed = errors.New("registry: payload verification failed")
)
