// Package canonical implements the deterministic JSON value model that
// underlies payload signing and registration documents.
//
// The model is a closed sum over null, bool, number, string, array and
// string-keyed map. Two semantically equal values always encode to the same
// bytes: map keys are emitted sorted by the byte order of their UTF-8
// encoding, numbers have a single textual form, and strings use one fixed
// escaping. The encoded form is a signature pre-image and a content-address
// key, so Encode is pure: no I/O, no randomness, no iteration-order
// dependence.
//
// Normalize lifts host values (including binary data, big integers,
// timestamps and identity keys) into the model, rejecting cycles and any
// type without a defined mapping. Extended types become tagged objects,
// e.g. []byte -> {"$bytes":"<base64>","encoding":"base64"}, so binary data
// is never conflated with plain strings.
package canonical
