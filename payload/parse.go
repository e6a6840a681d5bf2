package payload

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/sol-surfer-ai/agent-core/canonical"
)

type wirePayload struct {
	V        *json.Number    `json:"v"`
	Alg      *string         `json:"alg"`
	Asset    *string         `json:"asset"`
	Nonce    *string         `json:"nonce"`
	IssuedAt *json.Number    `json:"issuedAt"`
	Data     json.RawMessage `json:"data"`
	Sig      *string         `json:"sig"`
}

// Parse performs structural validation of a wire payload: field presence and
// types, and the fixed v/alg literals. It does NOT verify the signature;
// callers must invoke Verify separately. The separation lets a caller
// distinguish "malformed" from "unsigned or unauthentic".
//
// Unknown fields are rejected: the signature covers only the defined fields,
// so extra fields would ride along unauthenticated.
func Parse(input []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()
	dec.DisallowUnknownFields()

	var w wirePayload
	if err := dec.Decode(&w); err != nil {
		return Payload{}, wrapError(KindParse, "SP1-PARSE-001", "payload is not a JSON object", err)
	}
	if dec.More() {
		return Payload{}, newError(KindParse, "SP1-PARSE-002", "trailing content after payload")
	}

	if w.V == nil {
		return Payload{}, newError(KindParse, "SP1-PARSE-010", "missing v")
	}
	v, err := strconv.Atoi(w.V.String())
	if err != nil || v != Version {
		return Payload{}, newError(KindParse, "SP1-PARSE-011", "unsupported payload version")
	}

	if w.Alg == nil {
		return Payload{}, newError(KindParse, "SP1-PARSE-020", "missing alg")
	}
	if *w.Alg != Alg {
		return Payload{}, newError(KindParse, "SP1-PARSE-021", "unsupported signature algorithm")
	}

	if w.Asset == nil || *w.Asset == "" {
		return Payload{}, newError(KindParse, "SP1-PARSE-030", "missing asset")
	}
	if w.Nonce == nil || *w.Nonce == "" {
		return Payload{}, newError(KindParse, "SP1-PARSE-040", "missing nonce")
	}
	if w.Sig == nil || *w.Sig == "" {
		return Payload{}, newError(KindParse, "SP1-PARSE-050", "missing sig")
	}
	if len(w.Data) == 0 {
		return Payload{}, newError(KindParse, "SP1-PARSE-060", "missing data")
	}

	var issuedAt int64
	if w.IssuedAt != nil {
		issuedAt, err = strconv.ParseInt(w.IssuedAt.String(), 10, 64)
		if err != nil {
			return Payload{}, newError(KindParse, "SP1-PARSE-070", "issuedAt must be an integer")
		}
	}

	data, err := canonical.DecodeJSON(w.Data)
	if err != nil {
		return Payload{}, wrapError(KindParse, "SP1-PARSE-061", "invalid data value", err)
	}

	return Payload{
		V:        v,
		Alg:      *w.Alg,
		Asset:    *w.Asset,
		Nonce:    *w.Nonce,
		IssuedAt: issuedAt,
		Data:     data,
		Sig:      *w.Sig,
	}, nil
}
