// Package checkpoint implements §6.5: serializing a suspended
// jerr.Continuation (and the packed primitive fields of an Instance
// under checkpoint/restore) to a compact binary wire format, plus an
// optional durable Store keyed by a checkpoint id.
//
// Grounded on funvibe-funxy's own funbit dependency (vendored at
// _examples/mcgru-funxy/funbit, pkg/funbit's public Builder/Matcher
// API): every packed primitive (the Continuation's ResumeLocationID and
// its saved Longs slots) is written with funbit.AddInteger/WithSize the
// same way the teacher's bit-syntax examples pack fixed-width fields,
// and read back with funbit.Integer/funbit.Match. Object-typed saved
// slots fall back to internal/rtvalue's JSON codec, appended as a
// length-prefixed binary blob (funbit.AddBinary) since they have no
// fixed bit width.
package checkpoint

import (
	"encoding/json"
	"fmt"

	"github.com/funvibe/funbit/pkg/funbit"
	"github.com/jactl-lang/jactl/internal/jerr"
	"github.com/jactl-lang/jactl/internal/rtvalue"
)

// Method names the classgen-synthesized checkpoint/restore Chunks call
// through OP_CALL_METHOD (§4.E).
const (
	MethodCheckpoint = "__checkpoint"
	MethodRestore    = "__restore"
)

// Encode packs a Continuation into the wire format: a 32-bit resume
// location id, a 16-bit count of saved longs, each long as 64 bits, a
// 16-bit count of saved objects, then each object as a 32-bit
// length-prefixed JSON blob.
func Encode(cont *jerr.Continuation) ([]byte, error) {
	b := funbit.NewBuilder()
	funbit.AddInteger(b, cont.ResumeLocationID, funbit.WithSize(32))
	funbit.AddInteger(b, len(cont.Longs), funbit.WithSize(16))
	for _, l := range cont.Longs {
		funbit.AddInteger(b, l, funbit.WithSize(64))
	}

	blobs := make([][]byte, len(cont.Objects))
	for i, obj := range cont.Objects {
		v, ok := obj.(rtvalue.Value)
		if !ok {
			return nil, fmt.Errorf("checkpoint.Encode: saved object %d is not an rtvalue.Value", i)
		}
		blob, err := rtvalue.MarshalJSON(v)
		if err != nil {
			return nil, fmt.Errorf("checkpoint.Encode: saved object %d: %w", i, err)
		}
		blobs[i] = blob
	}
	funbit.AddInteger(b, len(blobs), funbit.WithSize(16))
	for _, blob := range blobs {
		funbit.AddInteger(b, len(blob), funbit.WithSize(32))
		funbit.AddBinary(b, blob)
	}

	bits, err := funbit.Build(b)
	if err != nil {
		return nil, fmt.Errorf("checkpoint.Encode: %w", err)
	}
	return bits.ToBytes(), nil
}

// Decode unpacks the wire format Encode produces back into a
// Continuation with Parent/ResumeHandle left nil — the caller
// (internal/classloader's Resume) re-links those once it knows which
// Chunk the id refers to.
//
// Each section's length is only known after the previous section has
// been matched (a variable count of longs, then a variable count of
// length-prefixed blobs), so Decode chains one Matcher per section via
// RestBitstring rather than describing the whole wire format as a
// single fixed Matcher plan.
func Decode(data []byte) (*jerr.Continuation, error) {
	rest := funbit.NewBitStringFromBytes(data)

	var resumeID, numLongs int
	m := funbit.NewMatcher()
	funbit.Integer(m, &resumeID, funbit.WithSize(32))
	funbit.Integer(m, &numLongs, funbit.WithSize(16))
	funbit.RestBitstring(m, &rest)
	if _, err := funbit.Match(m, rest); err != nil {
		return nil, fmt.Errorf("checkpoint.Decode: header: %w", err)
	}

	longs := make([]int64, numLongs)
	for i := range longs {
		m := funbit.NewMatcher()
		funbit.Integer(m, &longs[i], funbit.WithSize(64))
		funbit.RestBitstring(m, &rest)
		if _, err := funbit.Match(m, rest); err != nil {
			return nil, fmt.Errorf("checkpoint.Decode: long %d: %w", i, err)
		}
	}

	var numObjects int
	m = funbit.NewMatcher()
	funbit.Integer(m, &numObjects, funbit.WithSize(16))
	funbit.RestBitstring(m, &rest)
	if _, err := funbit.Match(m, rest); err != nil {
		return nil, fmt.Errorf("checkpoint.Decode: object count: %w", err)
	}

	objects := make([]interface{}, numObjects)
	for i := range objects {
		var blobLen int
		var blob []byte
		m := funbit.NewMatcher()
		funbit.Integer(m, &blobLen, funbit.WithSize(32))
		funbit.RestBitstring(m, &rest)
		if _, err := funbit.Match(m, rest); err != nil {
			return nil, fmt.Errorf("checkpoint.Decode: object %d length: %w", i, err)
		}
		m = funbit.NewMatcher()
		funbit.Binary(m, &blob, funbit.WithSize(uint(blobLen)))
		funbit.RestBitstring(m, &rest)
		if _, err := funbit.Match(m, rest); err != nil {
			return nil, fmt.Errorf("checkpoint.Decode: object %d: %w", i, err)
		}
		var tree interface{}
		if err := json.Unmarshal(blob, &tree); err != nil {
			return nil, fmt.Errorf("checkpoint.Decode: object %d json: %w", i, err)
		}
		objects[i] = rtvalue.FromJSON(tree)
	}

	return &jerr.Continuation{ResumeLocationID: resumeID, Longs: longs, Objects: objects}, nil
}
