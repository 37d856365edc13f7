// Package encoding implements the primitive codec of the osu! binary
// formats.
//
// Every osu! file is a flat little-endian sequence of a small set of
// primitives: fixed-width integers, IEEE-754 floats, single-byte booleans,
// unsigned LEB128 integers and nullable strings. A nullable string is a
// marker byte (0x00 absent, 0x0B present) followed, when present, by a LEB128
// byte length and UTF-8 data.
//
// # Sources
//
// A Decoder reads from a Source. Two implementations are provided:
//
//   - Cursor decodes an in-memory byte slice without copying.
//   - StreamSource decodes any io.Reader through a buffer, optionally with a
//     known total size used to reject impossible lengths up front.
//
// Length-prefixed regions are read through Decoder.Section, which returns a
// decoder bounded to the region. For streams the bound is enforced by a
// SubReader; closing the section skips whatever the inner decoder left
// unread, so the parent stays aligned even when a record carries trailing
// data.
//
// # Encoding
//
// Encoder is the exact mirror of Decoder and writes into a pooled buffer:
//
//	enc := encoding.NewEncoder()
//	defer enc.Finish()
//
//	off := enc.BeginSection()
//	enc.WriteString(format.Text("Camellia"))
//	enc.WriteUint32(42)
//	if err := enc.EndSection(off); err != nil {
//	    return err
//	}
//	out := bytes.Clone(enc.Bytes())
//
// Every primitive round-trips exactly, including NaN payloads, infinities
// and uint64 values above math.MaxInt64.
package encoding
