// Package endian provides the byte order engine used by the osudb codec.
//
// Every multi-byte value in osu!.db and collection.db is stored little-endian.
// The engine combines binary.ByteOrder and binary.AppendByteOrder so the same
// value can drive both the decoder (Uint32 on a slice) and the encoder
// (AppendUint32 onto a growing buffer):
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, 20160411)
//	version := engine.Uint32(buf[0:4])
//
// The returned engines are stateless and safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine used by the osu! formats.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine. The database formats
// never use it.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsLittleEndian reports whether engine writes the least significant byte first.
func IsLittleEndian(engine EndianEngine) bool {
	var b [2]byte
	engine.PutUint16(b[:], 0x0102)

	return b[0] == 0x02
}
