package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Digest is a sha256 content key.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Mode selects which check a cached result belongs to.
type Mode uint8

const (
	ModeFull Mode = iota
	ModeParseOnly
)

func (m Mode) String() string {
	if m == ModeParseOnly {
		return "parse"
	}
	return "full"
}

// combineDigest: H(part1 || len || part2 || len ...). Длины не дают склеить соседние части.
func combineDigest(parts ...[]byte) Digest {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(n[:], uint64(len(p)))
		_, _ = h.Write(n[:])
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// ContentKey identifies the diagnostics of one file text under one mode.
func ContentKey(mode Mode, name, text string) Digest {
	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	return combineDigest(schema[:], []byte{byte(mode)}, []byte(name), []byte(text))
}
