package source

// FileFlags encodes metadata about a loaded source file.
type FileFlags uint8 // метаданные

const (
	// FileVirtual indicates the file was added from memory (test, stdin, repl).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска
	FileHadBOM
	FileNormalizedCRLF
)

// File captures a source file read by the driver before it becomes a query input.
type File struct {
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags
}

// LineColumn represents a human-readable position in a source file.
type LineColumn struct {
	Line   uint32 // 1-based
	Column uint32 // 1-based, in bytes
}
