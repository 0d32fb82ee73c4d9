package file

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ferrule-labs/quaero/internal/core/domain"
)

// On-disk layout, little-endian throughout:
//
//	magic "QIDX", version byte
//	uint32 dimension, uint32 entry count
//	per entry:
//	  dimension * float32 vector
//	  chunk ID, source ID, source title   (uint32-length-prefixed strings)
//	  source kind byte
//	  uint32 sequence index
//	  int64 created-at (UnixNano)
//	  chunk text                          (uint32-length-prefixed string)
var indexMagic = [4]byte{'Q', 'I', 'D', 'X'}

const formatVersion = 1

// maxStringLen bounds length prefixes when reading, so a corrupt file
// cannot trigger an enormous allocation.
const maxStringLen = 64 << 20

const (
	kindByteURL      = 1
	kindByteDocument = 2
)

func kindToByte(k domain.SourceKind) byte {
	switch k {
	case domain.SourceKindURL:
		return kindByteURL
	case domain.SourceKindDocument:
		return kindByteDocument
	default:
		return 0
	}
}

func byteToKind(b byte) (domain.SourceKind, error) {
	switch b {
	case kindByteURL:
		return domain.SourceKindURL, nil
	case kindByteDocument:
		return domain.SourceKindDocument, nil
	default:
		return "", fmt.Errorf("unknown source kind byte %d", b)
	}
}

// persistLocked writes the full index to <path>.tmp, syncs it and
// renames it over the live file. Caller must hold the write lock.
func (x *Index) persistLocked() error {
	tmp := x.path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if err := writeSnapshot(f, x.dims, x.entries); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, x.path); err != nil {
		os.Remove(tmp)
		return err
	}

	x.lastPersisted = time.Now()
	return nil
}

// load reads the persisted file into memory. os.IsNotExist errors mean
// a fresh index; any other error means the file is unusable.
func (x *Index) load() error {
	f, err := os.Open(x.path)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := readSnapshot(f, x.dims)
	if err != nil {
		return err
	}

	x.entries = entries
	return nil
}

func writeSnapshot(w io.Writer, dims int, entries []domain.IndexEntry) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write(indexMagic[:]); err != nil {
		return err
	}
	if err := bw.WriteByte(formatVersion); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(dims)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(entries))); err != nil {
		return err
	}

	for i := range entries {
		if err := writeEntry(bw, &entries[i]); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeEntry(bw *bufio.Writer, e *domain.IndexEntry) error {
	if err := binary.Write(bw, binary.LittleEndian, e.Vector); err != nil {
		return err
	}
	if err := writeString(bw, e.Chunk.ID); err != nil {
		return err
	}
	if err := writeString(bw, e.Chunk.Source.ID); err != nil {
		return err
	}
	if err := writeString(bw, e.Chunk.Source.Title); err != nil {
		return err
	}
	if err := bw.WriteByte(kindToByte(e.Chunk.Source.Kind)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(e.Chunk.Sequence)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, e.Chunk.CreatedAt.UnixNano()); err != nil {
		return err
	}
	return writeString(bw, e.Chunk.Text)
}

func readSnapshot(r io.Reader, dims int) ([]domain.IndexEntry, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if !bytes.Equal(magic[:], indexMagic[:]) {
		return nil, fmt.Errorf("not an index file (bad magic)")
	}

	version, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("unsupported index format version %d", version)
	}

	var fileDims, count uint32
	if err := binary.Read(br, binary.LittleEndian, &fileDims); err != nil {
		return nil, fmt.Errorf("reading dimension: %w", err)
	}
	if int(fileDims) != dims {
		return nil, fmt.Errorf("index file has dimension %d, expected %d", fileDims, dims)
	}
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("reading entry count: %w", err)
	}

	entries := make([]domain.IndexEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		entry, err := readEntry(br, dims)
		if err != nil {
			return nil, fmt.Errorf("reading entry %d: %w", i, err)
		}
		entries = append(entries, *entry)
	}

	return entries, nil
}

func readEntry(br *bufio.Reader, dims int) (*domain.IndexEntry, error) {
	vector := make([]float32, dims)
	if err := binary.Read(br, binary.LittleEndian, vector); err != nil {
		return nil, fmt.Errorf("vector: %w", err)
	}

	id, err := readString(br)
	if err != nil {
		return nil, fmt.Errorf("chunk ID: %w", err)
	}
	sourceID, err := readString(br)
	if err != nil {
		return nil, fmt.Errorf("source ID: %w", err)
	}
	title, err := readString(br)
	if err != nil {
		return nil, fmt.Errorf("source title: %w", err)
	}

	kindByte, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("source kind: %w", err)
	}
	kind, err := byteToKind(kindByte)
	if err != nil {
		return nil, err
	}

	var sequence uint32
	if err := binary.Read(br, binary.LittleEndian, &sequence); err != nil {
		return nil, fmt.Errorf("sequence: %w", err)
	}

	var createdAt int64
	if err := binary.Read(br, binary.LittleEndian, &createdAt); err != nil {
		return nil, fmt.Errorf("created at: %w", err)
	}

	text, err := readString(br)
	if err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}

	return &domain.IndexEntry{
		Chunk: domain.Chunk{
			ID:   id,
			Text: text,
			Source: domain.SourceRef{
				ID:    sourceID,
				Kind:  kind,
				Title: title,
			},
			Sequence:  int(sequence),
			CreatedAt: time.Unix(0, createdAt),
		},
		Vector: vector,
	}, nil
}

func writeString(bw *bufio.Writer, s string) error {
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := bw.WriteString(s)
	return err
}

func readString(br *bufio.Reader) (string, error) {
	var n uint32
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", fmt.Errorf("string length %d exceeds limit", n)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(br, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
