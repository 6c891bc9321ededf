package recorder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

// MagicHeader starts every encoded event log.
var MagicHeader = []byte("MOUSEDMP")

const (
	formatVersion uint8 = 1

	headerSize = 8 + 1 + 4
	// kind (1) + code (2) + value (4) + elapsed ns (8)
	recordSize = 1 + 2 + 4 + 8
)

// Encode serializes the log in order. The output is deterministic.
func Encode(log Log) []byte {
	buf := make([]byte, 0, headerSize+len(log)*recordSize)
	buf = append(buf, MagicHeader...)
	buf = append(buf, formatVersion)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(log)))
	for _, record := range log {
		buf = append(buf, byte(record.Kind))
		buf = binary.LittleEndian.AppendUint16(buf, record.Code)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(record.Value))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(record.Elapsed))
	}
	return buf
}

// Decode parses a buffer produced by Encode. Any malformed input yields an
// error wrapping ErrCorruptData and no records.
func Decode(data []byte) (Log, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: buffer too short for header (%d bytes)", ErrCorruptData, len(data))
	}
	if !bytes.Equal(data[:len(MagicHeader)], MagicHeader) {
		return nil, fmt.Errorf("%w: invalid header", ErrCorruptData)
	}
	offset := len(MagicHeader)
	if version := data[offset]; version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrCorruptData, version)
	}
	offset++

	count := binary.LittleEndian.Uint32(data[offset:])
	offset += 4

	body := data[offset:]
	if uint64(len(body)) != uint64(count)*recordSize {
		return nil, fmt.Errorf("%w: header declares %d records but body holds %d bytes", ErrCorruptData, count, len(body))
	}

	log := make(Log, 0, count)
	for i := 0; i < int(count); i++ {
		raw := body[i*recordSize : (i+1)*recordSize]
		kind := Kind(raw[0])
		if !kind.valid() {
			return nil, fmt.Errorf("%w: record %d has unknown kind tag %d", ErrCorruptData, i, raw[0])
		}
		elapsed := int64(binary.LittleEndian.Uint64(raw[7:15]))
		if elapsed < 0 {
			return nil, fmt.Errorf("%w: record %d has negative elapsed time", ErrCorruptData, i)
		}
		log = append(log, Record{
			Kind:    kind,
			Code:    binary.LittleEndian.Uint16(raw[1:3]),
			Value:   int32(binary.LittleEndian.Uint32(raw[3:7])),
			Elapsed: time.Duration(elapsed),
		})
	}
	return log, nil
}
