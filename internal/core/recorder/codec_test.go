package recorder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
	"time"
)

func sampleLog() Log {
	return Log{
		{Kind: KindSync, Code: SynReportCode, Value: 0, Elapsed: 10 * time.Millisecond},
		{Kind: KindRelative, Code: RelXCode, Value: 5, Elapsed: 12 * time.Millisecond},
		{Kind: KindRelative, Code: RelYCode, Value: -3, Elapsed: 12 * time.Millisecond},
		{Kind: KindAbsolute, Code: AbsXCode, Value: 33020, Elapsed: 13*time.Millisecond + 417*time.Nanosecond},
		{Kind: KindOther, Code: LeftButtonCode, Value: 1, Elapsed: 2 * time.Second},
		{Kind: KindRelative, Code: RelXCode, Value: -2147483648, Elapsed: 0},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	log := sampleLog()

	decoded, err := Decode(Encode(log))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(decoded, log) {
		t.Fatalf("Decode(Encode(log)) = %#v, want %#v", decoded, log)
	}
}

func TestEncodeEmptyLog(t *testing.T) {
	data := Encode(nil)
	if len(data) != headerSize {
		t.Fatalf("len(Encode(nil)) = %d, want %d", len(data), headerSize)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("Decode() returned %d records, want 0", len(decoded))
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	first := Encode(sampleLog())
	second := Encode(sampleLog())
	if !bytes.Equal(first, second) {
		t.Fatalf("Encode() produced different output for equal logs")
	}
	if !bytes.HasPrefix(first, MagicHeader) {
		t.Fatalf("encoded log does not start with magic header")
	}
	if got := len(first); got != headerSize+len(sampleLog())*recordSize {
		t.Fatalf("len(Encode()) = %d", got)
	}
}

func TestEncodeRecordLayout(t *testing.T) {
	data := Encode(Log{{Kind: KindRelative, Code: RelYCode, Value: -3, Elapsed: 12 * time.Millisecond}})

	record := data[headerSize:]
	if record[0] != byte(KindRelative) {
		t.Fatalf("kind tag = %d, want %d", record[0], KindRelative)
	}
	if code := binary.LittleEndian.Uint16(record[1:3]); code != RelYCode {
		t.Fatalf("code = %d, want %d", code, RelYCode)
	}
	if value := int32(binary.LittleEndian.Uint32(record[3:7])); value != -3 {
		t.Fatalf("value = %d, want -3", value)
	}
	if elapsed := binary.LittleEndian.Uint64(record[7:15]); elapsed != uint64(12*time.Millisecond) {
		t.Fatalf("elapsed = %d, want %d", elapsed, uint64(12*time.Millisecond))
	}
}

func TestDecodeRejectsCorruptData(t *testing.T) {
	valid := Encode(sampleLog())

	badMagic := append([]byte(nil), valid...)
	badMagic[0] = 'X'

	badVersion := append([]byte(nil), valid...)
	badVersion[len(MagicHeader)] = formatVersion + 1

	badKind := append([]byte(nil), valid...)
	badKind[headerSize] = 0x7f

	badCount := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badCount[len(MagicHeader)+1:], 1000)

	negative := Encode(Log{{Kind: KindSync}})
	binary.LittleEndian.PutUint64(negative[headerSize+7:], ^uint64(0))

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "short header", data: valid[:headerSize-1]},
		{name: "bad magic", data: badMagic},
		{name: "bad version", data: badVersion},
		{name: "truncated mid-record", data: valid[:headerSize+recordSize+7]},
		{name: "trailing bytes", data: append(append([]byte(nil), valid...), 0x00)},
		{name: "invalid length prefix", data: badCount},
		{name: "unknown kind", data: badKind},
		{name: "negative elapsed", data: negative},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, err := Decode(tc.data)
			if !errors.Is(err, ErrCorruptData) {
				t.Fatalf("Decode() error = %v, want ErrCorruptData", err)
			}
			if log != nil {
				t.Fatalf("Decode() returned partial log with %d records", len(log))
			}
		})
	}
}
