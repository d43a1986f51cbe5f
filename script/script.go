// Package script runs byte-coded panel command scripts.
//
// A script table is a flat sequence of records terminated by a zero length byte:
//
//	length, delay, opcode, data...
//
// where length counts the opcode and its data bytes and delay is the number of milliseconds to wait
// after the record has been sent. Tables are decoded once into typed [Record] values; a decoded
// [Script] can have single data bytes patched by opcode before it runs.
package script

import (
	"fmt"
	"time"

	"github.com/BeatGlow/panel/internal/status"
)

// Commander sends a command byte with optional arguments.
type Commander interface {
	Command(byte, ...byte) error
}

// Record is a single command of a script.
type Record struct {
	// Op is the command opcode.
	Op byte

	// Data are the command arguments.
	Data []byte

	// Delay to wait after the command has been sent.
	Delay time.Duration
}

// Script is a decoded command script.
type Script struct {
	records []Record
	index   map[byte]int // first record for each opcode
}

// New builds a script from records.
func New(records ...Record) *Script {
	s := &Script{
		records: make([]Record, len(records)),
		index:   make(map[byte]int, len(records)),
	}
	for i, r := range records {
		s.records[i] = Record{
			Op:    r.Op,
			Data:  append([]byte(nil), r.Data...),
			Delay: r.Delay,
		}
		if _, seen := s.index[r.Op]; !seen {
			s.index[r.Op] = i
		}
	}
	return s
}

// Parse decodes a script table.
func Parse(table []byte) (*Script, error) {
	var records []Record
	for i := 0; ; {
		if i >= len(table) {
			return nil, fmt.Errorf("%w: script: missing terminator after %d records", status.ErrInvalidParam, len(records))
		}

		n := int(table[i])
		if n == 0 {
			break
		}
		if i+2+n > len(table) {
			return nil, fmt.Errorf("%w: script: record %d of length %d is truncated", status.ErrInvalidParam, len(records), n)
		}

		records = append(records, Record{
			Delay: time.Duration(table[i+1]) * time.Millisecond,
			Op:    table[i+2],
			Data:  table[i+3 : i+2+n],
		})
		i += 2 + n
	}
	return New(records...), nil
}

// MustParse is like [Parse] but panics on malformed tables.
func MustParse(table []byte) *Script {
	s, err := Parse(table)
	if err != nil {
		panic(err)
	}
	return s
}

// Len is the number of records.
func (s *Script) Len() int {
	return len(s.records)
}

// Records returns a copy of the records.
func (s *Script) Records() []Record {
	return New(s.records...).records
}

// Clone returns an independent copy that can be patched without affecting s.
func (s *Script) Clone() *Script {
	return New(s.records...)
}

// Patch overwrites the data byte at offset of the first record with opcode op.
//
// It reports whether a byte was written; a missing opcode or offset leaves the script unchanged.
func (s *Script) Patch(op byte, offset int, value byte) bool {
	i, ok := s.index[op]
	if !ok || offset < 0 || offset >= len(s.records[i].Data) {
		return false
	}
	s.records[i].Data[offset] = value
	return true
}

// Run sends every record in order, sleeping after records that carry a delay.
//
// The first failing send aborts the script. If sleep is nil, [time.Sleep] is used.
func (s *Script) Run(c Commander, sleep func(time.Duration)) error {
	if c == nil {
		return fmt.Errorf("%w: script: no connection", status.ErrInvalidParam)
	}
	if sleep == nil {
		sleep = time.Sleep
	}

	for _, r := range s.records {
		if err := c.Command(r.Op, r.Data...); err != nil {
			return fmt.Errorf("%w: script: command %#02x: %w", status.ErrTransport, r.Op, err)
		}
		if r.Delay > 0 {
			sleep(r.Delay)
		}
	}
	return nil
}

// Table limits of a single record.
const (
	MaxData  = 0xff - 1
	MaxDelay = 0xff * time.Millisecond
)

// Bytes encodes the script back into a terminated table.
//
// Records with more than MaxData arguments, or a delay that is not a whole number of milliseconds
// up to MaxDelay, can't be encoded.
func (s *Script) Bytes() ([]byte, error) {
	var table []byte
	for i, r := range s.records {
		if len(r.Data) > MaxData {
			return nil, fmt.Errorf("%w: script: record %d has %d arguments, at most %d fit", status.ErrInvalidParam, i, len(r.Data), MaxData)
		}
		if r.Delay < 0 || r.Delay > MaxDelay || r.Delay%time.Millisecond != 0 {
			return nil, fmt.Errorf("%w: script: record %d delay %s can't be encoded", status.ErrInvalidParam, i, r.Delay)
		}
		table = append(table, byte(1+len(r.Data)), byte(r.Delay/time.Millisecond), r.Op)
		table = append(table, r.Data...)
	}
	return append(table, 0), nil
}
