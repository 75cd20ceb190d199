package mapio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Atom ids are four ASCII characters packed big-end first, so 'MAPi' reads
// as the integer 0x4D415069.
const (
	MainMapID    uint32 = 'M'<<24 | 'A'<<16 | 'P'<<8 | 'i'
	VertexDataID uint32 = 'V'<<24 | 'e'<<16 | 'r'<<8 | '1'
	EdgeDataID   uint32 = 'E'<<24 | 'd'<<16 | 'g'<<8 | '1'
	FaceDataID   uint32 = 'F'<<24 | 'a'<<16 | 'c'<<8 | '1'
	TokenTableID uint32 = 'T'<<24 | 'o'<<16 | 'k'<<8 | '1'
)

// atomHeaderSize is the id and length prefix of every atom. The length
// includes the header.
const atomHeaderSize = 8

// AtomName renders an atom id as its four characters when they are
// printable, otherwise as hex.
func AtomName(id uint32) string {
	b := []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("0x%08x", id)
		}
	}
	return string(b)
}

// Atom is one chunk of a container: an id and its contents without the
// header.
type Atom struct {
	ID   uint32
	Data []byte
}

// Container is a sequence of sibling atoms.
type Container []Atom

// ParseContainer splits data into atoms. The atoms alias data.
func ParseContainer(data []byte) (Container, error) {
	var out Container
	off := 0
	for off < len(data) {
		if len(data)-off < atomHeaderSize {
			return nil, &ErrTruncatedAtom{Offset: off, Need: atomHeaderSize - (len(data) - off)}
		}
		id := binary.LittleEndian.Uint32(data[off:])
		length := int(binary.LittleEndian.Uint32(data[off+4:]))
		if length < atomHeaderSize {
			return nil, &ErrTruncatedAtom{ID: id, Offset: off, Need: atomHeaderSize - length}
		}
		if length > len(data)-off {
			return nil, &ErrTruncatedAtom{ID: id, Offset: off, Need: length - (len(data) - off)}
		}
		out = append(out, Atom{ID: id, Data: data[off+atomHeaderSize : off+length]})
		off += length
	}
	return out, nil
}

// Nth returns the n-th atom with the given id.
func (c Container) Nth(id uint32, n int) (Atom, bool) {
	for _, a := range c {
		if a.ID != id {
			continue
		}
		if n == 0 {
			return a, true
		}
		n--
	}
	return Atom{}, false
}

// Contents parses the atom's data as a nested container.
func (a Atom) Contents() (Container, error) {
	return ParseContainer(a.Data)
}

// appendAtom appends a complete atom to dst.
func appendAtom(dst []byte, id uint32, body []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, id)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(body)+atomHeaderSize))
	return append(dst, body...)
}

// writer accumulates little-endian values.
type writer struct {
	buf []byte
}

func (w *writer) int(v int) { w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(int32(v))) }

func (w *writer) int32(v int32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v)) }

func (w *writer) double(v float64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(v))
}

func (w *writer) byte(v byte) { w.buf = append(w.buf, v) }

func (w *writer) bool(v bool) {
	if v {
		w.int(1)
	} else {
		w.int(0)
	}
}

func (w *writer) bytes(b []byte) {
	w.int(len(b))
	w.buf = append(w.buf, b...)
}

// reader consumes little-endian values from one atom. The first short read
// sticks: later reads return zero values and err reports where it happened.
type reader struct {
	id  uint32
	buf []byte
	off int
	err error
}

func newReader(a Atom) *reader { return &reader{id: a.ID, buf: a.Data} }

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.buf)-r.off < n {
		r.err = &ErrTruncatedAtom{ID: r.id, Offset: r.off, Need: n - (len(r.buf) - r.off)}
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) int32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

func (r *reader) int() int { return int(r.int32()) }

func (r *reader) double() float64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func (r *reader) byte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) bool() bool { return r.int32() != 0 }

// count reads a length prefix and checks it against the bytes left, given
// the smallest encoded size of one element.
func (r *reader) count(minSize int) int {
	n := r.int()
	if r.err != nil {
		return 0
	}
	if n < 0 || (minSize > 0 && n > (len(r.buf)-r.off)/minSize) {
		r.err = &ErrTruncatedAtom{ID: r.id, Offset: r.off, Need: n * minSize}
		return 0
	}
	return n
}

func (r *reader) bytes() []byte {
	n := r.count(1)
	return r.take(n)
}
