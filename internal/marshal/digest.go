package marshal

import (
	"encoding/binary"
	"time"

	"github.com/cespare/xxhash/v2"
)

// digest frames field values before feeding them to xxhash so that adjacent
// fields cannot run into each other.
type digest struct {
	h   *xxhash.Digest
	buf [binary.MaxVarintLen64]byte
}

func newDigest() *digest {
	return &digest{h: xxhash.New()}
}

func (d *digest) sum() uint64 {
	return d.h.Sum64()
}

func (d *digest) writeByte(b byte) {
	d.buf[0] = b
	_, _ = d.h.Write(d.buf[:1])
}

func (d *digest) writeBool(v bool) {
	if v {
		d.writeByte(1)
		return
	}
	d.writeByte(0)
}

func (d *digest) writeInt(v int64) {
	binary.LittleEndian.PutUint64(d.buf[:8], uint64(v))
	_, _ = d.h.Write(d.buf[:8])
}

func (d *digest) writeString(s string) {
	n := binary.PutUvarint(d.buf[:], uint64(len(s)))
	_, _ = d.h.Write(d.buf[:n])
	_, _ = d.h.WriteString(s)
}

// writeTime hashes the instant, ignoring location and monotonic reading.
func (d *digest) writeTime(t time.Time) {
	d.writeInt(t.Unix())
	d.writeInt(int64(t.Nanosecond()))
}
