// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package base64le implements little-endian base64 encoding and decoding,
// the bit-packing order used by crypt(3)'s h64 alphabet (least-significant
// 6 bits of each byte group first, instead of encoding/base64's
// most-significant-first order).
package base64le

import (
	"io"
	"strconv"
)

// CorruptInputError reports the byte offset of an illegal character
// found while decoding.
type CorruptInputError int64

func (e CorruptInputError) Error() string {
	return "illegal base64 data at input byte " + strconv.FormatInt(int64(e), 10)
}

// StdPadding and NoPadding mirror encoding/base64's padding constants.
const (
	StdPadding rune = '='
	NoPadding  rune = -1
)

// Encoding is a little-endian base64 encoding/decoding scheme defined by a
// 64-character alphabet.
type Encoding struct {
	encode    [64]byte
	decodeMap [256]byte
	padChar   rune
	strict    bool
}

// NewEncoding returns a new Encoding defined by the given alphabet, which
// must be a 64-byte string not containing the padding character or newlines.
func NewEncoding(encoder string) *Encoding {
	if len(encoder) != 64 {
		panic("base64le: encoding alphabet is not 64 bytes long")
	}
	e := &Encoding{padChar: StdPadding}
	copy(e.encode[:], encoder)
	for i := range e.decodeMap {
		e.decodeMap[i] = 0xFF
	}
	for i := 0; i < len(encoder); i++ {
		e.decodeMap[encoder[i]] = byte(i)
	}
	return e
}

// WithPadding creates a new encoding identical to enc except
// with a specified padding character, or NoPadding to disable padding.
func (enc Encoding) WithPadding(padding rune) *Encoding {
	if padding == '\r' || padding == '\n' || padding > 0xFF {
		panic("base64le: invalid padding")
	}
	enc.padChar = padding
	return &enc
}

// Strict creates a new encoding identical to enc except with
// strict decoding enabled: trailing bits left over from a final
// partial byte group must be zero.
func (enc Encoding) Strict() *Encoding {
	enc.strict = true
	return &enc
}

// EncodedLen returns the length in bytes of the base64 encoding of an
// input buffer of length n.
func (enc *Encoding) EncodedLen(n int) int {
	if enc.padChar == NoPadding {
		return (n*8 + 5) / 6
	}
	return (n + 2) / 3 * 4
}

// DecodedLen returns the maximum length in bytes of the decoded data
// corresponding to n bytes of base64-encoded data.
func (enc *Encoding) DecodedLen(n int) int {
	if enc.padChar == NoPadding {
		return n * 6 / 8
	}
	return n / 4 * 3
}

// Encode encodes src using enc, writing EncodedLen(len(src)) bytes to dst.
func (enc *Encoding) Encode(dst, src []byte) {
	for len(src) >= 3 {
		enc.encodeQuantum(dst, src[0], src[1], src[2], 4)
		src = src[3:]
		dst = dst[4:]
	}
	switch len(src) {
	case 2:
		enc.encodeQuantum(dst, src[0], src[1], 0, 3)
	case 1:
		enc.encodeQuantum(dst, src[0], 0, 0, 2)
	}
}

func (enc *Encoding) encodeQuantum(dst []byte, b0, b1, b2 byte, n int) {
	val := uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16
	var out [4]byte
	out[0] = enc.encode[val&0x3F]
	out[1] = enc.encode[(val>>6)&0x3F]
	out[2] = enc.encode[(val>>12)&0x3F]
	out[3] = enc.encode[(val>>18)&0x3F]
	copy(dst, out[:n])
	if enc.padChar != NoPadding {
		for i := n; i < 4; i++ {
			dst[i] = byte(enc.padChar)
		}
	}
}

// EncodeToString returns the base64 encoding of src.
func (enc *Encoding) EncodeToString(src []byte) string {
	buf := make([]byte, enc.EncodedLen(len(src)))
	enc.Encode(buf, src)
	return string(buf)
}

func isNewline(b byte) bool { return b == '\r' || b == '\n' }

// clean returns src with any newlines removed.
func (enc *Encoding) clean(src []byte) []byte {
	hasNL := false
	for _, b := range src {
		if isNewline(b) {
			hasNL = true
			break
		}
	}
	if !hasNL {
		return src
	}
	out := make([]byte, 0, len(src))
	for _, b := range src {
		if !isNewline(b) {
			out = append(out, b)
		}
	}
	return out
}

// Decode decodes src using enc. It writes at most DecodedLen(len(src))
// bytes to dst and returns the number of bytes written.
func (enc *Encoding) Decode(dst, src []byte) (n int, err error) {
	src = enc.clean(src)
	padLen := 0
	if enc.padChar != NoPadding {
		for len(src) > 0 && rune(src[len(src)-1]) == enc.padChar && padLen < 2 {
			src = src[:len(src)-1]
			padLen++
		}
	}
	si := 0
	for len(src) > 0 {
		var quantum [4]byte
		qn := 0
		for qn < 4 && len(src) > 0 {
			c := src[0]
			v := enc.decodeMap[c]
			if v == 0xFF {
				return n, CorruptInputError(si)
			}
			quantum[qn] = v
			qn++
			si++
			src = src[1:]
		}
		if qn == 1 {
			return n, CorruptInputError(si - 1)
		}
		val := uint32(quantum[0]) | uint32(quantum[1])<<6 | uint32(quantum[2])<<12 | uint32(quantum[3])<<18
		switch qn {
		case 4:
			dst[n] = byte(val)
			dst[n+1] = byte(val >> 8)
			dst[n+2] = byte(val >> 16)
			n += 3
		case 3:
			if enc.strict && val>>16 != 0 {
				return n, CorruptInputError(si - 1)
			}
			dst[n] = byte(val)
			dst[n+1] = byte(val >> 8)
			n += 2
		case 2:
			if enc.strict && val>>8 != 0 {
				return n, CorruptInputError(si - 1)
			}
			dst[n] = byte(val)
			n++
		}
	}
	return n, nil
}

// DecodeString returns the bytes represented by the base64 string s.
func (enc *Encoding) DecodeString(s string) ([]byte, error) {
	dbuf := make([]byte, enc.DecodedLen(len(s)))
	n, err := enc.Decode(dbuf, []byte(s))
	return dbuf[:n], err
}

type encoder struct {
	err  error
	enc  *Encoding
	w    io.Writer
	buf  [3]byte
	nbuf int
	out  [1024]byte
}

func (e *encoder) Write(p []byte) (n int, err error) {
	if e.err != nil {
		return 0, e.err
	}
	if e.nbuf > 0 {
		var i int
		for i = 0; i < len(p) && e.nbuf < 3; i++ {
			e.buf[e.nbuf] = p[i]
			e.nbuf++
		}
		n += i
		p = p[i:]
		if e.nbuf < 3 {
			return n, nil
		}
		e.enc.Encode(e.out[:4], e.buf[:])
		if _, e.err = e.w.Write(e.out[:4]); e.err != nil {
			return n, e.err
		}
		e.nbuf = 0
	}
	for len(p) >= 3 {
		nn := len(e.out) / 4 * 3
		if nn > len(p) {
			nn = len(p) - len(p)%3
		}
		enc := e.enc.EncodedLen(nn)
		e.enc.Encode(e.out[:enc], p[:nn])
		if _, e.err = e.w.Write(e.out[:enc]); e.err != nil {
			return n, e.err
		}
		n += nn
		p = p[nn:]
	}
	for i := 0; i < len(p); i++ {
		e.buf[i] = p[i]
	}
	e.nbuf = len(p)
	n += len(p)
	return n, nil
}

func (e *encoder) Close() error {
	if e.err == nil && e.nbuf > 0 {
		enc := e.enc.EncodedLen(e.nbuf)
		e.enc.Encode(e.out[:enc], e.buf[:e.nbuf])
		_, e.err = e.w.Write(e.out[:enc])
		e.nbuf = 0
	}
	return e.err
}

// NewEncoder returns a new base64 stream encoder. Data written to
// the returned writer is encoded using enc and then written to w.
// The caller must Close the returned encoder to flush any
// partially written blocks.
func NewEncoder(enc *Encoding, w io.Writer) io.WriteCloser {
	return &encoder{enc: enc, w: w}
}

type decoder struct {
	err    error
	enc    *Encoding
	r      io.Reader
	inbuf  [1024]byte
	outbuf [768]byte
	outOff int
	outLen int
	eof    bool
}

func (d *decoder) Read(p []byte) (n int, err error) {
	if d.outOff < d.outLen {
		n = copy(p, d.outbuf[d.outOff:d.outLen])
		d.outOff += n
		return n, nil
	}
	if d.err != nil {
		return 0, d.err
	}
	if d.eof {
		return 0, io.EOF
	}
	nr, rerr := d.r.Read(d.inbuf[:])
	if nr > 0 {
		dn, derr := d.enc.Decode(d.outbuf[:], d.inbuf[:nr])
		d.outLen = dn
		d.outOff = 0
		if derr != nil {
			d.err = derr
		}
	}
	if rerr != nil {
		if rerr == io.EOF {
			d.eof = true
		} else {
			d.err = rerr
		}
	}
	if d.outOff < d.outLen {
		n = copy(p, d.outbuf[d.outOff:d.outLen])
		d.outOff += n
		return n, nil
	}
	if d.err != nil {
		return 0, d.err
	}
	if d.eof {
		return 0, io.EOF
	}
	return 0, nil
}

// NewDecoder constructs a new base64 stream decoder that reads from r.
func NewDecoder(enc *Encoding, r io.Reader) io.Reader {
	return &decoder{enc: enc, r: r}
}
