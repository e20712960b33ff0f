package common

// ErrValueOutOfRange is thrown when a value does not fit its fixed-width
// field.
const ErrValueOutOfRange = "value out of range"

// AppendUint appends n to dst as an unsigned little-endian integer of the
// given width in bytes. It panics with ErrValueOutOfRange if n is negative
// or does not fit.
func AppendUint(dst []byte, n int, width int) []byte {
	if n < 0 {
		panic(ErrValueOutOfRange)
	}
	for i := 0; i < width; i++ { //nolint:intrange // Not supported by NeoGo
		dst = append(dst, byte(n&0xff))
		n = n >> 8
	}
	if n != 0 {
		panic(ErrValueOutOfRange)
	}
	return dst
}

// ReadUint reads an unsigned little-endian integer of the given width
// starting at off.
func ReadUint(data []byte, off int, width int) int {
	n := 0
	for i := width - 1; i >= 0; i-- {
		n = n<<8 | int(data[off+i])
	}
	return n
}

// AppendFixed appends b to dst zero-padded to size bytes. It panics with
// ErrValueOutOfRange if b is longer than size.
func AppendFixed(dst []byte, b []byte, size int) []byte {
	if len(b) > size {
		panic(ErrValueOutOfRange)
	}
	dst = append(dst, b...)
	for i := len(b); i < size; i++ {
		dst = append(dst, 0)
	}
	return dst
}

// ReadFixed returns size bytes starting at off with trailing zero bytes
// removed.
func ReadFixed(data []byte, off int, size int) []byte {
	end := size
	for end > 0 && data[off+end-1] == 0 {
		end = end - 1
	}
	return data[off : off+end]
}

// IsPaddableString checks that s is a valid UTF-8 string without zero bytes,
// so it reads back unchanged from a zero-padded fixed buffer.
func IsPaddableString(s string) bool {
	b := []byte(s)
	i := 0
	for i < len(b) {
		c := int(b[i])
		if c == 0 {
			return false
		}
		if c < 0x80 {
			i = i + 1
			continue
		}

		size, lo, hi := 0, 0x80, 0xbf
		switch {
		case c >= 0xc2 && c <= 0xdf:
			size = 2
		case c == 0xe0:
			size, lo = 3, 0xa0
		case c == 0xed:
			size, hi = 3, 0x9f
		case c >= 0xe1 && c <= 0xef:
			size = 3
		case c == 0xf0:
			size, lo = 4, 0x90
		case c == 0xf4:
			size, hi = 4, 0x8f
		case c >= 0xf1 && c <= 0xf3:
			size = 4
		default:
			return false
		}

		if i+size > len(b) {
			return false
		}
		next := int(b[i+1])
		if next < lo || next > hi {
			return false
		}
		for j := 2; j < size; j++ {
			if int(b[i+j])&0xc0 != 0x80 {
				return false
			}
		}
		i = i + size
	}
	return true
}
