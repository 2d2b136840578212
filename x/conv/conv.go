// Package conv holds allocation-free number formatting for MCU log lines.
package conv

const hexd = "0123456789ABCDEF"

// U32Hex writes 8-digit uppercase hex without 0x, zero-padded.
func U32Hex(buf []byte, n uint32) []byte {
	if len(buf) < 8 {
		return buf[:0]
	}
	i := len(buf)
	for j := 0; j < 8; j++ {
		i--
		buf[i] = hexd[n&0xF]
		n >>= 4
	}
	return buf[i:]
}

// Addr writes n as a 0x-prefixed 8-digit hex address (e.g. 0x10060000).
// buf must hold at least 10 bytes.
func Addr(buf []byte, n uint32) []byte {
	if len(buf) < 10 {
		return buf[:0]
	}
	U32Hex(buf[len(buf)-8:], n)
	i := len(buf) - 10
	buf[i] = '0'
	buf[i+1] = 'x'
	return buf[i:]
}

// Utoa writes base-10 representation of n into buf and returns the used slice.
// buf should be length >= 20 for uint64.
func Utoa(buf []byte, n uint64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
		return buf[i:]
	}
	for n > 0 && i > 0 {
		i--
		buf[i] = byte('0' + (n % 10))
		n /= 10
	}
	return buf[i:]
}
