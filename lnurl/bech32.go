package lnurl

import (
	"errors"
	"fmt"
	"strings"
)

// HRP is the human-readable part every LNURL string carries.
const HRP = "lnurl"

const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var generator = []uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}

var ErrEncoding = errors.New("bech32 encoding failed")

func polymod(values []byte) uint32 {
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 == 1 {
				chk ^= generator[i]
			}
		}
	}
	return chk
}

func hrpExpand(hrp string) []byte {
	out := make([]byte, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		out[i] = hrp[i] >> 5
		out[i+len(hrp)+1] = hrp[i] & 31
	}
	out[len(hrp)] = 0
	return out
}

func createChecksum(hrp string, data []byte) []byte {
	values := append(hrpExpand(hrp), data...)
	values = append(values, 0, 0, 0, 0, 0, 0)
	pm := polymod(values) ^ 1
	checksum := make([]byte, 6)
	for i := range checksum {
		checksum[i] = byte((pm >> uint(5*(5-i))) & 31)
	}
	return checksum
}

// ConvertBits regroups data from fromBits-wide groups into toBits-wide groups.
// Without pad, leftover bits must be zero or the input is rejected.
func ConvertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	acc := 0
	bits := uint(0)
	maxv := (1 << toBits) - 1
	out := make([]byte, 0, len(data)*int(fromBits)/int(toBits)+1)
	for _, value := range data {
		if int(value)>>fromBits != 0 {
			return nil, fmt.Errorf("%w: value %d exceeds %d bits", ErrEncoding, value, fromBits)
		}
		acc = (acc << fromBits) | int(value)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte((acc>>bits)&maxv))
		}
	}
	if pad {
		if bits > 0 {
			out = append(out, byte((acc<<(toBits-bits))&maxv))
		}
	} else if bits >= fromBits || ((acc<<(toBits-bits))&maxv) != 0 {
		return nil, fmt.Errorf("%w: non-zero trailing bits", ErrEncoding)
	}
	return out, nil
}

// Encode produces a bech32 string from the human-readable part and raw bytes.
// Output is always lower-case and ends with the 6-character checksum.
func Encode(hrp string, data []byte) (string, error) {
	converted, err := ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", err
	}
	combined := append(converted, createChecksum(hrp, converted)...)

	var sb strings.Builder
	sb.WriteString(hrp)
	sb.WriteByte('1')
	for _, v := range combined {
		if int(v) >= len(charset) {
			return "", fmt.Errorf("%w: invalid data value %d", ErrEncoding, v)
		}
		sb.WriteByte(charset[v])
	}
	return strings.ToLower(sb.String()), nil
}

// EncodeURL wraps a callback URL as an lnurl-tagged bech32 string.
func EncodeURL(rawURL string) (string, error) {
	return Encode(HRP, []byte(rawURL))
}
