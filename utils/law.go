// SPDX-License-Identifier: EPL-2.0

package utils

var (
	alawTable  [256]int16
	mulawTable [256]int16
)

func init() {
	for i := range 256 {
		alawTable[i] = alawExpand(uint8(i))
		mulawTable[i] = mulawExpand(uint8(i))
	}
}

// G.711 A-law expansion.
func alawExpand(b uint8) int16 {
	a := b ^ 0x55

	t := int(a&0x0F) << 4
	seg := int(a&0x70) >> 4
	if seg == 0 {
		t += 8
	} else {
		t += 0x108
		t <<= seg - 1
	}

	if a&0x80 == 0 {
		t = -t
	}

	return int16(t)
}

// G.711 µ-law expansion.
func mulawExpand(b uint8) int16 {
	u := ^b

	t := ((int(u&0x0F) << 3) + 0x84) << (int(u&0x70) >> 4)
	if u&0x80 != 0 {
		t = 0x84 - t
	} else {
		t -= 0x84
	}

	return int16(t)
}

// ALawToInt16 decodes one A-law byte by table lookup.
func ALawToInt16(b uint8) int16 { return alawTable[b] }

// MuLawToInt16 decodes one µ-law byte by table lookup.
func MuLawToInt16(b uint8) int16 { return mulawTable[b] }
