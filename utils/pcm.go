// SPDX-License-Identifier: EPL-2.0

package utils

// U8ToInt16 converts an unsigned 8-bit sample (silence at 128).
func U8ToInt16(u uint8) int16 {
	return int16(int(u)-128) << 8
}

// S8ToInt16 converts a signed 8-bit sample.
func S8ToInt16(s int8) int16 {
	return int16(s) << 8
}

// S24ToInt16 keeps the top 16 bits of a sign-extended 24-bit sample.
func S24ToInt16(s int32) int16 {
	return int16(s >> 8)
}

// S32ToInt16 keeps the top 16 bits of a 32-bit sample.
func S32ToInt16(s int32) int16 {
	return int16(s >> 16)
}

// IntToInt16 scales an integer sample of the given bit depth to 16 bits by
// shifting. Depths below 16 are shifted up, depths above are truncated.
func IntToInt16(s int, bitDepth int) int16 {
	switch {
	case bitDepth == 16:
		return int16(s)
	case bitDepth < 16:
		return int16(s << (16 - bitDepth))
	default:
		return int16(s >> (bitDepth - 16))
	}
}
