// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 scales x by 32768 and saturates to the int16 range.
// The conversion truncates toward zero.
func Float32ToInt16(x float32) int16 {
	v := x * 32768.0
	if v >= 32767 {
		return 32767
	}
	if v <= -32768 {
		return -32768
	}

	return int16(v)
}

// Float64ToInt16 is Float32ToInt16 for 64-bit input.
func Float64ToInt16(x float64) int16 {
	v := x * 32768.0
	if v >= 32767 {
		return 32767
	}
	if v <= -32768 {
		return -32768
	}

	return int16(v)
}

// ClampInt16 saturates an accumulated value to the int16 range.
func ClampInt16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}

	return int16(v)
}
