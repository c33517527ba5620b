// SPDX-License-Identifier: EPL-2.0

package utils

import "testing"

func TestU8ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   uint8
		want int16
	}{
		{128, 0},
		{0, -32768},
		{255, 32512},
		{129, 256},
		{127, -256},
	}

	for _, tt := range tests {
		if got := U8ToInt16(tt.in); got != tt.want {
			t.Errorf("U8ToInt16(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestS8ToInt16(t *testing.T) {
	t.Parallel()

	if got := S8ToInt16(-128); got != -32768 {
		t.Errorf("S8ToInt16(-128) = %d, want -32768", got)
	}
	if got := S8ToInt16(1); got != 256 {
		t.Errorf("S8ToInt16(1) = %d, want 256", got)
	}
}

func TestWideToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  int16
		want int16
	}{
		{"s24 max", S24ToInt16(0x7FFFFF), 32767},
		{"s24 min", S24ToInt16(-0x800000), -32768},
		{"s24 one step", S24ToInt16(0x000100), 1},
		{"s24 below step", S24ToInt16(0x0000FF), 0},
		{"s24 negative small", S24ToInt16(-1), -1},
		{"s32 max", S32ToInt16(0x7FFFFFFF), 32767},
		{"s32 min", S32ToInt16(-0x80000000), -32768},
		{"s32 one step", S32ToInt16(0x00010000), 1},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestIntToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sample   int
		bitDepth int
		want     int16
	}{
		{"16-bit passthrough", -1234, 16, -1234},
		{"8-bit up", 127, 8, 32512},
		{"12-bit up", -2048, 12, -32768},
		{"20-bit down", 0x7FFFF, 20, 32767},
		{"24-bit down", -0x800000, 24, -32768},
		{"32-bit down", 0x10000, 32, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IntToInt16(tt.sample, tt.bitDepth); got != tt.want {
				t.Errorf("IntToInt16(%d, %d) = %d, want %d", tt.sample, tt.bitDepth, got, tt.want)
			}
		})
	}
}
