// SPDX-License-Identifier: EPL-2.0

package audio

// Mono folds src down to one channel by averaging the channels of each
// frame. A mono src is returned as is.
//
// The mixer copies a mono source to every device channel, so Mono turns a
// stereo recording into a centered one.
func Mono(src *Source) *Source {
	channels := src.Channels()
	if channels == 1 {
		return src
	}

	frames := src.FrameCount()
	in := src.Samples()
	out := make([]int16, frames)

	switch channels {
	case 2:
		for f := range frames {
			idx := f << 1
			out[f] = int16((int32(in[idx]) + int32(in[idx+1])) / 2)
		}
	default:
		for f := range frames {
			sum := int32(0)
			base := f * channels
			for c := range channels {
				sum += int32(in[base+c])
			}
			out[f] = int16(sum / int32(channels))
		}
	}

	return &Source{
		channels:   1,
		sampleRate: src.sampleRate,
		samples:    out,
	}
}
