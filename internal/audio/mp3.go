package audio

// MPEG audio Layer III bitrates in kbps, indexed by the header's bitrate field.
var (
	bitratesV1 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	bitratesV2 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}
)

var sampleRates = map[byte][3]int{
	3: {44100, 48000, 32000}, // MPEG 1
	2: {22050, 24000, 16000}, // MPEG 2
	0: {11025, 12000, 8000},  // MPEG 2.5
}

type frameHeader struct {
	length     int
	samples    int
	sampleRate int
}

func parseFrameHeader(b []byte) (frameHeader, bool) {
	if b[0] != 0xFF || b[1]&0xE0 != 0xE0 {
		return frameHeader{}, false
	}
	version := (b[1] >> 3) & 0x03
	layer := (b[1] >> 1) & 0x03
	if version == 1 || layer != 1 {
		return frameHeader{}, false
	}

	bitrateIdx := b[2] >> 4
	rateIdx := (b[2] >> 2) & 0x03
	if bitrateIdx == 0 || bitrateIdx == 15 || rateIdx == 3 {
		return frameHeader{}, false
	}
	padding := int((b[2] >> 1) & 0x01)

	rate := sampleRates[version][rateIdx]
	h := frameHeader{sampleRate: rate}
	if version == 3 {
		h.samples = 1152
		h.length = 144*bitratesV1[bitrateIdx]*1000/rate + padding
	} else {
		h.samples = 576
		h.length = 72*bitratesV2[bitrateIdx]*1000/rate + padding
	}
	if h.length < 4 {
		return frameHeader{}, false
	}
	return h, true
}

// id3v2Size returns the number of bytes taken by a leading ID3v2 tag.
func id3v2Size(data []byte) int {
	if len(data) < 10 || string(data[:3]) != "ID3" {
		return 0
	}
	size := int(data[6]&0x7F)<<21 | int(data[7]&0x7F)<<14 | int(data[8]&0x7F)<<7 | int(data[9]&0x7F)
	size += 10
	if data[5]&0x10 != 0 {
		size += 10
	}
	return size
}

// MP3Duration estimates the playing time of an MP3 stream in seconds by
// walking its Layer III frame headers. It returns 0 when no frame can be
// found.
func MP3Duration(data []byte) float64 {
	off := id3v2Size(data)
	var seconds float64
	frames := 0

	for off+4 <= len(data) {
		if string(data[off:off+3]) == "TAG" {
			break
		}
		h, ok := parseFrameHeader(data[off : off+4])
		if !ok {
			off++
			continue
		}
		seconds += float64(h.samples) / float64(h.sampleRate)
		frames++
		off += h.length
	}

	if frames == 0 {
		return 0
	}
	return seconds
}
