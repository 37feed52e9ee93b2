package terminal

// TranscriptFilter cleans transcript text before password extraction.
type TranscriptFilter interface {
	Filter(text string) string
}

// DefaultTranscriptFilter removes escape sequences so markers and typed text
// are matched on what a user would read.
type DefaultTranscriptFilter struct{}

// Filter removes CSI, OSC, and two-byte ESC sequences.
func (DefaultTranscriptFilter) Filter(text string) string {
	data := []byte(text)
	out := make([]byte, 0, len(data))

	i := 0
	for i < len(data) {
		if data[i] != 0x1b {
			out = append(out, data[i])
			i++
			continue
		}

		if i+1 >= len(data) {
			// Dangling ESC at the end of a chunk.
			i++
			continue
		}

		switch data[i+1] {
		case '[':
			i = skipCSI(data, i+2)
		case ']', 'P', '_', '^':
			i = skipStringSequence(data, i+2)
		default:
			i += 2
		}
	}

	return string(out)
}

// skipCSI returns the index after the CSI final byte starting the scan at j.
func skipCSI(data []byte, j int) int {
	for j < len(data) {
		b := data[j]
		if b >= 0x40 && b <= 0x7e {
			return j + 1
		}
		j++
	}
	return j
}

// skipStringSequence skips an OSC/DCS/APC/PM body terminated by BEL or ST.
func skipStringSequence(data []byte, j int) int {
	for j < len(data) {
		if data[j] == 0x07 {
			return j + 1
		}
		if data[j] == 0x1b && j+1 < len(data) && data[j+1] == '\\' {
			return j + 2
		}
		j++
	}
	return j
}

// applyLineEdits interprets backspace and DEL as erasing the previous rune and
// drops remaining control characters.
func applyLineEdits(line string) string {
	runes := make([]rune, 0, len(line))
	for _, r := range line {
		switch {
		case r == 0x08 || r == 0x7f:
			if len(runes) > 0 {
				runes = runes[:len(runes)-1]
			}
		case r == '\t':
			runes = append(runes, r)
		case r < 0x20:
		default:
			runes = append(runes, r)
		}
	}
	return string(runes)
}
