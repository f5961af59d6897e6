package splitter

import "strings"

// Split cuts content into chunks of at most maxChars characters, with
// consecutive chunks sharing overlapChars trailing/leading characters.
// Boundaries back off to the nearest space, newline, or period within the
// last 10% of the window so words are not cut mid-way. Splitting is
// deterministic: the same content always yields the same chunks.
func Split(content string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		return nil
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2
	}

	content = strings.TrimSpace(content)
	contentLen := len(content)
	if contentLen == 0 {
		return nil
	}
	if contentLen <= maxChars {
		return []string{content}
	}

	var chunks []string
	start := 0
	for start < contentLen {
		end := min(start+maxChars, contentLen)

		// Back off to a clean break within the last 10% of the window.
		if end < contentLen {
			lookBack := min(maxChars/10, end-start)
			for i := end - 1; i >= end-lookBack && i > start; i-- {
				if content[i] == ' ' || content[i] == '\n' || content[i] == '.' {
					end = i + 1
					break
				}
			}
		}

		chunk := strings.TrimSpace(content[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == contentLen {
			break
		}
		// Advance relative to the actual boundary, not the nominal window
		// end: a backed-off end with a stride of maxChars-overlapChars
		// would skip the characters between them.
		start = max(end-overlapChars, start+1)
	}

	return chunks
}
