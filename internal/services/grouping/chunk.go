package grouping

import "unicode/utf8"

// DefaultChunkLimit keeps each chunk inside a Discord embed field value.
const DefaultChunkLimit = 1000

// Chunk splits lines into consecutive batches whose newline-joined length
// stays within limit characters. A line longer than limit is placed in a
// batch of its own. Lines are never reordered or dropped.
func Chunk(lines []string, limit int) [][]string {
	if limit <= 0 {
		limit = DefaultChunkLimit
	}

	var chunks [][]string
	var current []string
	size := 0
	for _, line := range lines {
		n := utf8.RuneCountInString(line)
		if len(current) > 0 && size+1+n > limit {
			chunks = append(chunks, current)
			current, size = nil, 0
		}
		if len(current) > 0 {
			size++
		}
		current = append(current, line)
		size += n
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
