package textproc

import (
	"regexp"
	"strings"
	"unicode"
)

// filenamePattern matches things like "setup.exe" or "clip.mp4" so a period
// inside a filename is never mistaken for a sentence boundary.
var filenamePattern = regexp.MustCompile(`(?i)\b\w{1,20}\.(exe|com|net|org|mp4|wav|zip|txt|avi|ogg)(\W|$)`)

const (
	filenameLookBehind = 20
	filenameLookAhead  = 10

	interjectionMaxWords = 4
	interjectionMaxChars = 25
)

// Chunker accumulates streamed text deltas and cuts them into speakable
// chunks at safe sentence boundaries. The buffer is append-only between
// cuts; a cut consumes exactly the emitted prefix, so concatenating every
// emitted chunk reproduces the stream modulo surrounding whitespace.
type Chunker struct {
	buffer  string
	softCap int
	slang   map[string]struct{}
}

// NewChunker builds a chunker with the given soft length cap and the slang
// vocabulary whose interjections must stay attached to the clause after them.
func NewChunker(softCap int, slang []string) *Chunker {
	set := make(map[string]struct{}, len(slang))
	for _, w := range slang {
		set[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &Chunker{softCap: softCap, slang: set}
}

// Push appends a delta and returns every chunk that became ready, in order.
// An empty slice means the chunker is still accumulating.
func (c *Chunker) Push(delta string) []string {
	if delta == "" {
		return nil
	}
	c.buffer += delta
	return c.drain(false)
}

// Flush force-emits whatever remains in the buffer at end of stream.
func (c *Chunker) Flush() []string {
	return c.drain(true)
}

// Pending reports how much unemitted text the chunker is holding.
func (c *Chunker) Pending() int {
	return len(c.buffer)
}

func (c *Chunker) drain(force bool) []string {
	var out []string
	for {
		cut, ok := c.nextCut(force)
		if !ok {
			break
		}
		chunk := strings.TrimSpace(c.buffer[:cut])
		c.buffer = c.buffer[cut:]
		if chunk == "" || punctuationOnly(chunk) {
			continue
		}
		out = append(out, chunk)
	}
	if force {
		c.buffer = ""
	}
	return out
}

// nextCut finds the first position the buffer may be cut at. Boundaries are
// newline (always safe) and sentence punctuation that passes the split
// safety checks. Past the soft cap the nearest whitespace wins even without
// punctuation, so one run-on sentence cannot stall the stream.
func (c *Chunker) nextCut(force bool) (int, bool) {
	if c.buffer == "" {
		return 0, false
	}
	if force {
		return len(c.buffer), true
	}

	for i := 0; i < len(c.buffer); i++ {
		switch c.buffer[i] {
		case '\n':
			return i + 1, true
		case '.', '!', '?':
			end := punctuationRunEnd(c.buffer, i)
			if c.safeToSplit(i, end) {
				return end, true
			}
			i = end - 1
		}
	}

	if c.softCap > 0 && len(c.buffer) >= c.softCap {
		if cut := lastWhitespaceBefore(c.buffer, c.softCap); cut > 0 {
			return cut, true
		}
		return len(c.buffer), true
	}
	return 0, false
}

// safeToSplit decides whether the punctuation run buffer[idx:end] really
// ends a speakable unit.
func (c *Chunker) safeToSplit(idx, end int) bool {
	if insideFilename(c.buffer, idx) {
		return false
	}
	candidate := strings.TrimSpace(c.buffer[:end])
	if punctuationOnly(candidate) {
		return false
	}
	if c.isSlangInterjection(candidate) {
		return false
	}
	return true
}

// isSlangInterjection reports whether the candidate chunk is a short
// standalone interjection built around a slang word. Those read wrong
// when spoken alone, so the cut waits for the clause that follows.
func (c *Chunker) isSlangInterjection(candidate string) bool {
	if len(candidate) > interjectionMaxChars {
		return false
	}
	words := strings.Fields(candidate)
	if len(words) == 0 || len(words) > interjectionMaxWords {
		return false
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}))
		if _, ok := c.slang[w]; ok {
			return true
		}
	}
	return false
}

// insideFilename checks a small window around a period for a filename match
// that spans the split position.
func insideFilename(input string, idx int) bool {
	if idx >= len(input) || input[idx] != '.' {
		return false
	}
	lo := idx - filenameLookBehind
	if lo < 0 {
		lo = 0
	}
	hi := idx + filenameLookAhead
	if hi > len(input) {
		hi = len(input)
	}
	for _, m := range filenamePattern.FindAllStringIndex(input[lo:hi], -1) {
		if lo+m[0] <= idx && idx < lo+m[1] {
			return true
		}
	}
	return false
}

func punctuationRunEnd(input string, idx int) int {
	end := idx
	for end < len(input) {
		switch input[end] {
		case '.', '!', '?':
			end++
		default:
			return end
		}
	}
	return end
}

func lastWhitespaceBefore(input string, limit int) int {
	if limit > len(input) {
		limit = len(input)
	}
	for i := limit - 1; i > 0; i-- {
		if input[i] == ' ' || input[i] == '\t' {
			return i + 1
		}
	}
	return -1
}
