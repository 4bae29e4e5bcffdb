package lex

import (
	"bufio"
	"fmt"
	"io"
)

// runeReader buffers every rune it reads from an underlying io.Reader so
// that a DFA simulation can back up to the last point it saw an accepting
// state without losing track of what it already consumed. It replaces
// regexp-oriented buffering with plain rune-level Mark/Restore, since direct
// DFA simulation never needs byte-offset submatch indexes.
type runeReader struct {
	runes []rune
	cur   int
	r     *bufio.Reader
	err   error
	marks map[string]int
}

func newRuneReader(r io.Reader) *runeReader {
	return &runeReader{
		r:     bufio.NewReader(r),
		marks: make(map[string]int),
	}
}

// ReadRune returns the next rune, reading from the underlying reader only
// once the buffer is exhausted. Once the underlying reader has errored, that
// error is returned again on every subsequent call past the buffered runes.
func (rr *runeReader) ReadRune() (rune, error) {
	if rr.cur < len(rr.runes) {
		ch := rr.runes[rr.cur]
		rr.cur++
		return ch, nil
	}

	if rr.err != nil {
		return 0, rr.err
	}

	ch, _, err := rr.r.ReadRune()
	if err != nil {
		rr.err = err
		return 0, err
	}

	rr.runes = append(rr.runes, ch)
	rr.cur++
	return ch, nil
}

// Mark records the current position under name, for later use with Restore
// or Offset.
func (rr *runeReader) Mark(name string) {
	rr.marks[name] = rr.cur
}

// Restore moves the cursor back to the position recorded under name. Panics
// if the name doesn't exist.
func (rr *runeReader) Restore(name string) {
	offset, ok := rr.marks[name]
	if !ok {
		panic(fmt.Sprintf("invalid mark name: %q", name))
	}
	rr.cur = offset
}

// Offset returns the cursor position recorded under name. Panics if the
// name doesn't exist.
func (rr *runeReader) Offset(name string) int {
	offset, ok := rr.marks[name]
	if !ok {
		panic(fmt.Sprintf("invalid mark name: %q", name))
	}
	return offset
}

// SeekTo moves the cursor directly to a buffered position, such as one
// returned by Offset.
func (rr *runeReader) SeekTo(pos int) {
	rr.cur = pos
}

// Slice returns the buffered runes between two positions as a string.
func (rr *runeReader) Slice(from, to int) string {
	return string(rr.runes[from:to])
}

// Cur returns the current cursor position.
func (rr *runeReader) Cur() int {
	return rr.cur
}

// LineBounds returns the buffer indices [start, end) of the full source line
// containing pos, reading ahead through the underlying reader as needed to
// find where that line ends.
func (rr *runeReader) LineBounds(pos int) (start, end int) {
	start = pos
	for start > 0 && rr.runes[start-1] != '\n' {
		start--
	}

	end = pos
	for {
		if end < len(rr.runes) {
			if rr.runes[end] == '\n' {
				return start, end
			}
			end++
			continue
		}
		if rr.err != nil {
			return start, end
		}

		ch, _, err := rr.r.ReadRune()
		if err != nil {
			rr.err = err
			return start, end
		}
		rr.runes = append(rr.runes, ch)
	}
}

// LineNumberAt returns the 1-indexed line number of the rune at buffer
// position pos.
func (rr *runeReader) LineNumberAt(pos int) int {
	line := 1
	for i := 0; i < pos && i < len(rr.runes); i++ {
		if rr.runes[i] == '\n' {
			line++
		}
	}
	return line
}

// PositionInfo returns the 1-indexed line number, 1-indexed column, and the
// full source line text for the rune at buffer position pos.
func (rr *runeReader) PositionInfo(pos int) (line, col int, fullLine string) {
	start, end := rr.LineBounds(pos)
	return rr.LineNumberAt(start), pos - start + 1, rr.Slice(start, end)
}
