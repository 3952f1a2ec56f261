package vm

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const commentMarker = "//"

// maxTokens is the largest number of whitespace separated tokens a command
// may have.
const maxTokens = 3

type line struct {
	no   int
	text string
}

// Reader hands out the commands of one VM source listing, one at a time.
// The listing is built once; only the cursor moves afterwards.
type Reader struct {
	lines  []line
	cursor int
}

// NewReader reads the whole source from r, strips comments and blank lines
// and returns a Reader positioned before the first command.
func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{}

	scanner := bufio.NewScanner(r)
	no := 0
	for scanner.Scan() {
		no++
		text := strings.TrimSpace(StripComment(scanner.Text()))
		if text == "" {
			continue
		}
		rd.lines = append(rd.lines, line{no: no, text: text})
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read vm source")
	}

	return rd, nil
}

// StripComment removes everything from the first comment marker to the end
// of the line.
func StripComment(s string) string {
	if i := strings.Index(s, commentMarker); i >= 0 {
		return s[:i]
	}
	return s
}

// Len returns the number of commands in the listing.
func (r *Reader) Len() int {
	return len(r.lines)
}

// HasNext reports whether at least one more command remains.
func (r *Reader) HasNext() bool {
	return r.cursor < len(r.lines)
}

// LineNo returns the source line number of the most recently decoded
// command, or 0 before the first call to Next.
func (r *Reader) LineNo() int {
	if r.cursor == 0 {
		return 0
	}
	return r.lines[r.cursor-1].no
}

// Next consumes the next line and decodes it. The cursor advances even when
// decoding fails.
func (r *Reader) Next() (Command, error) {
	if !r.HasNext() {
		return Command{}, io.EOF
	}

	l := r.lines[r.cursor]
	r.cursor++

	cmd, err := Decode(l.text)
	if err != nil {
		return Command{}, errors.Wrapf(err, "line %d", l.no)
	}

	return cmd, nil
}

// Decode parses a single comment-free, trimmed VM command.
func Decode(text string) (Command, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return Command{}, errors.Wrap(ErrMalformedCommand, "empty command")
	}
	if len(tokens) > maxTokens {
		return Command{}, errors.Wrapf(ErrMalformedCommand,
			"%q: %d tokens, at most %d allowed", text, len(tokens), maxTokens)
	}

	head := tokens[0]

	if IsOperator(head) {
		if len(tokens) != 1 {
			return Command{}, errors.Wrapf(ErrMalformedCommand,
				"%q: %s takes no arguments", text, head)
		}
		return Command{kind: Arithmetic, arg1: head}, nil
	}

	if head == "return" {
		if len(tokens) != 1 {
			return Command{}, errors.Wrapf(ErrMalformedCommand,
				"%q: return takes no arguments", text)
		}
		return Command{kind: Return}, nil
	}

	kind, ok := keywords[head]
	if !ok {
		return Command{}, errors.Wrapf(ErrUnknownCommand, "%q", head)
	}

	want := 2
	if kind.HasIndex() {
		want = 3
	}
	if len(tokens) != want {
		return Command{}, errors.Wrapf(ErrMalformedCommand,
			"%q: %s expects %d arguments, got %d", text, kind, want-1, len(tokens)-1)
	}

	cmd := Command{kind: kind, arg1: tokens[1]}
	if !kind.HasIndex() {
		return cmd, nil
	}

	index, err := strconv.ParseUint(tokens[2], 10, 31)
	if err != nil {
		return Command{}, errors.Wrapf(ErrMalformedCommand,
			"%q: %q is not a non-negative integer", text, tokens[2])
	}
	cmd.index = int(index)

	return cmd, nil
}
