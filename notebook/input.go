package notebook

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadInput reads r line by line until end of stream and returns the lines
// joined into one buffer, each followed by '\n', including the last one.
// A line ends at "\r\n", '\n', a lone '\r', U+0085, U+2028 or U+2029, as
// with java.util.Scanner. Lines have no length limit.
func ReadInput(r io.Reader) (string, error) {
	br := bufio.NewReader(r)
	var sb strings.Builder
	var line strings.Builder
	endLine := func() {
		sb.WriteString(line.String())
		sb.WriteByte('\n')
		line.Reset()
	}

	for {
		c, _, err := br.ReadRune()
		if err != nil {
			if line.Len() > 0 {
				endLine()
			}
			if errors.Is(err, io.EOF) {
				return sb.String(), nil
			}
			return sb.String(), fmt.Errorf("read input: %w", err)
		}

		switch c {
		case '\r':
			endLine()
			next, _, err := br.ReadRune()
			switch {
			case err == nil && next != '\n':
				br.UnreadRune()
			case err != nil && !errors.Is(err, io.EOF):
				return sb.String(), fmt.Errorf("read input: %w", err)
			}
		case '\n', '\u0085', '\u2028', '\u2029':
			endLine()
		default:
			line.WriteRune(c)
		}
	}
}
