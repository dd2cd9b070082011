package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const titlePrompt = "Enter title: "

// ErrNoTitle is returned when input ends before a title was entered.
var ErrNoTitle = errors.New("no title entered")

// PromptTitle asks for a title on out until a non-blank line is read from
// in. Reading the title interactively keeps the shell from mangling quotes
// and ampersands.
func PromptTitle(in io.Reader, out io.Writer) (string, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, titlePrompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("failed to read title: %w", err)
			}
			fmt.Fprintln(out)
			return "", ErrNoTitle
		}
		if title := strings.TrimSpace(scanner.Text()); title != "" {
			return title, nil
		}
	}
}
