package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// printMarkdown renders markdown to the terminal with styling. On any
// rendering error the raw markdown is printed instead: the content matters
// more than the colors.
func printMarkdown(content string) {
	out, err := glamour.Render(content, "auto")
	if err != nil {
		fmt.Print(content)
		return
	}
	fmt.Print(out)
}
