package main

import (
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/inkwell-go/rtfstream"
)

func newDumpCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump <file|->",
		Short: "Parse an RTF file and print its resolved text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = chooseFormat(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return runDump(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", `output format: "text" or "trace" (default: prompt interactively, else "text")`)
	return cmd
}

// chooseFormat asks the user, via survey, which output format to use when
// stdout is a terminal; non-interactive runs (pipes, redirected output)
// default to plain text without prompting.
func chooseFormat(in io.Reader, out io.Writer) string {
	f, ok := out.(*os.File)
	if !ok || !isTerminal(f) {
		return "text"
	}

	var answer string
	prompt := &survey.Select{
		Message: "Output format:",
		Options: []string{"text", "trace"},
		Default: "text",
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "text"
	}
	return answer
}

func runDump(cmd *cobra.Command, path, format string) error {
	data, err := readInput(path)
	if err != nil {
		return err
	}

	p, err := rtfstream.New(dumpCallbacks(cmd, format))
	if err != nil {
		return err
	}
	p.OpenString(string(data))
	return p.Parse()
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func dumpCallbacks(cmd *cobra.Command, format string) rtfstream.Callbacks {
	out := cmd.OutOrStdout()
	trace := format == "trace"

	bold := color.New(color.Bold)
	italic := color.New(color.Italic)
	underline := color.New(color.Underline)

	return rtfstream.Callbacks{
		OnOpenParagraph: func(p *rtfstream.Parser) {
			if trace {
				fmt.Fprintln(out, "[paragraph open]")
			}
		},
		OnAppendParagraph: func(p *rtfstream.Parser, text string) {
			st := p.FullState()
			c := plainFormatter
			switch {
			case st.Bold:
				c = bold.Fprint
			case st.Italic:
				c = italic.Fprint
			case st.Underline:
				c = underline.Fprint
			}
			c(out, text)
		},
		OnCloseParagraph: func(p *rtfstream.Parser) {
			fmt.Fprintln(out)
			if trace {
				fmt.Fprintln(out, "[paragraph close]")
			}
		},
		OnStateChange: func(p *rtfstream.Parser, old, new rtfstream.FullState) {
			if trace {
				fmt.Fprintf(out, "[state bold=%v italic=%v underline=%v strike=%v align=%s]\n",
					new.Bold, new.Italic, new.Underline, new.Strikethrough, new.Alignment)
			}
		},
		OnField: func(p *rtfstream.Parser, fldinst, fldrslt string) {
			if trace {
				fmt.Fprintf(out, "[field inst=%q rslt=%q]\n", fldinst, fldrslt)
			} else {
				fmt.Fprint(out, fldrslt)
			}
		},
		OnImage: func(p *rtfstream.Parser, attrs rtfstream.PictAttributes, data []byte) {
			if trace {
				fmt.Fprintf(out, "[image source=%s bytes=%d]\n", attrs.Source, len(data))
			}
		},
	}
}

func plainFormatter(w io.Writer, a ...interface{}) (int, error) {
	return fmt.Fprint(w, a...)
}
