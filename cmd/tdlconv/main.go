// Command tdlconv is the CLI front-end for the TDL→JSON-Schema converter
// (spec §6). It is intentionally thin: all conversion logic lives in the
// importable tdlconv package and its internal subpackages; this file only
// wires up flags, stdin/argv handling, pretty-printing, and exit codes.
package main

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tdlconv/tdlconv"
	"github.com/tdlconv/tdlconv/i18n"
)

var lang string

var rootCmd = &cobra.Command{
	Use:   "tdlconv [file|-]",
	Short: "Convert a TDL YAML document into OpenAI and Gemini JSON Schemas",
	Long: "tdlconv reads a Typedoc Definition Language (TDL) YAML document and\n" +
		"lowers it into both the OpenAI Structured Outputs and the Gemini\n" +
		"jsonschema_gemini JSON Schema dialects.\n\n" +
		"With no file argument (or \"-\"/\"/dev/stdin\"), reads the document from\n" +
		"standard input.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		i18n.SetLanguage(lang)

		var arg string
		if len(args) > 0 {
			arg = args[0]
		}

		src, err := readInput(arg)
		if err != nil {
			return err
		}

		res, err := tdlconv.Convert(src)
		if err != nil {
			return err
		}

		openaiJSON, err := json.MarshalIndent(res.OpenAI, "", "  ")
		if err != nil {
			return err
		}
		geminiJSON, err := json.MarshalIndent(res.Gemini, "", "  ")
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(openaiJSON))
		fmt.Fprintln(cmd.OutOrStdout(), "---")
		fmt.Fprintln(cmd.OutOrStdout(), string(geminiJSON))
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVar(&lang, "lang", "en", "language for the error-category label in failure output (en|ja)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fatalf(err)
	}
}

// readInput implements the CLI's argument contract (spec §6): no
// argument, "-", or "/dev/stdin" reads all of standard input; anything
// else is treated as a filesystem path.
func readInput(arg string) (string, error) {
	if arg == "" || arg == "-" || arg == "/dev/stdin" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", arg, err)
	}
	return string(b), nil
}

// fatalf prints the spec §6 "Error: <message>" line and exits 1. When err
// is an *AuthoringError, the localized category label (picked via --lang)
// is folded into the message so the single line stays spec-compliant
// while still exercising the i18n package.
func fatalf(err error) {
	msg := err.Error()
	if ae, ok := tdlconv.AsAuthoringError(err); ok {
		msg = fmt.Sprintf("[%s] %s", i18n.T(ae.Code, nil), msg)
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	os.Exit(1)
}
