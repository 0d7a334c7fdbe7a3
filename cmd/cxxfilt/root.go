package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cxxabi/cxxfilt-go/cxxfilt"
)

var (
	outputFile string
	output     io.Writer

	internalNames bool
	strictNames   bool
)

var rootCmd = &cobra.Command{
	Use:   "cxxfilt [name...]",
	Short: "Demangle C++ symbol names",
	Long: `cxxfilt converts compiler-mangled C++ symbol names to their
human-readable source form, like the classic c++filt tool.

Names given as arguments are demangled one per line. Without arguments
it acts as a filter, copying stdin to stdout with every mangled word
replaced by its demangled form.`,
	Args: cobra.ArbitraryArgs,
	RunE: runDemangle,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = os.Stdout
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")

	rootCmd.Flags().BoolVarP(&internalNames, "internal", "i", false, "also demangle compiler-internal and MSVC names")
	rootCmd.Flags().BoolVarP(&strictNames, "strict", "s", false, "fail on invalid mangled names instead of passing them through")
}

func runDemangle(cmd *cobra.Command, args []string) error {
	var opts []cxxfilt.Option
	if internalNames {
		opts = append(opts, cxxfilt.WithInternal())
	}

	if len(args) == 0 {
		return filterStream(os.Stdin, opts)
	}

	for _, name := range args {
		demangled, err := cxxfilt.Demangle(name, opts...)
		if err != nil {
			if strictNames {
				return err
			}
			demangled = name
		}
		fmt.Fprintln(output, demangled)
	}
	return nil
}

func filterStream(r io.Reader, opts []cxxfilt.Option) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line, err := rewriteLine(scanner.Text(), opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(output, line)
	}
	return scanner.Err()
}

// rewriteLine replaces every maximal symbol-character run that parses as
// a mangled name with its demangled form, leaving the rest of the line
// untouched.
func rewriteLine(line string, opts []cxxfilt.Option) (string, error) {
	var b strings.Builder

	for i := 0; i < len(line); {
		if !isSymbolChar(line[i]) {
			b.WriteByte(line[i])
			i++
			continue
		}

		j := i
		for j < len(line) && isSymbolChar(line[j]) {
			j++
		}
		word := line[i:j]
		i = j

		if !cxxfilt.IsMangled(word) {
			b.WriteString(word)
			continue
		}

		demangled, err := cxxfilt.Demangle(word, opts...)
		if err != nil {
			if strictNames {
				return "", err
			}
			demangled = word
		}
		b.WriteString(demangled)
	}

	return b.String(), nil
}

func isSymbolChar(c byte) bool {
	return c == '_' || c == '$' || c == '.' || c == '?' || c == '@' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
