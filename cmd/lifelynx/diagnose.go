package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lifelynxhealth-hub/backend/internal/domain/diagnosis"
)

func diagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Diagnose a message, or every line of a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _ := cmd.Flags().GetString("text")
			file, _ := cmd.Flags().GetString("file")
			language, _ := cmd.Flags().GetString("language")

			if (text == "") == (file == "") {
				return fmt.Errorf("exactly one of --text or --file is required")
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			var texts []string
			if text != "" {
				texts = []string{text}
			} else {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open %s: %w", file, err)
				}
				texts, err = readMessages(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}
			}

			results, err := diagnoseAll(ctx, a.svc, texts, language)
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().String("text", "", "Message to diagnose")
	cmd.Flags().String("file", "", "File with one message per line")
	cmd.Flags().String("language", "", "Language code or alias (defaults to DEFAULT_LANGUAGE)")
	return cmd
}

// readMessages returns the non-blank lines of r.
func readMessages(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}

type diagnoser interface {
	GenerateResponse(ctx context.Context, text, language string, pc *diagnosis.PatientContext) diagnosis.Result
}

// diagnoseAll runs every text through the service concurrently. Results are
// returned in input order.
func diagnoseAll(ctx context.Context, svc diagnoser, texts []string, language string) ([]diagnosis.Result, error) {
	results := make([]diagnosis.Result, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range texts {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = svc.GenerateResponse(gctx, texts[i], language, nil)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeResults(w io.Writer, results []diagnosis.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}
	return nil
}
