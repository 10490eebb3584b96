// Command polonize transliterates Cyrillic text files, or stdin, into
// Polish-style Latin.
//
//	polonize < in.txt > out.txt
//	polonize --serbian --out-dir out/ a.txt b.txt
//	polonize --interactive
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jusunglee/polonizacyja/internal/logger"
	"github.com/jusunglee/polonizacyja/internal/transliteration"
	"github.com/jusunglee/polonizacyja/internal/tui"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

type config struct {
	opts   transliteration.Options
	outDir string
	jobs   int
}

func mainE() error {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("polonize")
	var (
		serbian      = fs.BoolLong("serbian", "Render жхцчшщ as ž h c č š šč")
		noExceptions = fs.BoolLong("no-exceptions", "Disable the д/р/л rules, prepositions and suffix reductions")
		suffixRules  = fs.StringEnumLong("suffix-rules", "Word-final suffix reductions", "minimal", "extended")
		outDir       = fs.StringLong("out-dir", "", "Write <name>.pl.txt files here instead of next to the inputs")
		jobs         = fs.Int64Long("jobs", int64(runtime.NumCPU()), "Files processed in parallel")
		interactive  = fs.BoolLong("interactive", "Open the live preview")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("POLONIZE")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		if errors.Is(err, ff.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parsing flags: %w", err)
	}

	rules, err := transliteration.ParseSuffixRules(*suffixRules)
	if err != nil {
		return err
	}
	cfg := config{
		opts: transliteration.Options{
			PolishExceptions:      !*noExceptions,
			SerbianSoftConsonants: *serbian,
			SuffixRules:           rules,
		},
		outDir: *outDir,
		jobs:   int(max(*jobs, 1)),
	}

	if *interactive {
		out, err := tui.Run(cfg.opts)
		if err != nil {
			return err
		}
		if out != "" {
			fmt.Println(out)
		}
		return nil
	}

	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, log, cfg, fs.GetArgs(), os.Stdin, os.Stdout)
}

// run streams stdin to stdout when no files are given, otherwise converts
// every file concurrently.
func run(ctx context.Context, log *slog.Logger, cfg config, files []string, stdin io.Reader, stdout io.Writer) error {
	t, err := transliteration.New(cfg.opts)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		if _, err := io.Copy(stdout, t.Reader(stdin)); err != nil {
			return fmt.Errorf("transliterating stdin: %w", err)
		}
		return nil
	}

	if cfg.outDir != "" {
		if err := os.MkdirAll(cfg.outDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.jobs)
	for _, src := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dst := outputPath(src, cfg.outDir)
			n, err := convertFile(t, src, dst)
			if err != nil {
				return err
			}
			log.InfoContext(ctx, "transliterated", "src", src, "dst", dst, "bytes", n)
			return nil
		})
	}
	return g.Wait()
}

// outputPath maps dir/name.ext to dir/name.pl.txt, or outDir/name.pl.txt.
func outputPath(src, outDir string) string {
	dir, base := filepath.Split(src)
	if outDir != "" {
		dir = outDir
	}
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".pl.txt")
}

func convertFile(t *transliteration.Transliterator, src, dst string) (n int64, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", dst, cerr)
		}
	}()

	n, err = io.Copy(out, t.Reader(in))
	if err != nil {
		return n, fmt.Errorf("transliterating %s: %w", src, err)
	}
	return n, nil
}
