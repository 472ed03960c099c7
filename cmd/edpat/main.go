// Command edpat searches files for an editor pattern and prints each match.
//
// Usage:
//
//	edpat [options] pattern [file...]
//
// Long options take their value as --name=value, short ones as -n value.
//
// The pattern is delimited by its first character, as in /"abc"/, unless
// --body is given. With no files, standard input is searched. The exit
// status is 0 when a match was found, 1 when none was and 2 on error.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/ddkwork/golibrary/mylog"
	"github.com/ogier/pflag"
	"github.com/pkg/profile"

	"github.com/coregx/edpat/deref"
	"github.com/coregx/edpat/diag"
	"github.com/coregx/edpat/internal/codegen"
	"github.com/coregx/edpat/linebuf"
	"github.com/coregx/edpat/meta"
)

func main() {
	code := 2
	mylog.Call(func() {
		code = mylog.Check2(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
	})
	os.Exit(code)
}

type options struct {
	config    string
	body      bool
	format    string
	count     int
	stripANSI bool
	dump      bool
	gen       string
	profile   string
	verbose   bool
	spans     spanFlag
	margins   string
}

func parseOptions(args []string, stderr io.Writer) (*options, []string, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("edpat", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.config, "config", "c", "", "read engine settings from this TOML file")
	fs.BoolVarP(&opts.body, "body", "b", false, "the pattern is an undelimited body")
	fs.StringVarP(&opts.format, "format", "f", "text", "output format: text or csv")
	fs.IntVarP(&opts.count, "count", "n", 0, "stop after this many matches (0 for all)")
	fs.BoolVar(&opts.stripANSI, "strip-ansi", false, "remove ANSI escape sequences from the input")
	fs.BoolVar(&opts.dump, "dump", false, "print the determinized table and exit")
	fs.StringVar(&opts.gen, "gen", "", "print Go source for the table as package.Name and exit")
	fs.StringVar(&opts.profile, "profile", "", "write a cpu or heap profile to the current directory")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "print diagnostics and statistics to stderr")
	fs.VarP(&opts.spans, "span", "s", "define a span as name=text (repeatable)")
	fs.StringVar(&opts.margins, "margins", "", "left and right margin columns as L,R (default 1 and the terminal width)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: edpat [options] pattern [file...]\n")
		fmt.Fprintf(stderr, "Search files for an editor pattern.\n\n")
		fmt.Fprintf(stderr, "Options (long options take their value as --name=value):\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return nil, nil, fmt.Errorf("edpat: no pattern given")
	}
	if opts.format != "text" && opts.format != "csv" {
		return nil, nil, fmt.Errorf("edpat: unknown format %q", opts.format)
	}
	return opts, fs.Args(), nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	opts, rest, err := parseOptions(args, stderr)
	if err != nil {
		return 2, err
	}

	switch opts.profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "heap":
		defer profile.Start(profile.MemProfileHeap, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		return 2, fmt.Errorf("edpat: unknown profile %q", opts.profile)
	}

	config := meta.DefaultConfig()
	if opts.config != "" {
		if config, err = loadConfig(opts.config); err != nil {
			return 2, err
		}
	}

	log := diag.NewLog(64)
	if opts.verbose {
		defer func() {
			if s := log.String(); s != "" {
				fmt.Fprintln(stderr, s)
			}
		}()
	}

	resolver := deref.Combine(opts.spans.registry(), deref.NewEnv())
	engine, err := meta.NewEngine(config, resolver, log)
	if err != nil {
		return 2, err
	}
	ctx := context.Background()
	if opts.body {
		err = engine.CompileBody(ctx, rest[0])
	} else {
		err = engine.Compile(ctx, rest[0])
	}
	if err != nil {
		return 2, err
	}

	switch {
	case opts.dump:
		fmt.Fprint(stdout, engine.Table().String())
		return 0, nil
	case opts.gen != "":
		return generate(stdout, engine, opts.gen)
	}

	left, right, err := margins(opts.margins, stdout)
	if err != nil {
		return 2, err
	}

	out := newWriter(opts.format, stdout)
	found := 0
	files := rest[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, name := range files {
		data, err := readInput(name, stdin)
		if err != nil {
			return 2, err
		}
		if opts.stripANSI {
			data = stripansi.Strip(data)
		}
		buf := linebuf.New(data)
		if err := buf.SetMargins(left, right); err != nil {
			return 2, err
		}
		limit := 0
		if opts.count > 0 {
			limit = opts.count - found
		}
		n, err := search(ctx, engine, buf, name, limit, out)
		if err != nil {
			return 2, err
		}
		found += n
		if opts.count > 0 && found >= opts.count {
			break
		}
	}
	if err := out.Flush(); err != nil {
		return 2, err
	}

	if opts.verbose {
		st := engine.Recognizer().Stats()
		fmt.Fprintf(stderr, "searches=%d trials=%d steps=%d restarts=%d kills=%d fails=%d prefilter-skips=%d prefilter-hits=%d\n",
			st.Searches, st.Trials, st.Steps, st.Restarts, st.Kills, st.Fails, st.PrefilterSkips, st.PrefilterHits)
	}
	if found == 0 {
		return 1, nil
	}
	return 0, nil
}

func search(ctx context.Context, engine *meta.Engine, buf *linebuf.Buffer, name string, limit int, out writer) (int, error) {
	s, err := engine.Searcher(buf)
	if err != nil {
		return 0, err
	}
	locs, err := s.All(ctx, buf.First(), 1, limit)
	if err != nil {
		return 0, err
	}
	for _, loc := range locs {
		line := buf.LineBytes(loc.Line)
		end := min(loc.Finish-1, len(line))
		start := min(loc.Start-1, end)
		rec := record{
			File:   name,
			Line:   int(loc.Line) + 1,
			Start:  loc.Start,
			Finish: loc.Finish,
			Text:   string(line[start:end]),
		}
		if err := out.Write(rec); err != nil {
			return 0, err
		}
	}
	return len(locs), nil
}

func loadConfig(path string) (meta.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return meta.Config{}, err
	}
	defer func() { mylog.Check(f.Close()) }()
	return meta.LoadConfig(f)
}

func readInput(name string, stdin io.Reader) (string, error) {
	if name == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(name)
	return string(b), err
}

func generate(w io.Writer, engine *meta.Engine, target string) (int, error) {
	pkg, name, ok := strings.Cut(target, ".")
	if !ok {
		return 2, fmt.Errorf("edpat: --gen wants package.Name, got %q", target)
	}
	src, err := codegen.Generate(engine.Table().Snapshot(), codegen.Config{Package: pkg, Name: name})
	if err != nil {
		return 2, err
	}
	if _, err := w.Write(src); err != nil {
		return 2, err
	}
	return 0, nil
}

// margins parses L,R, defaulting the right margin to the width of the
// terminal w writes to.
func margins(arg string, w io.Writer) (left, right int, err error) {
	if arg != "" {
		if _, err := fmt.Sscanf(arg, "%d,%d", &left, &right); err != nil {
			return 0, 0, fmt.Errorf("edpat: bad margins %q: %w", arg, err)
		}
		return left, right, nil
	}
	right = linebuf.DefaultRightMargin
	if f, ok := w.(*os.File); ok {
		if width, ok := terminalWidth(int(f.Fd())); ok && width > 1 {
			right = width
		}
	}
	return 1, right, nil
}
