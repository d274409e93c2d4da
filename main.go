package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pipe01/xmlhl/internal/render"
	"github.com/pipe01/xmlhl/internal/workspace"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var (
	format    = kingpin.Flag("format", "Output format").Short('f').Envar("XMLHL_FORMAT").Default("text").Enum(render.Formats...)
	outPath   = kingpin.Flag("out", "File to write the output to, stdout if empty").Short('o').String()
	merge     = kingpin.Flag("merge", "Join adjacent tokens of the same class").Default("true").Bool()
	watch     = kingpin.Flag("watch", "Watch files for changes and tokenize them again").Short('w').Bool()
	verbosity = kingpin.Flag("verbose", "Increase logging verbosity").Short('v').Counter()
	files     = kingpin.Arg("files", "List of files to tokenize").Required().ExistingFiles()

	renderOpts render.Options
)

var log = commonlog.GetLogger("xmlhl")

func main() {
	kingpin.Parse()

	commonlog.Configure(*verbosity, nil)

	f, err := render.ParseFormat(*format)
	if err != nil {
		kingpin.Fatalf("%s", err)
	}

	renderOpts = render.Options{
		Format: f,
		Merge:  *merge,
	}

	wd, _ := os.Getwd()
	ws := workspace.New(wd)

	if err := renderAll(ws); err != nil {
		kingpin.Fatalf("failed to tokenize files: %s", err)
	}

	if *watch {
		err := watchFiles(ws)
		if err != nil {
			kingpin.Fatalf("failed to watch files: %s", err)
		}
	}
}

func output() (io.WriteCloser, error) {
	if *outPath == "" {
		return nopCloser{os.Stdout}, nil
	}

	outf, err := os.Create(*outPath)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return outf, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func renderAll(ws *workspace.Workspace) error {
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, fname := range *files {
		err := renderFile(w, ws, fname)
		if err != nil {
			return fmt.Errorf("tokenize file %q: %w", fname, err)
		}
	}

	return nil
}

func renderFile(w io.Writer, ws *workspace.Workspace, fname string) error {
	doc, err := ws.Load(fname)
	if err != nil {
		return err
	}

	log.Debugf("tokenized %q: %d lines, ends in %s state", fname, doc.LineCount(), doc.StateAt(doc.LineCount()))

	return render.Visit(w, fname, doc, renderOpts)
}

func watchFiles(ws *workspace.Workspace) error {
	watcher, err := NewWatcher(ws)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, f := range *files {
		err = watcher.WatchFile(f)
		if err != nil {
			return fmt.Errorf("watch file %q: %w", f, err)
		}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	log.Info("watching files for changes...")

	<-ch
	return nil
}
