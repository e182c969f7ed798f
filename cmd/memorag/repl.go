package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/memorag"
	"github.com/poiesic/memorag/answer"
	"github.com/poiesic/memorag/i18n"
	"github.com/poiesic/memorag/search"
	"github.com/poiesic/memorag/session"
)

type command int

const (
	cmdNone command = iota
	cmdHelp
	cmdIndex
	cmdMemory
	cmdClear
	cmdMode
	cmdDebug
	cmdQuit
)

// commands maps every accepted spelling, English and Chinese, to a command.
var commands = map[string]command{
	"help":        cmdHelp,
	"帮助":          cmdHelp,
	"collections": cmdIndex,
	"集合":          cmdIndex,
	"memory":      cmdMemory,
	"记忆":          cmdMemory,
	"clear":       cmdClear,
	"清空":          cmdClear,
	"mode":        cmdMode,
	"模式":          cmdMode,
	"debug":       cmdDebug,
	"调试":          cmdDebug,
	"quit":        cmdQuit,
	"exit":        cmdQuit,
	"q":           cmdQuit,
	"退出":          cmdQuit,
}

func parseCommand(line string) command {
	return commands[strings.ToLower(strings.TrimSpace(line))]
}

// repl reads questions and commands line by line.
type repl struct {
	engine  *memorag.Engine
	sess    *session.Session
	catalog *i18n.Catalog
	in      io.Reader
	out     io.Writer
}

func newREPL(engine *memorag.Engine, sess *session.Session, in io.Reader, out io.Writer) *repl {
	return &repl{
		engine:  engine,
		sess:    sess,
		catalog: i18n.Default(),
		in:      in,
		out:     out,
	}
}

func (r *repl) loc() i18n.Localizer {
	return r.catalog.For(r.sess.Locale())
}

// run serves until quit, end of input or ctx is done.
func (r *repl) run(ctx context.Context) error {
	loc := r.loc()
	fmt.Fprintln(r.out, loc.T(i18n.Welcome))
	fmt.Fprintln(r.out, loc.T(i18n.EnterQuery))

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprintf(r.out, "\n%s: ", r.loc().T(i18n.Prompt))
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}
		if !r.handle(ctx, scanner.Text()) {
			return nil
		}
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.loc().T(i18n.Goodbye))
	return scanner.Err()
}

// handle processes one input line. It returns false once the user quits.
func (r *repl) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	loc := r.loc()

	switch parseCommand(line) {
	case cmdQuit:
		fmt.Fprintln(r.out, loc.T(i18n.Goodbye))
		return false
	case cmdHelp:
		printHelp(r.out, loc)
	case cmdIndex:
		stats, err := r.engine.IndexStats(ctx)
		if err != nil {
			fmt.Fprintf(r.out, "%s: %v\n", loc.T(i18n.ProcessingError), err)
			break
		}
		printIndexStats(r.out, loc, stats)
	case cmdMemory:
		printReport(r.out, loc, r.sess.Report(ctx))
	case cmdClear:
		if err := r.sess.Clear(ctx); err != nil {
			fmt.Fprintf(r.out, "%s: %v\n", loc.T(i18n.ProcessingError), err)
			break
		}
		fmt.Fprintln(r.out, loc.T(i18n.MemoryCleared))
	case cmdMode:
		mode, ok := r.sess.ToggleMode(r.engine.HasResponder())
		if !ok {
			fmt.Fprintln(r.out, loc.T(i18n.NoLLM))
			break
		}
		fmt.Fprintln(r.out, loc.F(i18n.SwitchedToMode, modeLabel(loc, mode)))
	case cmdDebug:
		if r.sess.ToggleDebug() {
			fmt.Fprintln(r.out, loc.T(i18n.DebugOn))
		} else {
			fmt.Fprintln(r.out, loc.T(i18n.DebugOff))
		}
	default:
		if line == "" {
			fmt.Fprintln(r.out, loc.T(i18n.InvalidQuery))
			break
		}
		r.ask(ctx, line)
	}
	return true
}

// ask answers one question and prints the outcome.
func (r *repl) ask(ctx context.Context, question string) {
	loc := r.loc()
	var monitor search.SearchMonitor
	if r.sess.Debug() {
		monitor = newDebugMonitor(r.out)
	}

	turn := r.engine.Ask(ctx, r.sess, question, monitor)
	if r.sess.Debug() {
		printAnalysis(r.out, loc, turn.Search.Analysis)
	}
	if turn.Search.Err != nil {
		fmt.Fprintln(r.out, loc.T(i18n.RetrievalDegraded))
	}
	printTurn(r.out, loc, turn)
	if r.sess.Debug() {
		printBreakdown(r.out, r.engine.Searcher().Reranker(), turn.Search)
	}
}

func modeLabel(loc i18n.Localizer, mode answer.Mode) string {
	if mode == answer.ModeLLM {
		return loc.T(i18n.LLMMode)
	}
	return loc.T(i18n.BasicMode)
}
