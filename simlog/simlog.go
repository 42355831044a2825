// Package simlog adapts the teacher's lib/logger to this module: the
// same async channel-plus-sync.Pool entry logging, but with level labels
// colorized through fatih/color, written through mattn/go-colorable so
// the coloring degrades correctly on non-ANSI terminals, and gated by
// mattn/go-isatty so piping output to a file never embeds escape codes.
package simlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

const (
	flags              = log.LstdFlags
	defaultCallerDepth = 2
	bufferSize         = 1e5
)

var levelColors = []*color.Color{
	color.New(color.FgHiBlack),
	color.New(color.FgCyan),
	color.New(color.FgYellow),
	color.New(color.FgRed, color.Bold),
}

var levelNames = []string{"DEBUG", "INFO", "WARN", "ERROR"}

type entry struct {
	msg   string
	level Level
}

// Logger is an async, level-colored logger. Each line is prefixed with
// its level and a file:line call site.
type Logger struct {
	logger    *log.Logger
	colorize  bool
	entryChan chan *entry
	entryPool sync.Pool
}

// New builds a Logger writing to w. When w is os.Stdout/os.Stderr and
// the descriptor is a real terminal, entries are colorized; otherwise
// plain text is written so redirected logs stay grep-friendly.
func New(w io.Writer) *Logger {
	colorize := false
	out := w
	if f, ok := w.(*os.File); ok {
		colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		out = colorable.NewColorable(f)
	}
	l := &Logger{
		logger:    log.New(out, "", flags),
		colorize:  colorize,
		entryChan: make(chan *entry, bufferSize),
		entryPool: sync.Pool{New: func() interface{} { return &entry{} }},
	}
	go l.drain()
	return l
}

// Default writes colorized output to stdout, matching the teacher's
// NewStdoutLogger default.
func Default() *Logger {
	return New(os.Stdout)
}

func (l *Logger) drain() {
	for e := range l.entryChan {
		_ = l.logger.Output(0, e.msg)
		l.entryPool.Put(e)
	}
}

func (l *Logger) output(level Level, callerDepth int, msg string) {
	label := levelNames[level]
	if l.colorize {
		label = levelColors[level].Sprint(label)
	}

	var formatted string
	if _, file, line, ok := runtime.Caller(callerDepth); ok {
		formatted = fmt.Sprintf("[%s][%s:%d] %s", label, filepath.Base(file), line, msg)
	} else {
		formatted = fmt.Sprintf("[%s] %s", label, msg)
	}

	e := l.entryPool.Get().(*entry)
	e.msg = formatted
	e.level = level
	l.entryChan <- e
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.output(Debug, defaultCallerDepth+1, fmt.Sprintf(format, v...))
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.output(Info, defaultCallerDepth+1, fmt.Sprintf(format, v...))
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.output(Warn, defaultCallerDepth+1, fmt.Sprintf(format, v...))
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.output(Error, defaultCallerDepth+1, fmt.Sprintf(format, v...))
}
