package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joshuapare/wordalloc/mem/alloc"
	"github.com/joshuapare/wordalloc/mem/strategy"
	"github.com/joshuapare/wordalloc/pkg/types"
)

// session replays script commands against one Manager.
//
// Script syntax, one command per line, '#' starts a comment:
//
//	alloc <bytes> [name]   allocate; name defaults to b1, b2, ...
//	free <name|@offset>    free a named block or a byte offset
//	strategy <name>        switch placement strategy
//	reset [words]          re-initialize the arena
//	map | bitmap | holes   print an export
type session struct {
	m     *alloc.Manager
	out   io.Writer
	names map[string]types.Addr
	seq   int
}

func newSession(m *alloc.Manager, out io.Writer) *session {
	return &session{m: m, out: out, names: make(map[string]types.Addr)}
}

// run executes every line of r, stopping at the first error.
func (s *session) run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := s.exec(sc.Text()); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return sc.Err()
}

func (s *session) exec(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "alloc":
		return s.alloc(args)
	case "free":
		return s.free(args)
	case "strategy":
		if len(args) != 1 {
			return errors.New("usage: strategy <name>")
		}
		st, err := strategy.ByName(args[0])
		if err != nil {
			return err
		}
		return s.m.SetStrategy(st)
	case "reset":
		return s.reset(args)
	case "map":
		fmt.Fprintln(s.out, renderMap(s.m))
	case "bitmap":
		fmt.Fprintln(s.out, hex.EncodeToString(s.m.Bitmap()))
	case "holes":
		fmt.Fprintln(s.out, renderHoles(s.m.FreeList()))
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func (s *session) alloc(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: alloc <bytes> [name]")
	}
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("alloc: bad size %q", args[0])
	}
	s.seq++
	name := "b" + strconv.Itoa(s.seq)
	if len(args) == 2 {
		name = args[1]
	}

	addr, data, err := s.m.Alloc(size)
	switch {
	case alloc.IsNone(err):
		fmt.Fprintf(s.out, "%s: none (%v)\n", name, err)
		return nil
	case err != nil:
		return err
	}
	s.names[name] = addr
	off := int(addr - s.m.Base())
	fmt.Fprintf(s.out, "%s = @%d (%d words)\n", name, off, len(data)/s.m.WordSize())
	return nil
}

func (s *session) free(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: free <name|@offset>")
	}
	target := args[0]

	var addr types.Addr
	if rest, ok := strings.CutPrefix(target, "@"); ok {
		off, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("free: bad offset %q", target)
		}
		addr = s.m.Base() + types.Addr(off)
	} else {
		a, ok := s.names[target]
		if !ok {
			return fmt.Errorf("free: unknown block %q", target)
		}
		addr = a
	}

	if s.m.Free(addr) {
		fmt.Fprintf(s.out, "free %s: ok\n", target)
	} else {
		fmt.Fprintf(s.out, "free %s: ignored\n", target)
	}
	return nil
}

func (s *session) reset(args []string) error {
	words := s.m.Words()
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("reset: bad word count %q", args[0])
		}
		words = n
	} else if len(args) > 1 {
		return errors.New("usage: reset [words]")
	}
	if err := s.m.Init(words); err != nil {
		return err
	}
	clear(s.names)
	s.seq = 0
	return nil
}

// renderMap is MapText with a placeholder for a fully allocated arena.
func renderMap(m *alloc.Manager) string {
	if text := m.MapText(); text != "" {
		return text
	}
	return "(no free ranges)"
}

func renderHoles(fl alloc.FreeList) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", fl.Count())
	for _, h := range fl.Holes {
		fmt.Fprintf(&b, " %s", h)
	}
	return b.String()
}
