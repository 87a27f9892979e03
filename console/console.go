// Package console prints spawner progress messages for humans.
package console

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Reporter writes one line per message, colored by severity when the
// output supports it.
type Reporter struct {
	out *termenv.Output
}

// New returns a Reporter writing to w. With color false, or when w is not a
// terminal, messages are written as plain text.
func New(w io.Writer, color bool) *Reporter {
	var opts []termenv.OutputOption
	if !color {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	return &Reporter{out: termenv.NewOutput(w, opts...)}
}

func (r *Reporter) Info(msg string) {
	r.println(r.out.String(msg))
}

func (r *Reporter) Warn(msg string) {
	r.println(r.out.String(msg).Foreground(r.out.Color("3")).Bold())
}

func (r *Reporter) Success(msg string) {
	r.println(r.out.String(msg).Foreground(r.out.Color("2")))
}

func (r *Reporter) println(s termenv.Style) {
	fmt.Fprintln(r.out, s.String())
}
