package sqlbuilder

import (
	"fmt"

	"github.com/praxdb/prax/dialect"
	"github.com/praxdb/prax/query/window"
)

// WriteWindowCall renders `<fn>(<args>) OVER (...)`. Dialects that do
// not support GROUPS frame units (MySQL, SQLite) get the call's frame
// degraded to ROWS before rendering.
func (b *Builder) WriteWindowCall(c window.Call, fieldCol func(string) string) {
	b.writeWindowFunction(c.Fn, fieldCol)
	b.buf.WriteString(" OVER ")
	if c.Over.Name != "" && len(c.Over.PartitionBy) == 0 && len(c.Over.OrderBy) == 0 && c.Over.Frame == nil {
		b.Ident(c.Over.Name)
		return
	}
	b.writeWindowSpec(c.Over, fieldCol)
}

func (b *Builder) writeWindowFunction(fn window.Function, fieldCol func(string) string) {
	b.buf.WriteString(fn.Name)
	b.buf.WriteByte('(')
	for i, a := range fn.Args {
		if i > 0 {
			b.buf.WriteString(", ")
		}
		b.buf.WriteString(fieldCol(a))
	}
	b.buf.WriteByte(')')
}

func (b *Builder) writeWindowSpec(s window.Spec, fieldCol func(string) string) {
	b.buf.WriteByte('(')
	wrote := false
	if len(s.PartitionBy) > 0 {
		b.buf.WriteString("PARTITION BY ")
		b.Separated(s.PartitionBy, ", ", func(bb *Builder, f string) {
			bb.buf.WriteString(fieldCol(f))
		})
		wrote = true
	}
	if len(s.OrderBy) > 0 {
		if wrote {
			b.buf.WriteByte(' ')
		}
		b.buf.WriteString("ORDER BY ")
		for i, t := range s.OrderBy {
			if i > 0 {
				b.buf.WriteString(", ")
			}
			b.buf.WriteString(fieldCol(t.Field))
			if t.Desc {
				b.buf.WriteString(" DESC")
			}
		}
		wrote = true
	}
	if s.Frame != nil {
		if wrote {
			b.buf.WriteByte(' ')
		}
		b.writeFrame(*s.Frame)
	}
	b.buf.WriteByte(')')
}

func (b *Builder) writeFrame(f window.FrameClause) {
	if b.dialect == dialect.MySQL || b.dialect == dialect.SQLite {
		f = f.Degrade()
	}
	b.buf.WriteString(frameUnitName(f.Unit))
	b.buf.WriteString(" BETWEEN ")
	b.buf.WriteString(frameBoundSQL(f.Start))
	b.buf.WriteString(" AND ")
	b.buf.WriteString(frameBoundSQL(f.End))
}

func frameUnitName(u window.FrameUnit) string {
	switch u {
	case window.FrameRange:
		return "RANGE"
	case window.FrameGroups:
		return "GROUPS"
	default:
		return "ROWS"
	}
}

func frameBoundSQL(bnd window.Bound) string {
	switch bnd.Kind {
	case window.UnboundedPreceding:
		return "UNBOUNDED PRECEDING"
	case window.Preceding:
		return fmt.Sprintf("%d PRECEDING", bnd.Offset)
	case window.CurrentRow:
		return "CURRENT ROW"
	case window.Following:
		return fmt.Sprintf("%d FOLLOWING", bnd.Offset)
	case window.UnboundedFollowing:
		return "UNBOUNDED FOLLOWING"
	default:
		return "CURRENT ROW"
	}
}

// WriteNamedWindow renders a WINDOW clause entry: `name AS (...)`.
func (b *Builder) WriteNamedWindow(s window.Spec, fieldCol func(string) string) {
	b.Ident(s.Name)
	b.buf.WriteString(" AS ")
	b.writeWindowSpec(s, fieldCol)
}
