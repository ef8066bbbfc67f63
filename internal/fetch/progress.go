package fetch

import (
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// progressWriter counts bytes and logs a line every `every` bytes.
type progressWriter struct {
	log      zerolog.Logger
	total    int64 // -1 when unknown
	every    int64
	written  int64
	reported int64
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if p.every > 0 && p.written-p.reported >= p.every {
		p.reported = p.written
		ev := p.log.Info().Str("written", humanize.Bytes(uint64(p.written)))
		if p.total > 0 {
			ev = ev.Str("total", humanize.Bytes(uint64(p.total))).
				Float64("percent", float64(p.written)*100/float64(p.total))
		}
		ev.Msg("downloading")
	}
	return len(b), nil
}
