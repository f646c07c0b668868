package eventwall

// Pager is the paging handle of the wide strip. Offset is the index of the
// first visible slide; it moves one slide per step.
type Pager struct {
	offset  int
	total   int
	perView int
}

func NewPager(total, perView int) *Pager {
	p := &Pager{}
	p.Reset(total, perView)
	return p
}

// Reset sets the slide count and slides per view, clamping the offset.
func (p *Pager) Reset(total, perView int) {
	if perView < 1 {
		perView = 1
	}
	if total < 0 {
		total = 0
	}
	p.total = total
	p.perView = perView
	p.clamp()
}

func (p *Pager) Offset() int { return p.offset }

func (p *Pager) PerView() int { return p.perView }

// Positions is the number of distinct offsets.
func (p *Pager) Positions() int {
	if p.total <= p.perView {
		return 1
	}
	return p.total - p.perView + 1
}

func (p *Pager) maxOffset() int { return p.Positions() - 1 }

func (p *Pager) clamp() {
	if p.offset > p.maxOffset() {
		p.offset = p.maxOffset()
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

// Next advances one slide. It reports whether the offset moved.
func (p *Pager) Next() bool {
	if p == nil || p.offset >= p.maxOffset() {
		return false
	}
	p.offset++
	return true
}

// Prev goes back one slide. It reports whether the offset moved.
func (p *Pager) Prev() bool {
	if p == nil || p.offset == 0 {
		return false
	}
	p.offset--
	return true
}

// Seek moves to offset, clamped to the valid range.
func (p *Pager) Seek(offset int) {
	if p == nil {
		return
	}
	p.offset = offset
	p.clamp()
}

func (p *Pager) AtStart() bool { return p.offset == 0 }

func (p *Pager) AtEnd() bool { return p.offset >= p.maxOffset() }
