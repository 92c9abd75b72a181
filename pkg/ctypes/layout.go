package ctypes

import "modernc.org/mathutil"

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// Layout assigns member offsets and computes the size and alignment of st.
// A non-zero st.Pack caps natural member alignment as #pragma pack does;
// an explicit _Alignas is not capped. Bit-fields share a storage unit of
// their declared type until one would straddle it; a zero-width bit-field
// closes the unit.
func (c *Context) Layout(st StructID) {
	s := c.Struct(st)
	if s == nil {
		return
	}
	bits, size, align := 0, 0, 1
	for i := range s.Members {
		m := &s.Members[i]
		msize, malign, alignas := 0, 1, 0
		if t := c.Type(c.Underlying(m.Type)); t != nil {
			msize, malign, alignas = t.Size, t.Align, t.Alignas
		}
		malign = mathutil.Max(malign, 1)
		if s.Pack > 0 {
			malign = mathutil.Min(malign, s.Pack)
		}
		malign = mathutil.Max(malign, alignas)

		if s.Union {
			m.Offset, m.BitOffset = 0, 0
			size = mathutil.Max(size, msize)
			if m.BitWidth != 0 {
				align = mathutil.Max(align, malign)
			}
			continue
		}

		if m.BitWidth < 0 {
			offset := roundUp((bits+7)/8, malign)
			m.Offset, m.BitOffset = offset, 0
			bits = (offset + msize) * 8
			align = mathutil.Max(align, malign)
			continue
		}

		unit := mathutil.Max(msize, 1) * 8
		if m.BitWidth == 0 {
			bits = roundUp(bits, unit)
			continue
		}
		if s.Pack == 0 || s.Pack >= msize {
			if bits/unit != (bits+m.BitWidth-1)/unit {
				bits = roundUp(bits, unit)
			}
			m.Offset = bits / unit * (unit / 8)
		} else {
			m.Offset = bits / 8
		}
		m.BitOffset = bits - m.Offset*8
		bits += m.BitWidth
		align = mathutil.Max(align, malign)
	}
	if !s.Union {
		size = (bits + 7) / 8
	}
	s.Align = align
	s.Size = roundUp(size, align)
	s.Complete = true
	if t := c.Type(s.Type); t != nil {
		t.Size, t.Align = s.Size, s.Align
	}
}

// LayoutEnum picks the smallest of int, unsigned int, long long and
// unsigned long long that holds every enumerator of en.
func (c *Context) LayoutEnum(en EnumID) {
	e := c.Enum(en)
	if e == nil {
		return
	}
	neg, width := false, 0
	for _, v := range e.Enumerators {
		switch v := v.Value.(type) {
		case IntValue:
			if v < 0 {
				neg = true
				width = mathutil.Max(width, mathutil.BitLenUint64(uint64(^v)))
			} else {
				width = mathutil.Max(width, mathutil.BitLenUint64(uint64(v)))
			}
		case UintValue:
			width = mathutil.Max(width, mathutil.BitLenUint64(uint64(v)))
		}
	}
	switch {
	case width <= 31:
		e.Size, e.Unsigned = 4, false
	case width == 32 && !neg:
		e.Size, e.Unsigned = 4, true
	case width <= 63:
		e.Size, e.Unsigned = 8, false
	default:
		e.Size, e.Unsigned = 8, !neg
	}
	e.Complete = true
	if t := c.Type(e.Type); t != nil {
		t.Size, t.Align = e.Size, e.Size
		if e.Unsigned {
			t.Flags |= Unsigned
		} else {
			t.Flags &^= Unsigned
		}
	}
}
