package ctypes

import "testing"

type field struct {
	name  string
	typ   Flags
	width int // -1 for ordinary members
}

func layout(t *testing.T, union bool, pack int, fields ...field) *Struct {
	t.Helper()
	c := NewContext(LP64)
	s := c.Struct(c.AddStruct(c.Root(), "", union, noPos))
	s.Pack = pack
	for _, f := range fields {
		s.Members = append(s.Members, Member{Name: f.name, Type: c.Basic(f.typ), BitWidth: f.width})
	}
	c.Layout(s.ID)
	if typ := c.Type(s.Type); typ.Size != s.Size || typ.Align != s.Align {
		t.Errorf("type not updated: %d/%d vs %d/%d", typ.Size, typ.Align, s.Size, s.Align)
	}
	return s
}

func offsets(s *Struct) []int {
	var out []int
	for _, m := range s.Members {
		out = append(out, m.Offset)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name    string
		union   bool
		pack    int
		fields  []field
		offsets []int
		size    int
		align   int
	}{
		{"int char", false, 0, []field{{"a", Int, -1}, {"b", Char, -1}}, []int{0, 4}, 8, 4},
		{"char double", false, 0, []field{{"a", Char, -1}, {"b", Floating | Double, -1}}, []int{0, 8}, 16, 8},
		{"packed 1", false, 1, []field{{"a", Char, -1}, {"b", Int, -1}}, []int{0, 1}, 5, 1},
		{"packed 2", false, 2, []field{{"a", Char, -1}, {"b", LongLong, -1}}, []int{0, 2}, 10, 2},
		{"union", true, 0, []field{{"a", Char, -1}, {"b", Int, -1}, {"c", Short, -1}}, []int{0, 0, 0}, 4, 4},
		{"empty", false, 0, nil, nil, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := layout(t, tt.union, tt.pack, tt.fields...)
			if got := offsets(s); !equalInts(got, tt.offsets) {
				t.Errorf("offsets = %v, want %v", got, tt.offsets)
			}
			if s.Size != tt.size || s.Align != tt.align {
				t.Errorf("size/align = %d/%d, want %d/%d", s.Size, s.Align, tt.size, tt.align)
			}
			if !s.Complete {
				t.Error("not marked complete")
			}
		})
	}
}

func TestLayoutBitFields(t *testing.T) {
	s := layout(t, false, 0,
		field{"a", Unsigned, 3},
		field{"b", Unsigned, 30},
		field{"", Unsigned, 0},
		field{"c", Unsigned, 1},
		field{"d", Char, -1},
	)
	want := []struct{ offset, bit int }{{0, 0}, {4, 0}, {0, 0}, {8, 0}, {9, 0}}
	for i, m := range s.Members {
		if i == 2 {
			continue
		}
		if m.Offset != want[i].offset || m.BitOffset != want[i].bit {
			t.Errorf("member %d at %d.%d, want %d.%d", i, m.Offset, m.BitOffset, want[i].offset, want[i].bit)
		}
	}
	if s.Size != 12 {
		t.Errorf("size = %d, want 12", s.Size)
	}

	s = layout(t, false, 0, field{"a", Unsigned, 3}, field{"b", Unsigned, 5})
	if s.Members[1].Offset != 0 || s.Members[1].BitOffset != 3 || s.Size != 4 {
		t.Errorf("adjacent bit-fields: b at %d.%d, size %d", s.Members[1].Offset, s.Members[1].BitOffset, s.Size)
	}
}

func TestLayoutEnum(t *testing.T) {
	tests := []struct {
		values   []Value
		size     int
		unsigned bool
	}{
		{[]Value{IntValue(0), IntValue(1)}, 4, false},
		{[]Value{IntValue(-2147483648)}, 4, false},
		{[]Value{UintValue(0xFFFFFFFF)}, 4, true},
		{[]Value{IntValue(-1), IntValue(0x80000000)}, 8, false},
		{[]Value{UintValue(1 << 63)}, 8, true},
	}
	for i, tt := range tests {
		c := NewContext(LP64)
		en := c.AddEnum(c.Root(), "", noPos)
		for j, v := range tt.values {
			c.AddEnumValue(c.Root(), en, string(rune('A'+j)), v, noPos)
		}
		c.LayoutEnum(en)
		e := c.Enum(en)
		if e.Size != tt.size || e.Unsigned != tt.unsigned {
			t.Errorf("case %d: size %d unsigned %v, want %d %v", i, e.Size, e.Unsigned, tt.size, tt.unsigned)
		}
		if c.Type(e.Type).Size != tt.size {
			t.Errorf("case %d: type size not updated", i)
		}
	}
}

func TestLayoutAlignasIgnoresPack(t *testing.T) {
	c := NewContext(LP64)
	s := c.Struct(c.AddStruct(c.Root(), "A", false, noPos))
	s.Pack = 1
	s.Members = []Member{
		{Name: "c", Type: c.Basic(Char), BitWidth: -1},
		{Name: "i", Type: c.AddAlignasType(c.Basic(Int), 8), BitWidth: -1},
		{Name: "l", Type: c.Basic(Long), BitWidth: -1},
	}
	c.Layout(s.ID)
	if got := offsets(s); !equalInts(got, []int{0, 8, 12}) {
		t.Errorf("offsets = %v", got)
	}
	if s.Size != 24 || s.Align != 8 {
		t.Errorf("size/align = %d/%d, want 24/8", s.Size, s.Align)
	}
}
