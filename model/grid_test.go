package model

import "testing"

func TestInBounds(t *testing.T) {
	tests := []struct {
		c    Cell
		want bool
	}{
		{Cell{13, 0}, true},
		{Cell{14, 0}, true},
		{Cell{12, 0}, false},
		{Cell{15, 0}, false},
		{Cell{0, 13}, true},
		{Cell{27, 13}, true},
		{Cell{0, 14}, true},
		{Cell{27, 14}, true},
		{Cell{1, 12}, true},
		{Cell{0, 12}, false},
		{Cell{13, 27}, true},
		{Cell{14, 27}, true},
		{Cell{12, 27}, false},
		{Cell{-1, 13}, false},
		{Cell{13, 28}, false},
	}
	for _, tc := range tests {
		if got := InBounds(tc.c); got != tc.want {
			t.Errorf("InBounds(%v) = %v, want %v", tc.c, got, tc.want)
		}
	}
}

func TestEdgeCellsOnEdge(t *testing.T) {
	for _, e := range []Edge{TopRight, TopLeft, BottomLeft, BottomRight} {
		cells := e.Cells()
		if len(cells) != HalfArena {
			t.Fatalf("%v has %d cells, want %d", e, len(cells), HalfArena)
		}
		for _, c := range cells {
			if !InBounds(c) {
				t.Errorf("%v cell %v out of bounds", e, c)
			}
			if !e.Contains(c) {
				t.Errorf("%v does not contain its own cell %v", e, c)
			}
		}
	}
}

func TestEdgeContains(t *testing.T) {
	if !TopLeft.Contains(Cell{0, 14}) {
		t.Error("TopLeft should contain [0,14]")
	}
	if !TopRight.Contains(Cell{27, 14}) {
		t.Error("TopRight should contain [27,14]")
	}
	if TopRight.Contains(Cell{13, 14}) {
		t.Error("TopRight should not contain an interior cell")
	}
	if !BottomLeft.Contains(Cell{13, 0}) || !BottomRight.Contains(Cell{14, 0}) {
		t.Error("bottom corners should sit on the bottom edges")
	}
}

func TestCellHelpers(t *testing.T) {
	c := Cell{3, 13}
	if got := c.Mirror(); got != (Cell{24, 13}) {
		t.Errorf("Mirror = %v, want [24,13]", got)
	}
	if got := c.Behind(); got != (Cell{3, 12}) {
		t.Errorf("Behind = %v, want [3,12]", got)
	}
	if !c.LeftHalf() || (Cell{14, 13}).LeftHalf() {
		t.Error("LeftHalf split should be at x = 13")
	}
	if d := Distance(Cell{0, 0}, Cell{3, 4}); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}
