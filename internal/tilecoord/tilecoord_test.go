package tilecoord

import "testing"

func TestResolveSourceNoOverzoom(t *testing.T) {
	srcZ, subZ, div := ResolveSource(10, 0, 14)
	if srcZ != 10 || subZ != 0 || div != 1 {
		t.Errorf("got (%d,%d,%d), want (10,0,1)", srcZ, subZ, div)
	}
}

func TestResolveSourceClipsToMaxzoom(t *testing.T) {
	srcZ, subZ, div := ResolveSource(16, 1, 12)
	if srcZ != 12 {
		t.Errorf("srcZ = %d, want 12", srcZ)
	}
	if subZ != 4 || div != 16 {
		t.Errorf("got subZ=%d div=%d, want subZ=4 div=16", subZ, div)
	}
}

func TestCenterSource(t *testing.T) {
	nx, ny, subx, suby := CenterSource(9, 5, 4)
	if nx != 2 || ny != 1 || subx != 1 || suby != 1 {
		t.Errorf("got (%d,%d,%d,%d), want (2,1,1,1)", nx, ny, subx, suby)
	}
}

func TestNeighborsWrapsHorizontally(t *testing.T) {
	nb := Neighbors(3, 0, 4) // n = 8, center at x=0 wraps west neighbor to x=7
	west := nb[3]            // (dj=0, di=-1) is index 3 in row-major (-1,-1)..(1,1)
	if !west.OK || west.Key.X != 7 {
		t.Errorf("west neighbor = %+v, want x=7", west)
	}
	center := nb[4]
	if center.Key != (Key{Z: 3, X: 0, Y: 4}) {
		t.Errorf("center = %+v, want (3,0,4)", center.Key)
	}
}

func TestNeighborsClipsVertically(t *testing.T) {
	nb := Neighbors(3, 0, 0) // n = 8, top row: north neighbors are out of range
	north := nb[1]           // (dj=-1, di=0)
	if north.OK {
		t.Errorf("north neighbor at y=-1 should be OK=false, got %+v", north)
	}
}
