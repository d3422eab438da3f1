package vertex

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sarchlab/neurogrid/mat"
	"github.com/sarchlab/neurogrid/region"
)

func testVertex(t *testing.T) *Vertex {
	t.Helper()

	m := mat.New(10, 2)
	for r := 0; r < 10; r++ {
		m.Set(r, 0, float64(r))
		m.Set(r, 1, float64(r+100))
	}

	return &Vertex{
		NAtoms: 10,
		Label:  "pop0",
		Regions: []region.Region{
			region.MakeListRegionBuilder().
				WithWords([]uint32{1, 0, 7}).
				WithNAtomsIndex(1).
				Build(),
			nil, // empty slot, preserved in numbering but never emitted
			region.MakeMatrixRegionBuilder().
				WithMatrix(m).
				WithAxis(region.AxisRows).
				InBulkMemory().
				Build(),
			region.NewBitfieldRecordingRegion(4),
		},
		CPU: func(s region.Slice) int { return 10 * s.Atoms() },
		StaticDTCM: func(s region.Slice) int {
			return 5
		},
	}
}

func TestResourcesFor(t *testing.T) {
	v := testVertex(t)

	res, err := v.ResourcesFor(region.Slice{Start: 0, Stop: 4})
	if err != nil {
		t.Fatal(err)
	}

	// list=3 words, matrix=4*2=8 words, bitfield=ceil(4/32)*4=4 words.
	if want := 4 * (3 + 8 + 4); res.SDRAMBytes != want {
		t.Errorf("SDRAM = %d, want %d", res.SDRAMBytes, want)
	}
	// Only the list region is in scratch memory, plus 5 static words.
	if want := 4 * (3 + 5); res.DTCMBytes != want {
		t.Errorf("DTCM = %d, want %d", res.DTCMBytes, want)
	}
	if res.CPUCycles != 40 {
		t.Errorf("CPU = %d, want 40", res.CPUCycles)
	}
}

func TestResourcesForInvalidSlice(t *testing.T) {
	v := testVertex(t)

	for _, s := range []region.Slice{
		{Start: 4, Stop: 4},
		{Start: 0, Stop: 11},
		{Start: -1, Stop: 3},
	} {
		_, err := v.ResourcesFor(s)
		var sliceErr *region.InvalidSliceError
		if !errors.As(err, &sliceErr) {
			t.Errorf("slice %v gave %v, want InvalidSliceError", s, err)
		}
	}
}

func TestSubregions(t *testing.T) {
	v := testVertex(t)

	subs, err := v.Subregions(region.Slice{Start: 3, Stop: 7}, 2)
	if err != nil {
		t.Fatal(err)
	}

	// Three non-nil regions.
	if len(subs) != 3 {
		t.Fatalf("got %d subregions, want 3", len(subs))
	}

	// List region with atom count substituted.
	if subs[0].SizeWords != 3 || len(subs[0].Data) != 12 {
		t.Errorf("list subregion %+v", subs[0])
	}
	if subs[0].Data[4] != 4 { // second word, little-endian low byte
		t.Errorf("atom count not substituted: % x", subs[0].Data)
	}

	// Matrix rows 3..6.
	if subs[1].SizeWords != 8 {
		t.Errorf("matrix subregion size %d, want 8", subs[1].SizeWords)
	}
	if subs[1].Data[0] != 3 {
		t.Errorf("matrix data starts % x, want row 3", subs[1].Data[:4])
	}

	// Recording region reserves space but carries no payload.
	if !subs[2].Unfilled || subs[2].Data != nil || subs[2].SizeWords != 4 {
		t.Errorf("recording subregion %+v", subs[2])
	}
}

func TestSubregionsDeterministic(t *testing.T) {
	v := testVertex(t)
	s := region.Slice{Start: 1, Stop: 9}

	first, err := v.Subregions(s, 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := v.Subregions(s, 1)
	if err != nil {
		t.Fatal(err)
	}

	for i := range first {
		if !bytes.Equal(first[i].Data, second[i].Data) {
			t.Errorf("subregion %d differs between emissions", i)
		}
	}
}

func TestResourceReport(t *testing.T) {
	v := testVertex(t)

	out, err := ResourceReport([]ReportRow{
		{Vertex: v, Slice: region.Slice{Start: 0, Stop: 10}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "pop0") || !strings.Contains(out, "[0, 10)") {
		t.Errorf("report missing vertex row:\n%s", out)
	}
}

func TestResourceReportInvalidSlice(t *testing.T) {
	v := testVertex(t)

	_, err := ResourceReport([]ReportRow{
		{Vertex: v, Slice: region.Slice{Start: 5, Stop: 2}},
	})
	if err == nil {
		t.Error("invalid slice accepted")
	}
}
