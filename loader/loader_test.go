package loader

import (
	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/neurogrid/machine"
	"github.com/sarchlab/neurogrid/vertex"
)

func buildTestMachine(engine sim.Engine) *machine.Machine {
	chips := make([][]*machine.Chip, 2)
	for x := 0; x < 2; x++ {
		chips[x] = make([]*machine.Chip, 1)
		chips[x][0] = machine.MakeChipBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithCoordinate(x, 0).
			WithSDRAMCapacity(1 << 12).
			Build("Chip" + string(rune('A'+x)))
	}
	return machine.NewMachine(chips)
}

var _ = Describe("Loader", func() {
	var (
		engine sim.Engine
		m      *machine.Machine
		l      *Loader
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		m = buildTestMachine(engine)
		l = MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithMachine(m).
			Build("Loader")
	})

	It("should stream filled subregions and skip unfilled ones", func() {
		chip := m.Chip(0, 0)
		// Sentinels in the gap left by the unfilled subregion.
		chip.WriteSDRAM(108, []byte{0xFF, 0xFF, 0xFF, 0xFF})

		pv := &vertex.PlacedVertex{
			X: 0, Y: 0, Core: 1,
			Subregions: []vertex.Subregion{
				{SizeWords: 2, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
				{SizeWords: 3, Unfilled: true},
				{SizeWords: 1, Data: []byte{9, 10, 11, 12}},
			},
		}

		size, err := l.LoadVertex(pv, 100)
		Expect(err).ToNot(HaveOccurred())
		Expect(size).To(Equal(24))

		Expect(l.Run()).To(Succeed())

		Expect(chip.ReadSDRAM(100, 8)).
			To(Equal([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
		Expect(chip.ReadSDRAM(108, 4)).
			To(Equal([]byte{0xFF, 0xFF, 0xFF, 0xFF}))
		Expect(chip.ReadSDRAM(120, 4)).
			To(Equal([]byte{9, 10, 11, 12}))
	})

	It("should load different chips independently", func() {
		pv0 := &vertex.PlacedVertex{
			X: 0, Y: 0, Core: 1,
			Subregions: []vertex.Subregion{
				{SizeWords: 1, Data: []byte{1, 1, 1, 1}},
			},
		}
		pv1 := &vertex.PlacedVertex{
			X: 1, Y: 0, Core: 1,
			Subregions: []vertex.Subregion{
				{SizeWords: 1, Data: []byte{2, 2, 2, 2}},
			},
		}

		_, err := l.LoadVertex(pv0, 0)
		Expect(err).ToNot(HaveOccurred())
		_, err = l.LoadVertex(pv1, 0)
		Expect(err).ToNot(HaveOccurred())

		Expect(l.Run()).To(Succeed())

		Expect(m.Chip(0, 0).ReadSDRAM(0, 4)).To(Equal([]byte{1, 1, 1, 1}))
		Expect(m.Chip(1, 0).ReadSDRAM(0, 4)).To(Equal([]byte{2, 2, 2, 2}))
	})

	It("should read recorded data back", func() {
		recorded := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0x11, 0x22, 0x33, 0x44}
		m.Chip(1, 0).WriteSDRAM(64, recorded)

		task := l.ReadBack(1, 0, 64, len(recorded))

		Expect(l.Run()).To(Succeed())

		Expect(task.Done()).To(BeTrue())
		Expect(task.Data()).To(Equal(recorded))
	})

	It("should re-emit identically after a retried load", func() {
		pv := &vertex.PlacedVertex{
			X: 0, Y: 0, Core: 1,
			Subregions: []vertex.Subregion{
				{SizeWords: 2, Data: []byte{7, 7, 7, 7, 8, 8, 8, 8}},
			},
		}

		_, err := l.LoadVertex(pv, 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(l.Run()).To(Succeed())

		first := m.Chip(0, 0).ReadSDRAM(0, 8)

		_, err = l.LoadVertex(pv, 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(l.Run()).To(Succeed())

		Expect(m.Chip(0, 0).ReadSDRAM(0, 8)).To(Equal(first))
	})

	Describe("binary resolution", func() {
		var (
			mockCtrl *gomock.Controller
			resolver *MockBinaryResolver
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			resolver = NewMockBinaryResolver(mockCtrl)
			l = MakeBuilder().
				WithEngine(engine).
				WithFreq(1 * sim.GHz).
				WithMachine(m).
				WithBinaryResolver(resolver).
				Build("LoaderWithResolver")
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should resolve the executable when queueing a vertex", func() {
			resolver.EXPECT().
				Binary("lif_ensemble").
				Return("/binaries/lif_ensemble.aplx", nil)

			pv := &vertex.PlacedVertex{
				X: 0, Y: 0, Core: 1, Executable: "lif_ensemble",
				Subregions: []vertex.Subregion{
					{SizeWords: 1, Data: []byte{0, 0, 0, 0}},
				},
			}

			_, err := l.LoadVertex(pv, 0)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should refuse a vertex whose binary cannot be found", func() {
			resolver.EXPECT().
				Binary("missing").
				Return("", errors.New("no such model"))

			pv := &vertex.PlacedVertex{
				X: 0, Y: 0, Core: 1, Executable: "missing",
			}

			_, err := l.LoadVertex(pv, 0)
			Expect(err).To(HaveOccurred())
		})
	})
})
