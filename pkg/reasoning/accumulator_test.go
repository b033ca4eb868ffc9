package reasoning_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/reel/pkg/reasoning"
)

var _ = Describe("Accumulator", func() {
	It("merges fragments sharing index and type", func() {
		var acc reasoning.Accumulator
		acc.Add(reasoning.Item{Type: reasoning.TypeText, Index: 0, Text: "Hel"})
		acc.Add(reasoning.Item{Type: reasoning.TypeText, Index: 0, Text: "lo", Signature: "sig", ID: "r1"})
		acc.Add(reasoning.Item{Type: reasoning.TypeEncrypted, Index: 1, Data: "blob"})

		items := acc.Items()
		Expect(items).To(HaveLen(2))
		Expect(items[0].Text).To(Equal("Hello"))
		Expect(items[0].Signature).To(Equal("sig"))
		Expect(items[0].ID).To(Equal("r1"))
		Expect(items[1].Data).To(Equal("blob"))
		Expect(acc.Len()).To(Equal(2))
	})

	It("keeps records with different ids at the same index apart", func() {
		var acc reasoning.Accumulator
		acc.Add(reasoning.Item{Type: reasoning.TypeEncrypted, ID: "rs_1", Index: 0, Data: "BLOB1"})
		acc.Add(reasoning.Item{Type: reasoning.TypeEncrypted, ID: "rs_2", Index: 0, Data: "BLOB2"})

		items := acc.Items()
		Expect(items).To(HaveLen(2))
		Expect(items[0].ID).To(Equal("rs_1"))
		Expect(items[0].Data).To(Equal("BLOB1"))
		Expect(items[1].ID).To(Equal("rs_2"))
		Expect(items[1].Data).To(Equal("BLOB2"))
	})

	It("never joins encrypted data for the same record", func() {
		var acc reasoning.Accumulator
		acc.Add(reasoning.Item{Type: reasoning.TypeEncrypted, ID: "rs_1", Index: 0, Data: "BLOB1"})
		acc.Add(reasoning.Item{Type: reasoning.TypeEncrypted, ID: "rs_1", Index: 0, Data: "BLOB1"})

		Expect(acc.Items()).To(ConsistOf(HaveField("Data", "BLOB1")))
	})

	It("continues the latest record when a fragment has no id", func() {
		var acc reasoning.Accumulator
		acc.Add(reasoning.Item{Type: reasoning.TypeText, ID: "rs_1", Index: 0, Text: "a"})
		acc.Add(reasoning.Item{Type: reasoning.TypeText, ID: "rs_2", Index: 0, Text: "b"})
		acc.Add(reasoning.Item{Type: reasoning.TypeText, Index: 0, Text: "c"})

		items := acc.Items()
		Expect(items).To(HaveLen(2))
		Expect(items[0].Text).To(Equal("a"))
		Expect(items[1].Text).To(Equal("bc"))
	})

	It("ignores invalid fragments", func() {
		var acc reasoning.Accumulator
		acc.Add(reasoning.Item{Type: "nope"})
		Expect(acc.Items()).To(BeNil())
	})
})
