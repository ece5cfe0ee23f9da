package render_test

import (
	"github.com/domainsale/domainsale/model"
	"github.com/domainsale/domainsale/render"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HTML", func() {
	It("escapes a price field that tries to break out of its div", func() {
		record := &model.ValidatedRecord{
			Price:   `USD:1<script>alert(1)</script>`,
			URL:     "https://broker.example",
			Contact: "mailto:sales@example.com",
		}

		out, err := render.HTML("example.com", record)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(out).ShouldNot(ContainSubstring("<script>"))
		Expect(out).Should(ContainSubstring("&lt;script&gt;"))
	})

	It("escapes a domain name containing markup", func() {
		record := &model.ValidatedRecord{Price: "USD:1", URL: "https://a.com", Contact: "mailto:a@a.com"}

		out, err := render.HTML(`<b>evil</b>.com`, record)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(out).ShouldNot(ContainSubstring("<b>evil</b>"))
	})

	It("renders the contact mailto as a link with the bare address as text", func() {
		record := &model.ValidatedRecord{Price: "USD:1", URL: "https://a.com", Contact: "mailto:sales@example.com"}

		out, err := render.HTML("example.com", record)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(out).Should(ContainSubstring(`href="mailto:sales@example.com"`))
		Expect(out).Should(ContainSubstring(">sales@example.com<"))
	})
})

var _ = Describe("Text", func() {
	It("includes every populated field", func() {
		record := &model.ValidatedRecord{Price: "USD:500", URL: "https://a.com", Contact: "mailto:a@a.com"}

		out := render.Text("example.com", record, []string{"dns", "rdap"})
		Expect(out).Should(ContainSubstring("Domain for Sale: example.com"))
		Expect(out).Should(ContainSubstring("Price: USD:500"))
		Expect(out).Should(ContainSubstring("Contact: a@a.com"))
		Expect(out).Should(ContainSubstring("More Info: https://a.com"))
		Expect(out).Should(ContainSubstring("Source: dns, rdap"))
	})
})
