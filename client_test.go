package domainsale_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"time"

	domainsale "github.com/domainsale/domainsale"

	"github.com/miekg/dns"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func startUpstream(handler dns.HandlerFunc) (addr string, stop func()) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	Expect(err).ShouldNot(HaveOccurred())

	srv := &dns.Server{PacketConn: pc, Handler: handler}
	go func() { _ = srv.ActivateAndServe() }()

	return pc.LocalAddr().String(), func() { _ = srv.Shutdown() }
}

func txtAnswer(ad bool, content string) dns.HandlerFunc {
	return txtAnswerSigned(ad, false, content)
}

// txtAnswerSigned lets a test distinguish an unsigned zone (no RRSIG, an
// absent AD bit is not an error) from a signed one (RRSIG present, an
// absent AD bit is a genuine DNSSEC validation failure).
func txtAnswerSigned(ad, signed bool, content string) dns.HandlerFunc {
	return func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		m.AuthenticatedData = ad
		m.Answer = append(m.Answer, &dns.TXT{
			Hdr: dns.RR_Header{Name: r.Question[0].Name, Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 60},
			Txt: []string{content},
		})

		if signed {
			m.Answer = append(m.Answer, &dns.RRSIG{
				Hdr:         dns.RR_Header{Name: r.Question[0].Name, Rrtype: dns.TypeRRSIG, Class: dns.ClassINET, Ttl: 60},
				TypeCovered: dns.TypeTXT,
				Algorithm:   dns.RSASHA256,
				SignerName:  r.Question[0].Name,
			})
		}

		_ = w.WriteMsg(m)
	}
}

var _ = Describe("Client.GetStatus", func() {
	var (
		ctx      context.Context
		falseVal = false
	)

	BeforeEach(func() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 3*time.Second)
		DeferCleanup(cancel)
	})

	It("reports for-sale for a valid, DNSSEC-authenticated record", func() {
		addr, stop := startUpstream(txtAnswer(true,
			`v=FORSALE1;{"v":"1","price":"USD:5000","url":"https://broker.example","contact":"mailto:sales@example.com"}`))
		defer stop()

		client := domainsale.NewClient(ctx)
		resp, err := client.GetStatus(ctx, "example.com", domainsale.Options{Upstream: addr})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(resp.ForSale).Should(BeTrue())
		Expect(resp.Price).Should(Equal("USD:5000"))
		Expect(resp.Source).Should(ConsistOf("dns"))
		Expect(resp.Errors).Should(BeEmpty())
	})

	It("reports not-for-sale with no errors when there is no for-sale record", func() {
		addr, stop := startUpstream(txtAnswer(true, "unrelated TXT content"))
		defer stop()

		client := domainsale.NewClient(ctx)
		resp, err := client.GetStatus(ctx, "example.com", domainsale.Options{Upstream: addr})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(resp.ForSale).Should(BeFalse())
		Expect(resp.Errors).Should(BeEmpty())
	})

	It("surfaces a DNSSEC failure as a response error, not a Go error", func() {
		addr, stop := startUpstream(txtAnswerSigned(false, true, `v=FORSALE1;{}`))
		defer stop()

		client := domainsale.NewClient(ctx)
		resp, err := client.GetStatus(ctx, "example.com", domainsale.Options{Upstream: addr})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(resp.ForSale).Should(BeFalse())
		Expect(resp.Errors).ShouldNot(BeEmpty())
	})

	It("reports not-for-sale with no errors for an insecure (unsigned) delegation", func() {
		addr, stop := startUpstream(txtAnswerSigned(false, false, "unrelated TXT content"))
		defer stop()

		client := domainsale.NewClient(ctx)
		resp, err := client.GetStatus(ctx, "example.com", domainsale.Options{Upstream: addr})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(resp.ForSale).Should(BeFalse())
		Expect(resp.Errors).Should(BeEmpty())
	})

	It("collects a field-validation error as a response error, not a Go error", func() {
		addr, stop := startUpstream(txtAnswer(true, `v=FORSALE1;{"v":"1","price":"bad","url":"https://a.com","contact":"mailto:a@a.com"}`))
		defer stop()

		client := domainsale.NewClient(ctx)
		resp, err := client.GetStatus(ctx, "example.com", domainsale.Options{Upstream: addr})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(resp.ForSale).Should(BeFalse())
		Expect(resp.Errors).Should(HaveLen(1))
	})

	It("reports RDAPDisagreement when RDAP does not confirm the DNS record", func() {
		dnsAddr, stopDNS := startUpstream(txtAnswer(true,
			`v=FORSALE1;{"v":"1","price":"USD:1","url":"https://a.com","contact":"mailto:a@a.com"}`))
		defer stopDNS()

		rdapSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status": ["active"]}`)
		}))
		defer rdapSrv.Close()

		bootSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"services": [[["com"], [%q]]]}`, rdapSrv.URL)
		}))
		defer bootSrv.Close()

		client := domainsale.NewClient(ctx)
		client.RDAP.BootstrapURL = bootSrv.URL

		resp, err := client.GetStatus(ctx, "example.com", domainsale.Options{Upstream: dnsAddr, EnableRDAPCheck: true})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(resp.ForSale).Should(BeFalse())
		Expect(resp.RDAPDisagreement).Should(BeTrue())
	})

	It("allows disabling the DNSSEC requirement per call", func() {
		addr, stop := startUpstream(txtAnswer(false,
			`v=FORSALE1;{"v":"1","price":"USD:1","url":"https://a.com","contact":"mailto:a@a.com"}`))
		defer stop()

		client := domainsale.NewClient(ctx)
		resp, err := client.GetStatus(ctx, "example.com",
			domainsale.Options{Upstream: addr, RequireDNSSEC: &falseVal})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(resp.ForSale).Should(BeTrue())
	})
})

var _ = Describe("Default", func() {
	It("returns the same client on repeated calls", func() {
		Expect(domainsale.Default()).Should(BeIdenticalTo(domainsale.Default()))
	})
})
