package rdap_test

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/domainsale/domainsale/rdap"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewClient", func() {
	It("pins a minimum TLS version of 1.2 on its transport", func() {
		c := rdap.NewClient(context.Background(), time.Second)

		transport, ok := c.HTTP.Transport.(*http.Transport)
		Expect(ok).Should(BeTrue())
		Expect(transport.TLSClientConfig).ShouldNot(BeNil())
		Expect(transport.TLSClientConfig.MinVersion).Should(Equal(uint16(tls.VersionTLS12)))
	})
})

var _ = Describe("Client", func() {
	var (
		ctx        context.Context
		rdapServer *httptest.Server
		bootSvr    *httptest.Server
	)

	BeforeEach(func() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		DeferCleanup(cancel)
	})

	AfterEach(func() {
		if rdapServer != nil {
			rdapServer.Close()
		}

		if bootSvr != nil {
			bootSvr.Close()
		}
	})

	newClient := func(status string) *rdap.Client {
		rdapServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/rdap+json")
			fmt.Fprintf(w, `{"status": [%q]}`, status)
		}))

		bootSvr = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"services": [[["com"], [%q]]]}`, rdapServer.URL)
		}))

		c := rdap.NewClient(ctx, time.Second)
		c.BootstrapURL = bootSvr.URL

		return c
	}

	It("reports true when the RDAP status carries the for-sale tag", func() {
		c := newClient("for-sale")

		ok, err := c.CheckForSaleStatus(ctx, "example.com")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(ok).Should(BeTrue())
	})

	It("reports false when the RDAP status does not carry the tag", func() {
		c := newClient("active")

		ok, err := c.CheckForSaleStatus(ctx, "example.com")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(ok).Should(BeFalse())
	})

	It("reuses the cached bootstrap registry across calls", func() {
		c := newClient("for-sale")

		bootHits := 0
		wrapped := bootSvr.Config.Handler
		bootSvr.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bootHits++
			wrapped.ServeHTTP(w, r)
		})

		_, err := c.CheckForSaleStatus(ctx, "example.com")
		Expect(err).ShouldNot(HaveOccurred())

		_, err = c.CheckForSaleStatus(ctx, "other.com")
		Expect(err).ShouldNot(HaveOccurred())

		Expect(bootHits).Should(Equal(1))
	})

	It("errors when no RDAP server is found for the TLD", func() {
		bootSvr = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"services": []}`)
		}))

		c := rdap.NewClient(ctx, time.Second)
		c.BootstrapURL = bootSvr.URL

		_, err := c.CheckForSaleStatus(ctx, "example.zz")
		Expect(err).Should(HaveOccurred())
	})
})
