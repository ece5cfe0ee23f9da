package log_test

import (
	"context"

	"github.com/domainsale/domainsale/log"

	"github.com/sirupsen/logrus"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("context-carrying logger", func() {
	It("returns the global logger when none is attached", func() {
		entry := log.FromCtx(context.Background())
		Expect(entry.Logger).Should(Equal(log.Log()))
	})

	It("round-trips an attached logger through the context", func() {
		entry, hook := log.NewMockEntry()

		ctx, attached := log.NewCtx(context.Background(), entry)
		Expect(attached.Logger).Should(Equal(entry.Logger))

		attached.Info("hello")
		Expect(hook.Messages).Should(ConsistOf("hello"))

		Expect(log.FromCtx(ctx).Logger).Should(Equal(entry.Logger))
	})

	It("merges fields onto the context's logger via CtxWithFields", func() {
		entry, hook := log.NewMockEntry()
		ctx, _ := log.NewCtx(context.Background(), entry)

		ctx, scoped := log.CtxWithFields(ctx, logrus.Fields{"domain": "example.com"})
		scoped.Info("looked up")

		Expect(hook.Messages).Should(ConsistOf("looked up"))
		Expect(log.FromCtx(ctx).Data["domain"]).Should(Equal("example.com"))
	})

	It("applies an arbitrary wrap via WrapCtx", func() {
		entry, _ := log.NewMockEntry()
		ctx, _ := log.NewCtx(context.Background(), entry)

		_, wrapped := log.WrapCtx(ctx, func(e *logrus.Entry) *logrus.Entry {
			return e.WithField("wrapped", true)
		})

		Expect(wrapped.Data["wrapped"]).Should(BeTrue())
	})
})
