package dashboard_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/simple-observability/pkg/dashboard"
)

var _ = Describe("ServiceEndpoint", func() {
	Describe("NewServiceEndpoint", func() {
		It("is enabled without a timeout override by default", func() {
			svc := dashboard.NewServiceEndpoint("Payment API", "PROD", "https://api.example.com/healthz")

			Expect(svc.Name).To(Equal("Payment API"))
			Expect(svc.Environment).To(Equal("PROD"))
			Expect(svc.HealthCheckURL).To(Equal("https://api.example.com/healthz"))
			Expect(svc.Description).To(BeEmpty())
			Expect(svc.Enabled).To(BeTrue())
			Expect(svc.HasTimeout()).To(BeFalse())
		})

		It("applies options", func() {
			svc := dashboard.NewServiceEndpoint("Payment API", "PROD", "https://api.example.com/healthz",
				dashboard.WithDescription("Handles payments"),
				dashboard.WithEnabled(false),
				dashboard.WithServiceTimeout(15),
			)

			Expect(svc.Description).To(Equal("Handles payments"))
			Expect(svc.Enabled).To(BeFalse())
			Expect(svc.TimeoutSeconds).To(Equal(15))
		})
	})

	It("has structural equality", func() {
		a := dashboard.NewServiceEndpoint("A", "DEV", "http://a", dashboard.WithServiceTimeout(3))
		b := dashboard.NewServiceEndpoint("A", "DEV", "http://a", dashboard.WithServiceTimeout(3))

		Expect(a == b).To(BeTrue())
		Expect(a == dashboard.NewServiceEndpoint("A", "UAT", "http://a")).To(BeFalse())
	})

	DescribeTable("EffectiveTimeout",
		func(serviceTimeout, defaultTimeout int, expected time.Duration) {
			svc := dashboard.NewServiceEndpoint("A", "DEV", "http://a", dashboard.WithServiceTimeout(serviceTimeout))
			Expect(svc.EffectiveTimeout(defaultTimeout)).To(Equal(expected))
		},
		Entry("falls back to the default", 0, 5, 5*time.Second),
		Entry("uses its own timeout", 12, 5, 12*time.Second),
	)

	Describe("Validate", func() {
		It("does not validate the health check URL format", func() {
			svc := dashboard.NewServiceEndpoint("A", "DEV", "not a url")
			Expect(svc.Validate()).To(Succeed())
		})

		It("rejects a negative timeout", func() {
			svc := dashboard.NewServiceEndpoint("A", "DEV", "http://a", dashboard.WithServiceTimeout(-1))
			Expect(svc.Validate()).NotTo(Succeed())
		})

		It("requires a name", func() {
			svc := dashboard.NewServiceEndpoint("", "DEV", "http://a")
			Expect(svc.Validate()).To(MatchError(ContainSubstring("name")))
		})
	})
})
