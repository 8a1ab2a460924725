package health_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/simple-observability/pkg/health"
)

var _ = Describe("Metadata", func() {
	var captured time.Time

	BeforeEach(func() {
		captured = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	})

	Describe("NewMetadata", func() {
		It("is healthy and captured now", func() {
			before := time.Now().UTC()
			m := health.NewMetadata("Payment API", "1.2.3")

			Expect(m.ServiceName).To(Equal("Payment API"))
			Expect(m.Version).To(Equal("1.2.3"))
			Expect(m.Status).To(Equal(health.StatusHealthy))
			Expect(m.Timestamp.Location()).To(Equal(time.UTC))
			Expect(m.Timestamp).To(BeTemporally(">=", before))
			Expect(m.Environment).To(BeEmpty())
			Expect(m.AdditionalMetadata).To(BeNil())
			Expect(m.Uptime).To(BeNil())
		})

		It("applies all options", func() {
			extra := map[string]string{"region": "eu-west-1"}
			m := health.NewMetadata("Payment API", "main",
				health.WithEnvironment("Production"),
				health.WithStatus(health.StatusDegraded),
				health.WithTimestamp(captured),
				health.WithAdditionalMetadata(extra),
				health.WithDescription("Handles payments"),
				health.WithHostName("web-01"),
				health.WithUptime(26*time.Hour+30*time.Minute),
			)
			extra["region"] = "changed"

			Expect(m.Environment).To(Equal("Production"))
			Expect(m.Status).To(Equal(health.StatusDegraded))
			Expect(m.Timestamp).To(Equal(captured))
			Expect(m.AdditionalMetadata).To(Equal(map[string]string{"region": "eu-west-1"}))
			Expect(m.Description).To(Equal("Handles payments"))
			Expect(m.HostName).To(Equal("web-01"))
			Expect(*m.Uptime).To(Equal(health.Duration(26*time.Hour + 30*time.Minute)))
		})
	})

	Describe("Validate", func() {
		It("accepts a complete report", func() {
			Expect(health.NewMetadata("Payment API", "1.2.3").Validate()).To(Succeed())
		})

		DescribeTable("rejects",
			func(m health.Metadata, field string) {
				err := m.Validate()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring(field))
			},
			Entry("missing service name", health.NewMetadata("", "1.2.3"), "serviceName"),
			Entry("missing version", health.NewMetadata("Payment API", ""), "version"),
			Entry("undefined status",
				health.NewMetadata("Payment API", "1.2.3", health.WithStatus(health.Status(5))), "status"),
			Entry("zero timestamp",
				health.NewMetadata("Payment API", "1.2.3", health.WithTimestamp(time.Time{})), "timestamp"),
		)
	})

	Describe("Equal", func() {
		It("compares timestamps as instants", func() {
			a := health.NewMetadata("Payment API", "1.2.3", health.WithTimestamp(captured))
			b := health.NewMetadata("Payment API", "1.2.3",
				health.WithTimestamp(captured.In(time.FixedZone("CET", 3600))))

			Expect(a.Equal(b)).To(BeTrue())
		})

		It("compares uptime by value", func() {
			a := health.NewMetadata("Payment API", "1.2.3",
				health.WithTimestamp(captured), health.WithUptime(time.Hour))
			b := health.NewMetadata("Payment API", "1.2.3",
				health.WithTimestamp(captured), health.WithUptime(time.Hour))
			c := health.NewMetadata("Payment API", "1.2.3", health.WithTimestamp(captured))

			Expect(a.Equal(b)).To(BeTrue())
			Expect(a.Equal(c)).To(BeFalse())
		})

		It("detects differing fields", func() {
			a := health.NewMetadata("Payment API", "1.2.3", health.WithTimestamp(captured))
			b := health.NewMetadata("Payment API", "1.2.3",
				health.WithTimestamp(captured), health.WithStatus(health.StatusUnhealthy))

			Expect(a.Equal(b)).To(BeFalse())
		})
	})

	Describe("JSON", func() {
		It("uses camelCase names and omits empty optional fields", func() {
			m := health.NewMetadata("Payment API", "1.2.3", health.WithTimestamp(captured))

			data, err := json.Marshal(m)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(MatchJSON(`{
				"serviceName": "Payment API",
				"version": "1.2.3",
				"status": "healthy",
				"timestamp": "2024-01-15T10:30:00Z"
			}`))
		})

		It("writes every field of a full report", func() {
			m := health.NewMetadata("Payment API", "1.2.3",
				health.WithEnvironment("Production"),
				health.WithStatus(health.StatusDegraded),
				health.WithTimestamp(captured),
				health.WithAdditionalMetadata(map[string]string{"region": "eu-west-1"}),
				health.WithDescription("Handles payments"),
				health.WithHostName("web-01"),
				health.WithUptime(26*time.Hour+30*time.Minute),
			)

			data, err := json.Marshal(m)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(MatchJSON(`{
				"serviceName": "Payment API",
				"version": "1.2.3",
				"environment": "Production",
				"status": "degraded",
				"timestamp": "2024-01-15T10:30:00Z",
				"additionalMetadata": {"region": "eu-west-1"},
				"description": "Handles payments",
				"hostName": "web-01",
				"uptime": "26h30m0s"
			}`))
		})

		It("reads a report written by another service", func() {
			var m health.Metadata
			err := json.Unmarshal([]byte(`{
				"serviceName": "Orders",
				"version": "feature/checkout",
				"status": "Unhealthy",
				"timestamp": "2024-01-15T10:30:00Z",
				"uptime": "90m"
			}`), &m)

			Expect(err).NotTo(HaveOccurred())
			Expect(m.ServiceName).To(Equal("Orders"))
			Expect(m.Status).To(Equal(health.StatusUnhealthy))
			Expect(m.Timestamp.Equal(captured)).To(BeTrue())
			Expect(*m.Uptime).To(Equal(health.Duration(90 * time.Minute)))
		})

		It("treats a missing status as healthy", func() {
			var m health.Metadata
			Expect(json.Unmarshal([]byte(`{"serviceName":"Orders","version":"1"}`), &m)).To(Succeed())
			Expect(m.Status).To(Equal(health.StatusHealthy))
		})

		It("captures the decoding time when the timestamp is missing", func() {
			before := time.Now().UTC()

			var m health.Metadata
			Expect(json.Unmarshal([]byte(`{"serviceName":"Orders","version":"1"}`), &m)).To(Succeed())

			Expect(m.Timestamp.IsZero()).To(BeFalse())
			Expect(m.Timestamp).To(BeTemporally(">=", before))
			Expect(m.Timestamp.Location()).To(Equal(time.UTC))
			Expect(m.Validate()).To(Succeed())
		})

		DescribeTable("reads uptime in days.hh:mm:ss form",
			func(input string, expected time.Duration) {
				var m health.Metadata
				Expect(json.Unmarshal([]byte(`{"uptime":"`+input+`"}`), &m)).To(Succeed())
				Expect(time.Duration(*m.Uptime)).To(Equal(expected))
			},
			Entry("with days", "1.02:30:00", 26*time.Hour+30*time.Minute),
			Entry("without days", "00:05:30", 5*time.Minute+30*time.Second),
			Entry("with a fraction", "00:00:01.5000000", 1500*time.Millisecond),
			Entry("with 100ns ticks", "00:00:00.0000001", 100*time.Nanosecond),
			Entry("negative", "-01:00:00", -time.Hour),
		)

		DescribeTable("rejects out of range days.hh:mm:ss values",
			func(input string) {
				var m health.Metadata
				Expect(json.Unmarshal([]byte(`{"uptime":"`+input+`"}`), &m)).NotTo(Succeed())
			},
			Entry("hours", "24:00:00"),
			Entry("minutes", "00:60:00"),
			Entry("seconds", "00:00:60"),
			Entry("fraction too long", "00:00:00.12345678"),
		)

		It("rejects a malformed uptime", func() {
			var m health.Metadata
			Expect(json.Unmarshal([]byte(`{"uptime":"forever"}`), &m)).NotTo(Succeed())
		})

		It("round-trips", func() {
			m := health.NewMetadata("Payment API", "1.2.3",
				health.WithEnvironment("UAT"),
				health.WithTimestamp(captured),
				health.WithUptime(time.Minute),
			)

			data, err := json.Marshal(m)
			Expect(err).NotTo(HaveOccurred())

			var decoded health.Metadata
			Expect(json.Unmarshal(data, &decoded)).To(Succeed())
			Expect(decoded.Equal(m)).To(BeTrue())
		})
	})
})
