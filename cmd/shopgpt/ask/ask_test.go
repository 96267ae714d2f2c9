package askcmder

import (
	"context"
	"net/http"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/shopgpt/cmd/shopgpt/bootstrap"
	"github.com/papercomputeco/shopgpt/pkg/assistanttest"
	"github.com/papercomputeco/shopgpt/pkg/product"
)

var _ = Describe("Ask Command", func() {
	var server *assistanttest.Server

	BeforeEach(func() {
		home, err := os.MkdirTemp("", "shopgpt-ask-test-*")
		Expect(err).NotTo(HaveOccurred())
		oldHome := os.Getenv("HOME")
		Expect(os.Setenv("HOME", home)).To(Succeed())
		DeferCleanup(func() {
			_ = os.Setenv("HOME", oldHome)
			_ = os.RemoveAll(home)
		})

		server = assistanttest.NewServer(assistanttest.Echo("abc"))
		DeferCleanup(server.Close)
	})

	products := func(n int) []any {
		out := make([]any, n)
		for i := range out {
			out[i] = assistanttest.Product(
				string(rune('A'+i))+"1",
				"Product "+string(rune('A'+i)),
				"19.99",
			)
		}
		return out
	}

	It("prints the reply and the top products for a question", func() {
		server.SetHandler(assistanttest.Respond(map[string]any{
			"session_id": "abc",
			"message":    "Here are some options",
			"products":   products(5),
		}))
		root, stdout, _ := bootstrap.NewTestRoot(NewAskCmd(), server.URL, "running", "shoes")

		Expect(root.ExecuteContext(context.Background())).To(Succeed())

		out := stdout.String()
		Expect(out).To(HavePrefix("Here are some options\n"))
		Expect(out).To(ContainSubstring("1. Product A"))
		Expect(out).To(ContainSubstring("3. Product C"))
		Expect(out).NotTo(ContainSubstring("Product D"))
		Expect(out).To(ContainSubstring("$19.99"))
		Expect(out).To(ContainSubstring("https://www.amazon.com/dp/A1"))
		Expect(out).To(ContainSubstring("(2 more)"))

		requests := server.Requests()
		Expect(requests).To(HaveLen(1))
		Expect(requests[0].Content).To(Equal("running shoes"))
		Expect(requests[0].SessionID).To(BeNil())
	})

	It("honors --max-products", func() {
		server.SetHandler(assistanttest.Respond(map[string]any{
			"message":  "Options",
			"products": products(2),
		}))
		root, stdout, _ := bootstrap.NewTestRoot(NewAskCmd(), server.URL, "--max-products", "1", "lamp")

		Expect(root.ExecuteContext(context.Background())).To(Succeed())
		Expect(stdout.String()).To(ContainSubstring("Product A"))
		Expect(stdout.String()).NotTo(ContainSubstring("Product B"))
		Expect(stdout.String()).To(ContainSubstring("(1 more)"))
	})

	It("returns the service error for a question", func() {
		server.SetHandler(assistanttest.Fail(http.StatusInternalServerError, "model overloaded"))
		root, stdout, stderr := bootstrap.NewTestRoot(NewAskCmd(), server.URL, "lamp")

		err := root.ExecuteContext(context.Background())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("500"))
		Expect(err.Error()).To(ContainSubstring("model overloaded"))
		Expect(stdout.String()).To(BeEmpty())
		Expect(stderr.String()).NotTo(ContainSubstring("Error: chat:"))
	})

	It("rejects a blank question", func() {
		root, _, _ := bootstrap.NewTestRoot(NewAskCmd(), server.URL, "  ")

		Expect(root.ExecuteContext(context.Background())).To(MatchError("nothing to ask"))
		Expect(server.Requests()).To(BeEmpty())
	})

	Describe("reading lines", func() {
		It("continues the conversation until a quit word", func() {
			root, stdout, _ := bootstrap.NewTestRoot(NewAskCmd(), server.URL)
			root.SetIn(strings.NewReader("first\n\nsecond\nbye\nthird\n"))

			Expect(root.ExecuteContext(context.Background())).To(Succeed())

			out := stdout.String()
			Expect(out).To(ContainSubstring("You said: first"))
			Expect(out).To(ContainSubstring("You said: second"))
			Expect(out).NotTo(ContainSubstring("third"))

			requests := server.Requests()
			Expect(requests).To(HaveLen(2))
			Expect(requests[0].SessionID).To(BeNil())
			Expect(requests[1].SessionID).NotTo(BeNil())
			Expect(*requests[1].SessionID).To(Equal("abc"))
		})

		It("reports a failure and keeps reading", func() {
			server.SetHandler(assistanttest.Sequence(
				assistanttest.Fail(http.StatusInternalServerError, "boom"),
				assistanttest.Echo("abc"),
			))
			root, stdout, stderr := bootstrap.NewTestRoot(NewAskCmd(), server.URL)
			root.SetIn(strings.NewReader("first\nsecond\n"))

			Expect(root.ExecuteContext(context.Background())).To(Succeed())
			Expect(stderr.String()).To(ContainSubstring("Error: chat:"))
			Expect(stdout.String()).To(ContainSubstring("You said: second"))
			Expect(server.Requests()).To(HaveLen(2))
		})

		It("stops when the assistant ends the conversation", func() {
			server.SetHandler(assistanttest.Respond(map[string]any{
				"message":  "Happy shopping!",
				"end_chat": true,
			}))
			root, stdout, _ := bootstrap.NewTestRoot(NewAskCmd(), server.URL)
			root.SetIn(strings.NewReader("thanks\nmore\n"))

			Expect(root.ExecuteContext(context.Background())).To(Succeed())
			Expect(stdout.String()).To(ContainSubstring("Happy shopping!"))
			Expect(server.Requests()).To(HaveLen(1))
		})
	})

	It("formats every product detail it has", func() {
		rating := 4.5
		count := "1,234 ratings"
		price := "$1,234.56 with 18 percent savings"

		out := formatProduct(2, product.Product{
			ASIN:        "B01",
			Title:       "Desk Lamp",
			Price:       &price,
			Rating:      &rating,
			RatingCount: &count,
		})

		Expect(out).To(HavePrefix("2. Desk Lamp\n"))
		Expect(out).To(ContainSubstring("18% off"))
		Expect(out).To(ContainSubstring("4.5 stars (1234 reviews)"))
		Expect(out).To(ContainSubstring("https://www.amazon.com/dp/B01"))
	})
})
