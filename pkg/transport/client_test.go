package transport_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/shopgpt/pkg/assistant"
	"github.com/papercomputeco/shopgpt/pkg/assistanttest"
	"github.com/papercomputeco/shopgpt/pkg/transport"
)

var _ = Describe("Client", func() {
	var (
		ctx    context.Context
		server *assistanttest.Server
		client *transport.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		server = assistanttest.NewServer(assistanttest.Echo("abc"))
		client = transport.NewClient(transport.Config{BaseURL: server.URL + "/"}, zap.NewNop())
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Chat", func() {
		It("sends content with a null session before a token exists", func() {
			_, err := client.Chat(ctx, assistant.NewChatRequest("running shoes", nil))
			Expect(err).NotTo(HaveOccurred())

			requests := server.Requests()
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Content).To(Equal("running shoes"))
			Expect(requests[0].SessionID).To(BeNil())
		})

		It("sends the session token when given", func() {
			token := "abc"
			_, err := client.Chat(ctx, assistant.NewChatRequest("more", &token))
			Expect(err).NotTo(HaveOccurred())

			requests := server.Requests()
			Expect(requests[0].SessionID).NotTo(BeNil())
			Expect(*requests[0].SessionID).To(Equal("abc"))
		})

		It("returns the response as received", func() {
			server.SetHandler(assistanttest.Respond(map[string]any{
				"session_id": "abc",
				"message":    "Here are some options",
				"products": []any{
					map[string]any{"asin": "X1", "title": "Shoe A", "price": "89.99"},
					map[string]any{"asin": "X2"},
				},
			}))

			resp, err := client.Chat(ctx, assistant.NewChatRequest("shoes", nil))
			Expect(err).NotTo(HaveOccurred())

			token, ok := resp.Token()
			Expect(ok).To(BeTrue())
			Expect(token).To(Equal("abc"))
			Expect(resp.Message).To(Equal("Here are some options"))
			Expect(resp.Products).To(HaveLen(2))
			Expect(string(resp.Products[1])).To(MatchJSON(`{"asin":"X2"}`))
		})

		It("treats missing or non-array products as empty", func() {
			server.SetHandler(assistanttest.Respond(map[string]any{"message": "none", "products": "oops"}))

			resp, err := client.Chat(ctx, assistant.NewChatRequest("shoes", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Products).To(BeEmpty())
			_, ok := resp.Token()
			Expect(ok).To(BeFalse())
		})

		It("reads end_chat", func() {
			server.SetHandler(assistanttest.Respond(map[string]any{"message": "bye", "end_chat": true}))

			resp, err := client.Chat(ctx, assistant.NewChatRequest("bye", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.EndChat).To(BeTrue())
		})

		It("fails with a TransportError on a non-2xx status", func() {
			server.SetHandler(assistanttest.Fail(http.StatusInternalServerError, "model unavailable"))

			resp, err := client.Chat(ctx, assistant.NewChatRequest("shoes", nil))
			Expect(resp).To(BeNil())

			var terr *transport.TransportError
			Expect(errors.As(err, &terr)).To(BeTrue())
			Expect(terr.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(terr.Body).To(Equal("model unavailable"))
			Expect(terr.Error()).To(ContainSubstring("500"))
		})

		DescribeTable("fails with a TransportError on an undecodable body",
			func(body string) {
				server.SetHandler(func(assistant.ChatRequest) assistanttest.Reply {
					return assistanttest.Reply{Raw: body}
				})

				resp, err := client.Chat(ctx, assistant.NewChatRequest("shoes", nil))
				Expect(resp).To(BeNil())

				var terr *transport.TransportError
				Expect(errors.As(err, &terr)).To(BeTrue())
				Expect(terr.Op).To(Equal("chat"))
				Expect(terr.StatusCode).To(BeZero())
				Expect(terr.Error()).To(ContainSubstring("decode response"))
			},
			Entry("truncated JSON", `{"message": 12`),
			Entry("null", `null`),
			Entry("empty object", `{}`),
			Entry("null message", `{"message":null}`),
			Entry("message of the wrong type", `{"message":12}`),
			Entry("whitespace", "  \n"),
		)

		It("keeps an empty but present message", func() {
			server.SetHandler(assistanttest.Respond(map[string]any{"message": ""}))

			resp, err := client.Chat(ctx, assistant.NewChatRequest("shoes", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Message).To(BeEmpty())
		})

		It("cuts a long error body on a character boundary", func() {
			server.SetHandler(func(assistant.ChatRequest) assistanttest.Reply {
				return assistanttest.Reply{Status: http.StatusBadGateway, Raw: strings.Repeat("€", 5000)}
			})

			_, err := client.Chat(ctx, assistant.NewChatRequest("shoes", nil))

			var terr *transport.TransportError
			Expect(errors.As(err, &terr)).To(BeTrue())
			Expect(terr.StatusCode).To(Equal(http.StatusBadGateway))
			Expect(utf8.ValidString(terr.Body)).To(BeTrue())
			Expect(terr.Body).NotTo(BeEmpty())
			Expect(len(terr.Body)).To(BeNumerically("<", len(strings.Repeat("€", 5000))))
		})

		It("fails with a TransportError when the service is unreachable", func() {
			unreachable := httptest.NewServer(http.NotFoundHandler())
			url := unreachable.URL
			unreachable.Close()

			c := transport.NewClient(transport.Config{BaseURL: url}, zap.NewNop())
			_, err := c.Chat(ctx, assistant.NewChatRequest("shoes", nil))

			var terr *transport.TransportError
			Expect(errors.As(err, &terr)).To(BeTrue())
			Expect(terr.Op).To(Equal("chat"))
			Expect(terr.Unwrap()).NotTo(BeNil())
		})

		It("honours the configured timeout", func() {
			slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				w.Write([]byte(`{"message":"late"}`))
			}))
			defer slow.Close()

			c := transport.NewClient(transport.Config{BaseURL: slow.URL, Timeout: 20 * time.Millisecond}, zap.NewNop())
			_, err := c.Chat(ctx, assistant.NewChatRequest("shoes", nil))

			var terr *transport.TransportError
			Expect(errors.As(err, &terr)).To(BeTrue())
		})
	})

	Describe("History", func() {
		It("returns the stored transcript", func() {
			server.SetHistory("abc", []assistant.HistoryEntry{
				{Role: "user", Content: "shoes"},
				{Role: "assistant", Content: "Here you go"},
			})

			resp, err := client.History(ctx, "abc")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.History).To(HaveLen(2))
			Expect(resp.History[1].Content).To(Equal("Here you go"))
		})

		It("requires a session id", func() {
			_, err := client.History(ctx, " ")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Health", func() {
		It("reports status and model", func() {
			resp, err := client.Health(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal("healthy"))
			Expect(resp.Model).To(Equal("test-model"))
		})
	})

	It("trims the trailing slash of the base url", func() {
		Expect(client.BaseURL()).To(Equal(server.URL))
	})
})
