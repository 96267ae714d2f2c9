package healthcmder

import (
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/shopgpt/cmd/shopgpt/bootstrap"
	"github.com/papercomputeco/shopgpt/pkg/assistanttest"
)

var _ = Describe("Health Command", func() {
	BeforeEach(func() {
		home, err := os.MkdirTemp("", "shopgpt-health-test-*")
		Expect(err).NotTo(HaveOccurred())
		oldHome := os.Getenv("HOME")
		Expect(os.Setenv("HOME", home)).To(Succeed())
		DeferCleanup(func() {
			_ = os.Setenv("HOME", oldHome)
			_ = os.RemoveAll(home)
		})
	})

	It("prints the service status and model", func() {
		server := assistanttest.NewServer(assistanttest.Echo("abc"))
		defer server.Close()

		root, stdout, _ := bootstrap.NewTestRoot(NewHealthCmd(), server.URL)

		Expect(root.ExecuteContext(context.Background())).To(Succeed())
		Expect(stdout.String()).To(Equal(server.URL + ": healthy (model test-model)\n"))
	})

	It("fails when the service is unreachable", func() {
		server := assistanttest.NewServer(assistanttest.Echo("abc"))
		url := server.URL
		server.Close()

		root, _, _ := bootstrap.NewTestRoot(NewHealthCmd(), url)

		err := root.ExecuteContext(context.Background())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("could not reach"))
	})

	It("rejects an invalid base URL", func() {
		root, _, _ := bootstrap.NewTestRoot(NewHealthCmd(), "not a url")

		err := root.ExecuteContext(context.Background())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid configuration"))
	})
})
