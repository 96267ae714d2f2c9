package bootstrap

import (
	"bytes"

	"github.com/spf13/cobra"
)

// NewTestRoot wraps sub in a root command carrying the shared flags and
// captures its output. args are passed after the base URL flag.
func NewTestRoot(sub *cobra.Command, baseURL string, args ...string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	root := &cobra.Command{
		Use:           "shopgpt",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	AddFlags(root.PersistentFlags())
	root.AddCommand(sub)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(append([]string{"--base-url", baseURL, sub.Name()}, args...))
	return root, stdout, stderr
}
